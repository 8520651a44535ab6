// Package steg hides a byte payload in the least-significant bits of an
// RGBA pixel buffer and recovers it again.
//
// One payload bit is stored in the low bit of each R, G and B channel,
// pixel by pixel, most-significant bit of every payload byte first. Alpha
// is never read or written. The payload is terminated by Marker, so the
// decoder needs no length field: Extract reads every usable bit of the
// buffer and returns whatever precedes the first occurrence of Marker.
//
// The codec works on already decoded pixels. Loading and saving images is
// left to the caller (see package imageio), and so is any encryption of
// the payload (see package envelope). Embedding survives only lossless
// storage of the pixels.
package steg
