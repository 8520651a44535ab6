// Package imageio loads carrier images into pixel buffers for package steg
// and writes them back in formats that keep every R, G and B bit.
//
// PNG, JPEG, GIF, BMP and QOI can be read. Only PNG, BMP and QOI can be
// written: JPEG and GIF would quantise the channels and destroy a hidden
// payload.
package imageio
