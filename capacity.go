package steg

// CapacityBits returns how many payload bits a width x height image can
// carry: one per R, G and B channel of every pixel. This is the figure
// Embed checks against.
func CapacityBits(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * usableChannels
}

// Capacity returns the number of whole bytes a width x height image can
// carry, marker included: floor(width*height*3/8).
func Capacity(width, height int) int {
	return CapacityBits(width, height) / 8
}

// MaxMessageLen returns the longest payload, in bytes, that still fits
// once the end marker is appended.
func MaxMessageLen(width, height int) int {
	n := Capacity(width, height) - len(Marker)
	if n < 0 {
		return 0
	}
	return n
}

// CharacterEstimate is the "characters" figure shown to people choosing a
// carrier image. It divides the byte capacity by 8 once more and is far
// more conservative than what Embed accepts; it is informational only.
func CharacterEstimate(width, height int) int {
	return Capacity(width, height) / 8
}
