// Package format implements the scene container: a PNG screenshot with a
// compressed scene appended after the image end chunk, optionally tagged as
// an ambient (kankyo) save.
package format

// Core format constants that never change

var (
	// PNG signature at the start of every container
	ImageHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

	// End chunk type; the chunk CRC follows it
	EndMarker = []byte("IEND")

	// Written between the image and the payload of ambient saves
	AmbientTag = []byte("KANKYO")
)

const (
	// Fixed sizes - part of the format
	ImageHeaderSize = 8
	EndMarkerSize   = 4
	EndTrailerSize  = 4 // CRC after IEND, copied through untouched
	AmbientTagSize  = 6

	// Slot ranges
	QuicksaveIndex   = 9999
	AmbientBaseIndex = 10000

	// Default extension for container files
	ContainerExt = ".png"
)
