// Package dicom decodes and re-encodes the element stream of DICOM files.
//
// The codec is built for rewriting header values without disturbing anything
// else: every decoded element keeps its exact original bytes, and encoding
// emits those bytes verbatim for any element that was not mutated. Only
// mutated elements get their header rebuilt with a recomputed value length.
package dicom

const (
	preambleSize = 128
	magicWord    = "DICM"
	// fileHeaderSize covers the preamble plus the magic word.
	fileHeaderSize = preambleSize + len(magicWord)
)

// IsDICOMFile reports whether bs starts with the DICOM preamble and magic
// word.
func IsDICOMFile(bs []byte) bool {
	return len(bs) >= fileHeaderSize && string(bs[preambleSize:fileHeaderSize]) == magicWord
}
