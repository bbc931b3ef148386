package dicom

import (
	"dicomsar/dicom/dtag"
	"dicomsar/dicom/dvr"
)

// Element is one data element of a dataset. Elements decoded from a file
// keep their exact original encoding; SetValue marks an element dirty, which
// makes the encoder rebuild its header instead of replaying the original
// bytes.
type Element struct {
	Tag dtag.Tag
	VR  *dvr.VR

	// ValueLength is the value field length as read, possibly
	// dvr.UndefinedLength for delimited elements.
	ValueLength uint32

	// Items holds the nested datasets of a sequence element.
	Items []*Dataset

	value []byte
	orig  []byte
	dirty bool
}

// RawValue returns the raw value field bytes. Nil for sequence elements and
// delimited bulk payloads.
func (e *Element) RawValue() []byte {
	return e.value
}

// SetValue replaces the value field and marks the element dirty. The caller
// is responsible for even-length padding appropriate to the VR.
func (e *Element) SetValue(bs []byte) {
	e.value = bs
	e.ValueLength = uint32(len(bs))
	e.dirty = true
}

func (e *Element) Dirty() bool {
	return e.dirty
}

// Text decodes the value field as character data per the element's VR.
func (e *Element) Text() (string, error) {
	return DecodeText(e.VR, e.value)
}

// Keyword returns the dictionary keyword for the element's tag, or "" if
// the tag is unknown.
func (e *Element) Keyword() string {
	return dtag.Keyword(e.Tag)
}
