package dicom

import (
	"github.com/pkg/errors"

	"dicomsar/dicom/dtag"
	"dicomsar/dicom/dvr"
)

// NewFileDataset builds a dataset in memory that encodes as a complete file:
// preamble, magic word, and a minimal file meta group declaring the given
// transfer syntax.
func NewFileDataset(syntax Syntax, elements ...*Element) *Dataset {
	d := newDataset(syntax)
	d.file = true
	d.synthMeta = true
	for _, e := range elements {
		d.add(e)
	}
	return d
}

// NewItem builds a sequence item dataset.
func NewItem(syntax Syntax, elements ...*Element) *Dataset {
	d := newDataset(syntax)
	for _, e := range elements {
		d.add(e)
	}
	return d
}

// NewElement builds an element with a raw value field. Odd-length values are
// padded with the VR's padding byte.
func NewElement(tag dtag.Tag, vrName string, value []byte) (*Element, error) {
	vr, err := dvr.Lookup(vrName)
	if err != nil {
		return nil, errors.Wrapf(err, "NewElement error: %s", tag)
	}
	if len(value)%2 == 1 {
		value = append(append([]byte{}, value...), vr.PadByte())
	}
	e := &Element{Tag: tag, VR: vr, dirty: true}
	e.value = value
	e.ValueLength = uint32(len(value))
	return e, nil
}

// NewTextElement builds a string-valued element, applying the VR's even
// length padding.
func NewTextElement(tag dtag.Tag, vrName string, text string) (*Element, error) {
	vr, err := dvr.Lookup(vrName)
	if err != nil {
		return nil, errors.Wrapf(err, "NewTextElement error: %s", tag)
	}
	value, err := EncodeText(vr, text)
	if err != nil {
		return nil, errors.Wrapf(err, "NewTextElement error: %s", tag)
	}
	e := &Element{Tag: tag, VR: vr, dirty: true}
	e.value = value
	e.ValueLength = uint32(len(value))
	return e, nil
}

// NewSequenceElement builds an SQ element from item datasets.
func NewSequenceElement(tag dtag.Tag, items ...*Dataset) *Element {
	return &Element{Tag: tag, VR: dvr.SQ, Items: items, dirty: true}
}
