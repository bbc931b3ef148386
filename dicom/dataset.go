package dicom

import (
	"fmt"

	"github.com/samber/lo"

	"dicomsar/dicom/dtag"
	"dicomsar/ds"
)

// Dataset is the ordered element sequence of one file (or of one sequence
// item), plus a tag index for direct lookup. A Dataset never outlives the
// processing of the file it was decoded from.
type Dataset struct {
	Syntax Syntax

	// Preamble holds the original 132 file header bytes (128-byte preamble
	// plus magic word) for datasets decoded from a file; nil otherwise.
	Preamble []byte

	// Meta holds the file meta information elements (group 0002) as read.
	Meta []*Element

	// Elements is the main element sequence in file order.
	Elements []*Element

	// Anomalies records oddities that are worth reporting but do not fail
	// decoding, such as duplicate tags.
	Anomalies []string

	index *ds.LinkedHashMap[dtag.Tag, *Element]

	file      bool
	synthMeta bool
}

// Find returns the element with the given tag. Duplicate tags resolve to the
// last occurrence.
func (d *Dataset) Find(tag dtag.Tag) (*Element, bool) {
	return d.index.Get(tag)
}

// Dirty reports whether any element of the dataset was mutated.
func (d *Dataset) Dirty() bool {
	return lo.SomeBy(d.Elements, func(e *Element) bool {
		return e.Dirty()
	})
}

func newDataset(syntax Syntax) *Dataset {
	return &Dataset{
		Syntax: syntax,
		index:  ds.NewLinkedHashMap[dtag.Tag, *Element](),
	}
}

func (d *Dataset) add(e *Element) {
	if _, existed := d.index.Get(e.Tag); existed {
		d.Anomalies = append(
			d.Anomalies,
			fmt.Sprintf("duplicate tag %s, keeping the later occurrence", e.Tag),
		)
	}
	d.Elements = append(d.Elements, e)
	d.index.Put(e.Tag, e)
}
