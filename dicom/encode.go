package dicom

import (
	"math"

	"github.com/pkg/errors"

	"dicomsar/dicom/dtag"
	"dicomsar/dicom/dvr"
	"dicomsar/dicom/lbytes"
)

// Encode serializes a dataset back to file bytes. Elements that were not
// mutated are emitted byte-for-byte as they were read, so a round trip of an
// untouched dataset reproduces the input exactly.
func Encode(d *Dataset) ([]byte, error) {
	w := lbytes.NewWriter()

	if d.file {
		if d.Preamble != nil {
			w.WriteBytes(d.Preamble)
		} else {
			w.WriteBytes(make([]byte, preambleSize))
			w.WriteString(magicWord)
		}

		if d.synthMeta {
			if err := encodeSyntheticMeta(w, d.Syntax); err != nil {
				return nil, err
			}
		} else {
			for _, e := range d.Meta {
				if err := encodeElement(w, e, ExplicitVRLittleEndian); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := refreshGroupLengths(d); err != nil {
		return nil, err
	}

	for _, e := range d.Elements {
		if err := encodeElement(w, e, d.Syntax); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// refreshGroupLengths recomputes data-set group length elements (gggg,0000)
// whose group contains a mutated element, so a rewritten value can never
// leave a stale length behind. Untouched groups keep their original bytes.
func refreshGroupLengths(d *Dataset) error {
	dirtyGroups := map[uint16]bool{}
	for _, e := range d.Elements {
		if e.dirty {
			dirtyGroups[e.Tag.Group] = true
		}
	}
	if len(dirtyGroups) == 0 {
		return nil
	}

	for i, e := range d.Elements {
		if !e.Tag.IsGroupLength() || !dirtyGroups[e.Tag.Group] {
			continue
		}
		gw := lbytes.NewWriter()
		for _, ge := range d.Elements[i+1:] {
			if ge.Tag.Group != e.Tag.Group {
				break
			}
			if err := encodeElement(gw, ge, d.Syntax); err != nil {
				return err
			}
		}
		value := make([]byte, 4)
		d.Syntax.Order.PutUint32(value, uint32(gw.Len()))
		e.SetValue(value)
	}
	return nil
}

// encodeSyntheticMeta writes a minimal file meta group for datasets built in
// memory: the group length element and the transfer syntax declaration.
func encodeSyntheticMeta(w *lbytes.Writer, syntax Syntax) error {
	uid, err := EncodeText(dvr.UI, syntax.UID)
	if err != nil {
		return err
	}

	sw := lbytes.NewWriter()
	uidElement := &Element{Tag: dtag.TransferSyntaxUID, VR: dvr.UI, dirty: true}
	uidElement.value = uid
	uidElement.ValueLength = uint32(len(uid))
	if err := encodeElement(sw, uidElement, ExplicitVRLittleEndian); err != nil {
		return err
	}

	groupLength := make([]byte, 4)
	ExplicitVRLittleEndian.Order.PutUint32(groupLength, uint32(sw.Len()))
	lengthElement := &Element{Tag: dtag.FileMetaInformationGroupLength, VR: dvr.UL, dirty: true}
	lengthElement.value = groupLength
	lengthElement.ValueLength = 4
	if err := encodeElement(w, lengthElement, ExplicitVRLittleEndian); err != nil {
		return err
	}

	w.WriteBytes(sw.Bytes())
	return nil
}

func encodeElement(w *lbytes.Writer, e *Element, syntax Syntax) error {
	if !e.dirty && e.orig != nil {
		w.WriteBytes(e.orig)
		return nil
	}

	order := syntax.Order

	if e.VR.IsSequence() {
		body := lbytes.NewWriter()
		for _, item := range e.Items {
			ib := lbytes.NewWriter()
			for _, ie := range item.Elements {
				if err := encodeElement(ib, ie, syntax); err != nil {
					return err
				}
			}
			body.WriteUint16(order, dtag.Item.Group)
			body.WriteUint16(order, dtag.Item.Element)
			body.WriteUint32(order, uint32(ib.Len()))
			body.WriteBytes(ib.Bytes())
		}

		w.WriteUint16(order, e.Tag.Group)
		w.WriteUint16(order, e.Tag.Element)
		if syntax.ExplicitVR {
			w.WriteString(e.VR.Name)
			w.WriteUint16(order, 0)
		}
		w.WriteUint32(order, uint32(body.Len()))
		w.WriteBytes(body.Bytes())
		return nil
	}

	length := uint32(len(e.value))
	if length%2 != 0 {
		return errors.Errorf("encodeElement error: %s has odd value length %d", e.Tag, length)
	}

	w.WriteUint16(order, e.Tag.Group)
	w.WriteUint16(order, e.Tag.Element)
	if syntax.ExplicitVR {
		w.WriteString(e.VR.Name)
		if e.VR.Has32BitLength() {
			w.WriteUint16(order, 0)
			w.WriteUint32(order, length)
		} else {
			if length > math.MaxUint16 {
				return errors.Errorf("encodeElement error: %s value length %d exceeds 16-bit length field", e.Tag, length)
			}
			w.WriteUint16(order, uint16(length))
		}
	} else {
		w.WriteUint32(order, length)
	}
	w.WriteBytes(e.value)
	return nil
}
