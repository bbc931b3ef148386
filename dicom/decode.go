package dicom

import (
	"encoding/binary"

	"dicomsar/dicom/dtag"
	"dicomsar/dicom/dvr"
	"dicomsar/dicom/lbytes"
)

// Decode parses a whole DICOM file. It fails with *ParseError when the magic
// word is missing, the stream ends mid-element, a length field points past
// the end of the stream, or an explicit VR code is unrecognized.
func Decode(bs []byte) (*Dataset, error) {
	if !IsDICOMFile(bs) {
		return nil, parseErrorf(0, nil, "missing %q magic word, not a DICOM file", magicWord)
	}

	r := lbytes.NewReader(bs)
	if err := r.Skip(fileHeaderSize); err != nil {
		return nil, parseErrorf(0, err, "reading file header")
	}

	d := newDataset(ExplicitVRLittleEndian)
	d.file = true
	d.Preamble = bs[:fileHeaderSize]

	// The file meta group is always encoded explicit VR little endian,
	// regardless of what transfer syntax it declares for the dataset.
	for r.Remaining() >= 8 {
		group, err := r.PeekUint16(binary.LittleEndian)
		if err != nil {
			return nil, parseErrorf(r.Offset(), err, "peeking group number")
		}
		if group != 0x0002 {
			break
		}
		e, err := decodeElement(r, ExplicitVRLittleEndian)
		if err != nil {
			return nil, err
		}
		d.Meta = append(d.Meta, e)
	}

	syntax, err := datasetSyntax(d.Meta)
	if err != nil {
		return nil, parseErrorf(r.Offset(), err, "resolving transfer syntax")
	}
	d.Syntax = syntax

	for r.Remaining() > 0 {
		e, err := decodeElement(r, syntax)
		if err != nil {
			return nil, err
		}
		d.add(e)
	}

	return d, nil
}

func datasetSyntax(meta []*Element) (Syntax, error) {
	for _, e := range meta {
		if e.Tag != dtag.TransferSyntaxUID {
			continue
		}
		uid, err := e.Text()
		if err != nil {
			return Syntax{}, err
		}
		return LookupSyntax(uid)
	}
	// files carrying no declaration default to explicit VR little endian
	return ExplicitVRLittleEndian, nil
}

func decodeElement(r *lbytes.Reader, syntax Syntax) (*Element, error) {
	start := r.Offset()
	order := syntax.Order

	tag, err := readTag(r, order)
	if err != nil {
		return nil, parseErrorf(start, err, "reading tag")
	}
	if tag == dtag.ItemDelimiter || tag == dtag.SequenceDelimiter {
		return nil, parseErrorf(start, nil, "unexpected delimiter %s outside a sequence", tag)
	}

	vr, length, err := readVRAndLength(r, syntax, tag)
	if err != nil {
		return nil, parseErrorf(start, err, "reading header of %s", tag)
	}

	e := &Element{Tag: tag, VR: vr, ValueLength: length}

	switch {
	case vr.IsSequence():
		items, err := decodeItems(r, syntax, length)
		if err != nil {
			return nil, err
		}
		e.Items = items
	case length == dvr.UndefinedLength:
		// delimited bulk payload, e.g. encapsulated pixel data: walk the
		// fragments to find its extent, keep the bytes opaque
		if err := skipDelimitedValue(r, order); err != nil {
			return nil, err
		}
	default:
		value, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, parseErrorf(start, err, "value of %s (%d bytes) runs past end of stream", tag, length)
		}
		e.value = value
	}

	e.orig = r.Slice(start, r.Offset())
	return e, nil
}

func readTag(r *lbytes.Reader, order binary.ByteOrder) (dtag.Tag, error) {
	group, err := r.ReadUint16(order)
	if err != nil {
		return dtag.Tag{}, err
	}
	element, err := r.ReadUint16(order)
	if err != nil {
		return dtag.Tag{}, err
	}
	return dtag.New(group, element), nil
}

func readVRAndLength(r *lbytes.Reader, syntax Syntax, tag dtag.Tag) (*dvr.VR, uint32, error) {
	if !syntax.ExplicitVR {
		vr, err := dvr.Lookup(dtag.ImplicitVR(tag))
		if err != nil {
			return nil, 0, err
		}
		length, err := r.ReadUint32(syntax.Order)
		if err != nil {
			return nil, 0, err
		}
		return vr, length, nil
	}

	vrName, err := r.ReadString(2)
	if err != nil {
		return nil, 0, err
	}
	vr, err := dvr.Lookup(vrName)
	if err != nil {
		return nil, 0, err
	}

	if vr.Has32BitLength() {
		if err := r.Skip(2); err != nil {
			return nil, 0, err
		}
		length, err := r.ReadUint32(syntax.Order)
		if err != nil {
			return nil, 0, err
		}
		return vr, length, nil
	}

	length, err := r.ReadUint16(syntax.Order)
	if err != nil {
		return nil, 0, err
	}
	return vr, uint32(length), nil
}

func decodeItems(r *lbytes.Reader, syntax Syntax, seqLength uint32) ([]*Dataset, error) {
	items := make([]*Dataset, 0)

	if seqLength == dvr.UndefinedLength {
		for {
			start := r.Offset()
			tag, err := readTag(r, syntax.Order)
			if err != nil {
				return nil, parseErrorf(start, err, "reading item tag in undefined-length sequence")
			}
			length, err := r.ReadUint32(syntax.Order)
			if err != nil {
				return nil, parseErrorf(start, err, "reading item length")
			}
			if tag == dtag.SequenceDelimiter {
				if length != 0 {
					return nil, parseErrorf(start, nil, "sequence delimiter with nonzero length %d", length)
				}
				return items, nil
			}
			if tag != dtag.Item {
				return nil, parseErrorf(start, nil, "expected item tag, got %s", tag)
			}
			item, err := decodeItem(r, syntax, length)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	end := r.Offset() + int(seqLength)
	if end > r.Offset()+r.Remaining() {
		return nil, parseErrorf(r.Offset(), nil, "sequence length %d runs past end of stream", seqLength)
	}
	for r.Offset() < end {
		start := r.Offset()
		tag, err := readTag(r, syntax.Order)
		if err != nil {
			return nil, parseErrorf(start, err, "reading item tag")
		}
		if tag != dtag.Item {
			return nil, parseErrorf(start, nil, "expected item tag, got %s", tag)
		}
		length, err := r.ReadUint32(syntax.Order)
		if err != nil {
			return nil, parseErrorf(start, err, "reading item length")
		}
		item, err := decodeItem(r, syntax, length)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if r.Offset() != end {
		return nil, parseErrorf(r.Offset(), nil, "sequence items overran the declared sequence length")
	}
	return items, nil
}

func decodeItem(r *lbytes.Reader, syntax Syntax, itemLength uint32) (*Dataset, error) {
	item := newDataset(syntax)

	if itemLength == dvr.UndefinedLength {
		for {
			start := r.Offset()
			if r.Remaining() >= 8 {
				tag, err := peekTag(r, syntax.Order)
				if err != nil {
					return nil, parseErrorf(start, err, "peeking tag in undefined-length item")
				}
				if tag == dtag.ItemDelimiter {
					if _, err := readTag(r, syntax.Order); err != nil {
						return nil, parseErrorf(start, err, "consuming item delimiter")
					}
					length, err := r.ReadUint32(syntax.Order)
					if err != nil {
						return nil, parseErrorf(start, err, "reading item delimiter length")
					}
					if length != 0 {
						return nil, parseErrorf(start, nil, "item delimiter with nonzero length %d", length)
					}
					return item, nil
				}
			}
			e, err := decodeElement(r, syntax)
			if err != nil {
				return nil, err
			}
			item.add(e)
		}
	}

	end := r.Offset() + int(itemLength)
	if end > r.Offset()+r.Remaining() {
		return nil, parseErrorf(r.Offset(), nil, "item length %d runs past end of stream", itemLength)
	}
	for r.Offset() < end {
		e, err := decodeElement(r, syntax)
		if err != nil {
			return nil, err
		}
		item.add(e)
	}
	if r.Offset() != end {
		return nil, parseErrorf(r.Offset(), nil, "item elements overran the declared item length")
	}
	return item, nil
}

func peekTag(r *lbytes.Reader, order binary.ByteOrder) (dtag.Tag, error) {
	group, err := r.PeekUint16(order)
	if err != nil {
		return dtag.Tag{}, err
	}
	// peek the element number without consuming the group
	bs := r.Slice(r.Offset()+2, r.Offset()+4)
	return dtag.New(group, order.Uint16(bs)), nil
}

func skipDelimitedValue(r *lbytes.Reader, order binary.ByteOrder) error {
	for {
		start := r.Offset()
		tag, err := readTag(r, order)
		if err != nil {
			return parseErrorf(start, err, "reading fragment tag in delimited value")
		}
		length, err := r.ReadUint32(order)
		if err != nil {
			return parseErrorf(start, err, "reading fragment length")
		}
		if tag == dtag.SequenceDelimiter {
			if length != 0 {
				return parseErrorf(start, nil, "sequence delimiter with nonzero length %d", length)
			}
			return nil
		}
		if tag != dtag.Item {
			return parseErrorf(start, nil, "expected fragment item tag, got %s", tag)
		}
		if length == dvr.UndefinedLength {
			return parseErrorf(start, nil, "fragment with undefined length")
		}
		if err := r.Skip(int(length)); err != nil {
			return parseErrorf(start, err, "fragment of %d bytes runs past end of stream", length)
		}
	}
}
