// Package dtag defines the DICOM (group,element) tag value type and the
// static dictionary mapping tags to keywords and implicit-VR codes.
package dtag

import (
	"fmt"
)

// Tag identifies a data element by its (group, element) pair. Tags are
// immutable values, totally ordered by group then element.
type Tag struct {
	Group   uint16
	Element uint16
}

func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

func (t Tag) Less(other Tag) bool {
	if t.Group != other.Group {
		return t.Group < other.Group
	}
	return t.Element < other.Element
}

// IsPrivate reports whether the tag belongs to a private (odd) group.
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsFileMeta reports whether the tag belongs to the file meta information
// group, which is encoded explicit VR little endian regardless of the
// dataset transfer syntax.
func (t Tag) IsFileMeta() bool {
	return t.Group == 0x0002
}

// IsGroupLength reports whether the tag is a group length element.
func (t Tag) IsGroupLength() bool {
	return t.Element == 0x0000
}

// Delimitation tags (PS3.5 7.5) frame sequence items; they carry no VR.
var (
	Item              = Tag{0xfffe, 0xe000}
	ItemDelimiter     = Tag{0xfffe, 0xe00d}
	SequenceDelimiter = Tag{0xfffe, 0xe0dd}
)

// File meta information tags.
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
)

// Frequently used dataset tags.
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005}
	PatientName          = Tag{0x0010, 0x0010}
	PatientID            = Tag{0x0010, 0x0020}
	PixelData            = Tag{0x7fe0, 0x0010}
)
