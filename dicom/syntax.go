package dicom

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Transfer syntax UIDs, PS3.6 chapter A.
const (
	ImplicitVRLittleEndianUID         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndianUID         = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndianUID            = "1.2.840.10008.1.2.2"
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
)

// Syntax captures the two properties of a transfer syntax the codec branches
// on: whether VR codes appear on the wire, and the byte order.
type Syntax struct {
	UID        string
	ExplicitVR bool
	Order      binary.ByteOrder
}

var (
	ImplicitVRLittleEndian = Syntax{ImplicitVRLittleEndianUID, false, binary.LittleEndian}
	ExplicitVRLittleEndian = Syntax{ExplicitVRLittleEndianUID, true, binary.LittleEndian}
	ExplicitVRBigEndian    = Syntax{ExplicitVRBigEndianUID, true, binary.BigEndian}
)

// LookupSyntax resolves a TransferSyntaxUID value. Deflated streams are not
// supported. Unrecognized UIDs (the compressed pixel data family) encode
// their data sets as explicit VR little endian per PS3.5 A.4.
func LookupSyntax(uid string) (Syntax, error) {
	switch uid {
	case ImplicitVRLittleEndianUID:
		return ImplicitVRLittleEndian, nil
	case ExplicitVRLittleEndianUID:
		return ExplicitVRLittleEndian, nil
	case ExplicitVRBigEndianUID:
		return ExplicitVRBigEndian, nil
	case DeflatedExplicitVRLittleEndianUID:
		return Syntax{}, errors.Errorf("deflated transfer syntax %q is not supported", uid)
	}
	return Syntax{uid, true, binary.LittleEndian}, nil
}
