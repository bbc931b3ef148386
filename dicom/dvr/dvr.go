// Package dvr models DICOM value representations (VRs): their encoding
// class, explicit-VR length field width, padding byte, and the maximum value
// length enforced when a value is rewritten.
package dvr

import (
	"github.com/pkg/errors"
)

type Kind int

const (
	// KindText is for values interpreted as character data.
	KindText Kind = iota
	// KindBinary is for fixed-width binary numbers.
	KindBinary
	// KindBulk is for large binary payloads (pixel data, unknown, unlimited text).
	KindBulk
	// KindSequence is for VR SQ: a nested list of items.
	KindSequence
	// KindTag is for VR AT: packed (group,element) pairs.
	KindTag
)

// UndefinedLength marks elements whose extent is delimited rather than
// counted (PS3.5 7.1.1).
const UndefinedLength = 0xffffffff

type VR struct {
	// Name is the 2-character VR code as it appears on the wire.
	Name string

	kind Kind

	// maxLength is the byte limit enforced on rewritten values; 0 means no
	// limit is enforced.
	maxLength uint32

	// stringLike marks VRs eligible for regex substitution.
	stringLike bool

	// pad is the byte used to pad values to even length.
	pad byte

	// longLength marks VRs whose explicit-VR length field is 32 bits wide
	// (with a 2-byte reserved gap), per PS3.5 7.1.2.
	longLength bool
}

func (v *VR) Kind() Kind {
	return v.kind
}

func (v *VR) IsSequence() bool {
	return v.kind == KindSequence
}

// IsStringLike reports whether the VR holds character data that a regex
// substitution may rewrite. Binary and bulk VRs are never string-like.
func (v *VR) IsStringLike() bool {
	return v.stringLike
}

// MaxLength returns the byte limit for rewritten values, 0 if unlimited.
func (v *VR) MaxLength() uint32 {
	return v.maxLength
}

// PadByte returns the byte used to pad values to even length.
func (v *VR) PadByte() byte {
	return v.pad
}

// Has32BitLength reports whether the explicit-VR encoding of this VR uses a
// 2-byte reserved field followed by a 32-bit length.
func (v *VR) Has32BitLength() bool {
	return v.longLength
}

// IsPadding reports whether b is trailing padding for this VR. UI values are
// null padded; everything textual is space padded, though null shows up in
// the wild for both.
func (v *VR) IsPadding(b byte) bool {
	return b == v.pad || b == 0x00 || b == ' '
}

var vrLookupMap = map[string]*VR{}

func newVR(name string, kind Kind, maxLength uint32, stringLike bool, pad byte, longLength bool) *VR {
	vr := &VR{name, kind, maxLength, stringLike, pad, longLength}
	vrLookupMap[name] = vr
	return vr
}

// Lookup resolves a 2-character VR code read from an explicit-VR stream.
func Lookup(name string) (*VR, error) {
	vr, ok := vrLookupMap[name]
	if !ok {
		return nil, errors.Errorf("unknown VR code %q", name)
	}
	return vr, nil
}

// Value length limits follow PS3.5 6.2; the string-like set is the set of
// character VRs that a substitution may rewrite.
var (
	AE = newVR("AE", KindText, 16, true, ' ', false)
	AS = newVR("AS", KindText, 4, true, ' ', false)
	CS = newVR("CS", KindText, 16, true, ' ', false)
	DA = newVR("DA", KindText, 8, true, ' ', false)
	DS = newVR("DS", KindText, 16, true, ' ', false)
	DT = newVR("DT", KindText, 26, true, ' ', false)
	IS = newVR("IS", KindText, 12, true, ' ', false)
	LO = newVR("LO", KindText, 64, true, ' ', false)
	LT = newVR("LT", KindText, 10240, true, ' ', false)
	PN = newVR("PN", KindText, 64, true, ' ', false)
	SH = newVR("SH", KindText, 16, true, ' ', false)
	ST = newVR("ST", KindText, 1024, true, ' ', false)
	TM = newVR("TM", KindText, 16, true, ' ', false)

	// unique identifier: null padded
	UI = newVR("UI", KindText, 64, true, 0x00, false)

	// binary numbers
	SS = newVR("SS", KindBinary, 0, false, 0x00, false)
	US = newVR("US", KindBinary, 0, false, 0x00, false)
	SL = newVR("SL", KindBinary, 0, false, 0x00, false)
	UL = newVR("UL", KindBinary, 0, false, 0x00, false)
	FL = newVR("FL", KindBinary, 0, false, 0x00, false)
	FD = newVR("FD", KindBinary, 0, false, 0x00, false)

	// attribute tag
	AT = newVR("AT", KindTag, 0, false, 0x00, false)

	// bulk payloads: 32-bit explicit length
	OB = newVR("OB", KindBulk, 0, false, 0x00, true)
	OD = newVR("OD", KindBulk, 0, false, 0x00, true)
	OF = newVR("OF", KindBulk, 0, false, 0x00, true)
	OL = newVR("OL", KindBulk, 0, false, 0x00, true)
	OW = newVR("OW", KindBulk, 0, false, 0x00, true)
	UC = newVR("UC", KindBulk, 0, false, ' ', true)
	UR = newVR("UR", KindBulk, 0, false, ' ', true)
	UT = newVR("UT", KindBulk, 0, false, ' ', true)
	UN = newVR("UN", KindBulk, 0, false, 0x00, true)

	// sequence of items
	SQ = newVR("SQ", KindSequence, 0, false, 0x00, true)
)
