package dicom

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"dicomsar/dicom/dvr"
)

// The default character repertoire. Values declaring another repertoire via
// SpecificCharacterSet are still byte-preserved when untouched; this mapping
// only matters for values being read as text or rewritten.
var textRepertoire = charmap.Windows1252

// DecodeText converts a raw value field to its text form: trailing padding
// is trimmed per the VR, and bytes outside ASCII are mapped through the
// default repertoire.
func DecodeText(vr *dvr.VR, raw []byte) (string, error) {
	end := len(raw)
	for end > 0 && vr.IsPadding(raw[end-1]) {
		end--
	}
	decoded, err := textRepertoire.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return "", errors.Wrap(err, "DecodeText error")
	}
	return string(decoded), nil
}

// EncodeText converts text back to a raw value field, padding to even length
// with the VR's padding byte. Characters outside the default repertoire are
// an error.
func EncodeText(vr *dvr.VR, s string) ([]byte, error) {
	bs, err := textRepertoire.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "EncodeText error: value %q is not representable", s)
	}
	if len(bs)%2 == 1 {
		bs = append(bs, vr.PadByte())
	}
	return bs, nil
}
