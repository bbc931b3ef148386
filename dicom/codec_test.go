package dicom

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicomsar/dicom/dtag"
	"dicomsar/dicom/dvr"
)

func mustTextElement(t *testing.T, tag dtag.Tag, vrName string, text string) *Element {
	t.Helper()
	e, err := NewTextElement(tag, vrName, text)
	require.NoError(t, err)
	return e
}

func buildSampleFile(t *testing.T, syntax Syntax) []byte {
	t.Helper()
	d := NewFileDataset(
		syntax,
		mustTextElement(t, dtag.New(0x0008, 0x0060), "CS", "MR"),
		mustTextElement(t, dtag.PatientName, "PN", "DOE^JOHN"),
		mustTextElement(t, dtag.PatientID, "LO", "12345"),
	)
	bs, err := Encode(d)
	require.NoError(t, err)
	return bs
}

func TestDecode_ExplicitVRLittleEndian(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRLittleEndian)

	d, err := Decode(bs)
	require.NoError(t, err)
	assert.Equal(t, ExplicitVRLittleEndian, d.Syntax)
	require.Len(t, d.Elements, 3)

	e, ok := d.Find(dtag.PatientID)
	require.True(t, ok)
	assert.Equal(t, dvr.LO, e.VR)
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "12345", text)
	assert.Equal(t, "PatientID", e.Keyword())

	// odd-length value was padded on the wire
	assert.Equal(t, uint32(6), e.ValueLength)
}

func TestDecode_ImplicitVRLittleEndian(t *testing.T) {
	bs := buildSampleFile(t, ImplicitVRLittleEndian)

	d, err := Decode(bs)
	require.NoError(t, err)
	assert.Equal(t, ImplicitVRLittleEndian, d.Syntax)

	// VR comes from the dictionary, not the wire
	e, ok := d.Find(dtag.PatientName)
	require.True(t, ok)
	assert.Equal(t, dvr.PN, e.VR)
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "DOE^JOHN", text)
}

func TestDecode_ExplicitVRBigEndian(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRBigEndian)

	d, err := Decode(bs)
	require.NoError(t, err)
	assert.Equal(t, ExplicitVRBigEndian, d.Syntax)
	e, ok := d.Find(dtag.PatientID)
	require.True(t, ok)
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "12345", text)
}

func TestRoundTrip_UntouchedDatasetIsByteIdentical(t *testing.T) {
	for _, syntax := range []Syntax{ExplicitVRLittleEndian, ImplicitVRLittleEndian, ExplicitVRBigEndian} {
		bs := buildSampleFile(t, syntax)
		d, err := Decode(bs)
		require.NoError(t, err)

		out, err := Encode(d)
		require.NoError(t, err)
		assert.Equalf(t, bs, out, "round trip under %s", syntax.UID)
	}
}

func TestRoundTrip_SequencePreserved(t *testing.T) {
	item := NewItem(
		ExplicitVRLittleEndian,
		mustTextElement(t, dtag.New(0x0008, 0x1150), "UI", "1.2.840.10008.5.1.4.1.1.4"),
	)
	d := NewFileDataset(
		ExplicitVRLittleEndian,
		mustTextElement(t, dtag.PatientID, "LO", "12345"),
		NewSequenceElement(dtag.New(0x0008, 0x1140), item),
	)
	bs, err := Encode(d)
	require.NoError(t, err)

	decoded, err := Decode(bs)
	require.NoError(t, err)
	seq, ok := decoded.Find(dtag.New(0x0008, 0x1140))
	require.True(t, ok)
	require.Len(t, seq.Items, 1)

	nested, ok := seq.Items[0].Find(dtag.New(0x0008, 0x1150))
	require.True(t, ok)
	text, err := nested.Text()
	require.NoError(t, err)
	assert.Equal(t, "1.2.840.10008.5.1.4.1.1.4", text)

	out, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, bs, out)
}

func TestEncode_MutatedElementOnly(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRLittleEndian)
	d, err := Decode(bs)
	require.NoError(t, err)

	e, ok := d.Find(dtag.PatientID)
	require.True(t, ok)
	newValue, err := EncodeText(e.VR, "GENHOSP12345")
	require.NoError(t, err)
	e.SetValue(newValue)
	assert.True(t, e.Dirty())
	assert.True(t, d.Dirty())

	out, err := Encode(d)
	require.NoError(t, err)
	assert.NotEqual(t, bs, out)

	reparsed, err := Decode(out)
	require.NoError(t, err)
	rewritten, ok := reparsed.Find(dtag.PatientID)
	require.True(t, ok)
	text, err := rewritten.Text()
	require.NoError(t, err)
	assert.Equal(t, "GENHOSP12345", text)

	// neighbours keep their original bytes
	name, ok := reparsed.Find(dtag.PatientName)
	require.True(t, ok)
	text, err = name.Text()
	require.NoError(t, err)
	assert.Equal(t, "DOE^JOHN", text)
}

func TestEncode_RefreshesStaleGroupLength(t *testing.T) {
	pid := mustTextElement(t, dtag.PatientID, "LO", "12345")
	// explicit LE header is 8 bytes, the padded value 6
	gl, err := NewElement(dtag.New(0x0010, 0x0000), "UL", []byte{14, 0, 0, 0})
	require.NoError(t, err)

	bs, err := Encode(NewFileDataset(ExplicitVRLittleEndian, gl, pid))
	require.NoError(t, err)
	d, err := Decode(bs)
	require.NoError(t, err)

	// untouched group lengths replay verbatim
	out, err := Encode(d)
	require.NoError(t, err)
	assert.Equal(t, bs, out)

	e, ok := d.Find(dtag.PatientID)
	require.True(t, ok)
	newValue, err := EncodeText(e.VR, "GENHOSP12345")
	require.NoError(t, err)
	e.SetValue(newValue)

	out, err = Encode(d)
	require.NoError(t, err)
	reparsed, err := Decode(out)
	require.NoError(t, err)

	length, ok := reparsed.Find(dtag.New(0x0010, 0x0000))
	require.True(t, ok)
	// 8-byte header plus the 12-byte replacement value
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(length.RawValue()))
}

func TestDecode_NotDICOM(t *testing.T) {
	_, err := Decode([]byte("definitely not a dicom file"))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 0, parseErr.Offset)
}

func TestDecode_TruncatedValue(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRLittleEndian)
	_, err := Decode(bs[:len(bs)-3])
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestDecode_UnknownVRCode(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRLittleEndian)
	d, err := Decode(bs)
	require.NoError(t, err)

	// corrupt the VR code of the first dataset element
	offset := len(bs) - lenOfElements(d.Elements)
	bs[offset+4] = 'Z'
	bs[offset+5] = 'Z'

	_, err = Decode(bs)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func lenOfElements(elements []*Element) int {
	total := 0
	for _, e := range elements {
		total += len(e.orig)
	}
	return total
}

func TestDecode_DuplicateTagAnomaly(t *testing.T) {
	d := NewFileDataset(
		ExplicitVRLittleEndian,
		mustTextElement(t, dtag.PatientID, "LO", "first"),
		mustTextElement(t, dtag.PatientID, "LO", "second"),
	)
	bs, err := Encode(d)
	require.NoError(t, err)

	decoded, err := Decode(bs)
	require.NoError(t, err)
	require.Len(t, decoded.Anomalies, 1)
	assert.Contains(t, decoded.Anomalies[0], "duplicate tag (0010,0020)")

	// last write wins in the index, both stay in the element list
	e, ok := decoded.Find(dtag.PatientID)
	require.True(t, ok)
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "second", text)
	assert.Len(t, decoded.Elements, 2)
}

func TestIsDICOMFile(t *testing.T) {
	bs := buildSampleFile(t, ExplicitVRLittleEndian)
	assert.True(t, IsDICOMFile(bs))
	assert.False(t, IsDICOMFile([]byte("short")))
	assert.False(t, IsDICOMFile(make([]byte, 200)))
}
