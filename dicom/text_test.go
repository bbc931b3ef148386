package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicomsar/dicom/dvr"
)

func TestDecodeText_TrimsTrailingPadding(t *testing.T) {
	text, err := DecodeText(dvr.LO, []byte("12345 "))
	require.NoError(t, err)
	assert.Equal(t, "12345", text)

	text, err = DecodeText(dvr.UI, []byte("1.2.840\x00"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.840", text)
}

func TestDecodeText_KeepsLeadingAndInnerSpace(t *testing.T) {
	text, err := DecodeText(dvr.LO, []byte(" a b  "))
	require.NoError(t, err)
	assert.Equal(t, " a b", text)
}

func TestEncodeText_PadsToEvenLength(t *testing.T) {
	bs, err := EncodeText(dvr.LO, "12345")
	require.NoError(t, err)
	assert.Equal(t, []byte("12345 "), bs)

	bs, err = EncodeText(dvr.UI, "1.2.840")
	require.NoError(t, err)
	assert.Equal(t, []byte("1.2.840\x00"), bs)

	bs, err = EncodeText(dvr.LO, "1234")
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), bs)
}

func TestTextRoundTrip_NonASCII(t *testing.T) {
	bs, err := EncodeText(dvr.PN, "MÜLLER^JÜRGEN")
	require.NoError(t, err)

	text, err := DecodeText(dvr.PN, bs)
	require.NoError(t, err)
	assert.Equal(t, "MÜLLER^JÜRGEN", text)
}
