package dvr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	vr, err := Lookup("PN")
	assert.NoError(t, err)
	assert.Equal(t, PN, vr)

	_, err = Lookup("ZZ")
	assert.Error(t, err)
}

func TestStringLikeSet(t *testing.T) {
	stringLike := []*VR{AE, AS, CS, DA, DS, DT, IS, LO, LT, PN, SH, ST, TM, UI}
	for _, vr := range stringLike {
		assert.Truef(t, vr.IsStringLike(), "%s should be string-like", vr.Name)
	}

	notStringLike := []*VR{SS, US, SL, UL, FL, FD, AT, OB, OW, UN, UT, SQ}
	for _, vr := range notStringLike {
		assert.Falsef(t, vr.IsStringLike(), "%s should not be string-like", vr.Name)
	}
}

func TestMaxLengths(t *testing.T) {
	assert.Equal(t, uint32(16), SH.MaxLength())
	assert.Equal(t, uint32(64), LO.MaxLength())
	assert.Equal(t, uint32(64), PN.MaxLength())
	assert.Equal(t, uint32(4), AS.MaxLength())
	assert.Equal(t, uint32(0), OB.MaxLength())
}

func TestLengthFieldWidth(t *testing.T) {
	assert.False(t, PN.Has32BitLength())
	assert.False(t, US.Has32BitLength())
	assert.True(t, OB.Has32BitLength())
	assert.True(t, SQ.Has32BitLength())
	assert.True(t, UN.Has32BitLength())
	assert.True(t, UT.Has32BitLength())
}

func TestPadding(t *testing.T) {
	assert.Equal(t, byte(' '), PN.PadByte())
	assert.Equal(t, byte(0x00), UI.PadByte())
}
