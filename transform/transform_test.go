package transform

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicomsar/dicom"
	"dicomsar/dicom/dtag"
)

func textElement(t *testing.T, vrName string, text string) *dicom.Element {
	t.Helper()
	e, err := dicom.NewTextElement(dtag.PatientID, vrName, text)
	require.NoError(t, err)
	return e
}

func TestCompile_BadPattern(t *testing.T) {
	_, err := Compile("^(unclosed", "x")
	var regexErr *RegexError
	require.True(t, errors.As(err, &regexErr))
	assert.Equal(t, "^(unclosed", regexErr.Pattern)
}

func TestTranslateBackrefs(t *testing.T) {
	assert.Equal(t, "GENHOSP${1}", translateBackrefs(`GENHOSP\1`))
	assert.Equal(t, "${10}x", translateBackrefs(`\10x`))
	assert.Equal(t, "a\\b", translateBackrefs(`a\\b`))
	assert.Equal(t, "$1", translateBackrefs("$1"))
	assert.Equal(t, "plain", translateBackrefs("plain"))
}

func TestApply_PrefixesValue(t *testing.T) {
	rule, err := Compile(`^(.*)$`, `GENHOSP\1`)
	require.NoError(t, err)

	e := textElement(t, "LO", "12345")
	outcome, err := Apply(e, rule)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, "12345", outcome.Old)
	assert.Equal(t, "GENHOSP12345", outcome.New)
	assert.True(t, e.Dirty())

	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, "GENHOSP12345", text)
}

func TestApply_IdentityIsUnchanged(t *testing.T) {
	rule, err := Compile(`^(.*)$`, `\1`)
	require.NoError(t, err)

	e := textElement(t, "LO", "12345")
	outcome, err := Apply(e, rule)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.False(t, e.Dirty())
}

func TestApply_NoMatchIsUnchanged(t *testing.T) {
	rule, err := Compile(`^ZZZ`, "YYY")
	require.NoError(t, err)

	e := textElement(t, "LO", "12345")
	outcome, err := Apply(e, rule)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.False(t, e.Dirty())
}

func TestApply_VRConstraintViolation(t *testing.T) {
	rule, err := Compile(`^(.*)$`, `X\1`)
	require.NoError(t, err)

	// 16 chars fills the SH limit; one more byte must fail
	e := textElement(t, "SH", strings.Repeat("A", 16))
	_, err = Apply(e, rule)

	var constraintErr *VRConstraintError
	require.True(t, errors.As(err, &constraintErr))
	assert.Equal(t, "SH", constraintErr.VR)
	assert.Equal(t, uint32(16), constraintErr.Limit)
	assert.Equal(t, 18, constraintErr.Actual)

	// element must be left untouched
	assert.False(t, e.Dirty())
	text, err := e.Text()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("A", 16), text)
}

func TestApply_LongStringOverflow(t *testing.T) {
	rule, err := Compile(`^(.*)$`, `GENHOSP\1`)
	require.NoError(t, err)

	// 60 chars + 7-char prefix pushes past the LO 64-byte limit
	e := textElement(t, "LO", strings.Repeat("B", 60))
	_, err = Apply(e, rule)

	var constraintErr *VRConstraintError
	require.True(t, errors.As(err, &constraintErr))
	assert.False(t, e.Dirty())
}

func TestApply_RejectsBinaryVR(t *testing.T) {
	rule, err := Compile(`1`, "2")
	require.NoError(t, err)

	e, err := dicom.NewElement(dtag.New(0x0028, 0x0010), "US", []byte{0x01, 0x00})
	require.NoError(t, err)

	_, err = Apply(e, rule)
	require.Error(t, err)
	assert.False(t, e.Dirty())
}
