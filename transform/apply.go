package transform

import (
	"fmt"

	"github.com/pkg/errors"

	"dicomsar/dicom"
	"dicomsar/dicom/dtag"
)

// VRConstraintError reports a replacement value that exceeds the maximum
// byte length of the element's VR. The element is left unchanged.
type VRConstraintError struct {
	Tag    dtag.Tag
	VR     string
	Limit  uint32
	Actual int
}

func (e *VRConstraintError) Error() string {
	return fmt.Sprintf(
		"replacement for %s exceeds VR %s limit: %d bytes > %d",
		e.Tag, e.VR, e.Actual, e.Limit,
	)
}

// Outcome describes the effect of applying a rule to one element.
type Outcome struct {
	Changed bool
	Old     string
	New     string
}

// Apply runs the rule against one element's text value. On a change the
// element's value is replaced in place (marking it dirty); no mutation
// happens on a constraint violation.
//
// Substitution is only ever attempted on string-like VRs; binary and bulk
// values must never be handed to the regex engine.
func Apply(e *dicom.Element, rule *Rule) (Outcome, error) {
	if !e.VR.IsStringLike() {
		return Outcome{}, errors.Errorf("Apply error: VR %s of %s is not string-like", e.VR.Name, e.Tag)
	}

	old, err := e.Text()
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "Apply error: decoding %s", e.Tag)
	}

	replaced := rule.Search.ReplaceAllString(old, rule.Replace)
	if replaced == old {
		return Outcome{Old: old, New: old}, nil
	}

	candidate, err := dicom.EncodeText(e.VR, replaced)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "Apply error: encoding replacement for %s", e.Tag)
	}
	if limit := e.VR.MaxLength(); limit > 0 && uint32(len(candidate)) > limit {
		return Outcome{}, &VRConstraintError{
			Tag:    e.Tag,
			VR:     e.VR.Name,
			Limit:  limit,
			Actual: len(candidate),
		}
	}

	e.SetValue(candidate)
	return Outcome{Changed: true, Old: old, New: replaced}, nil
}
