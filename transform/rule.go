// Package transform applies a compiled regex substitution rule to data
// elements, enforcing per-VR length constraints before any value changes.
package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// RegexError reports a search pattern that does not compile. It is fatal at
// startup: no file is opened with a bad rule.
type RegexError struct {
	Pattern string
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *RegexError) Unwrap() error {
	return e.Err
}

// Rule is a compiled search/replace pair. It is immutable after Compile and
// shared read-only across all workers.
type Rule struct {
	Search  *regexp.Regexp
	Replace string
}

// Compile builds a rule. The replace template accepts both `\1` and `$1`
// back-reference notations; `\1` is translated to `${1}` so either style
// expands the captured group.
func Compile(search string, replace string) (*Rule, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return nil, &RegexError{Pattern: search, Err: err}
	}
	return &Rule{
		Search:  re,
		Replace: translateBackrefs(replace),
	}, nil
}

func translateBackrefs(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			b.WriteString("${")
			b.WriteString(template[i+1 : j])
			b.WriteString("}")
			i = j - 1
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
