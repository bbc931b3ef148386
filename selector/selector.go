// Package selector parses user-supplied tag expressions into a matching
// predicate over data element tags.
//
// The grammar accepts a comma-separated list of items, where each item is
// either a case-sensitive dictionary keyword ("PatientID") or a hexadecimal
// group/element pair, bare or parenthesized, with optional whitespace and
// leading zeros: "10,20", "0010,0020" and "(0010, 0020)" all denote the same
// tag.
package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dicomsar/dicom/dtag"
)

// ParseError reports a tag expression that does not follow the grammar. It
// is fatal at startup: no file is opened with a bad selector.
type ParseError struct {
	Item   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid tag selector %q: %s", e.Item, e.Reason)
}

// Selector is the compiled predicate. It is immutable after Parse and safe
// for concurrent use.
type Selector struct {
	tags  []dtag.Tag
	set   map[dtag.Tag]struct{}
	force bool
}

var hexPair = regexp.MustCompile(`^([0-9a-fA-F]{1,4})\s*$`)

// Parse compiles a tag expression. An empty expression is only valid with
// force set, in which case the selector matches every string-like element.
func Parse(spec string, force bool) (*Selector, error) {
	s := &Selector{
		set:   map[dtag.Tag]struct{}{},
		force: force,
	}

	if strings.TrimSpace(spec) == "" {
		if !force {
			return nil, &ParseError{Item: spec, Reason: "empty selector requires the force flag"}
		}
		return s, nil
	}

	tokens := strings.Split(spec, ",")
	for i := 0; i < len(tokens); i++ {
		token := strings.TrimSpace(tokens[i])
		if token == "" {
			return nil, &ParseError{Item: spec, Reason: "empty item"}
		}

		switch {
		case strings.HasPrefix(token, "("):
			if i+1 >= len(tokens) {
				return nil, &ParseError{Item: token, Reason: "unterminated parenthesized pair"}
			}
			next := strings.TrimSpace(tokens[i+1])
			if !strings.HasSuffix(next, ")") {
				return nil, &ParseError{Item: token + "," + next, Reason: "unterminated parenthesized pair"}
			}
			tag, err := parsePair(strings.TrimPrefix(token, "("), strings.TrimSuffix(next, ")"))
			if err != nil {
				return nil, err
			}
			s.addTag(tag)
			i++

		case isHex(token):
			if i+1 < len(tokens) && isHex(strings.TrimSpace(tokens[i+1])) {
				tag, err := parsePair(token, strings.TrimSpace(tokens[i+1]))
				if err != nil {
					return nil, err
				}
				s.addTag(tag)
				i++
				break
			}
			return nil, &ParseError{Item: token, Reason: "hex group without a matching element value"}

		default:
			entry, ok := dtag.FindByKeyword(token)
			if !ok {
				return nil, &ParseError{Item: token, Reason: "not a dictionary keyword or hex pair"}
			}
			s.addTag(entry.Tag)
		}
	}

	return s, nil
}

func (s *Selector) addTag(tag dtag.Tag) {
	if _, existed := s.set[tag]; existed {
		return
	}
	s.set[tag] = struct{}{}
	s.tags = append(s.tags, tag)
}

// Matches reports whether an explicitly selected tag matches. It is false
// for every tag when the selector is empty; force-all eligibility is decided
// by the caller via Empty.
func (s *Selector) Matches(tag dtag.Tag) bool {
	_, ok := s.set[tag]
	return ok
}

// Empty reports whether no explicit tags were given, i.e. the selector runs
// in force-all (every string-like element) mode.
func (s *Selector) Empty() bool {
	return len(s.tags) == 0
}

// Tags returns the explicitly selected tags in the order given.
func (s *Selector) Tags() []dtag.Tag {
	return s.tags
}

func isHex(token string) bool {
	return hexPair.MatchString(token)
}

func parsePair(groupToken, elementToken string) (dtag.Tag, error) {
	groupToken = strings.TrimSpace(groupToken)
	elementToken = strings.TrimSpace(elementToken)

	group, err := parseHex16(groupToken)
	if err != nil {
		return dtag.Tag{}, &ParseError{Item: groupToken, Reason: "malformed hex group"}
	}
	element, err := parseHex16(elementToken)
	if err != nil {
		return dtag.Tag{}, &ParseError{Item: elementToken, Reason: "malformed hex element"}
	}
	return dtag.New(group, element), nil
}

func parseHex16(token string) (uint16, error) {
	if !isHex(token) {
		return 0, fmt.Errorf("not a 16-bit hex value: %q", token)
	}
	v, err := strconv.ParseUint(token, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
