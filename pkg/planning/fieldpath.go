package planning

import (
	"fmt"
	"strconv"
	"strings"
)

// A field path addresses into an earlier step's output:
//
//	path  := var ( "[" index "]" | "." field )*
//	index := digit+ | "*"
//	field := identifier
//
// The wildcard index "*" is a deferred expansion instruction for the code
// generator; the planner never evaluates it. Only the head variable is
// subject to the earlier-output invariant; the suffix is carried opaquely.

type SegmentKind int

const (
	SegmentField SegmentKind = iota
	SegmentIndex
	SegmentWildcard
)

// PathSegment is one suffix element of a field path.
type PathSegment struct {
	Kind  SegmentKind
	Field string
	Index int
}

// FieldPath is a parsed path: head variable plus suffix segments. A bare
// variable name parses to a FieldPath with no segments.
type FieldPath struct {
	Var      string
	Segments []PathSegment
}

// HasWildcard reports whether any segment is the "[*]" wildcard.
func (p *FieldPath) HasWildcard() bool {
	for _, seg := range p.Segments {
		if seg.Kind == SegmentWildcard {
			return true
		}
	}
	return false
}

// ParseFieldPath parses a path string. It fails when the string is not a
// well-formed path at all (for example a date literal); callers use the
// failure to classify an input as a plain literal.
func ParseFieldPath(s string) (*FieldPath, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}

	head, rest := scanIdentifier(s)
	if head == "" {
		return nil, fmt.Errorf("path %q does not start with an identifier", s)
	}
	path := &FieldPath{Var: head}

	for rest != "" {
		switch rest[0] {
		case '.':
			field, tail := scanIdentifier(rest[1:])
			if field == "" {
				return nil, fmt.Errorf("path %q has an empty field segment", s)
			}
			path.Segments = append(path.Segments, PathSegment{Kind: SegmentField, Field: field})
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q has an unterminated index", s)
			}
			idx := rest[1:end]
			if idx == "*" {
				path.Segments = append(path.Segments, PathSegment{Kind: SegmentWildcard})
			} else {
				n, err := strconv.Atoi(idx)
				if err != nil || n < 0 || strings.HasPrefix(idx, "+") || strings.HasPrefix(idx, "-") {
					return nil, fmt.Errorf("path %q has invalid index %q", s, idx)
				}
				path.Segments = append(path.Segments, PathSegment{Kind: SegmentIndex, Index: n})
			}
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("path %q has unexpected character %q", s, rest[0])
		}
	}
	return path, nil
}

// scanIdentifier splits a leading identifier ([A-Za-z_][A-Za-z0-9_]*) from
// the remainder of the string.
func scanIdentifier(s string) (ident, rest string) {
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9':
			if i == 0 {
				return "", s
			}
		default:
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// isIdentifier reports whether s is a bare identifier with no suffix.
func isIdentifier(s string) bool {
	ident, rest := scanIdentifier(s)
	return ident == s && rest == ""
}
