package rewrite

import "strings"

// Replacer substitutes the placeholder identifier with the project name,
// both as written and upper-cased.
type Replacer struct {
	placeholder      string
	placeholderUpper string
	name             string
	nameUpper        string
}

// NewReplacer returns a Replacer for placeholder -> name.
func NewReplacer(placeholder, name string) Replacer {
	return Replacer{
		placeholder:      placeholder,
		placeholderUpper: strings.ToUpper(placeholder),
		name:             name,
		nameUpper:        strings.ToUpper(name),
	}
}

// Replace applies the lower-case substitution first and the upper-case one
// second, so "exemplar" -> "foo" and then "EXEMPLAR" -> "FOO".
func (r Replacer) Replace(s string) string {
	if r.placeholder == "" {
		return s
	}
	s = strings.ReplaceAll(s, r.placeholder, r.name)
	if r.placeholderUpper != r.placeholder {
		s = strings.ReplaceAll(s, r.placeholderUpper, r.nameUpper)
	}
	return s
}

// Identity reports whether Replace can never change its input.
func (r Replacer) Identity() bool {
	return r.placeholder == "" || (r.placeholder == r.name && r.placeholderUpper == r.nameUpper)
}
