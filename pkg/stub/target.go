package stub

import (
	"fmt"
	"regexp"
)

// Target identifies the URL an expectation answers for.
// It is either a Literal or a *Pattern.
type Target interface {
	// Matches reports whether the incoming URL is answered by this target.
	Matches(incoming string) bool
	String() string

	isTarget()
}

// Literal matches a URL by string equality.
type Literal string

// Matches reports whether incoming equals l.
func (l Literal) Matches(incoming string) bool { return string(l) == incoming }

func (l Literal) String() string { return string(l) }

func (Literal) isTarget() {}

// Pattern matches a URL with a regular expression anchored at the start of
// the URL. The end is not anchored, so "https://host/" matches every path on
// that host.
type Pattern struct {
	src string
	re  *regexp.Regexp
}

// CompilePattern compiles src as a start-anchored pattern.
func CompilePattern(src string) (*Pattern, error) {
	if _, err := regexp.Compile(src); err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrConfiguration, src, err)
	}
	re, err := regexp.Compile(`\A(?:` + src + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrConfiguration, src, err)
	}
	return &Pattern{src: src, re: re}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(src string) *Pattern {
	p, err := CompilePattern(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether the pattern matches a prefix of incoming.
// A pattern that failed to compile matches nothing.
func (p *Pattern) Matches(incoming string) bool {
	if p == nil || p.re == nil {
		return false
	}
	return p.re.MatchString(incoming)
}

// String returns the pattern source as registered.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.src
}

func (*Pattern) isTarget() {}
