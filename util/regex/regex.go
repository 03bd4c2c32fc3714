package regex

import (
	"fmt"

	"github.com/dlclark/regexp2"
	log "github.com/sirupsen/logrus"
)

// Pattern is a compiled regular expression using .NET/Java compatible syntax (lookarounds,
// possessive quantifiers are rejected the same way Java rejects nested quantifiers).
type Pattern struct {
	source   string
	re       *regexp2.Regexp
	anchored *regexp2.Regexp
}

// Compile compiles pattern. The raw pattern is validated on its own before it is anchored, so an
// unbalanced pattern cannot become valid by being wrapped.
func Compile(pattern string) (*Pattern, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	anchored, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return &Pattern{source: pattern, re: re, anchored: anchored}, nil
}

// Validate returns the compilation error of pattern, if any
func Validate(pattern string) error {
	_, err := Compile(pattern)
	return err
}

func (p *Pattern) String() string {
	return p.source
}

// NumGroups returns the number of capturing groups, not counting the whole match
func (p *Pattern) NumGroups() int {
	return len(p.re.GetGroupNumbers()) - 1
}

// Find returns true if the pattern matches anywhere in text
func (p *Pattern) Find(text string) bool {
	ok, err := p.re.MatchString(text)
	if err != nil {
		log.Warnf("failed to match pattern %s due to error %v", p.source, err)
		return false
	}
	return ok
}

// MatchFull returns true if the pattern matches the whole text. When it does, groups holds the
// text of every capturing group in order.
func (p *Pattern) MatchFull(text string) (bool, []string) {
	m, err := p.anchored.FindStringMatch(text)
	if err != nil {
		log.Warnf("failed to match pattern %s due to error %v", p.source, err)
		return false, nil
	}
	if m == nil {
		return false, nil
	}
	all := m.Groups()
	groups := make([]string, 0, len(all))
	for _, g := range all[1:] {
		groups = append(groups, g.String())
	}
	return true, groups
}

// Match returns true if pattern matches anywhere in text. Invalid patterns never match.
func Match(pattern, text string) bool {
	compiled, err := Compile(pattern)
	if err != nil {
		log.Warnf("failed to compile pattern %s due to error %v", pattern, err)
		return false
	}
	return compiled.Find(text)
}
