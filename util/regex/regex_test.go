package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		valid   bool
	}{
		{"Match everything", ".*", true},
		{"Capture group", "origin/(.*)", true},
		{"Lookahead", "^((?!disallowed).)*$", true},
		{"Nested quantifier", ".**", false},
		{"Unterminated set", "[*", false},
		{"Unbalanced group made valid by wrapping", "a)|(b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, err == nil, Validate(tt.pattern) == nil)
		})
	}
}

func TestPattern_MatchFull(t *testing.T) {
	p, err := Compile("origin/(.*)")
	require.NoError(t, err)
	assert.Equal(t, 1, p.NumGroups())

	ok, groups := p.MatchFull("origin/master")
	assert.True(t, ok)
	assert.Equal(t, []string{"master"}, groups)

	ok, _ = p.MatchFull("upstream/origin/master")
	assert.False(t, ok)

	p, err = Compile("master")
	require.NoError(t, err)
	assert.Equal(t, 0, p.NumGroups())
	ok, groups = p.MatchFull("origin/master")
	assert.False(t, ok)
	assert.Nil(t, groups)
	assert.True(t, p.Find("origin/master"))
}

func TestMatch(t *testing.T) {
	assert.True(t, Match(".*exampleB.git", "https://github.com/jenkinsci/exampleB.git"))
	assert.False(t, Match(".*exampleB.git", "https://github.com/jenkinsci/exampleA.git"))
	assert.False(t, Match(".**", "anything"))
}
