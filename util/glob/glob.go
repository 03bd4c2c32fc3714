package glob

import (
	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"
)

// MatchAll is the glob matching every text
const MatchAll = "*"

// Compile compiles a glob pattern. Besides `*` and `?` the pattern may use character
// classes (`[a-z]`) and alternatives (`{a,b}`).
func Compile(pattern string, separators ...rune) (glob.Glob, error) {
	return glob.Compile(pattern, separators...)
}

// Match tries to match a text with a given glob pattern.
func Match(pattern, text string, separators ...rune) bool {
	compiled, err := Compile(pattern, separators...)
	if err != nil {
		log.Warnf("failed to compile pattern %s due to error %v", pattern, err)
		return false
	}
	return compiled.Match(text)
}

// MatchWithError tries to match a text with a given glob pattern.
// Returns error if the glob pattern fails to compile.
func MatchWithError(pattern, text string, separators ...rune) (bool, error) {
	compiled, err := Compile(pattern, separators...)
	if err != nil {
		return false, err
	}
	return compiled.Match(text), nil
}
