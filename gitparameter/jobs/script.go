package jobs

import (
	"slices"

	"github.com/dlclark/regexp2"
	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// Checkout directives recognised in inline pipeline scripts. This is a best-effort text scan and
// not a parser: directives built at runtime are not found.
var scriptCheckoutPatterns = []*regexp2.Regexp{
	// git url: '...', git(url: "...", branch: 'x'), git branch: 'x', url: '...'
	regexp2.MustCompile(`\bgit\b[\s(][^\n]*?\burl\s*:\s*(['"])(?<url>[^'"\n]+)\1`, regexp2.None),
	// git '...'
	regexp2.MustCompile(`\bgit\s*\(?\s*(['"])(?<url>[^'"\n]+)\1`, regexp2.None),
	// checkout([$class: 'GitSCM', userRemoteConfigs: [[url: '...']]])
	regexp2.MustCompile(`\buserRemoteConfigs\s*:\s*\[\s*\[[^\]]*?\burl\s*:\s*(['"])(?<url>[^'"\n]+)\1`, regexp2.None),
}

// ScanScript returns one git SCM per distinct repository URL found in checkout directives of script,
// in order of appearance.
func ScanScript(script string) []v1alpha1.SCM {
	type found struct {
		index int
		url   string
	}
	var matches []found
	for _, re := range scriptCheckoutPatterns {
		m, err := re.FindStringMatch(script)
		for err == nil && m != nil {
			group := m.GroupByName("url")
			matches = append(matches, found{index: group.Index, url: group.String()})
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			log.Warnf("failed to scan pipeline script: %v", err)
		}
	}
	slices.SortStableFunc(matches, func(a, b found) int { return a.index - b.index })

	seen := make(map[string]bool)
	var scms []v1alpha1.SCM
	for _, f := range matches {
		if seen[f.url] {
			continue
		}
		seen[f.url] = true
		scms = append(scms, v1alpha1.SCM{Git: &v1alpha1.GitSCM{Remotes: []v1alpha1.UserRemoteConfig{{URL: f.url}}}})
	}
	return scms
}
