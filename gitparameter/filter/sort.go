package filter

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
)

// Sort returns the entries ordered by mode. NONE keeps the listing order. Each descending mode is
// the exact reverse of its ascending counterpart.
func Sort(entries []v1alpha1.RefEntry, mode v1alpha1.SortMode) []v1alpha1.RefEntry {
	if !mode.IsSorting() {
		return entries
	}
	sorted := slices.Clone(entries)
	compare := lexicographic
	if mode.IsSmart() {
		compare = smartComparator(sorted)
	}
	slices.SortStableFunc(sorted, func(a, b v1alpha1.RefEntry) int {
		return compare(a.Display(), b.Display())
	})
	if mode.IsDescending() {
		slices.Reverse(sorted)
	}
	return sorted
}

func lexicographic(a, b string) int {
	return strings.Compare(a, b)
}

// smartComparator orders by version when every entry is a version and by natural order otherwise
func smartComparator(entries []v1alpha1.RefEntry) func(a, b string) int {
	versions := make(map[string]*semver.Version, len(entries))
	for _, entry := range entries {
		v, err := semver.NewVersion(entry.Display())
		if err != nil {
			return NaturalCompare
		}
		versions[entry.Display()] = v
	}
	return func(a, b string) int {
		if c := versions[a].Compare(versions[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
}

// NaturalCompare compares strings treating runs of digits as numbers, so that release-2 sorts
// before release-10. Ties are broken lexicographically.
func NaturalCompare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if isDigit(ra[i]) && isDigit(rb[j]) {
			si := i
			for i < len(ra) && isDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && isDigit(rb[j]) {
				j++
			}
			if c := compareDigits(string(ra[si:i]), string(rb[sj:j])); c != 0 {
				return c
			}
			continue
		}
		if ra[i] != rb[j] {
			if ra[i] < rb[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	}
	return strings.Compare(a, b)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
