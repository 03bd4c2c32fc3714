package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	giturls "github.com/chainguard-dev/git-urls"

	"github.com/pola/git-parameter-plugin/common"
)

var (
	commitSHARegex          = regexp.MustCompile("^[0-9A-Fa-f]{40}$")
	truncatedCommitSHARegex = regexp.MustCompile("^[0-9A-Fa-f]{7,}$")
)

// IsCommitSHA returns whether or not a string is a 40 character SHA-1
func IsCommitSHA(sha string) bool {
	return commitSHARegex.MatchString(sha)
}

// IsTruncatedCommitSHA returns whether or not a string is a truncated SHA-1
func IsTruncatedCommitSHA(sha string) bool {
	return truncatedCommitSHARegex.MatchString(sha)
}

// ShortSHA returns the first 8 characters of a commit hash
func ShortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// ValidateURL returns an error if the URL does not parse as a git repository URL
func ValidateURL(repoURL string) error {
	if strings.TrimSpace(repoURL) == "" {
		return fmt.Errorf("repository URL is empty")
	}
	if _, err := giturls.Parse(repoURL); err != nil {
		return fmt.Errorf("invalid repository URL '%s': %w", repoURL, err)
	}
	return nil
}

// RemoteName returns the name git gives the index-th remote of a checkout with unnamed remotes:
// origin, origin1, origin2...
func RemoteName(index int) string {
	if index <= 0 {
		return common.DefaultRemoteName
	}
	return common.DefaultRemoteName + strconv.Itoa(index)
}
