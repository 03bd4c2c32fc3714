package git

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/memory"
	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/common"
)

// ErrWorkspaceUnavailable is returned when the client root does not open as a git repository
var ErrWorkspaceUnavailable = errors.New("workspace is not a git repository")

type RevisionMetadata struct {
	Hash    string
	Author  string
	Date    time.Time
	Message string
}

// Subject returns the first line of the commit message
func (m *RevisionMetadata) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(m.Message), "\n")
	return strings.TrimSpace(subject)
}

// Client is a read-only git client bound to one repository URL and an optional local checkout
type Client interface {
	Root() string
	RepoURL() string
	// LsBranches lists the remote tracking branches of the checkout as <remote>/<branch>
	LsBranches(remote string) ([]string, error)
	LsTags() ([]string, error)
	// LsRevisions lists commits reachable from branch, or from every ref when branch is empty
	LsRevisions(branch string, maxCount int) ([]*RevisionMetadata, error)
	// LsPullRequests lists pull request and merge request numbers found in the checkout
	LsPullRequests() ([]string, error)
	// LsRemote lists the refs advertised by the remote repository without touching the checkout
	LsRemote(ctx context.Context) ([]*plumbing.Reference, error)
}

// ClientFactory is a factory of Git Clients
// Primarily used to support creation of mock git clients during unit testing
type ClientFactory interface {
	NewClient(repoURL string, root string) (Client, error)
}

type factory struct{}

func NewFactory() ClientFactory {
	return &factory{}
}

func (f *factory) NewClient(repoURL string, root string) (Client, error) {
	return NewClient(repoURL, root)
}

// goGitClient implements Client using go-git
type goGitClient struct {
	// URL of the repository
	repoURL string
	// Root path of the local checkout, empty when there is none
	root string
}

var _ Client = (*goGitClient)(nil)

func NewClient(repoURL string, root string) (Client, error) {
	if repoURL == "" && root == "" {
		return nil, errors.New("either a repository URL or a checkout path is required")
	}
	return &goGitClient{repoURL: repoURL, root: root}, nil
}

func (m *goGitClient) Root() string {
	return m.root
}

func (m *goGitClient) RepoURL() string {
	return m.repoURL
}

func (m *goGitClient) open() (*git.Repository, error) {
	if m.root == "" {
		return nil, ErrWorkspaceUnavailable
	}
	repo, err := git.PlainOpenWithOptions(m.root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWorkspaceUnavailable, m.root, err)
	}
	return repo, nil
}

func (m *goGitClient) references() ([]*plumbing.Reference, error) {
	repo, err := m.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to read references of %s: %w", m.root, err)
	}
	var refs []*plumbing.Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read references of %s: %w", m.root, err)
	}
	return refs, nil
}

func (m *goGitClient) LsBranches(remote string) ([]string, error) {
	refs, err := m.references()
	if err != nil {
		return nil, err
	}
	return RemoteBranches(remote, refs), nil
}

func (m *goGitClient) LsTags() ([]string, error) {
	refs, err := m.references()
	if err != nil {
		return nil, err
	}
	return Tags(refs), nil
}

func (m *goGitClient) LsPullRequests() ([]string, error) {
	refs, err := m.references()
	if err != nil {
		return nil, err
	}
	return PullRequests(refs), nil
}

func (m *goGitClient) LsRevisions(branch string, maxCount int) ([]*RevisionMetadata, error) {
	repo, err := m.open()
	if err != nil {
		return nil, err
	}
	opts := &git.LogOptions{Order: git.LogOrderCommitterTime}
	if branch == "" {
		opts.All = true
	} else {
		hash, err := repo.ResolveRevision(plumbing.Revision(branch))
		if err != nil {
			return nil, fmt.Errorf("unable to resolve '%s': %w", branch, err)
		}
		opts.From = *hash
	}
	iter, err := repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read log of %s: %w", m.root, err)
	}
	defer iter.Close()

	var revisions []*RevisionMetadata
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(revisions) >= maxCount {
			return storer.ErrStop
		}
		revisions = append(revisions, &RevisionMetadata{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Date:    c.Author.When,
			Message: c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read log of %s: %w", m.root, err)
	}
	return revisions, nil
}

// LsRemote runs with in-memory storage and is safe to run concurrently, or to be run without a git
// repository locally cloned.
func (m *goGitClient) LsRemote(ctx context.Context) ([]*plumbing.Reference, error) {
	if m.repoURL == "" {
		return nil, errors.New("no repository URL to list")
	}
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{m.repoURL},
	})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list refs of %s: %w", m.repoURL, err)
	}
	log.Debugf("listed %d refs of %s", len(refs), m.repoURL)
	return refs, nil
}

// RemoteBranches returns <remote>/<branch> for every branch in refs. Remote tracking refs of the given
// remote are used as is. refs/heads/* names are prefixed with the remote name, but only when refs hold
// no remote tracking refs at all, as is the case for an ls-remote listing.
func RemoteBranches(remote string, refs []*plumbing.Reference) []string {
	if remote == "" {
		remote = common.DefaultRemoteName
	}
	prefix := remote + "/"
	var branches []string
	for _, ref := range refs {
		if ref.Type() != plumbing.HashReference {
			continue
		}
		name := ref.Name()
		switch {
		case name.IsRemote():
			short := name.Short()
			if strings.HasPrefix(short, prefix) && short != prefix+"HEAD" {
				branches = append(branches, short)
			}
		case name.IsBranch() && !hasRemoteTracking(refs):
			branches = append(branches, prefix+name.Short())
		}
	}
	return sortedUnique(branches)
}

func hasRemoteTracking(refs []*plumbing.Reference) bool {
	for _, ref := range refs {
		if ref.Name().IsRemote() {
			return true
		}
	}
	return false
}

// Tags returns the short names of the tags in refs, ignoring peeled entries
func Tags(refs []*plumbing.Reference) []string {
	var tags []string
	for _, ref := range refs {
		name := ref.Name()
		if name.IsTag() && !strings.HasSuffix(name.String(), "^{}") {
			tags = append(tags, name.Short())
		}
	}
	return sortedUnique(tags)
}

// PullRequests returns the pull request numbers found in refs in ascending numeric order
func PullRequests(refs []*plumbing.Reference) []string {
	var numbers []int
	for _, ref := range refs {
		if n, ok := PullRequestNumber(ref.Name().String()); ok {
			numbers = append(numbers, n)
		}
	}
	slices.Sort(numbers)
	numbers = slices.Compact(numbers)
	prs := make([]string, 0, len(numbers))
	for _, n := range numbers {
		prs = append(prs, strconv.Itoa(n))
	}
	return prs
}

var pullRequestPrefixes = []string{"refs/pull/", "refs/merge-requests/"}

// PullRequestNumber extracts <n> from refs/pull/<n>/head or refs/merge-requests/<n>/head. Remote
// tracking copies under refs/remotes/<remote>/ are accepted too.
func PullRequestNumber(refName string) (int, bool) {
	if rest, ok := strings.CutPrefix(refName, "refs/remotes/"); ok {
		_, rest, found := strings.Cut(rest, "/")
		if !found {
			return 0, false
		}
		refName = "refs/" + rest
	}
	for _, prefix := range pullRequestPrefixes {
		rest, ok := strings.CutPrefix(refName, prefix)
		if !ok {
			continue
		}
		number, ok := strings.CutSuffix(rest, "/head")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(number)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func sortedUnique(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}
