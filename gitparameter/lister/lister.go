package lister

import (
	"context"
	"errors"
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-git/v5/plumbing"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/git"
)

const revisionDateFormat = "2006-01-02 15:04"

// Lister lists the references of a single repository binding. It never fails: problems are reported
// as diagnostics next to an empty list.
type Lister struct {
	clients      git.ClientFactory
	maxRevisions int
	// remoteLimit bounds concurrent remote listings, nil means unbounded
	remoteLimit *semaphore.Weighted
}

func NewLister(clients git.ClientFactory, maxRevisions int) *Lister {
	if maxRevisions <= 0 {
		maxRevisions = common.DefaultMaxRevisions
	}
	return &Lister{clients: clients, maxRevisions: maxRevisions}
}

// WithParallelismLimit bounds the number of remote listings running at once. A limit below 1 means
// no limit.
func (l *Lister) WithParallelismLimit(limit int64) *Lister {
	if limit > 0 {
		l.remoteLimit = semaphore.NewWeighted(limit)
	} else {
		l.remoteLimit = nil
	}
	return l
}

// List returns the references of kind found for binding. Branches, tags and pull requests are read
// from the workspace when it opens as a git repository and from the remote otherwise. Revisions are
// only read from the workspace.
func (l *Lister) List(ctx context.Context, kind v1alpha1.RefKind, binding v1alpha1.Binding, workspace string, branch string) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	logCtx := log.WithFields(log.Fields{"repo": binding.RepoURL(), "kind": kind})

	checkout, diagnostic := checkoutDir(workspace, binding.SubDir)
	if diagnostic != nil {
		logCtx.Warn(diagnostic.Message)
		return nil, []v1alpha1.Diagnostic{*diagnostic}
	}
	client, err := l.clients.NewClient(binding.RepoURL(), checkout)
	if err != nil {
		return nil, []v1alpha1.Diagnostic{listingFailed(kind, binding, err)}
	}

	switch kind {
	case v1alpha1.RefKindBranch:
		return l.withFallback(ctx, logCtx, kind, binding, client,
			func() ([]string, error) { return client.LsBranches(binding.RemoteName) },
			func(refs []*plumbing.Reference) []string { return git.RemoteBranches(binding.RemoteName, refs) })
	case v1alpha1.RefKindTag:
		return l.withFallback(ctx, logCtx, kind, binding, client, client.LsTags, git.Tags)
	case v1alpha1.RefKindPullRequest:
		return l.withFallback(ctx, logCtx, kind, binding, client, client.LsPullRequests, git.PullRequests)
	case v1alpha1.RefKindRevision:
		return l.revisions(logCtx, binding, client, branch)
	}
	return nil, []v1alpha1.Diagnostic{listingFailed(kind, binding, fmt.Errorf("unknown reference kind '%s'", kind))}
}

// checkoutDir returns the directory the binding is checked out to, empty when there is no workspace
func checkoutDir(workspace, subDir string) (string, *v1alpha1.Diagnostic) {
	if workspace == "" {
		return "", nil
	}
	if subDir == "" {
		return workspace, nil
	}
	dir, err := securejoin.SecureJoin(workspace, subDir)
	if err != nil {
		return "", &v1alpha1.Diagnostic{
			Type:    v1alpha1.DiagnosticWorkspaceUnavailableWarning,
			Stage:   v1alpha1.StageWorkspace,
			Message: fmt.Sprintf("Checkout directory '%s' is not usable: %v", subDir, err),
		}
	}
	return dir, nil
}

func (l *Lister) withFallback(
	ctx context.Context,
	logCtx *log.Entry,
	kind v1alpha1.RefKind,
	binding v1alpha1.Binding,
	client git.Client,
	fromWorkspace func() ([]string, error),
	fromRefs func(refs []*plumbing.Reference) []string,
) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	if client.Root() != "" {
		names, err := fromWorkspace()
		if err == nil {
			return toEntries(names), nil
		}
		if !errors.Is(err, git.ErrWorkspaceUnavailable) {
			logCtx.Warnf("failed to list from workspace, listing remote instead: %v", err)
		} else {
			logCtx.Debugf("workspace unavailable, listing remote instead: %v", err)
		}
	}
	if l.remoteLimit != nil {
		if err := l.remoteLimit.Acquire(ctx, 1); err != nil {
			logCtx.Warnf("gave up waiting for a remote listing slot: %v", err)
			return nil, []v1alpha1.Diagnostic{listingFailed(kind, binding, err)}
		}
		defer l.remoteLimit.Release(1)
	}
	refs, err := client.LsRemote(ctx)
	if err != nil {
		logCtx.Warnf("failed to list remote: %v", err)
		return nil, []v1alpha1.Diagnostic{listingFailed(kind, binding, err)}
	}
	return toEntries(fromRefs(refs)), nil
}

func (l *Lister) revisions(logCtx *log.Entry, binding v1alpha1.Binding, client git.Client, branch string) ([]v1alpha1.RefEntry, []v1alpha1.Diagnostic) {
	if client.Root() == "" {
		return nil, []v1alpha1.Diagnostic{noCheckout(binding)}
	}
	revisions, err := client.LsRevisions(branch, l.maxRevisions)
	if errors.Is(err, git.ErrWorkspaceUnavailable) {
		logCtx.Debugf("no checkout to list revisions from: %v", err)
		return nil, []v1alpha1.Diagnostic{noCheckout(binding)}
	}
	if err != nil {
		logCtx.Warnf("failed to list revisions: %v", err)
		return nil, []v1alpha1.Diagnostic{listingFailed(v1alpha1.RefKindRevision, binding, err)}
	}
	entries := make([]v1alpha1.RefEntry, 0, len(revisions))
	for _, r := range revisions {
		entries = append(entries, v1alpha1.RefEntry{
			Value: r.Hash,
			Label: fmt.Sprintf("%s %s %s %s", git.ShortSHA(r.Hash), r.Date.Format(revisionDateFormat), r.Author, r.Subject()),
			Revision: &v1alpha1.RevisionInfo{
				Hash:    r.Hash,
				Date:    r.Date,
				Author:  r.Author,
				Subject: r.Subject(),
			},
		})
	}
	return entries, nil
}

func noCheckout(binding v1alpha1.Binding) v1alpha1.Diagnostic {
	return v1alpha1.Diagnostic{
		Type:    v1alpha1.DiagnosticWorkspaceUnavailableWarning,
		Stage:   v1alpha1.StageWorkspace,
		Message: fmt.Sprintf("No workspace holds a checkout of %s, a build must run first", binding.RepoURL()),
	}
}

func listingFailed(kind v1alpha1.RefKind, binding v1alpha1.Binding, err error) v1alpha1.Diagnostic {
	return v1alpha1.Diagnostic{
		Type:    v1alpha1.DiagnosticListingWarning,
		Stage:   v1alpha1.StageWorkspace,
		Message: fmt.Sprintf("Failed to list %s references of %s: %v", kind, binding.RepoURL(), err),
	}
}

func toEntries(names []string) []v1alpha1.RefEntry {
	entries := make([]v1alpha1.RefEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, v1alpha1.RefEntry{Value: name})
	}
	return entries
}
