package lister

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/git"
	"github.com/pola/git-parameter-plugin/util/git/mocks"
)

const repoURL = "https://github.com/jenkinsci/git-parameter-plugin.git"

var binding = v1alpha1.Binding{URL: repoURL, ResolvedURL: repoURL, RemoteName: "origin"}

func newMockLister(t *testing.T, root string) (*Lister, *mocks.Client) {
	t.Helper()
	client := &mocks.Client{}
	client.On("Root").Return(root)
	factory := &mocks.ClientFactory{}
	factory.On("NewClient", repoURL, root).Return(client, nil)
	t.Cleanup(func() {
		factory.AssertExpectations(t)
		client.AssertExpectations(t)
	})
	return NewLister(factory, 0), client
}

func values(entries []v1alpha1.RefEntry) []string {
	var vals []string
	for _, e := range entries {
		vals = append(vals, e.Value)
	}
	return vals
}

func TestList_BranchesFromWorkspace(t *testing.T) {
	lister, client := newMockLister(t, "/ws")
	client.On("LsBranches", "origin").Return([]string{"origin/dev", "origin/master"}, nil)

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindBranch, binding, "/ws", "")
	assert.Empty(t, diagnostics)
	assert.Equal(t, []string{"origin/dev", "origin/master"}, values(entries))
	client.AssertNotCalled(t, "LsRemote", mock.Anything)
}

func TestList_RemoteFallback(t *testing.T) {
	hash := plumbing.NewHash("9d921f65f3c5373b682e2eb4b37afba6592e8f8b")
	refs := []*plumbing.Reference{
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), hash),
		plumbing.NewHashReference(plumbing.NewTagReferenceName("0.1"), hash),
		plumbing.NewHashReference("refs/pull/41/head", hash),
	}

	t.Run("no workspace", func(t *testing.T) {
		lister, client := newMockLister(t, "")
		client.On("LsRemote", mock.Anything).Return(refs, nil)

		entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindBranch, binding, "", "")
		assert.Empty(t, diagnostics)
		assert.Equal(t, []string{"origin/master"}, values(entries))
		client.AssertNotCalled(t, "LsBranches", mock.Anything)
	})
	t.Run("workspace is not a repository", func(t *testing.T) {
		lister, client := newMockLister(t, "/ws")
		client.On("LsTags").Return(nil, git.ErrWorkspaceUnavailable)
		client.On("LsRemote", mock.Anything).Return(refs, nil)

		entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindTag, binding, "/ws", "")
		assert.Empty(t, diagnostics)
		assert.Equal(t, []string{"0.1"}, values(entries))
	})
	t.Run("pull requests", func(t *testing.T) {
		lister, client := newMockLister(t, "")
		client.On("LsRemote", mock.Anything).Return(refs, nil)

		entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindPullRequest, binding, "", "")
		assert.Empty(t, diagnostics)
		assert.Equal(t, []string{"41"}, values(entries))
	})
}

func TestList_BothFail(t *testing.T) {
	lister, client := newMockLister(t, "/ws")
	client.On("LsBranches", "origin").Return(nil, errors.New("index is locked"))
	client.On("LsRemote", mock.Anything).Return(nil, errors.New("connection refused"))

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindBranch, binding, "/ws", "")
	assert.Empty(t, entries)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticListingWarning, diagnostics[0].Type)
	assert.Equal(t, v1alpha1.StageWorkspace, diagnostics[0].Stage)
	assert.Contains(t, diagnostics[0].Message, "connection refused")
}

func TestList_RevisionsNeedWorkspace(t *testing.T) {
	lister, client := newMockLister(t, "")

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindRevision, binding, "", "")
	assert.Empty(t, entries)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticWorkspaceUnavailableWarning, diagnostics[0].Type)
	assert.Contains(t, diagnostics[0].Message, "a build must run first")
	client.AssertNotCalled(t, "LsRemote", mock.Anything)
	client.AssertNotCalled(t, "LsRevisions", mock.Anything, mock.Anything)
}

func TestList_RevisionsFromWorkspace(t *testing.T) {
	lister, client := newMockLister(t, "/ws")
	date := time.Date(2012, 2, 21, 3, 58, 0, 0, time.UTC)
	client.On("LsRevisions", "master", 1000).Return([]*git.RevisionMetadata{{
		Hash:    "00a8385cba1e4e32cf823775e2b3dbe5eb27931d",
		Author:  "Łukasz Miłkowski",
		Date:    date,
		Message: "[maven-release-plugin] prepare release git-parameter-0.2\n\nbody",
	}}, nil)

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindRevision, binding, "/ws", "master")
	assert.Empty(t, diagnostics)
	require.Len(t, entries, 1)
	assert.Equal(t, "00a8385cba1e4e32cf823775e2b3dbe5eb27931d", entries[0].Value)
	assert.Equal(t, "00a8385c 2012-02-21 03:58 Łukasz Miłkowski [maven-release-plugin] prepare release git-parameter-0.2", entries[0].Label)
	require.NotNil(t, entries[0].Revision)
	assert.Equal(t, date, entries[0].Revision.Date)
}

func TestList_RevisionsFailure(t *testing.T) {
	lister, client := newMockLister(t, "/ws")
	client.On("LsRevisions", "", 1000).Return(nil, git.ErrWorkspaceUnavailable)

	_, diagnostics := lister.List(context.Background(), v1alpha1.RefKindRevision, binding, "/ws", "")
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticWorkspaceUnavailableWarning, diagnostics[0].Type)
}

func TestList_ClientError(t *testing.T) {
	factory := &mocks.ClientFactory{}
	factory.On("NewClient", repoURL, "").Return(nil, errors.New("boom"))
	lister := NewLister(factory, 10)

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindTag, binding, "", "")
	assert.Empty(t, entries)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticListingWarning, diagnostics[0].Type)
}

func TestList_SubDirectoryWorkspace(t *testing.T) {
	workspace := t.TempDir()
	repo, err := gogit.PlainInit(filepath.Join(workspace, "subDirectory"), false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	sig := &object.Signature{Name: "Jane Doe", Email: "jane@example.com", When: time.Now()}
	hash, err := wt.Commit("initial", &gogit.CommitOptions{Author: sig, AllowEmptyCommits: true})
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "master"), hash)))
	_, err = repo.CreateTag("git-parameter-0.2", hash, nil)
	require.NoError(t, err)

	lister := NewLister(git.NewFactory(), 0)
	sub := binding
	sub.SubDir = "subDirectory"

	entries, diagnostics := lister.List(context.Background(), v1alpha1.RefKindBranch, sub, workspace, "")
	assert.Empty(t, diagnostics)
	assert.Equal(t, []string{"origin/master"}, values(entries))

	entries, diagnostics = lister.List(context.Background(), v1alpha1.RefKindTag, sub, workspace, "")
	assert.Empty(t, diagnostics)
	assert.Equal(t, []string{"git-parameter-0.2"}, values(entries))

	entries, diagnostics = lister.List(context.Background(), v1alpha1.RefKindRevision, sub, workspace, "")
	assert.Empty(t, diagnostics)
	assert.Equal(t, []string{hash.String()}, values(entries))

	// the subdirectory cannot escape the workspace
	escaping := binding
	escaping.SubDir = "../../subDirectory"
	entries, diagnostics = lister.List(context.Background(), v1alpha1.RefKindRevision, escaping, filepath.Join(workspace, "a", "b"), "")
	assert.Empty(t, entries)
	require.Len(t, diagnostics, 1)
	assert.True(t, diagnostics[0].IsWarning())
}

func TestList_ParallelismLimit(t *testing.T) {
	lister, client := newMockLister(t, "")
	lister.WithParallelismLimit(1)
	require.NoError(t, lister.remoteLimit.Acquire(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries, diagnostics := lister.List(ctx, v1alpha1.RefKindTag, binding, "", "")
	assert.Empty(t, entries)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticListingWarning, diagnostics[0].Type)
	client.AssertNotCalled(t, "LsRemote", mock.Anything)

	lister.remoteLimit.Release(1)
	assert.Nil(t, lister.WithParallelismLimit(0).remoteLimit)
}
