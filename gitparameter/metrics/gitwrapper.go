package metrics

import (
	"context"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/pola/git-parameter-plugin/util/git"
)

type gitClientWrapper struct {
	repo          string
	client        git.Client
	metricsServer *MetricsServer
}

var _ git.Client = (*gitClientWrapper)(nil)

func WrapGitClient(repo string, metricsServer *MetricsServer, client git.Client) git.Client {
	return &gitClientWrapper{repo: repo, client: client, metricsServer: metricsServer}
}

func (w *gitClientWrapper) observe(t GitRequestType, startTime time.Time) {
	w.metricsServer.IncGitRequest(w.repo, t)
	w.metricsServer.ObserveGitRequestDuration(w.repo, t, time.Since(startTime))
}

func (w *gitClientWrapper) Root() string {
	return w.client.Root()
}

func (w *gitClientWrapper) RepoURL() string {
	return w.client.RepoURL()
}

func (w *gitClientWrapper) LsBranches(remote string) ([]string, error) {
	defer w.observe(GitRequestTypeLsBranches, time.Now())
	return w.client.LsBranches(remote)
}

func (w *gitClientWrapper) LsTags() ([]string, error) {
	defer w.observe(GitRequestTypeLsTags, time.Now())
	return w.client.LsTags()
}

func (w *gitClientWrapper) LsRevisions(branch string, maxCount int) ([]*git.RevisionMetadata, error) {
	defer w.observe(GitRequestTypeLsRevisions, time.Now())
	return w.client.LsRevisions(branch, maxCount)
}

func (w *gitClientWrapper) LsPullRequests() ([]string, error) {
	defer w.observe(GitRequestTypeLsPullRequests, time.Now())
	return w.client.LsPullRequests()
}

func (w *gitClientWrapper) LsRemote(ctx context.Context) ([]*plumbing.Reference, error) {
	defer w.observe(GitRequestTypeLsRemote, time.Now())
	return w.client.LsRemote(ctx)
}
