package mocks

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/mock"

	"github.com/pola/git-parameter-plugin/util/git"
)

type Client struct {
	mock.Mock
}

var _ git.Client = (*Client)(nil)

func (c *Client) Root() string {
	args := c.Called()
	return args.String(0)
}

func (c *Client) RepoURL() string {
	args := c.Called()
	return args.String(0)
}

func (c *Client) LsBranches(remote string) ([]string, error) {
	args := c.Called(remote)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), nil
}

func (c *Client) LsTags() ([]string, error) {
	args := c.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), nil
}

func (c *Client) LsRevisions(branch string, maxCount int) ([]*git.RevisionMetadata, error) {
	args := c.Called(branch, maxCount)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*git.RevisionMetadata), nil
}

func (c *Client) LsPullRequests() ([]string, error) {
	args := c.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), nil
}

func (c *Client) LsRemote(ctx context.Context) ([]*plumbing.Reference, error) {
	args := c.Called(ctx)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*plumbing.Reference), nil
}

// ClientFactory hands out clients keyed by repository URL
type ClientFactory struct {
	mock.Mock
}

var _ git.ClientFactory = (*ClientFactory)(nil)

func (f *ClientFactory) NewClient(repoURL string, root string) (git.Client, error) {
	args := f.Called(repoURL, root)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(git.Client), nil
}
