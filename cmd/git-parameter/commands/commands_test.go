package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/git/mocks"
)

const (
	repoURL   = "https://github.com/jenkinsci/git-parameter-plugin.git"
	catalogue = `
jobs:
- name: folder/job1
  kind: FreeStyle
  scm:
    git:
      remotes:
      - url: ${GIT_REPO_URL}
  parameters:
  - git:
      name: BRANCH
      type: PT_BRANCH
      branchFilter: origin/(.*)
      defaultValue: master
      sortMode: DESCENDING
  - git:
      name: TAG
      type: PT_TAG
      required: true
- name: broken
  kind: FreeStyle
  parameters:
  - git:
      name: BRANCH
      type: PT_BRANCH
      branchFilter: "[*"
`
)

func newTestOptions(t *testing.T) *rootOptions {
	t.Helper()
	dir := t.TempDir()
	cataloguePath := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(cataloguePath, []byte(catalogue), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GIT_REPO_URL="+repoURL+"\n"), 0o600))

	hash := plumbing.NewHash("9d921f65f3c5373b682e2eb4b37afba6592e8f8b")
	client := &mocks.Client{}
	client.On("Root").Return("")
	client.On("LsRemote", mock.Anything).Return([]*plumbing.Reference{
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), hash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("dev"), hash),
	}, nil)
	factory := &mocks.ClientFactory{}
	factory.On("NewClient", repoURL, "").Return(client, nil)

	return &rootOptions{catalogue: cataloguePath, envFile: envFile, clientFactory: factory}
}

func execute(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs(args)
	err := command.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	opts := newTestOptions(t)

	out, err := execute(t, NewListCommand(opts), "folder/job1", "BRANCH", "-o", "json")
	require.NoError(t, err)
	var result v1alpha1.ResultSet
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"master", "dev"}, result.Values())

	out, err = execute(t, NewListCommand(opts), "folder/job1", "BRANCH")
	require.NoError(t, err)
	assert.Equal(t, []string{"master", "dev"}, strings.Fields(out))

	_, err = execute(t, NewListCommand(opts), "folder/job1", "MISSING")
	require.EqualError(t, err, "job 'folder/job1' has no git parameter 'MISSING'")
}

func TestListCommand_NoCatalogue(t *testing.T) {
	_, err := execute(t, NewListCommand(&rootOptions{}), "folder/job1", "BRANCH")
	require.ErrorContains(t, err, "a job catalogue is required")
}

func TestListCommand_UnresolvedURL(t *testing.T) {
	opts := newTestOptions(t)
	opts.envFile = ""
	t.Setenv("GIT_REPO_URL", "")

	out, err := execute(t, NewListCommand(opts), "folder/job1", "BRANCH", "-o", "json")
	require.NoError(t, err)
	var result v1alpha1.ResultSet
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"master"}, result.Values())
	assert.Equal(t, v1alpha1.DiagnosticDefaultValueInfo, result.Diagnostics[0].Type)
}

func TestValidateCommand(t *testing.T) {
	opts := newTestOptions(t)

	_, err := execute(t, NewValidateCommand(opts), "folder/job1")
	require.NoError(t, err)

	out, err := execute(t, NewValidateCommand(opts), "broken")
	require.EqualError(t, err, "job 'broken' has 1 invalid git parameter settings")
	assert.Contains(t, out, "branchFilter")
	assert.Contains(t, out, "ERROR")
}

func TestCreateValueCommand(t *testing.T) {
	opts := newTestOptions(t)

	out, err := execute(t, NewCreateValueCommand(opts), "folder/job1", "BRANCH", "dev")
	require.NoError(t, err)
	assert.Equal(t, "(GitParameterValue) BRANCH='dev'\n", out)

	out, err = execute(t, NewCreateValueCommand(opts), "folder/job1", "BRANCH")
	require.NoError(t, err)
	assert.Equal(t, "(GitParameterValue) BRANCH='master'\n", out)

	out, err = execute(t, NewCreateValueCommand(opts), "folder/job1", "BRANCH", "--payload", `{"name":"BRANCH","value":"dev"}`, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"BRANCH","value":"dev"}`, out)

	out, err = execute(t, NewCreateValueCommand(opts), "folder/job1", "TAG", "--form", "0.1", "--form", "0.2")
	require.NoError(t, err)
	assert.Equal(t, "(GitParameterValue) TAG='0.1'\n", out)
}

func TestServeHandler(t *testing.T) {
	opts := newTestOptions(t)
	set, err := opts.newServiceSet()
	require.NoError(t, err)
	handler := newServeHandler(set, opts)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))
		return rr
	}

	t.Run("values", func(t *testing.T) {
		rr := serve(http.MethodGet, "/api/v1/jobs/folder%2Fjob1/parameters/BRANCH/values", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var result v1alpha1.ResultSet
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, []string{"master", "dev"}, result.Values())
	})
	t.Run("unknown job", func(t *testing.T) {
		rr := serve(http.MethodGet, "/api/v1/jobs/missing/parameters/BRANCH/values", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"job 'missing' not found"}`, rr.Body.String())
	})
	t.Run("accepted value", func(t *testing.T) {
		rr := serve(http.MethodPost, "/api/v1/jobs/folder%2Fjob1/parameters/BRANCH/value", `{"name":"BRANCH","value":"dev"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"name":"BRANCH","value":"dev"}`, rr.Body.String())
	})
	t.Run("default value", func(t *testing.T) {
		rr := serve(http.MethodPost, "/api/v1/jobs/folder%2Fjob1/parameters/BRANCH/value", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"name":"BRANCH","value":"master"}`, rr.Body.String())
	})
	t.Run("rejected value", func(t *testing.T) {
		rr := serve(http.MethodPost, "/api/v1/jobs/folder%2Fjob1/parameters/TAG/value", `{"name":"TAG","value":" "}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		rr = serve(http.MethodPost, "/api/v1/jobs/folder%2Fjob1/parameters/TAG/value", `{"name":"BRANCH","value":"0.1"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
	t.Run("healthz", func(t *testing.T) {
		rr := serve(http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("metrics", func(t *testing.T) {
		rr := serve(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "git_parameter_resolution_total")
		assert.Contains(t, rr.Body.String(), `git_parameter_submission_total{state="Rejected"} 2`)
	})
}
