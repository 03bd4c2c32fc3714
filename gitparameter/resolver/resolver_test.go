package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pola/git-parameter-plugin/gitparameter/jobs"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/env"
)

const (
	repoA = "https://github.com/jenkinsci/exampleA.git"
	repoB = "https://github.com/jenkinsci/exampleB.git"
)

func newView(environ env.Environ, urls ...string) *jobs.HostView {
	view := &jobs.HostView{Job: &v1alpha1.Job{Name: "job"}, Environment: environ}
	for _, url := range urls {
		view.Bindings = append(view.Bindings, v1alpha1.Binding{URL: url, RemoteName: "origin"})
	}
	return view
}

func resolvedURLs(bindings []v1alpha1.Binding) []string {
	var urls []string
	for _, b := range bindings {
		urls = append(urls, b.ResolvedURL)
	}
	return urls
}

func TestResolve_FirstBindingWithoutPattern(t *testing.T) {
	bindings, diagnostics, err := Resolve(newView(nil, repoA, repoB), "")
	require.NoError(t, err)
	assert.Empty(t, diagnostics)
	assert.Equal(t, []string{repoA}, resolvedURLs(bindings))

	bindings, _, err = Resolve(newView(nil, repoA, repoB), "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{repoA}, resolvedURLs(bindings))
}

func TestResolve_UseRepository(t *testing.T) {
	testData := []struct {
		pattern  string
		expected []string
	}{
		{".*exampleA.git", []string{repoA}},
		{".*exampleB.git", []string{repoB}},
		{"exampleB", []string{repoB}},
		{"jenkinsci", []string{repoA, repoB}},
	}
	for _, data := range testData {
		t.Run(data.pattern, func(t *testing.T) {
			bindings, diagnostics, err := Resolve(newView(nil, repoA, repoB), data.pattern)
			require.NoError(t, err)
			assert.Empty(t, diagnostics)
			assert.Equal(t, data.expected, resolvedURLs(bindings))
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	bindings, diagnostics, err := Resolve(newView(nil, repoA, repoB), "exampleC")
	require.NoError(t, err)
	assert.Empty(t, bindings)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, v1alpha1.DiagnosticNoRepositoryMatchWarning, diagnostics[0].Type)
	assert.Equal(t, v1alpha1.StageResolution, diagnostics[0].Stage)
	assert.Contains(t, diagnostics[0].Message, "exampleC")
}

func TestResolve_InvalidPattern(t *testing.T) {
	for _, pattern := range []string{"[*", ".**", "(unclosed"} {
		t.Run(pattern, func(t *testing.T) {
			bindings, _, err := Resolve(newView(nil, repoA), pattern)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			assert.Contains(t, err.Error(), pattern)
			assert.Empty(t, bindings)
		})
	}
}

func TestResolve_Substitution(t *testing.T) {
	environ := env.Environ{"GIT_REPO_URL": repoA, "HOST": "github.com"}

	bindings, diagnostics, err := Resolve(newView(environ, "${GIT_REPO_URL}"), "")
	require.NoError(t, err)
	assert.Empty(t, diagnostics)
	require.Len(t, bindings, 1)
	assert.Equal(t, repoA, bindings[0].ResolvedURL)
	assert.Equal(t, "${GIT_REPO_URL}", bindings[0].URL)

	bindings, _, err = Resolve(newView(environ, "https://$HOST/jenkinsci/exampleB.git"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{repoB}, resolvedURLs(bindings))
}

func TestResolve_DroppedBindings(t *testing.T) {
	t.Run("unresolved placeholder is skipped", func(t *testing.T) {
		bindings, diagnostics, err := Resolve(newView(nil, "${MISSING}", repoB), "")
		require.NoError(t, err)
		assert.Equal(t, []string{repoB}, resolvedURLs(bindings))
		require.Len(t, diagnostics, 1)
		assert.Equal(t, v1alpha1.DiagnosticUnresolvedRepositoryWarning, diagnostics[0].Type)
		assert.Contains(t, diagnostics[0].Message, "MISSING")
	})
	t.Run("blank URL is skipped", func(t *testing.T) {
		bindings, diagnostics, err := Resolve(newView(nil, "", repoB), ".*exampleB.git")
		require.NoError(t, err)
		assert.Equal(t, []string{repoB}, resolvedURLs(bindings))
		require.Len(t, diagnostics, 1)
		assert.True(t, diagnostics[0].IsWarning())
	})
	t.Run("nothing left", func(t *testing.T) {
		bindings, diagnostics, err := Resolve(newView(nil, "${MISSING}"), "")
		require.NoError(t, err)
		assert.Empty(t, bindings)
		require.Len(t, diagnostics, 2)
		assert.Equal(t, v1alpha1.DiagnosticNoRepositoryError, diagnostics[1].Type)
		assert.Equal(t, "No Git repository configured in SCM configuration or plugin is configured wrong", diagnostics[1].Message)
	})
}

func TestResolve_NoBindings(t *testing.T) {
	bindings, diagnostics, err := Resolve(newView(nil), "")
	require.NoError(t, err)
	assert.Empty(t, bindings)
	require.Len(t, diagnostics, 1)
	assert.True(t, diagnostics[0].IsError())

	_, diagnostics, err = Resolve(nil, "")
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
}
