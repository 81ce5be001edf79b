// Package ci provides helpers for discovering CI metadata.
package ci

import (
	"os"
	"strings"
)

// CIKind represents the type of CI.
type CIKind int

const (
	// CIUnknown indicates the CI provider could not be identified.
	CIUnknown CIKind = iota
	// CIGitHub identifies GitHub CI environments.
	CIGitHub
	// CIGitLab identifies GitLab CI environments.
	CIGitLab
	// CIBitbucket identifies Bitbucket CI environments.
	CIBitbucket
)

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// CIEnvironment captures the repository facts a CI job exposes.
type CIEnvironment struct {
	Kind          CIKind
	CommitHash    string
	ReferenceName string // ReferenceName is the short reference or branch name.
	Namespace     string // Namespace is the owner, group path or workspace.
	Repository    string // Repository is the repository slug without namespace.
	RepositoryURL string
}

// String returns the human-readable string representation of a CIKind.
func (c CIKind) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	case CIBitbucket:
		return "bitbucket"
	default:
		return "unknown"
	}
}

// Detect reads the CI environment of the current process.
func Detect() CIEnvironment {
	return detectWithLookup(os.Getenv)
}

func detectWithLookup(lookup LookupFunc) CIEnvironment {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch {
	case lookup("GITHUB_REPOSITORY") != "" || lookup("GITHUB_SHA") != "":
		return extractGitHubVariables(lookup)
	case strings.EqualFold(lookup("GITLAB_CI"), "true") || lookup("CI_PROJECT_PATH") != "":
		return extractGitLabVariables(lookup)
	case lookup("BITBUCKET_WORKSPACE") != "" || lookup("BITBUCKET_REPO_SLUG") != "":
		return extractBitbucketVariables(lookup)
	default:
		return CIEnvironment{Kind: CIUnknown}
	}
}

// ProjectKey returns "namespace:repository", or "" when either is unknown.
func (e CIEnvironment) ProjectKey() string {
	if e.Namespace == "" || e.Repository == "" {
		return ""
	}
	return e.Namespace + ":" + e.Repository
}

// extractGitHubVariables builds the CIEnvironment from GitHub-specific variables.
// See https://docs.github.com/en/actions/reference/workflows-and-actions/variables.
func extractGitHubVariables(lookup LookupFunc) CIEnvironment {
	fullName := lookup("GITHUB_REPOSITORY")
	namespace, repo := lookup("GITHUB_REPOSITORY_OWNER"), ""
	if i := strings.LastIndex(fullName, "/"); i >= 0 && i < len(fullName)-1 {
		repo = fullName[i+1:]
		if namespace == "" {
			namespace = fullName[:i]
		}
	}

	repoURL := ""
	if serverURL := lookup("GITHUB_SERVER_URL"); serverURL != "" && fullName != "" {
		repoURL = strings.TrimSuffix(serverURL, "/") + "/" + fullName
	}

	return CIEnvironment{
		Kind:          CIGitHub,
		CommitHash:    lookup("GITHUB_SHA"),
		ReferenceName: lookup("GITHUB_REF_NAME"),
		Namespace:     namespace,
		Repository:    repo,
		RepositoryURL: repoURL,
	}
}

// extractGitLabVariables builds the CIEnvironment from GitLab-specific variables.
// See https://docs.gitlab.com/ci/variables/predefined_variables/.
func extractGitLabVariables(lookup LookupFunc) CIEnvironment {
	refName := lookup("CI_COMMIT_TAG")
	if refName == "" {
		refName = lookup("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME")
	}
	if refName == "" {
		refName = lookup("CI_COMMIT_REF_NAME")
	}

	return CIEnvironment{
		Kind:          CIGitLab,
		CommitHash:    lookup("CI_COMMIT_SHA"),
		ReferenceName: refName,
		Namespace:     lookup("CI_PROJECT_NAMESPACE"),
		Repository:    lookup("CI_PROJECT_NAME"),
		RepositoryURL: lookup("CI_PROJECT_URL"),
	}
}

// extractBitbucketVariables builds the CIEnvironment from Bitbucket-specific variables.
// See https://support.atlassian.com/bitbucket-cloud/docs/variables-and-secrets/.
func extractBitbucketVariables(lookup LookupFunc) CIEnvironment {
	refName := lookup("BITBUCKET_TAG")
	if refName == "" {
		refName = lookup("BITBUCKET_BRANCH")
	}

	return CIEnvironment{
		Kind:          CIBitbucket,
		CommitHash:    lookup("BITBUCKET_COMMIT"),
		ReferenceName: refName,
		Namespace:     lookup("BITBUCKET_WORKSPACE"),
		Repository:    lookup("BITBUCKET_REPO_SLUG"),
		RepositoryURL: lookup("BITBUCKET_GIT_HTTP_ORIGIN"),
	}
}
