package vcsurl

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// define allows schemes: http, https and ssh
var validSchemes = []string{"http", "https", "ssh"}

var scpLikeURL = regexp.MustCompile(`^git@([^:]+)\:(.*)$`)

// ErrNotBitbucketServer is returned for URLs without a Bitbucket Server repository path.
var ErrNotBitbucketServer = errors.New("not a Bitbucket Server repository URL")

// function to check whether the scheme is valid
func isValidScheme(scheme string) bool {
	for _, validScheme := range validSchemes {
		if scheme == validScheme {
			return true
		}
	}
	return false
}

// VCSURL represents a parsed Bitbucket Server clone or web URL.
type VCSURL struct {
	Namespace  string
	Repository string
	Host       string
	Raw        string
}

// GetPathDirs splits a URL path into its non-empty segments.
func GetPathDirs(p string) []string {
	var dirs []string
	for _, d := range strings.Split(strings.Trim(p, "/"), "/") {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// ParseBitbucketServer handles the Bitbucket Server layouts
// "projects/<project>/repos/<repo>" and "scm/<project>/<repo>", which
// generic clone URL parsers read as a deeper namespace. Any other URL
// yields ErrNotBitbucketServer.
func ParseBitbucketServer(raw string) (*VCSURL, error) {
	vcsURL := VCSURL{Raw: raw}

	// preparse special type of URLs like "git@<host>:<path>"
	rawURL := strings.TrimSpace(raw)
	if parts := scpLikeURL.FindStringSubmatch(rawURL); len(parts) == 3 {
		rawURL = fmt.Sprintf("ssh://%s/%s", parts[1], parts[2])
	}

	// strip .git suffix from the URL
	rawURL = strings.TrimSuffix(rawURL, ".git")

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, err
	}
	if !isValidScheme(parsedURL.Scheme) {
		return nil, fmt.Errorf("invalid scheme: %s", raw)
	}
	vcsURL.Host = parsedURL.Hostname()

	pathDirs := GetPathDirs(parsedURL.Path)
	switch {
	case len(pathDirs) > 3 && pathDirs[0] == "projects" && pathDirs[2] == "repos":
		// Bitbucket Web UI format - https://bitbucket.com/projects/<project_name>/repos/<repo_name>/browse
		vcsURL.Namespace, vcsURL.Repository = pathDirs[1], pathDirs[3]
	case len(pathDirs) == 3 && pathDirs[0] == "scm":
		// Bitbucket SCM path - https://bitbucket.com/scm/<project_name>/<repo_name>.git
		vcsURL.Namespace, vcsURL.Repository = pathDirs[1], pathDirs[2]
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotBitbucketServer, raw)
	}
	return &vcsURL, nil
}
