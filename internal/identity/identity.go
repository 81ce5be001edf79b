// Package identity derives stable keys and UUIDs for the analysed project
// and its components, so that consecutive analyses of the same code agree
// on who is who.
package identity

import (
	"path"
	"path/filepath"
	"strings"

	govcsurl "github.com/gitsight/go-vcsurl"
	"github.com/google/uuid"

	"github.com/scan-io-git/scanio-tracker/internal/git"
	"github.com/scan-io-git/scanio-tracker/pkg/shared/vcsurl"
	"github.com/scan-io-git/scanio-tracker/pkg/tracking"
)

// namespace scopes every name-based UUID produced here.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/scan-io-git/scanio-tracker"))

// UUIDForKey returns the name-based UUID of a component or project key.
func UUIDForKey(key string) string {
	return uuid.NewSHA1(namespace, []byte(key)).String()
}

// ComponentKey builds the key of a component located at a repo-relative
// path. Absolute paths keep their leading slash.
func ComponentKey(projectKey, path string) string {
	path = strings.TrimSuffix(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return projectKey
	}
	return projectKey + ":" + path
}

// ResolveProject picks the project key, in order: the explicit key, the
// "namespace:repository" pair of the origin URL, the name of the source
// folder.
func ResolveProject(explicitKey string, md *git.RepositoryMetadata, sourceFolder string) tracking.ProjectIdentity {
	key := strings.TrimSpace(explicitKey)
	if key == "" && md != nil && md.OriginURL != nil {
		key = keyFromOriginURL(*md.OriginURL)
	}
	if key == "" {
		folder := sourceFolder
		if md != nil && md.RepoRootFolder != "" {
			folder = md.RepoRootFolder
		}
		if abs, err := filepath.Abs(folder); err == nil {
			folder = abs
		}
		key = filepath.Base(folder)
	}
	return tracking.ProjectIdentity{
		UUID: UUIDForKey(key),
		Key:  key,
	}
}

// keyFromOriginURL turns a clone URL into "namespace:repository", or ""
// when the URL names no repository.
func keyFromOriginURL(origin string) string {
	origin = strings.TrimSpace(origin)
	if repo, err := vcsurl.ParseBitbucketServer(origin); err == nil {
		return repo.Namespace + ":" + repo.Repository
	}

	info, err := govcsurl.Parse(origin)
	if err != nil || info.Host == "" {
		return ""
	}
	fullName := strings.Trim(info.FullName, "/")
	namespace := info.Username
	if namespace == "" {
		namespace = path.Dir(fullName)
	}
	name := strings.TrimSuffix(path.Base(fullName), ".git")
	if info.Username != "" {
		name = info.Name
	}
	if namespace == "" || namespace == "." || name == "" || name == "." {
		return ""
	}
	return namespace + ":" + name
}
