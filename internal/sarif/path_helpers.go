package sarif

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/scanio-tracker/internal/git"
)

// NormalisedSubfolder extracts and normalizes the subfolder from repository metadata.
// It returns the subfolder path with forward slashes and no leading/trailing slashes.
func NormalisedSubfolder(md *git.RepositoryMetadata) string {
	if md == nil {
		return ""
	}
	sub := strings.Trim(md.Subfolder, "/\\")
	return strings.ReplaceAll(sub, "\\", "/")
}

// PathWithin checks if a path is within another path (root).
// Returns true if path is within root, or if root is empty.
func PathWithin(path, root string) bool {
	if root == "" {
		return true
	}
	cleanPath, err1 := filepath.Abs(path)
	cleanRoot, err2 := filepath.Abs(root)
	if err1 != nil || err2 != nil {
		cleanPath = filepath.Clean(path)
		cleanRoot = filepath.Clean(root)
	}
	if cleanPath == cleanRoot {
		return true
	}
	return strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator))
}

// cleanArtifactURI turns a SARIF artifact URI into a cleaned host OS path.
// Percent-escapes are decoded. "file://rel/path" written by some tools is
// read as a relative path; values that are not URIs are kept as they are.
func cleanArtifactURI(rawURI string) string {
	uri := strings.TrimSpace(rawURI)
	if parsed, err := url.Parse(uri); err == nil && (parsed.Scheme == "" || parsed.Scheme == "file") {
		p := parsed.Path
		if parsed.Scheme == "file" && parsed.Host != "" && parsed.Host != "localhost" {
			p = parsed.Host + p
		}
		if p != "" {
			uri = p
		}
	} else {
		uri = strings.TrimPrefix(uri, "file://")
	}
	return filepath.Clean(filepath.FromSlash(uri))
}

func absOrClean(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// LocalPath resolves a SARIF artifact URI to a file on disk. Relative URIs
// are tried against the repository root, the scanned subfolder and the
// source folder, in that order; the first existing candidate inside the
// repository wins, otherwise the first candidate is returned.
func LocalPath(rawURI string, md *git.RepositoryMetadata, sourceFolder string) string {
	cleanURI := cleanArtifactURI(rawURI)
	if filepath.IsAbs(cleanURI) {
		return cleanURI
	}

	var repoRoot string
	if md != nil {
		repoRoot = absOrClean(md.RepoRootFolder)
	}

	var bases []string
	seen := map[string]struct{}{}
	addBase := func(base string) {
		if base == "" {
			return
		}
		base = absOrClean(base)
		if _, ok := seen[base]; ok {
			return
		}
		seen[base] = struct{}{}
		bases = append(bases, base)
	}
	addBase(repoRoot)
	if sub := NormalisedSubfolder(md); repoRoot != "" && sub != "" {
		addBase(filepath.Join(repoRoot, filepath.FromSlash(sub)))
	}
	addBase(sourceFolder)

	for _, base := range bases {
		candidate := filepath.Join(base, cleanURI)
		if repoRoot != "" && !PathWithin(candidate, repoRoot) {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if len(bases) > 0 {
		return filepath.Join(bases[0], cleanURI)
	}
	return cleanURI
}

// RepoRelativePath returns the forward-slash path of localPath relative to
// the repository root, or to the source folder when outside the repository.
// Paths outside both stay absolute, so they never share a component with a
// relative path.
func RepoRelativePath(localPath string, md *git.RepositoryMetadata, sourceFolder string) string {
	var roots []string
	if md != nil && md.RepoRootFolder != "" {
		roots = append(roots, absOrClean(md.RepoRootFolder))
	}
	if sourceFolder != "" {
		roots = append(roots, absOrClean(sourceFolder))
	}

	for _, root := range roots {
		if !PathWithin(localPath, root) {
			continue
		}
		if rel, err := filepath.Rel(root, localPath); err == nil && rel != "." {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(localPath)
}
