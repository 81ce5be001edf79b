package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepositoryMetadata describes the git checkout an analysis ran on.
type RepositoryMetadata struct {
	BranchName     *string
	CommitHash     *string
	OriginURL      *string
	Subfolder      string
	RepoRootFolder string
}

// CollectRepositoryMetadata opens the repository containing sourceFolder
// and collects its root folder, the subfolder of sourceFolder inside it,
// the current branch and commit, and the origin URL. When sourceFolder is
// not inside a git repository the returned metadata still carries the
// cleaned folder as RepoRootFolder alongside the error.
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RepoRootFolder: filepath.Clean(sourceFolder),
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}
	md.RepoRootFolder = filepath.Clean(repoRootFolder)

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(repoRootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}
		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			originURL := strings.TrimSuffix(cfg.URLs[0], ".git")
			md.OriginURL = &originURL
		}
	}

	return md, nil
}

// findGitRepositoryPath walks up from path until go-git can open a
// repository there.
func findGitRepositoryPath(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		if _, err := git.PlainOpen(current); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%q is not inside a git repository", path)
		}
		current = parent
	}
}
