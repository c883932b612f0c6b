// Package vc reports the version-control state shown in the mode line.
package vc

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ModeLine returns the mode-line tag for a file under git, "Git-main" on a
// branch and "Git:1a2b3c4" on a detached head. Files outside a repository
// get "".
func ModeLine(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	gitDir, err := findGitDir(filepath.Dir(abs))
	if err != nil {
		return ""
	}
	head, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	if head.branch != "" {
		return "Git-" + head.branch
	}
	return "Git:" + head.commit
}

type headRef struct {
	branch string
	commit string
}

// findGitDir walks up from dir. A .git file (worktrees, submodules) points
// at the real directory with a "gitdir:" line.
func findGitDir(dir string) (string, error) {
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			return followGitFile(dir, gitPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("not a git repository")
		}
		dir = parent
	}
}

func followGitFile(dir, gitPath string) (string, error) {
	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", errors.New("malformed .git file")
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target, nil
}

func readHead(gitDir string) (headRef, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return headRef{}, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return headRef{}, errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		return headRef{branch: strings.TrimPrefix(strings.TrimSpace(ref), "refs/heads/")}, nil
	}
	if len(line) > 7 {
		line = line[:7]
	}
	return headRef{commit: line}, nil
}
