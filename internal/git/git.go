// Package git detects which source files changed since the last build,
// feeding the incremental pipeline's stale set.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// ChangedPaths runs git diff --name-only against baseRef and returns
// the touched paths, relative to the repository root.
func ChangedPaths(dir, baseRef string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", baseRef)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

// ChangedSources filters a diff down to the files a scan consumes.
func ChangedSources(dir, baseRef string) ([]string, error) {
	paths, err := ChangedPaths(dir, baseRef)
	if err != nil {
		return nil, err
	}
	var sources []string
	for _, p := range paths {
		if strings.HasSuffix(p, ".h") || strings.HasSuffix(p, ".gir") || strings.HasSuffix(p, ".c") {
			sources = append(sources, p)
		}
	}
	return sources, nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}
