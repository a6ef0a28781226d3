package tracked

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// GitExec runs `git ls-files -z` in the directory.
type GitExec struct {
	// Git is the executable to run; "git" when empty.
	Git string
}

func (g GitExec) List(dir string) ([]string, error) {
	name := g.Git
	if name == "" {
		name = "git"
	}
	cmd := exec.Command(name, "ls-files", "-z")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		if msg != "" {
			return nil, fmt.Errorf("%s ls-files failed in %s: %s", name, dir, msg)
		}
		return nil, fmt.Errorf("%s ls-files failed in %s: %w", name, dir, err)
	}
	return normalize(strings.Split(stdout.String(), "\x00")), nil
}
