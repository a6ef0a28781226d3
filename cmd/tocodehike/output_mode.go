package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	outputModePrint   = "print"
	outputModeCopy    = "copy"
	outputModeSSHCopy = "ssh-copy"
)

func normalizeOutputMode(mode string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case outputModePrint, "stdout":
		return outputModePrint, true
	case outputModeCopy, "clipboard":
		return outputModeCopy, true
	case outputModeSSHCopy, "sshcopy", "ssh", "osc52":
		return outputModeSSHCopy, true
	default:
		return "", false
	}
}

// resolveOutputMode picks the destination of the generated markdown: an
// explicit flag, else the configured default, else print.
func resolveOutputMode(defaultMode string, printFlag, copyFlag, sshFlag bool) (string, error) {
	selected := 0
	for _, set := range []bool{printFlag, copyFlag, sshFlag} {
		if set {
			selected++
		}
	}
	switch {
	case selected > 1:
		return "", fmt.Errorf("only one of --print, --copy, or --ssh-copy may be set")
	case printFlag:
		return outputModePrint, nil
	case copyFlag:
		return outputModeCopy, nil
	case sshFlag:
		return outputModeSSHCopy, nil
	case defaultMode == "":
		return outputModePrint, nil
	}
	return defaultMode, nil
}

func readDefaultOutputModeFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", nil
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	raw, ok := cfg["output"]
	if !ok {
		return "", nil
	}
	outputStr, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid output value in %s: expected string", path)
	}
	normalized, ok := normalizeOutputMode(outputStr)
	if !ok {
		return "", fmt.Errorf("invalid output mode %q in %s (expected print, copy, or ssh-copy)", outputStr, path)
	}
	return normalized, nil
}

func homeConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, projectFileName), nil
}

func readHomeDefaultOutputMode() (string, error) {
	path, err := homeConfigPath()
	if err != nil {
		return "", err
	}
	return readDefaultOutputModeFromFile(path)
}

// writeDefaultOutputModeToFile sets the output key of path, keeping every
// other key and the file's permissions.
func writeDefaultOutputModeToFile(path string, mode string) error {
	normalized, ok := normalizeOutputMode(mode)
	if !ok {
		return fmt.Errorf("invalid output mode %q (expected print, copy, or ssh-copy)", mode)
	}
	cfg := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	case !os.IsNotExist(err):
		return err
	}
	cfg["output"] = normalized

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, out, perm)
}

func writeHomeDefaultOutputMode(mode string) error {
	path, err := homeConfigPath()
	if err != nil {
		return err
	}
	return writeDefaultOutputModeToFile(path, mode)
}

// deliver sends the finished document to a file when outputPath is set,
// otherwise to the destination named by mode.
func deliver(doc string, mode string, outputPath string, stdout io.Writer) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		return nil
	}
	switch mode {
	case outputModeCopy:
		return copyToClipboard(doc)
	case outputModeSSHCopy:
		return copyToOSC52(stdout, doc)
	default:
		_, err := io.WriteString(stdout, doc)
		return err
	}
}
