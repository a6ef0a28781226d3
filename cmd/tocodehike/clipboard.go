package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists, per platform, the commands tried in order.
func clipboardTools(goos string) []clipboardTool {
	switch goos {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{{name: "clip"}}
	default:
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
			{name: "clip.exe"},
		}
	}
}

func runClipboardCommand(path string, args []string, data string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = strings.NewReader(data)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %s", path, msg)
		}
		return fmt.Errorf("%s failed: %w", path, err)
	}
	return nil
}

func copyToClipboard(data string) error {
	tools := clipboardTools(runtime.GOOS)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.name)
		if path, err := exec.LookPath(tool.name); err == nil {
			return runClipboardCommand(path, tool.args, data)
		}
	}
	return fmt.Errorf("no clipboard utility found (tried %s)", strings.Join(names, ", "))
}

// osc52Sequence wraps data in an OSC 52 clipboard escape, with the
// passthrough envelope tmux and screen need.
func osc52Sequence(data string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	seq := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
	if os.Getenv("TMUX") != "" {
		return "\x1bPtmux;" + seq + "\x1b\\"
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return "\x1bP" + seq + "\x1b\\"
	}
	return seq
}

func copyToOSC52(w io.Writer, data string) error {
	if _, err := io.WriteString(w, osc52Sequence(data)); err != nil {
		return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
	}
	return nil
}
