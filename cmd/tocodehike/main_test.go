package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitChain(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "single command",
			args: []string{"diff-dirs", "a", "b"},
			want: [][]string{{"diff-dirs", "a", "b"}},
		},
		{
			name: "globals repeated",
			args: []string{"--copy", "-v", "diff-dirs", "a", "b", "diff-files", "-l", "js", "x", "y"},
			want: [][]string{
				{"--copy", "-v", "diff-dirs", "a", "b"},
				{"--copy", "-v", "diff-files", "-l", "js", "x", "y"},
			},
		},
		{
			name: "no command",
			args: []string{"--help"},
			want: [][]string{{"--help"}},
		},
		{
			name: "directory named like a command",
			args: []string{"diff-dirs", "config", "02", "diff-files", "a", "diff-dirs"},
			want: [][]string{{"diff-dirs", "config", "02"}, {"diff-files", "a", "diff-dirs"}},
		},
		{
			name: "flag value named like a command",
			args: []string{"-o", "config", "diff-files", "-l", "diff-dirs", "a", "b"},
			want: [][]string{{"-o", "config", "diff-files", "-l", "diff-dirs", "a", "b"}},
		},
		{
			name: "chain after two directories",
			args: []string{"chain-dirs", "-s", "config", "b", "c", "config", "--output", "copy"},
			want: [][]string{{"chain-dirs", "-s", "config", "b", "c"}, {"config", "--output", "copy"}},
		},
		{
			name: "bare config",
			args: []string{"config", "diff-dirs", "a", "b"},
			want: [][]string{{"config"}, {"diff-dirs", "a", "b"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitChain(tc.args)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitChain(%q) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// isolate points HOME and the working directory at empty temp dirs so no
// user configuration leaks into a run.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working dir: %v", err)
	}
	root := t.TempDir()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return root
}

func TestRunChainedCommands(t *testing.T) {
	root := isolate(t)
	writeTree(t, filepath.Join(root, "01"), map[string]string{
		"app.py": "x = 1\n",
		"old.py": "gone\n",
	})
	writeTree(t, filepath.Join(root, "02"), map[string]string{
		"app.py":           "x = 2\n",
		"app.py-readme.md": "## Change x\nWe bump x.\n",
	})
	writeTree(t, root, map[string]string{
		"a.txt": "a\n",
		"b.txt": "a\nb\n",
	})

	var stdout, stderr bytes.Buffer
	args := []string{
		"--print", "--lister", "walk",
		"chain-dirs", "01", "02",
		"diff-files", "-l", "js", "-f", "app.js", "a.txt", "b.txt",
	}
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}

	want := strings.Join([]string{
		"## step 02: Change x",
		"### 01 -> 02 - changes in app.py",
		"We bump x.",
		"```python app.py",
		"# !className separator",
		strings.Repeat(".", 30),
		"# !diff(1:1) -",
		"x = 1",
		"# !diff(1:1) +",
		"x = 2",
		"```",
		"",
		"```js app.js",
		"// !className separator",
		strings.Repeat(".", 30),
		"a",
		"// !diff(1:1) +",
		"b",
		"```",
		"",
	}, "\n") + "\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", stdout.String(), want)
	}
	if !strings.Contains(stderr.String(), "deleted file") {
		t.Fatalf("expected deletion diagnostic, got %s", stderr.String())
	}
}

func TestRunDirectoryNamedLikeCommand(t *testing.T) {
	root := isolate(t)
	writeTree(t, filepath.Join(root, "config"), map[string]string{"a.py": "1\n"})
	writeTree(t, filepath.Join(root, "02"), map[string]string{"a.py": "2\n"})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--print", "--lister", "walk", "diff-dirs", "config", "02"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "## step 02: config -> 02\n### config -> 02 - changes in a.py\n") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	root := isolate(t)
	writeTree(t, filepath.Join(root, "01"), map[string]string{"a.py": "1\n"})
	writeTree(t, filepath.Join(root, "02"), map[string]string{"a.py": "2\n"})

	out := filepath.Join(root, "walkthrough.md")
	var stdout, stderr bytes.Buffer
	args := []string{"--lister", "walk", "-o", out, "diff-dirs", "01", "02"}
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", stdout.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.HasPrefix(string(data), "## step 02: 01 -> 02\n### 01 -> 02 - changes in a.py\n") {
		t.Fatalf("unexpected output file:\n%s", data)
	}
}

func TestRunProjectFile(t *testing.T) {
	root := isolate(t)
	writeTree(t, root, map[string]string{
		projectFileName: "lister: walk\nexclude:\n  - \"*.md\"\nprofiles:\n  code:\n    exclude:\n      - docs/\n",
	})
	if err := os.Mkdir(filepath.Join(root, "01"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	writeTree(t, filepath.Join(root, "02"), map[string]string{
		"notes.md":    "hello\n",
		"docs/a.py":   "doc\n",
		"src/main.py": "print(1)\n",
	})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--print", "--profile", "code", "diff-dirs", "01", "02"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := stdout.String()
	if !strings.Contains(got, "### new in 02 - file main.py") {
		t.Fatalf("expected main.py section, got:\n%s", got)
	}
	if strings.Contains(got, "notes.md") || strings.Contains(got, "docs") || strings.Contains(got, "a.py") {
		t.Fatalf("excluded files rendered:\n%s", got)
	}

	if err := run([]string{"--profile", "missing", "diff-dirs", "01", "02"}, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestRunChainNeedsTwoDirectories(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"chain-dirs", "only"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no markdown, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "At least two directories are required for comparison.") {
		t.Fatalf("expected usage diagnostic, got %s", stderr.String())
	}
}

func TestRunMissingFileIsNotFatal(t *testing.T) {
	root := isolate(t)
	writeTree(t, root, map[string]string{"a.py": "a\n"})

	var stdout, stderr bytes.Buffer
	if err := run([]string{"diff-files", "a.py", "nope.py"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no markdown, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "nope.py") {
		t.Fatalf("expected diagnostic naming the missing file, got %s", stderr.String())
	}
}

func TestRunRejectsConflictingOutputFlags(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--print", "--copy", "diff-dirs", "a", "b"}, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for conflicting output flags")
	}
	if err := run([]string{"diff-dirs", "--bogus", "a", "b"}, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestRunConfigCommand(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	if err := run([]string{"config", "--output", "copy"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stdout.Reset()
	if err := run([]string{"config"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "output: copy\n" {
		t.Fatalf("unexpected config output %q", stdout.String())
	}
	if err := run([]string{"config", "--output", "fax"}, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
