// Command tocodehike writes the markdown of a CodeHike code walkthrough from
// successive snapshot directories of a project.
//
// For each pair of consecutive directories it emits one section per changed
// or added tracked file: a heading taken from the file's narrative
// (<file>-readme.md in the newer directory), then a fenced code block whose
// !diff annotations highlight what changed.
//
// Usage:
//
//	tocodehike chain-dirs --scrolly steps/01 steps/02 steps/03 > walkthrough.md
//	tocodehike diff-files -l js old/app.js new/app.js
//	tocodehike --copy diff-dirs steps/01 steps/02 diff-dirs steps/04 steps/05
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agusx1211/tocodehike/internal/markup"
	"github.com/agusx1211/tocodehike/internal/tracked"
	"github.com/agusx1211/tocodehike/internal/walkthrough"
)

var version = "dev"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	print       bool
	copy        bool
	sshCopy     bool
	output      string
	configPath  string
	profile     string
	lister      string
	context     int
	tcount      bool
	tcountModel string
	verbose     bool
}

// session collects the markdown of every command of one invocation, so a
// chained invocation produces a single document.
type session struct {
	stdout io.Writer
	stderr io.Writer

	flags    globalFlags
	mode     string
	settings *projectSettings
	log      zerolog.Logger
	doc      strings.Builder
	ran      bool
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	noColor := os.Getenv("NO_COLOR") != ""
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		noColor = true
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      noColor,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}).Level(level)
}

// setup runs before every subcommand: it builds the logger, resolves the
// output mode and loads the project file.
func (s *session) setup(cmd *cobra.Command, flags globalFlags) error {
	s.flags = flags
	s.log = newLogger(s.stderr, flags.verbose)

	homeMode, err := readHomeDefaultOutputMode()
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring default output mode")
		homeMode = ""
	}
	s.mode, err = resolveOutputMode(homeMode, flags.print, flags.copy, flags.sshCopy)
	if err != nil {
		return err
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = projectFileName
	}
	s.settings, err = readProjectFile(configPath, flags.profile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("context") {
		s.settings.context = flags.context
	}
	if cmd.Flags().Changed("lister") {
		s.settings.lister = flags.lister
	}
	return nil
}

func (s *session) comparer(mode markup.Mode) (*walkthrough.Comparer, error) {
	lister, err := tracked.NewLister(s.settings.lister)
	if err != nil {
		return nil, err
	}
	filter, err := s.settings.filter()
	if err != nil {
		return nil, err
	}
	return walkthrough.NewComparer(&s.doc, lister, s.log, walkthrough.Options{
		Mode:            mode,
		Registry:        s.settings.registry(),
		Context:         s.settings.context,
		NarrativeSuffix: s.settings.narrativeSuffix,
		Filter:          filter,
	}), nil
}

// finish delivers the document once every command has run.
func (s *session) finish() error {
	if !s.ran {
		return nil
	}
	doc := s.doc.String()
	if doc != "" {
		if err := deliver(doc, s.mode, s.flags.output, s.stdout); err != nil {
			return err
		}
		switch {
		case s.flags.output != "":
			s.log.Info().Str("path", s.flags.output).Msg("output written")
		case s.mode == outputModeCopy:
			s.log.Info().Msg("output copied to clipboard")
		}
	}
	if s.flags.tcount {
		report, err := buildTokenReport(doc, s.flags.tcountModel)
		if err != nil {
			return err
		}
		fmt.Fprint(s.stderr, report)
	}
	return nil
}

func newRootCmd(s *session) *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:   "tocodehike",
		Short: "Write a CodeHike walkthrough from successive project snapshots",
		Long: `tocodehike compares successive snapshot directories (typically the steps of a
tutorial, under git) and writes a markdown fragment for CodeHike: one section
per changed or new file, each with a fenced code block annotated with !diff
markers.

Subcommands can be chained in one invocation; global flags go first:

  tocodehike --copy diff-dirs 01 02 diff-files -l js a.js b.js

A subcommand name starts the next command only after the current one has
its required arguments. chain-dirs takes any number of directories, so a
directory named like a subcommand must not come third or later in its list.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd, flags)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.print, "print", false, "Print the markdown to stdout")
	pf.BoolVar(&flags.copy, "copy", false, "Copy the markdown to the clipboard")
	pf.BoolVar(&flags.sshCopy, "ssh-copy", false, "Copy the markdown to the local clipboard over SSH (OSC 52)")
	pf.StringVarP(&flags.output, "output", "o", "", "Write the markdown to this file")
	pf.StringVar(&flags.configPath, "config", "", "Project file (default ./"+projectFileName+")")
	pf.StringVarP(&flags.profile, "profile", "p", "", "Profile of the project file to apply")
	pf.StringVar(&flags.lister, "lister", tracked.BackendAuto, "Tracked file source: "+strings.Join(tracked.Backends, ", "))
	pf.IntVar(&flags.context, "context", markup.FullContext, "Unchanged lines kept around each change (-1 keeps whole files)")
	pf.BoolVar(&flags.tcount, "tcount", false, "Report token counts of the markdown on stderr")
	pf.StringVar(&flags.tcountModel, "tcount-model", defaultTokenModel, "Tokenizer model for --tcount")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose diagnostics")

	root.AddCommand(
		newDiffFilesCmd(s),
		newDiffDirsCmd(s),
		newChainDirsCmd(s),
		newConfigCmd(s),
	)
	return root
}

// commandArgs maps the words that start a new segment of a chained
// invocation to the positional arguments the segment needs before another
// subcommand name ends it.
var commandArgs = map[string]int{
	"diff-files": 2,
	"diff-dirs":  2,
	"chain-dirs": 2,
	"config":     0,
}

// valueFlags are the flags whose value is the next argument.
var valueFlags = map[string]bool{
	"-o": true, "--output": true,
	"--config": true,
	"-p": true, "--profile": true,
	"--lister":       true,
	"--context":      true,
	"--tcount-model": true,
	"-f": true, "--filename": true,
	"-l": true, "--lang": true,
	"-c": true, "--comment": true,
}

// splitChain cuts args into one argument list per subcommand. Arguments
// before the first subcommand are global flags and are repeated in front of
// every segment. A subcommand name only ends a segment once that segment has
// its positional arguments, so a directory may be called "config".
func splitChain(args []string) [][]string {
	var globals, current []string
	var segments [][]string
	need, positional := 0, 0
	flagValue := false
	for _, arg := range args {
		if n, ok := commandArgs[arg]; ok && !flagValue && (current == nil || positional >= need) {
			if current != nil {
				segments = append(segments, current)
			}
			current = append(append([]string{}, globals...), arg)
			need, positional = n, 0
			continue
		}

		switch {
		case flagValue:
			flagValue = false
		case valueFlags[arg]:
			flagValue = true
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			positional++
		}
		if current == nil {
			globals = append(globals, arg)
		} else {
			current = append(current, arg)
		}
	}
	if current == nil {
		return [][]string{args}
	}
	return append(segments, current)
}

func run(args []string, stdout, stderr io.Writer) error {
	s := &session{stdout: stdout, stderr: stderr}
	for _, segment := range splitChain(args) {
		root := newRootCmd(s)
		root.SetArgs(segment)
		root.SetOut(stdout)
		root.SetErr(stderr)
		if err := root.Execute(); err != nil {
			return err
		}
	}
	return s.finish()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
