package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agusx1211/tocodehike/internal/lang"
	"github.com/agusx1211/tocodehike/internal/markup"
	"github.com/agusx1211/tocodehike/internal/walkthrough"
)

func newDiffFilesCmd(s *session) *cobra.Command {
	var filename, language, comment string
	cmd := &cobra.Command{
		Use:   "diff-files <file1> <file2>",
		Short: "Render the diff of two files as one annotated code block",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.ran = true
			if len(args) != 2 {
				s.log.Error().Int("args", len(args)).Msg("diff-files needs exactly two files")
				return nil
			}
			o := lang.Overrides{Filename: filename, Lang: language, Comment: comment}
			r := markup.NewRenderer(&s.doc, markup.ModeNormal)
			r.Registry = s.settings.registry()
			r.Context = s.settings.context
			err := r.Diff(args[0], args[1], o)
			if markup.IsInputError(err) {
				s.log.Error().Err(err).Msg("cannot diff files")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&filename, "filename", "f", "", "File name shown in the code block header")
	cmd.Flags().StringVarP(&language, "lang", "l", "python", "Language tag of the code block")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Comment prefix written before the annotations")
	return cmd
}

func newDiffDirsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "diff-dirs <dir1> <dir2>",
		Short: "Render one walkthrough step from two snapshot directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.ran = true
			if len(args) != 2 {
				s.log.Error().Int("args", len(args)).Msg("diff-dirs needs exactly two directories")
				return nil
			}
			c, err := s.comparer(markup.ModeNormal)
			if err != nil {
				return err
			}
			return c.Compare(args[0], args[1])
		},
	}
}

func newChainDirsCmd(s *session) *cobra.Command {
	var scrolly bool
	cmd := &cobra.Command{
		Use:   "chain-dirs <dir1> <dir2> [dirN...]",
		Short: "Render a walkthrough step for every pair of consecutive directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.ran = true
			mode := markup.ModeNormal
			if scrolly {
				mode = markup.ModeScrolly
			}
			c, err := s.comparer(mode)
			if err != nil {
				return err
			}
			err = c.Chain(args)
			if errors.Is(err, walkthrough.ErrInsufficientInput) {
				s.log.Error().Msg("At least two directories are required for comparison.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&scrolly, "scrolly", "s", false, "Emit scrollycoding markup")
	return cmd
}

func newConfigCmd(s *session) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or set the default output mode stored in ~/" + projectFileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				mode, err := readHomeDefaultOutputMode()
				if err != nil {
					return err
				}
				if mode == "" {
					mode = outputModePrint
				}
				fmt.Fprintf(cmd.OutOrStdout(), "output: %s\n", mode)
				return nil
			}
			if err := writeHomeDefaultOutputMode(output); err != nil {
				return err
			}
			s.log.Info().Str("output", output).Msg("default output mode saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Default output mode: print, copy, or ssh-copy")
	return cmd
}
