package commands

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-study-tracker/internal/util"
)

var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"subjects"},
	Short:   "Manage study subjects",
	Long: heredoc.Doc(`
		Each subject is one parquet file in the data directory. Renaming keeps
		the recorded samples; removing deletes them.
	`),
}

var subjectListCmd = &cobra.Command{
	Use:          "list",
	Aliases:      []string{"ls"},
	Short:        "List subjects with their total study time",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSubjectList,
}

var subjectAddCmd = &cobra.Command{
	Use:          "add <name>",
	Short:        "Create an empty subject",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSubjectAdd,
}

var subjectRemoveCmd = &cobra.Command{
	Use:          "remove <name>",
	Aliases:      []string{"rm"},
	Short:        "Delete a subject and its samples",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSubjectRemove,
}

var subjectRenameCmd = &cobra.Command{
	Use:          "rename <old> <new>",
	Aliases:      []string{"mv"},
	Short:        "Rename a subject",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runSubjectRename,
}

func init() {
	subjectCmd.AddCommand(subjectListCmd, subjectAddCmd, subjectRemoveCmd, subjectRenameCmd)
	rootCmd.AddCommand(subjectCmd)
}

func runSubjectList(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	names, err := env.store.ListSubjects()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No subjects yet, add one with 'go-study-tracker subject add <name>'")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	table := tablewriter.NewTable(out,
		tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
	)
	table.Header([]string{"Subject", "Hours", "Total"})
	for _, name := range names {
		samples, err := env.store.ReadSamples(ctx, name)
		if err != nil {
			return err
		}
		var total float64
		for _, s := range samples {
			total += s.StudiedSeconds
		}
		if err := table.Append([]string{name, fmt.Sprintf("%d", len(samples)), util.FormatSeconds(total)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runSubjectAdd(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if err := env.store.CreateSubject(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added subject %s\n", args[0])
	return nil
}

func runSubjectRemove(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if err := env.store.DeleteSubject(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed subject %s\n", args[0])
	return nil
}

func runSubjectRename(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd, debug)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if err := env.store.RenameSubject(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed subject %s to %s\n", args[0], args[1])
	return nil
}
