package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stemsi/academic-backend/pkg/model"
)

func newTestRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testrun",
		Short: "Manage test runs and the data tagged with them",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List test runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			runs, err := a.api().TestRuns.List(ctx)
			if err != nil {
				return err
			}
			return a.render(cmd, runs, testRunTable(runs))
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a test run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			run, err := a.api().TestRuns.Create(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, run, testRunTable([]*model.TestRun{run}))
		},
	}

	purge := &cobra.Command{
		Use:   "purge <uuid>",
		Short: "Delete a test run and everything tagged with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.api().TestRuns.Purge(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged test run %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, create, purge)
	return cmd
}

func testRunTable(runs []*model.TestRun) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"UUID", "NAME"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.UUID, r.Name})
	}
	return t
}
