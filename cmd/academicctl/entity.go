package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stemsi/academic-backend/pkg/client"
	"github.com/stemsi/academic-backend/pkg/model"
)

// newKindCmd builds list/get/create/update/delete for one entity kind.
func newKindCmd[E model.Entity[E]](a *app, kind model.Kind[E], resource func(*client.Client) *client.Resource[E]) *cobra.Command {
	_, hasEmail := any(kind.New()).(model.RequestApplier)

	cmd := &cobra.Command{
		Use:   kind.Name,
		Short: fmt.Sprintf("Manage %s records", kind.Name),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List every %s", kind.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			items, err := resource(a.api()).List(ctx)
			if err != nil {
				return err
			}
			return a.render(cmd, items, entityTable(items, hasEmail))
		},
	}

	get := &cobra.Command{
		Use:   "get <uuid>",
		Short: fmt.Sprintf("Show one %s", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			e, err := resource(a.api()).Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, e, entityTable([]E{e}, hasEmail))
		},
	}

	var email string
	var testRun string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: fmt.Sprintf("Create a %s", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			e := kind.New()
			e.Base().Name = args[0]
			applyEmail(e, email)

			res := resource(a.api())
			var (
				out E
				err error
			)
			if testRun != "" {
				out, err = res.CreateForTesting(ctx, e, &model.TestRun{UUID: testRun})
			} else {
				out, err = res.Create(ctx, e)
			}
			if err != nil {
				return err
			}
			return a.render(cmd, out, entityTable([]E{out}, hasEmail))
		},
	}
	create.Flags().StringVar(&testRun, "test-run", "", "tag the record with this test run UUID")

	var version int
	update := &cobra.Command{
		Use:   "update <uuid> <name>",
		Short: fmt.Sprintf("Rename a %s", kind.Name),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			res := resource(a.api())
			e, err := res.Get(ctx, args[0])
			if err != nil {
				return err
			}
			e.Base().Name = args[1]
			e.Base().Version = version
			if cmd.Flags().Changed("email") {
				applyEmail(e, email)
			}

			out, err := res.Update(ctx, e)
			if err != nil {
				return err
			}
			return a.render(cmd, out, entityTable([]E{out}, hasEmail))
		},
	}
	update.Flags().IntVar(&version, "version", 0, "fail unless the stored version matches")

	del := &cobra.Command{
		Use:   "delete <uuid>",
		Short: fmt.Sprintf("Delete a %s", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			e := kind.New()
			e.Base().UUID = args[0]
			e.Base().Version = version
			if err := resource(a.api()).Delete(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind.Name, args[0])
			return nil
		},
	}
	del.Flags().IntVar(&version, "version", 0, "fail unless the stored version matches")

	if hasEmail {
		create.Flags().StringVar(&email, "email", "", "email address")
		update.Flags().StringVar(&email, "email", "", "email address")
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func applyEmail[E model.Entity[E]](e E, email string) {
	if a, ok := any(e).(model.RequestApplier); ok {
		a.ApplyRequest(model.ResourceRequest{EmailAddress: email})
	}
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout())
}
