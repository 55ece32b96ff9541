package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/stemsi/academic-backend/pkg/model"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatUpper
	return t
}

func entityTable[E model.Entity[E]](items []E, withEmail bool) table.Writer {
	t := newTable()
	header := table.Row{"UUID", "NAME"}
	if withEmail {
		header = append(header, "EMAIL")
	}
	t.AppendHeader(header)

	for _, e := range items {
		row := table.Row{e.Base().UUID, e.Base().Name}
		if withEmail {
			row = append(row, model.NewRequest(e).EmailAddress)
		}
		t.AppendRow(row)
	}
	return t
}

// render prints v as indented JSON when --json is set, otherwise the table.
func (a *app) render(cmd *cobra.Command, v any, t table.Writer) error {
	out := cmd.OutOrStdout()
	if a.v.GetBool(cfgKeyJSON) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if t.Length() == 0 {
		fmt.Fprintln(out, text.FgYellow.Sprint("No items found"))
		return nil
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
