package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"spx-gex/internal/gexlog"
	"spx-gex/internal/store"
)

func newHistoryCmd(load func() (*store.Config, error)) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent rows of the gamma log.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			header, rows, err := gexlog.Tail(cfg.LogPath(), limit)
			if err != nil {
				return err
			}
			if header == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no captures in %s\n", cfg.LogPath())
				return nil
			}
			renderTable(cmd.OutOrStdout(), header, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "rows to show (0 for all)")
	return cmd
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	hr := table.Row{}
	for _, h := range header {
		hr = append(hr, h)
	}
	t.AppendHeader(hr)
	for _, r := range rows {
		tr := make(table.Row, 0, len(r))
		for _, c := range r {
			tr = append(tr, c)
		}
		t.AppendRow(tr)
	}
	t.Render()
}
