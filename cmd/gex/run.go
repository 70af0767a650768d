package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"spx-gex/internal/pipeline"
	"spx-gex/internal/store"
	"spx-gex/internal/types"
)

func newRunCmd(load func() (*store.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Capture today's Total Gamma and append it to the log.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			sink, closeSink, err := openSink(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeSink()

			res, err := pipeline.New(cfg, openerFor(cfg), sink).Run(ctx)
			if err != nil {
				return err
			}
			printCapture(cmd.OutOrStdout(), *res.Record)
			return nil
		},
	}
}

func printCapture(w io.Writer, rec types.ExtractionRecord) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "[GEX] %s Total Gamma = %s (~%s USD)\n", rec.Symbol, rec.RawLabel, p.Sprintf("%d", rec.TotalGamma))
}
