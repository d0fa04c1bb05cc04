package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/usagedeck/internal/tui"
)

func newTopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Show live usage in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			// Keep the alternate screen clean unless debugging.
			if os.Getenv("USAGEDECK_DEBUG") != "" {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			return tui.Run(app.agg, app.providerConfigs, app.cfg.RefreshInterval)
		},
	}
}
