package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env in the working directory, matching local dev setups.
	_ = godotenv.Load()

	root := cobra.Command{
		Use:   "usagedeck",
		Short: "UsageDeck aggregates LLM API usage and spend behind one dashboard.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCommand(),
		newTopCommand(),
		newHashPasswordCommand(),
		newServiceCommand(),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
