package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/config"
)

func main() {
	if os.Getenv("SALESCOPE_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "salescope",
		Short: "Salescope is a terminal dashboard for exploring NYC property sales.",
		Run: func(_ *cobra.Command, _ []string) {
			runDashboard(cfg)
		},
	}

	root.AddCommand(newSummaryCommand(cfg))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
