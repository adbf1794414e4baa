package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; environment variables win when both exist
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gorca",
		Short: "Root-cause discovery over observational/interventional expression data",
	}

	rootCmd.AddCommand(
		newDiscoverCmd(),
		newSimulateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
