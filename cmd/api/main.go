package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	serve := newServeCmd()
	root := &cobra.Command{
		Use:          "iaas-webhost",
		Short:        "IaaS web hosting demo: database status and blog posts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	root.AddCommand(serve, newCheckCmd())
	return root
}

// loadEnvFile loads variables from path without overriding ones already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
