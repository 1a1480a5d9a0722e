package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	output    string
	showCurl  bool
	policyURI string
	batchURI  string
	cfgPath   string
)

var rootCmd = &cobra.Command{
	Use:   "opabridge",
	Short: "Developer CLI for the OPA authorization bridge",
}

func Execute() error { return rootCmd.Execute() }

func init() {
	home, _ := os.UserHomeDir()
	defaultCfg := filepath.Join(home, ".opabridge", "config.yaml")

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&showCurl, "show-curl", false, "print equivalent curl for networked commands")
	rootCmd.PersistentFlags().StringVar(&policyURI, "policy-uri", "http://localhost:8181/v1/data/trino/allow", "single-decision policy endpoint")
	rootCmd.PersistentFlags().StringVar(&batchURI, "batch-uri", "http://localhost:8181/v1/data/trino/batch", "batch policy endpoint")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "config file path")

	// Wire top level groups
	rootCmd.AddCommand(cmdInit(), cmdCheck(), cmdFilter(), cmdServe(), cmdVersion())

	// Friendly hint on no args
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "Show help",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().Help()
		},
	})
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Println("Use -h for help, for example: opabridge check --user alice --operation SelectFromColumns --catalog mycat --schema sales --table orders")
	}
}
