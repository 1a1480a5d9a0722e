package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cmdInit() *cobra.Command {
	var fga string
	var fgaStore string

	c := &cobra.Command{
		Use:   "init",
		Short: "Create ~/.opabridge/config.yaml with the current endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{
				PolicyURI:   policyURI,
				BatchURI:    batchURI,
				FGAEndpoint: fga,
				FGAStoreID:  fgaStore,
			}
			if err := saveConfig(cfgPath, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote config: %s\n", cfgPath)
			return nil
		},
	}
	c.Flags().StringVar(&fga, "fga-endpoint", "", "OpenFGA endpoint URL for pdpsim (optional)")
	c.Flags().StringVar(&fgaStore, "fga-store", "", "OpenFGA store ID for pdpsim (optional)")
	return c
}
