package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"next-pos/repository"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and reach the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := repository.NewFrappeClient(cfg.DocStore.BaseURL, cfg.DocStore.APIKey, cfg.DocStore.APISecret, cfg.DocStore.Timeout)
		repo := repository.NewFrappeRepository(client, cfg.Company.Name, cfg.LookupLimit)

		start := time.Now()
		currencies, err := repo.ListCurrencies(cmd.Context())
		if err != nil {
			return fmt.Errorf("document store not reachable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s answered in %s (%d currencies)\n", cfg.DocStore.BaseURL, time.Since(start).Round(time.Millisecond), len(currencies))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
