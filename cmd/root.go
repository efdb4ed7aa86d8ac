// Package cmd holds the command line entry points of the service
package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"next-pos/config"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "next-pos",
	Short: "Point-of-sale transaction engine for an ERPNext back office",
	Long: `next-pos keeps one cart and payment dialog per open point-of-sale screen,
prices the catalog in the sale currency and submits each sale to the
document store as a single Sales Invoice.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnvFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("POS_CONFIG"), "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded outside production")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnvFile loads the env file in development (ignores a missing file).
// In production, variables should be set directly.
func loadEnvFile() {
	if os.Getenv("ENV") == "production" {
		return
	}
	// Overload so the file wins over stale shell variables
	if err := godotenv.Overload(envFile); err != nil {
		log.Printf("Warning: %s not loaded, using system environment variables: %v", envFile, err)
		return
	}
	log.Printf("Successfully loaded environment variables from %s", envFile)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
