package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"next-pos/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.Initialize(ctx, cfg)
		if err != nil {
			return err
		}

		log.Printf("Document store: %s (reads via %s)", cfg.DocStore.BaseURL, cfg.ReadBackend)
		log.Printf("Open a terminal: POST http://localhost:%s/pos/terminals", cfg.Port)
		return application.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// serve is also the default action
	rootCmd.RunE = serveCmd.RunE
}
