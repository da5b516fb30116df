package main

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/coredoc/internal/service"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API with the background processing workers.

Requires COREDOC_API_KEY. Clients authenticate with "Authorization: Bearer <key>".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}
		log, err := service.NewLogger(cfg)
		if err != nil {
			return err
		}
		return service.Run(cmd.Context(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
