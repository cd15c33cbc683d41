package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

// @title ML TI Incident Classifier API
// @version 0.1.0
// @description Classifies monitoring alerts as incidents with a pre-trained gradient-boosted tree model.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	rootCmd := &cobra.Command{
		Use:   "incident-classifier",
		Short: "Classifies monitoring alerts as incidents",
		Long: `incident-classifier serves a pre-trained gradient-boosted tree model behind POST /predict.

Alerts are one-hot encoded against the training category vocabulary into a
37-wide feature vector; an alert is an incident when the model probability is >= 0.75.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file (environment variables take precedence)")

	rootCmd.AddCommand(newServeCmd(), newVectorizeCmd(), newCheckCmd(), newHashKeyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
