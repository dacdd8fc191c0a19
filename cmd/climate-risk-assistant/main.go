// Package main is the entry point for the climate-risk-assistant service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "climate-risk-assistant"

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Role-aware climate risk reports with retrieved safety guidance",
	Long: `climate-risk-assistant scores heat, flood and air-quality risk for a point
and a user role, compares it with the surrounding area and attaches safety
guidance retrieved from a knowledge base.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
