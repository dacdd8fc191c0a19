package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/climate-risk-assistant/internal/config"
	"github.com/i474232898/climate-risk-assistant/internal/observability"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate one risk report and print it as JSON",
	Example: `  climate-risk-assistant report --lat 12.97 --lon 77.59 --role farmer
  PROVIDER_MODE=static DOCUMENT_STORE=sqlite climate-risk-assistant report --lat 0 --lon 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		role, _ := cmd.Flags().GetString("role")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

		d, err := buildDeps(cmd.Context(), cfg, log, nil)
		if err != nil {
			return err
		}
		defer d.close()

		r, err := d.service.Generate(cmd.Context(), weather.Coordinate{Lat: lat, Lon: lon}, risk.Role(role))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	},
}

func init() {
	reportCmd.Flags().Float64("lat", 0, "latitude in degrees")
	reportCmd.Flags().Float64("lon", 0, "longitude in degrees")
	reportCmd.Flags().String("role", string(risk.RoleUrban), "user role: urban, farmer, student or hospital")
	_ = reportCmd.MarkFlagRequired("lat")
	_ = reportCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(reportCmd)
}
