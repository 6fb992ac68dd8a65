package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/config"
	"github.com/jengzang/crime-dashboard-go/internal/logger"
)

var (
	configPath string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "crime-dashboard",
	Short:         "Crime incident dashboard backend",
	Long:          "Serves aggregated crime statistics, charts, exports and crime category predictions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log, err = logger.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, predictCmd, statsCmd, exportCmd, tokenCmd)
}

// addFilterFlags registers the incident filter flags shared by stats and export
func addFilterFlags(cmd *cobra.Command, years *[]int, provinces, crimes *[]string) {
	cmd.Flags().IntSliceVar(years, "year", nil, "keep only these years")
	cmd.Flags().StringSliceVar(provinces, "province", nil, "keep only these provinces")
	cmd.Flags().StringSliceVar(crimes, "crime", nil, "keep only these crime types")
}
