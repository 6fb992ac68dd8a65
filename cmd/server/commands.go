package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jengzang/crime-dashboard-go/internal/app"
	"github.com/jengzang/crime-dashboard-go/internal/dataset"
	"github.com/jengzang/crime-dashboard-go/internal/features"
	"github.com/jengzang/crime-dashboard-go/internal/middleware"
	"github.com/jengzang/crime-dashboard-go/internal/models"
)

var (
	predictProvince string
	predictYear     int

	filterYears     []int
	filterProvinces []string
	filterCrimes    []string
	statsTop        int

	exportOut string

	tokenSubject string
	tokenTTL     time.Duration
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the crime category for a province and year",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.Build(cfg, log, nil)
		defer state.Close()

		p, err := state.Predictions.Predict(cmd.Context(), features.RawInput{Province: predictProvince, Year: predictYear})
		if err != nil {
			return err
		}
		return printJSON(cmd, p)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the headline statistics and top crime types",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.Build(cfg, log, nil)
		defer state.Close()

		filter := cliFilter()
		summary, err := state.Analytics.Summary(filter)
		if err != nil {
			return err
		}
		top, err := state.Analytics.Top(filter, models.ColumnCrimeDetail, statsTop)
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]interface{}{
			"summary":         summary,
			"top_crime_types": top,
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered incident table to a .csv or .xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOut)), ".")
		if format != dataset.FormatCSV && format != dataset.FormatXLSX {
			return fmt.Errorf("%w: --out must end in .csv or .xlsx", models.ErrInvalidInput)
		}

		state := app.Build(cfg, log, nil)
		defer state.Close()

		table, err := state.Analytics.Export(cliFilter())
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		if err := dataset.Write(f, table, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s rows to %s\n", humanize.Comma(int64(table.Len())), exportOut)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the prediction history endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictProvince, "province", "", "province to predict for")
	predictCmd.Flags().IntVar(&predictYear, "year", 0, "year to predict for")
	_ = predictCmd.MarkFlagRequired("province")
	_ = predictCmd.MarkFlagRequired("year")

	addFilterFlags(statsCmd, &filterYears, &filterProvinces, &filterCrimes)
	statsCmd.Flags().IntVar(&statsTop, "top", 0, "number of crime types to list (0 uses the configured default)")

	addFilterFlags(exportCmd, &filterYears, &filterProvinces, &filterCrimes)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (.csv or .xlsx)")
	_ = exportCmd.MarkFlagRequired("out")

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "analyst", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func cliFilter() models.IncidentFilter {
	return models.IncidentFilter{
		Years:      filterYears,
		Provinces:  filterProvinces,
		CrimeTypes: filterCrimes,
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
