package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/bcnw/spendboard/pkg/categorize"
	"github.com/bcnw/spendboard/pkg/config"
	"github.com/bcnw/spendboard/pkg/dataset"
	"github.com/bcnw/spendboard/pkg/parser"
	"github.com/bcnw/spendboard/pkg/server"
	"github.com/bcnw/spendboard/pkg/service"
	"github.com/bcnw/spendboard/pkg/store"
)

var cfgFile string

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "spendboard",
	})
}

func newCategorizer(cfg *config.Config) (*categorize.Categorizer, error) {
	if cfg.RulesFile != "" {
		return categorize.Load(cfg.RulesFile)
	}
	return categorize.New(), nil
}

var rootCmd = &cobra.Command{
	Use:   "spendboard",
	Short: "Bank statement ingestion and spending dashboard backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <statement.xlsx>",
	Short: "Ingest a bank statement export, replacing the stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		ctx := context.Background()
		st, err := store.Open(ctx, cfg.DSN(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		processor := service.NewProcessor(parser.New(logger, cfg.SkipRows), st, logger)
		transactions, err := processor.Ingest(ctx, args[0])
		if err != nil {
			return err
		}

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			pp.Println(transactions)
		}

		fmt.Printf("Ingested %d transactions from %s\n", len(transactions), args[0])
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON/CSV API over the ingested dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		st, err := store.Open(context.Background(), cfg.DSN(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		categorizer, err := newCategorizer(cfg)
		if err != nil {
			return err
		}

		return server.New(st, categorizer, logger).Start(cfg.ServerAddr)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a spending summary to the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		ctx := context.Background()
		st, err := store.Open(ctx, cfg.DSN(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		transactions, err := st.FetchAll(ctx)
		if err != nil {
			return err
		}

		categorizer, err := newCategorizer(cfg)
		if err != nil {
			return err
		}

		month, _ := cmd.Flags().GetString("month")
		printReport(dataset.New(transactions, categorizer), month)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (optional, env vars work without one)")
	rootCmd.PersistentFlags().String("rules", "", "Category rules YAML file (default: built-in rules)")

	ingestCmd.Flags().Int("skip-rows", parser.DefaultSkipRows, "Leading non-data rows to skip in the export")
	ingestCmd.Flags().Bool("debug", false, "Pretty-print the parsed transactions")

	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")

	reportCmd.Flags().String("month", dataset.MonthAll, "Month-year filter (YYYY-MM, or All)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
