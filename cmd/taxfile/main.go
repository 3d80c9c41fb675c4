package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taxfile/taxfile/internal/calculation"
	"github.com/taxfile/taxfile/internal/config"
	"github.com/taxfile/taxfile/internal/domain"
	"github.com/taxfile/taxfile/internal/output"
	"github.com/taxfile/taxfile/internal/transform"
	"github.com/taxfile/taxfile/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taxfile",
	Short: "Simplified federal and NJ personal income tax calculator",
	Long:  "Computes simplified federal 1040 and NJ-1040 liabilities from taxpayer and W-2 records",
}

// loadConfig resolves the tax-year configuration: an explicit file wins,
// otherwise the built-in 2024 tables are used.
func loadConfig(path string) (domain.TaxYearConfig, error) {
	if path == "" {
		return config.Default2024(), nil
	}
	parser := config.NewInputParser()
	cfg, err := parser.LoadTaxYearConfig(path)
	if err != nil {
		return domain.TaxYearConfig{}, err
	}
	return *cfg, nil
}

var computeCmd = &cobra.Command{
	Use:   "compute [taxpayer-csv] [w2-csv]",
	Short: "Compute federal and NJ returns from intake CSVs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")
		dependentsPath, _ := cmd.Flags().GetString("dependents")
		sessionDir, _ := cmd.Flags().GetString("session-dir")

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		taxpayerRecords, err := transform.ReadRecords(args[0])
		if err != nil {
			return err
		}
		if len(taxpayerRecords) == 0 {
			return fmt.Errorf("no taxpayer rows in %s", args[0])
		}
		profile, err := transform.TaxpayerFromRecord(taxpayerRecords[0])
		if err != nil {
			return err
		}

		if dependentsPath != "" {
			depRecords, err := transform.ReadRecords(dependentsPath)
			if err != nil {
				return err
			}
			for _, rec := range depRecords {
				profile.Dependents = append(profile.Dependents, transform.DependentFromRecord(rec))
			}
		}

		w2Records, err := transform.ReadRecords(args[1])
		if err != nil {
			return err
		}
		w2s := make([]domain.WageStatement, 0, len(w2Records))
		for _, rec := range w2Records {
			w2s = append(w2s, transform.WageStatementFromRecord(rec))
		}

		fc := calculation.NewFederalCalculator(cfg)
		fc.Log = simpleCLILogger{}
		sc := calculation.NewStateCalculator(cfg)
		sc.Log = simpleCLILogger{}

		rep := &output.Report{
			TaxYear:  cfg.Year,
			Taxpayer: profile,
			W2s:      w2s,
			Federal:  fc.Compute(profile, w2s),
			State:    sc.Compute(profile, w2s),
		}

		if sessionDir != "" {
			dir, err := output.NewSessionWriter(sessionDir).Write(rep)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "session saved to %s\n", dir)
		}

		return output.NewReportGenerator().Generate(os.Stdout, rep, format)
	},
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Interactive terminal interview that builds and computes a return",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.NewModel(cfg, nil), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the computation engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		handler := newAPIHandler(cfg, logger)
		logger.Info("listening", zap.String("addr", addr), zap.Int("tax_year", cfg.Year))
		return http.ListenAndServe(addr, handler)
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxfile %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func main() {
	computeCmd.Flags().String("config", "", "tax-year configuration YAML (default: built-in 2024 tables)")
	computeCmd.Flags().String("format", "console", "output format: console, json, or csv")
	computeCmd.Flags().String("dependents", "", "optional dependents CSV")
	computeCmd.Flags().String("session-dir", "", "write an audit session under this directory")

	interviewCmd.Flags().String("config", "", "tax-year configuration YAML (default: built-in 2024 tables)")

	serveCmd.Flags().String("config", "", "tax-year configuration YAML (default: built-in 2024 tables)")
	serveCmd.Flags().String("addr", ":8080", "listen address")

	rootCmd.AddCommand(computeCmd, interviewCmd, serveCmd, versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
