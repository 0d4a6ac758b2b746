package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/observability/logger"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netpay %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "netpay",
	Short: "Korean payroll deduction calculator",
	Long: `Computes the monthly social insurance contributions, withholding income tax and
take-home pay of a Korean salaried employee under the 2025 or 2026 rates.`,
}

// newEngine builds an engine over the embedded tables. With --debug set, engine
// traces go to stderr through a console zap logger.
func newEngine(cmd *cobra.Command) (*calculation.Engine, error) {
	engine, err := calculation.NewDefaultEngine()
	if err != nil {
		return nil, err
	}
	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode {
		log, err := logger.New(logger.Config{
			Level:       "debug",
			Format:      "console",
			Version:     version,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			return nil, err
		}
		engine.SetLogger(log.Sugar())
	}
	engine.Debug = debugMode
	return engine, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// fatalOnError adapts a run function to cobra's Run, exiting through log.Fatal.
func fatalOnError(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := run(cmd, args); err != nil {
			log.Fatal(err)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(bracketsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
