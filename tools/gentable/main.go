package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/withholding"
	"github.com/spf13/cobra"
)

var (
	outDir string
	years  []int
)

var rootCmd = &cobra.Command{
	Use:   "gentable",
	Short: "Regenerate the embedded withholding tables",
	Long: `Builds the monthly withholding table for each year from the statutory annual
computation and writes internal/calculation/data/withholding_<year>.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		targets := domain.SupportedTaxYears()
		if len(years) > 0 {
			targets = targets[:0]
			for _, y := range years {
				targets = append(targets, domain.TaxYear(y))
			}
		}

		for _, year := range targets {
			params, err := withholding.ParamsFor(year)
			if err != nil {
				log.Fatal(err)
			}
			table, err := withholding.BuildTable(params)
			if err != nil {
				log.Fatal(err)
			}

			path := filepath.Join(outDir, fmt.Sprintf("withholding_%d.yaml", int(year)))
			f, err := os.Create(path)
			if err != nil {
				log.Fatalf("failed to create %s: %v", path, err)
			}
			if err := withholding.WriteYAML(f, year, table.Rows()); err != nil {
				f.Close()
				log.Fatalf("failed to write %s: %v", path, err)
			}
			if err := f.Close(); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%d: %d rows → %s\n", int(year), table.Len(), path)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "internal/calculation/data", "Output directory")
	rootCmd.Flags().IntSliceVar(&years, "year", nil, "Years to build (default: all supported)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
