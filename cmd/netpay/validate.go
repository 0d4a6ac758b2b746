package main

import (
	"fmt"

	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <input-file>",
	Short: "Validate a salary batch file",
	Args:  cobra.ExactArgs(1),
	Run:   fatalOnError(runValidate),
}

func runValidate(cmd *cobra.Command, args []string) error {
	batch, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %d salaries, base year %d\n", len(batch.Salaries), int(batch.Year))
	return nil
}
