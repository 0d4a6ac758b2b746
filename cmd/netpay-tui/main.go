package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/tui"
)

func main() {
	// Optional tax year argument
	yearArg := ""
	if len(os.Args) > 2 {
		fmt.Println("Usage: netpay-tui [year]")
		os.Exit(1)
	} else if len(os.Args) == 2 {
		yearArg = os.Args[1]
	}

	year, err := domain.ParseTaxYear(yearArg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	engine, err := calculation.NewDefaultEngine()
	if err != nil {
		fmt.Printf("Error loading withholding tables: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		tui.NewModel(engine, year),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
