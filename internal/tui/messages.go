package tui

import (
	"github.com/rgehrsitz/netpay/internal/breakeven"
	"github.com/rgehrsitz/netpay/internal/compare"
	"github.com/rgehrsitz/netpay/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneCalculator Scene = iota
	SceneCompare
	SceneSolve
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneCalculator:
		return "Calculator"
	case SceneCompare:
		return "Compare years"
	case SceneSolve:
		return "Gross for net"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculationCompleteMsg carries a finished breakdown
type CalculationCompleteMsg struct {
	Breakdown *domain.TaxBreakdown
	Err       error
}

// ComparisonCompleteMsg carries a finished year comparison
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// SolveCompleteMsg carries a finished gross-for-net search
type SolveCompleteMsg struct {
	Result *breakeven.Result
	Err    error
}
