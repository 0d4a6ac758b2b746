package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedYear = errors.New("unsupported tax year")
	ErrInvalidInput    = errors.New("invalid salary input")
)

// UnsupportedYearError reports the year that was rejected. It matches ErrUnsupportedYear.
type UnsupportedYearError struct {
	Year TaxYear
}

func (e *UnsupportedYearError) Error() string {
	years := make([]string, 0, 2)
	for _, y := range SupportedTaxYears() {
		years = append(years, y.String())
	}
	return fmt.Sprintf("%s: %d (supported: %s)", ErrUnsupportedYear, int(e.Year), strings.Join(years, ", "))
}

func (e *UnsupportedYearError) Is(target error) bool {
	return target == ErrUnsupportedYear
}
