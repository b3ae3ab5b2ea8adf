package view

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

const dbTimeout = 5 * time.Second

var (
	accent       = lipgloss.Color("205")
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// FormatAmount formats an amount in minor units for display.
func FormatAmount(a money.Amount) string {
	return a.String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// validateAmount is a huh validator for money inputs; empty is allowed when optional.
func validateAmount(optional bool) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if optional {
				return nil
			}

			return errors.New("amount is required")
		}

		if _, err := money.Parse(s); err != nil {
			return errors.New("enter an amount like 12.50")
		}

		return nil
	}
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(accent).Render(s)
}
