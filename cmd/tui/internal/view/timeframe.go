package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/batchpos/internal/clock"
)

// TimeframeSelectedMsg carries the chosen range of sale dates, both ends inclusive.
// Start and End are zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// rangePreset resolves a named range against today's date.
type rangePreset struct {
	label   string
	resolve func(today time.Time) (start, end time.Time)
}

var rangePresets = []rangePreset{
	{label: "Today", resolve: func(d time.Time) (time.Time, time.Time) {
		return d, d
	}},
	{label: "Yesterday", resolve: func(d time.Time) (time.Time, time.Time) {
		y := d.AddDate(0, 0, -1)
		return y, y
	}},
	{label: "Last 7 days", resolve: func(d time.Time) (time.Time, time.Time) {
		return d.AddDate(0, 0, -6), d
	}},
	{label: "This week", resolve: func(d time.Time) (time.Time, time.Time) {
		return weekStart(d), d
	}},
	{label: "This month", resolve: func(d time.Time) (time.Time, time.Time) {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()), d
	}},
	{label: "Last month", resolve: func(d time.Time) (time.Time, time.Time) {
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1)
	}},
}

// Two rows follow the presets: all time, then a custom range.
var (
	rowAllTime = len(rangePresets)
	rowCustom  = len(rangePresets) + 1
)

// weekStart returns the Monday of d's week.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

type rangeFields struct {
	start string
	end   string
}

// TimeframePicker lets the cashier narrow a listing to a range of sale dates.
type TimeframePicker struct {
	today  func() time.Time
	cursor int
	form   *huh.Form
	fields *rangeFields
}

func NewTimeframePicker() TimeframePicker {
	return TimeframePicker{
		today:  func() time.Time { return clock.Day(time.Now()) },
		fields: &rangeFields{},
	}
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.form != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, rowCustom)
	case "enter":
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	switch m.cursor {
	case rowAllTime:
		return m, func() tea.Msg { return TimeframeSelectedMsg{All: true} }
	case rowCustom:
		m.form = m.customForm()
		return m, m.form.Init()
	}

	start, end := rangePresets[m.cursor].resolve(m.today())

	return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
}

func (m TimeframePicker) customForm() *huh.Form {
	f := m.fields
	today := m.today().Format(time.DateOnly)

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("From").
			Placeholder(today).
			Value(&f.start).
			Validate(validateDate),
		huh.NewInput().
			Title("To").
			Placeholder(today).
			Value(&f.end).
			Validate(func(s string) error {
				if err := validateDate(s); err != nil {
					return err
				}

				start, _ := parseDay(f.start)
				end, _ := parseDay(s)

				if end.Before(start) {
					return errors.New("must not be before the start date")
				}

				return nil
			}),
	)).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil
	start, _ := parseDay(m.fields.start)
	end, _ := parseDay(m.fields.end)

	return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
}

func (m TimeframePicker) View() string {
	if m.form != nil {
		return "Custom range\n\n" + m.form.View() + faintStyle.Render("\n(Esc to go back)")
	}

	var b strings.Builder
	b.WriteString("Sale dates:\n\n")

	labels := make([]string, 0, rowCustom+1)
	for _, p := range rangePresets {
		labels = append(labels, p.label)
	}

	labels = append(labels, "All time", "Custom range...")

	today := m.today()

	for i, label := range labels {
		line := "  " + label
		if i < len(rangePresets) {
			start, end := rangePresets[i].resolve(today)
			line += faintStyle.Render(fmt.Sprintf("  %s to %s", FormatDate(start), FormatDate(end)))
		}

		if i == m.cursor {
			line = activeStyle(">") + line[1:]
		}

		b.WriteString(line + "\n")
	}

	b.WriteString(faintStyle.Render("\n(Enter to select, Esc to go back)"))

	return b.String()
}

// IsSelecting reports whether the preset list, rather than the custom form, has focus.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

func (m *TimeframePicker) Reset() {
	m.form = nil
	*m.fields = rangeFields{}
}

func validateDate(s string) error {
	if _, err := parseDay(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// parseDay treats an empty value as today.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return clock.Day(time.Now()), nil
	}

	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}

	return clock.Day(d), nil
}
