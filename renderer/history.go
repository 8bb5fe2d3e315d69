package renderer

import (
	"time"

	"github.com/etnz/networth"
)

// History is the view of a reconstructed history.
type History struct {
	Points []networth.HistoryPoint
	Total  int // number of points before down-sampling.
}

// NewHistory keeps the last n points of a history, all of them if n <= 0.
func NewHistory(points []networth.HistoryPoint, n int) *History {
	h := &History{Points: points, Total: len(points)}
	if n > 0 && len(points) > n {
		h.Points = points[len(points)-n:]
	}
	return h
}

// Truncated reports whether some points are not displayed.
func (h *History) Truncated() bool { return len(h.Points) < h.Total }

// RenderHistory renders the History struct to a markdown string.
func RenderHistory(h *History) string {
	return renderTemplate("history", "history.md", nil, h)
}

// Monthly is the view of the monthly returns, one row per year.
type Monthly struct {
	Months [12]string
	Years  []MonthlyRow
}

type MonthlyRow struct {
	Year   int
	Months [12]string // signed percentage, empty without history.
	YTD    string
}

func NewMonthly(years []networth.YearReturns) *Monthly {
	m := &Monthly{}
	for i := range m.Months {
		m.Months[i] = time.Month(i + 1).String()[:3]
	}
	for _, y := range years {
		row := MonthlyRow{Year: y.Year, YTD: y.YTD.SignedString()}
		for _, r := range y.Months {
			row.Months[r.Month.Month-1] = r.Return.SignedString()
		}
		m.Years = append(m.Years, row)
	}
	return m
}

// RenderMonthly renders the Monthly struct to a markdown string.
func RenderMonthly(m *Monthly) string {
	return renderTemplate("monthly", "monthly.md", nil, m)
}
