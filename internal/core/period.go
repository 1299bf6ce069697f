package core

import "sort"

// OutsidePeriodsLabel is the sentinel label for dates that fall before the
// first salary date (or when no salary transactions exist at all). It sorts
// lexically after any ISO-dated label, which is accepted behavior.
const OutsidePeriodsLabel = "Outside salary periods"

// PeriodGrouper maps a transaction date to a period label. Labels are chosen
// so that lexical string ordering equals chronological ordering.
type PeriodGrouper interface {
	LabelForDate(d Date) string
}

// CalendarGrouper groups by calendar month using "YYYY-MM" labels.
type CalendarGrouper struct{}

func (CalendarGrouper) LabelForDate(d Date) string {
	return d.MonthLabel()
}

// SalaryCycleGrouper builds periods from actual salary dates:
// each period starts on a salary date and ends the day before the next one,
// and the last period runs to the max date across the whole dataset.
// Labels are "YYYY-MM-DD to YYYY-MM-DD", both bounds inclusive.
type SalaryCycleGrouper struct {
	periods []salaryPeriod
}

type salaryPeriod struct {
	start Date
	end   Date
}

// NewSalaryCycleGrouper derives the salary periods from the transaction set.
// Salary dates are the distinct dates of transactions whose category exactly
// equals salaryCategory, sorted ascending.
func NewSalaryCycleGrouper(txns []Transaction, salaryCategory string) *SalaryCycleGrouper {
	seen := make(map[string]Date)
	var maxDate Date
	for _, t := range txns {
		if t.DateOp.After(maxDate) {
			maxDate = t.DateOp
		}
		if t.Category == salaryCategory {
			seen[t.DateOp.ISO()] = t.DateOp
		}
	}

	g := &SalaryCycleGrouper{}
	if len(seen) == 0 {
		return g
	}

	salaryDates := make([]Date, 0, len(seen))
	for _, d := range seen {
		salaryDates = append(salaryDates, d)
	}
	sort.Slice(salaryDates, func(i, j int) bool {
		return salaryDates[i].Before(salaryDates[j])
	})

	for i := 0; i < len(salaryDates)-1; i++ {
		g.periods = append(g.periods, salaryPeriod{
			start: salaryDates[i],
			end:   salaryDates[i+1].AddDays(-1),
		})
	}
	g.periods = append(g.periods, salaryPeriod{
		start: salaryDates[len(salaryDates)-1],
		end:   maxDate,
	})
	return g
}

// LabelForDate scans the non-overlapping, sorted periods and returns the
// first containing one, or the sentinel label when the date precedes the
// first salary date (or no periods exist).
func (g *SalaryCycleGrouper) LabelForDate(d Date) string {
	for _, p := range g.periods {
		if !d.Before(p.start) && !d.After(p.end) {
			return p.start.ISO() + " to " + p.end.ISO()
		}
	}
	return OutsidePeriodsLabel
}

// Periods returns the derived (start, end) bounds, mostly for tests.
func (g *SalaryCycleGrouper) Periods() [][2]Date {
	out := make([][2]Date, len(g.periods))
	for i, p := range g.periods {
		out[i] = [2]Date{p.start, p.end}
	}
	return out
}
