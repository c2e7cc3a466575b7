// Package revenue computes read-time revenue reports from consultation
// history. Nothing is persisted: every report is a pure function of the
// consultations and a reference date, so there are no rollups to keep in
// sync.
package revenue

import (
	"errors"
	"math"
	"sort"

	"github.com/fedy10/medicab/internal/domain/appointment"
	"github.com/fedy10/medicab/pkg/calendar"
)

// Period selects the bucket size for a report.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

var ErrInvalidPeriod = errors.New("period must be day, month or year")

// Entry is one paid consultation as the aggregator sees it.
type Entry struct {
	Date        calendar.Date
	PaymentType appointment.PaymentType
	AmountPaid  float64
}

// CategoryTotal is one payment category's share of a bucket.
type CategoryTotal struct {
	PaymentType appointment.PaymentType `json:"payment_type"`
	Label       string                  `json:"label"`
	Amount      float64                 `json:"amount"`
	Count       int                     `json:"count"`
	// Percent of total revenue, rounded to the nearest integer. Zero when
	// total revenue is zero.
	Percent int `json:"percent"`
}

// Report is the aggregate for one bucket.
type Report struct {
	Period    Period        `json:"period"`
	Reference calendar.Date `json:"reference"`
	From      calendar.Date `json:"from"`
	To        calendar.Date `json:"to"`

	TotalRevenue  float64 `json:"total_revenue"`
	TotalPatients int     `json:"total_patients"`
	// AveragePerUnit divides total revenue by the number of sub-buckets that
	// actually earned something: distinct days for a month report, distinct
	// months for a year report. A month with revenue on 2 days averages over
	// 2, not over 30.
	AveragePerUnit float64 `json:"average_per_unit"`

	Breakdown []CategoryTotal `json:"breakdown"`

	PreviousRevenue float64 `json:"previous_revenue"`
	// ChangePercent compares against the previous bucket. Zero when the
	// previous bucket earned nothing, rather than an undefined value.
	ChangePercent float64 `json:"change_percent"`
}

// Bounds returns the first and last day of the bucket containing ref.
func Bounds(p Period, ref calendar.Date) (calendar.Date, calendar.Date) {
	switch p {
	case PeriodMonth:
		return ref.FirstOfMonth(), ref.LastOfMonth()
	case PeriodYear:
		return ref.FirstOfYear(), ref.LastOfYear()
	}
	return ref, ref
}

// PreviousReference returns the reference date shifted to the previous
// bucket.
func PreviousReference(p Period, ref calendar.Date) calendar.Date {
	switch p {
	case PeriodMonth:
		return ref.PrevMonth()
	case PeriodYear:
		return ref.PrevYear()
	}
	return ref.PrevDay()
}

func inBucket(p Period, ref, d calendar.Date) bool {
	switch p {
	case PeriodMonth:
		return d.SameMonth(ref)
	case PeriodYear:
		return d.SameYear(ref)
	}
	return d.SameDay(ref)
}

// subUnit keys the sub-bucket a date belongs to: the day within a month
// report, the month within a year report, the day itself for a day report.
func subUnit(p Period, d calendar.Date) calendar.Date {
	if p == PeriodYear {
		return d.FirstOfMonth()
	}
	return d
}

// Aggregate builds the report for the bucket containing ref. Entries outside
// the bucket are ignored, so callers may pass more history than the bucket
// needs (typically the current and previous bucket in one query).
func Aggregate(entries []Entry, p Period, ref calendar.Date) Report {
	from, to := Bounds(p, ref)
	rep := Report{Period: p, Reference: ref, From: from, To: to}

	unitRevenue := make(map[calendar.Date]float64)
	type catAgg struct {
		amount float64
		count  int
	}
	cats := make(map[appointment.PaymentType]*catAgg)

	prevRef := PreviousReference(p, ref)
	for _, e := range entries {
		if inBucket(p, prevRef, e.Date) {
			rep.PreviousRevenue += e.AmountPaid
		}
		if !inBucket(p, ref, e.Date) {
			continue
		}
		rep.TotalRevenue += e.AmountPaid
		rep.TotalPatients++
		if e.AmountPaid > 0 {
			unitRevenue[subUnit(p, e.Date)] += e.AmountPaid
		}
		c := cats[e.PaymentType]
		if c == nil {
			c = &catAgg{}
			cats[e.PaymentType] = c
		}
		c.amount += e.AmountPaid
		c.count++
	}

	if n := len(unitRevenue); n > 0 {
		rep.AveragePerUnit = rep.TotalRevenue / float64(n)
	}

	for pt, c := range cats {
		ct := CategoryTotal{
			PaymentType: pt,
			Label:       pt.Label(),
			Amount:      c.amount,
			Count:       c.count,
		}
		if rep.TotalRevenue > 0 {
			ct.Percent = int(math.Round(c.amount / rep.TotalRevenue * 100))
		}
		rep.Breakdown = append(rep.Breakdown, ct)
	}
	sort.Slice(rep.Breakdown, func(i, j int) bool {
		return rep.Breakdown[i].Amount > rep.Breakdown[j].Amount
	})

	if rep.PreviousRevenue > 0 {
		rep.ChangePercent = (rep.TotalRevenue - rep.PreviousRevenue) / rep.PreviousRevenue * 100
	}
	return rep
}
