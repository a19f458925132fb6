package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FILTER
// =============================================================================

const (
	employeeInactive = "Inaktiv"
	externalActive   = "active"
)

// Active reports whether the record belongs on the board: employees unless
// "Inaktiv", externals only when "active". Unknown records never are.
func (r SourceRecord) Active() bool {
	switch r.Kind() {
	case KindEmployee:
		status := ""
		if r.Employees.StatusAggregation != nil {
			status = r.Employees.StatusAggregation.Status
		}
		return status != employeeInactive
	case KindExternal:
		return r.Externals.Status == externalActive
	default:
		return false
	}
}

// =============================================================================
// SKIPS - Why a record did not become a row
// =============================================================================

type SkipReason string

const (
	SkipUnknownKind     SkipReason = "unknown kind"
	SkipInactive        SkipReason = "inactive"
	SkipMissingIdentity SkipReason = "missing identity"
)

// Skip describes a dropped record. Index is its position in the input.
type Skip struct {
	Index  int        `json:"index"`
	Kind   Kind       `json:"-"`
	Reason SkipReason `json:"reason"`
}

// Report is the outcome of one transformation pass.
type Report struct {
	Rows          []DisplayRow
	Skipped       []Skip
	PreviousMonth string
}

// =============================================================================
// TRANSFORM
// =============================================================================

// Transform maps source records to display rows, preserving input order and
// dropping inactive records. now only feeds the previous-month earnings key.
func Transform(records []SourceRecord, now time.Time) []DisplayRow {
	return build(records, now).Rows
}

func build(records []SourceRecord, now time.Time) Report {
	prevKey := PrevMonthKey(now)
	report := Report{Rows: make([]DisplayRow, 0, len(records)), PreviousMonth: prevKey}

	for i, rec := range records {
		p, ok := rec.resolve()
		if !ok {
			report.Skipped = append(report.Skipped, Skip{Index: i, Kind: KindUnknown, Reason: SkipUnknownKind})
			continue
		}
		if !rec.Active() {
			report.Skipped = append(report.Skipped, Skip{Index: i, Kind: p.kind, Reason: SkipInactive})
			continue
		}
		if p.firstname == nil || p.lastname == nil {
			report.Skipped = append(report.Skipped, Skip{Index: i, Kind: p.kind, Reason: SkipMissingIdentity})
			continue
		}
		report.Rows = append(report.Rows, p.row(prevKey))
	}
	return report
}

func (p person) row(prevKey string) DisplayRow {
	wu := p.utilisation
	amount := decimal.Zero
	if raw, ok := costFor(p.earnings, prevKey); ok {
		if d, ok := ParseDecimal(raw); ok {
			amount = d
		}
	}

	return DisplayRow{
		Person:               *p.firstname + " " + *p.lastname,
		Past12Months:         Percent(wu.UtilisationRateOverall),
		Y2D:                  Percent(wu.UtilisationRateYearToDate),
		May:                  Percent(monthRate(wu.LastThreeMonthsIndividually, MonthLabels[0])),
		June:                 Percent(monthRate(wu.LastThreeMonthsIndividually, MonthLabels[1])),
		July:                 Percent(monthRate(wu.LastThreeMonthsIndividually, MonthLabels[2])),
		NetEarningsPrevMonth: Earnings(amount, p.kind),
	}
}

// =============================================================================
// TRANSFORMER - Clocked entry point for the host
// =============================================================================

// Transformer runs Transform against a clock. The host calls Build on every
// render instead of computing rows once at startup.
type Transformer struct {
	Now Clock
}

// NewTransformer returns a Transformer on the wall clock.
func NewTransformer() *Transformer {
	return &Transformer{Now: time.Now}
}

// Time reads the transformer clock, falling back to the wall clock.
func (t *Transformer) Time() time.Time {
	if t == nil || t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// Build transforms records and reports the dropped ones.
func (t *Transformer) Build(records []SourceRecord) Report {
	return build(records, t.Time())
}
