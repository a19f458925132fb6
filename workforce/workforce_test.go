package workforce_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/utilisation-board/workforce"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var p = workforce.Ptr

// august is pinned so the previous-month key is "2026-07".
var august = time.Date(2026, time.August, 14, 9, 30, 0, 0, time.UTC)

func employee(first, last, status string) workforce.SourceRecord {
	return workforce.SourceRecord{Employees: &workforce.Employee{
		Firstname:         p(first),
		Lastname:          p(last),
		StatusAggregation: &workforce.StatusAggregation{Status: status},
	}}
}

func external(first, last, status string) workforce.SourceRecord {
	return workforce.SourceRecord{Externals: &workforce.External{
		Firstname: p(first),
		Lastname:  p(last),
		Status:    status,
	}}
}

// =============================================================================
// PERCENT
// =============================================================================

func TestPercent(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want string
	}{
		{"absent", nil, "0%"},
		{"empty", p(""), "0%"},
		{"not a number", p("not-a-number"), "0%"},
		{"trailing garbage", p("0.5abc"), "0%"},
		{"two thirds", p("0.67"), "67%"},
		{"half", p("0.5"), "50%"},
		{"rounds down", p("0.674"), "67%"},
		{"half rounds up", p("0.675"), "68%"},
		{"over one", p("1.234"), "123%"},
		{"zero", p("0"), "0%"},
		{"whitespace", p(" 0.8 "), "80%"},
		{"exponent", p("5e-1"), "50%"},
		{"inexact binary half", p("0.285"), "29%"},
		{"inexact binary half 2", p("0.575"), "58%"},
		{"huge exponent", p("1e20000000"), "0%"},
		{"huge negative exponent", p("1e-2000000000"), "0%"},
		{"too many digits", p("0." + strings.Repeat("1", 80)), "0%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, workforce.Percent(tc.in))
		})
	}
}

func TestPercent_MatchesRoundedFraction(t *testing.T) {
	for _, s := range []string{"0.01", "0.333", "0.999", "0.1049", "2"} {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		want := d.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
		assert.Equal(t, want, workforce.Percent(p(s)), s)
	}
}

// =============================================================================
// PREVIOUS MONTH
// =============================================================================

func TestPrevMonthKey(t *testing.T) {
	assert.Equal(t, "2026-07", workforce.PrevMonthKey(august))
	assert.Equal(t, "2025-12", workforce.PrevMonthKey(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)))
	// March 31st must not overflow into March via February 31st.
	assert.Equal(t, "2026-02", workforce.PrevMonthKey(time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)))
}

func TestPrevMonthKey_UsesLocation(t *testing.T) {
	// GIVEN: 1 Oct 00:30 in Berlin, still September in UTC
	berlin := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2026, time.October, 1, 0, 30, 0, 0, berlin)

	// THEN: the key follows the local calendar
	assert.Equal(t, "2026-09", workforce.PrevMonthKey(now))
	assert.Equal(t, "2026-08", workforce.PrevMonthKey(now.UTC()))
}

// =============================================================================
// FILTER
// =============================================================================

func TestActive(t *testing.T) {
	assert.False(t, employee("A", "B", "Inaktiv").Active(), "Inaktiv employee is excluded")
	assert.True(t, employee("A", "B", "Aktiv").Active(), "Aktiv employee is included")
	assert.True(t, employee("A", "B", "Onboarding").Active(), "any other status is included")
	assert.True(t, workforce.SourceRecord{Employees: &workforce.Employee{}}.Active(), "no status aggregation is included")

	assert.True(t, external("A", "B", "active").Active())
	assert.False(t, external("A", "B", "inactive").Active())
	assert.False(t, external("A", "B", "Active").Active(), "external status match is exact")
	assert.False(t, external("A", "B", "").Active())

	assert.False(t, workforce.SourceRecord{}.Active(), "record without variant is excluded")
}

func TestKind(t *testing.T) {
	assert.Equal(t, workforce.KindEmployee, employee("A", "B", "").Kind())
	assert.Equal(t, workforce.KindExternal, external("A", "B", "").Kind())
	assert.Equal(t, workforce.KindUnknown, workforce.SourceRecord{}.Kind())

	both := workforce.SourceRecord{Employees: &workforce.Employee{}, Externals: &workforce.External{}}
	assert.Equal(t, workforce.KindEmployee, both.Kind(), "employee variant is checked first")
	assert.Equal(t, "external", workforce.KindExternal.String())
}

// =============================================================================
// TRANSFORM
// =============================================================================

func TestTransform_EndToEnd(t *testing.T) {
	// GIVEN: One active employee with utilisation and last month's earnings
	rec := employee("Ada", "Lovelace", "Aktiv")
	rec.Employees.WorkforceUtilisation = &workforce.WorkforceUtilisation{
		UtilisationRateOverall:    p("0.5"),
		UtilisationRateYearToDate: p("0.8"),
		LastThreeMonthsIndividually: []workforce.MonthUtilisation{
			{Month: "May", UtilisationRate: p("0.1")},
			{Month: "June", UtilisationRate: p("0.2")},
			{Month: "July", UtilisationRate: p("0.3")},
		},
	}
	rec.Employees.CostsByMonth = &workforce.EmployeeCosts{PotentialEarningsByMonth: []workforce.MonthlyCost{
		{Month: "2026-06", Costs: "999"},
		{Month: "2026-07", Costs: "500"},
	}}

	// WHEN: Transforming in August
	rows := workforce.Transform([]workforce.SourceRecord{rec}, august)

	// THEN: Every field is derived
	require.Len(t, rows, 1)
	assert.Equal(t, workforce.DisplayRow{
		Person:               "Ada Lovelace",
		Past12Months:         "50%",
		Y2D:                  "80%",
		May:                  "10%",
		June:                 "20%",
		July:                 "30%",
		NetEarningsPrevMonth: "500 EUR",
	}, rows[0])
}

func TestTransform_MonthLookup(t *testing.T) {
	rec := external("Grace", "Hopper", "active")
	rec.Externals.WorkforceUtilisation = &workforce.WorkforceUtilisation{
		LastThreeMonthsIndividually: []workforce.MonthUtilisation{
			{Month: "June", UtilisationRate: p("0.67")},
			{Month: "August", UtilisationRate: p("0.9")},
			{Month: "july", UtilisationRate: p("0.4")},
		},
	}

	rows := workforce.Transform([]workforce.SourceRecord{rec}, august)

	require.Len(t, rows, 1)
	assert.Equal(t, "0%", rows[0].May, "absent label")
	assert.Equal(t, "67%", rows[0].June)
	assert.Equal(t, "0%", rows[0].July, "labels match exactly")
	assert.Equal(t, "0%", rows[0].Past12Months, "absent fraction")
}

func TestTransform_EarningsSign(t *testing.T) {
	emp := employee("E", "One", "Aktiv")
	emp.Employees.CostsByMonth = &workforce.EmployeeCosts{PotentialEarningsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "1000"},
	}}
	ext := external("X", "One", "active")
	ext.Externals.CostsByMonth = &workforce.ExternalCosts{CostsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "1000"},
	}}
	empNone := employee("E", "Two", "Aktiv")
	extNone := external("X", "Two", "active")
	extOtherMonth := external("X", "Three", "active")
	extOtherMonth.Externals.CostsByMonth = &workforce.ExternalCosts{CostsByMonth: []workforce.MonthlyCost{
		{Month: "2026-06", Costs: "250"},
	}}
	extGarbage := external("X", "Four", "active")
	extGarbage.Externals.CostsByMonth = &workforce.ExternalCosts{CostsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "n/a"},
	}}
	empFraction := employee("E", "Three", "Aktiv")
	empFraction.Employees.CostsByMonth = &workforce.EmployeeCosts{PotentialEarningsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "1234.50"},
	}}

	rows := workforce.Transform([]workforce.SourceRecord{emp, ext, empNone, extNone, extOtherMonth, extGarbage, empFraction}, august)

	require.Len(t, rows, 7)
	assert.Equal(t, "1000 EUR", rows[0].NetEarningsPrevMonth)
	assert.Equal(t, "-1000 EUR", rows[1].NetEarningsPrevMonth)
	assert.Equal(t, "0 EUR", rows[2].NetEarningsPrevMonth)
	assert.Equal(t, "0 EUR", rows[3].NetEarningsPrevMonth, "negated zero has no sign")
	assert.Equal(t, "0 EUR", rows[4].NetEarningsPrevMonth, "only the previous month counts")
	assert.Equal(t, "0 EUR", rows[5].NetEarningsPrevMonth, "unparsable cost degrades to zero")
	assert.Equal(t, "1234.5 EUR", rows[6].NetEarningsPrevMonth)
}

func TestTransform_FilterAndOrder(t *testing.T) {
	records := []workforce.SourceRecord{
		employee("Ada", "Lovelace", "Aktiv"),
		employee("Gone", "Away", "Inaktiv"),
		{},
		external("Grace", "Hopper", "active"),
		external("Ex", "Contractor", "ended"),
		employee("Alan", "Turing", ""),
	}

	rows := workforce.Transform(records, august)

	require.Len(t, rows, 3)
	assert.Equal(t, "Ada Lovelace", rows[0].Person)
	assert.Equal(t, "Grace Hopper", rows[1].Person)
	assert.Equal(t, "Alan Turing", rows[2].Person)
}

func TestTransform_Empty(t *testing.T) {
	rows := workforce.Transform(nil, august)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// =============================================================================
// TRANSFORMER REPORT
// =============================================================================

func TestTransformer_BuildReportsSkips(t *testing.T) {
	// GIVEN: A pinned clock and a mix of droppable records
	tr := &workforce.Transformer{Now: func() time.Time { return august }}
	noName := workforce.SourceRecord{Employees: &workforce.Employee{Firstname: p("Only")}}
	records := []workforce.SourceRecord{
		employee("Ada", "Lovelace", "Aktiv"),
		{},
		external("Ex", "Contractor", "ended"),
		noName,
	}

	// WHEN: Building the report
	report := tr.Build(records)

	// THEN: One row, three skips with their reasons and positions
	assert.Equal(t, "2026-07", report.PreviousMonth)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, []workforce.Skip{
		{Index: 1, Kind: workforce.KindUnknown, Reason: workforce.SkipUnknownKind},
		{Index: 2, Kind: workforce.KindExternal, Reason: workforce.SkipInactive},
		{Index: 3, Kind: workforce.KindEmployee, Reason: workforce.SkipMissingIdentity},
	}, report.Skipped)
}

func TestTransform_OutOfRangeNumbersDegrade(t *testing.T) {
	// GIVEN: Records whose numbers would expand to millions of digits
	emp := employee("E", "Huge", "Aktiv")
	emp.Employees.WorkforceUtilisation = &workforce.WorkforceUtilisation{UtilisationRateOverall: p("1e2000000000")}
	emp.Employees.CostsByMonth = &workforce.EmployeeCosts{PotentialEarningsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "1e20000000"},
	}}
	ext := external("X", "Huge", "active")
	ext.Externals.CostsByMonth = &workforce.ExternalCosts{CostsByMonth: []workforce.MonthlyCost{
		{Month: "2026-07", Costs: "-1e-2000000000"},
	}}

	// WHEN: Transforming
	start := time.Now()
	rows := workforce.Transform([]workforce.SourceRecord{emp, ext}, august)

	// THEN: They fall back to zero quickly
	require.Len(t, rows, 2)
	assert.Equal(t, "0%", rows[0].Past12Months)
	assert.Equal(t, "0 EUR", rows[0].NetEarningsPrevMonth)
	assert.Equal(t, "0 EUR", rows[1].NetEarningsPrevMonth)
	assert.Less(t, time.Since(start), time.Second)
}

func TestParseDecimal_Bounds(t *testing.T) {
	d, ok := workforce.ParseDecimal("1e15")
	require.True(t, ok)
	assert.Equal(t, "1000000000000000", d.String())

	_, ok = workforce.ParseDecimal("1e16")
	assert.False(t, ok)

	d, ok = workforce.ParseDecimal("1234.50")
	require.True(t, ok)
	assert.Equal(t, "1234.5", d.String())
}

func TestTransformer_NilClockUsesWallClock(t *testing.T) {
	report := (&workforce.Transformer{}).Build(nil)
	assert.Equal(t, workforce.PrevMonthKey(time.Now()), report.PreviousMonth)
}

func TestName_EmptyPartsKeepSeparator(t *testing.T) {
	rec := workforce.SourceRecord{Employees: &workforce.Employee{Firstname: p("Cher"), Lastname: p("")}}
	rows := workforce.Transform([]workforce.SourceRecord{rec}, august)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cher ", rows[0].Person)
}
