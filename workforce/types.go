/*
Package workforce turns employee and external source records into display rows.

PURPOSE:
  This package holds the domain types for the utilisation board and the one
  transformation the board needs: filter active people, format their
  utilisation fractions as percentages, and pick last month's earnings.

KEY CONCEPTS IN THIS FILE (types.go):
  - SourceRecord: One entry of the source document (employee OR external)
  - Kind: The resolved variant of a SourceRecord
  - WorkforceUtilisation: Fractions of billed capacity, as decimal strings
  - MonthlyCost: A "YYYY-MM" keyed amount
  - DisplayRow: The output row consumed by the grid widget

DESIGN PRINCIPLES:
  1. Resolve once: a record's variant is decided by Kind() and dispatched
     with a switch, never by probing optional fields repeatedly
  2. Total parsing: numeric strings go through decimal parsing that never
     fails loudly (see percent.go)
  3. Immutability: input records are never modified, rows are freshly built

USAGE:
  rows := workforce.Transform(records, time.Now())

SEE ALSO:
  - transform.go: Filtering and row construction
  - percent.go: Percentage and earnings formatting
  - month.go: Previous-month key and the fixed month window
*/
package workforce

// =============================================================================
// SOURCE RECORD - Tagged union of employee / external
// =============================================================================

// SourceRecord is one entry of the source document. Exactly one of Employees
// or Externals is expected to be set.
type SourceRecord struct {
	Employees *Employee `json:"employees,omitempty"`
	Externals *External `json:"externals,omitempty"`
}

// Employee is the employee variant of a source record.
type Employee struct {
	Firstname            *string               `json:"firstname,omitempty"`
	Lastname             *string               `json:"lastname,omitempty"`
	StatusAggregation    *StatusAggregation    `json:"statusAggregation,omitempty"`
	WorkforceUtilisation *WorkforceUtilisation `json:"workforceUtilisation,omitempty"`
	CostsByMonth         *EmployeeCosts        `json:"costsByMonth,omitempty"`
}

// StatusAggregation carries the employee status ("Aktiv", "Inaktiv", ...).
type StatusAggregation struct {
	Status string `json:"status"`
}

// EmployeeCosts holds the per-month potential earnings of an employee.
type EmployeeCosts struct {
	PotentialEarningsByMonth []MonthlyCost `json:"potentialEarningsByMonth"`
}

// External is the external-contractor variant of a source record.
type External struct {
	Firstname            *string               `json:"firstname,omitempty"`
	Lastname             *string               `json:"lastname,omitempty"`
	Status               string                `json:"status,omitempty"`
	WorkforceUtilisation *WorkforceUtilisation `json:"workforceUtilisation,omitempty"`
	CostsByMonth         *ExternalCosts        `json:"costsByMonth,omitempty"`
}

// ExternalCosts holds the per-month costs of an external.
type ExternalCosts struct {
	CostsByMonth []MonthlyCost `json:"costsByMonth"`
}

// WorkforceUtilisation is the share of capacity a person was billed for.
// All rates are fractions encoded as strings ("0.67").
type WorkforceUtilisation struct {
	UtilisationRateOverall      *string            `json:"utilisationRateOverall,omitempty"`
	UtilisationRateYearToDate   *string            `json:"utilisationRateYearToDate,omitempty"`
	LastThreeMonthsIndividually []MonthUtilisation `json:"lastThreeMonthsIndividually"`
}

// MonthUtilisation is the utilisation rate for one labelled month ("June").
type MonthUtilisation struct {
	Month           string  `json:"month"`
	UtilisationRate *string `json:"utilisationRate,omitempty"`
}

// MonthlyCost is an amount keyed by a "YYYY-MM" month.
type MonthlyCost struct {
	Month string `json:"month"`
	Costs string `json:"costs"`
}

// =============================================================================
// KIND - Resolved variant
// =============================================================================

type Kind int

const (
	KindUnknown Kind = iota
	KindEmployee
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindEmployee:
		return "employee"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Kind resolves the record variant. Employees are checked first, so a record
// carrying both sub-records is treated as an employee.
func (r SourceRecord) Kind() Kind {
	switch {
	case r.Employees != nil:
		return KindEmployee
	case r.Externals != nil:
		return KindExternal
	default:
		return KindUnknown
	}
}

// person is the variant-independent view of a record used while building rows.
type person struct {
	kind        Kind
	firstname   *string
	lastname    *string
	utilisation WorkforceUtilisation
	earnings    []MonthlyCost
}

// resolve flattens the record into a person. ok is false for KindUnknown.
func (r SourceRecord) resolve() (p person, ok bool) {
	switch r.Kind() {
	case KindEmployee:
		e := r.Employees
		p = person{kind: KindEmployee, firstname: e.Firstname, lastname: e.Lastname}
		if e.WorkforceUtilisation != nil {
			p.utilisation = *e.WorkforceUtilisation
		}
		if e.CostsByMonth != nil {
			p.earnings = e.CostsByMonth.PotentialEarningsByMonth
		}
		return p, true
	case KindExternal:
		x := r.Externals
		p = person{kind: KindExternal, firstname: x.Firstname, lastname: x.Lastname}
		if x.WorkforceUtilisation != nil {
			p.utilisation = *x.WorkforceUtilisation
		}
		if x.CostsByMonth != nil {
			p.earnings = x.CostsByMonth.CostsByMonth
		}
		return p, true
	default:
		return person{}, false
	}
}

// =============================================================================
// DISPLAY ROW - Output consumed by the grid
// =============================================================================

// DisplayRow is one row of the utilisation table.
type DisplayRow struct {
	Person               string `json:"person"`
	Past12Months         string `json:"past12Months"`
	Y2D                  string `json:"y2d"`
	May                  string `json:"may"`
	June                 string `json:"june"`
	July                 string `json:"july"`
	NetEarningsPrevMonth string `json:"netEarningsPrevMonth"`
}

// Ptr returns a pointer to s. Handy for building records in code.
func Ptr(s string) *string { return &s }
