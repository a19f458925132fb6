// Package storetest holds the behavior every store.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/workforce"
)

// Factory opens a fresh, empty store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.Store

// Records returns a small mixed dataset used across the suite.
func Records() []workforce.SourceRecord {
	p := workforce.Ptr
	return []workforce.SourceRecord{
		{Employees: &workforce.Employee{
			Firstname:         p("Ada"),
			Lastname:          p("Lovelace"),
			StatusAggregation: &workforce.StatusAggregation{Status: "Aktiv"},
			WorkforceUtilisation: &workforce.WorkforceUtilisation{
				UtilisationRateOverall: p("0.5"),
				LastThreeMonthsIndividually: []workforce.MonthUtilisation{
					{Month: "June", UtilisationRate: p("0.67")},
				},
			},
			CostsByMonth: &workforce.EmployeeCosts{PotentialEarningsByMonth: []workforce.MonthlyCost{
				{Month: "2026-09", Costs: "500"},
			}},
		}},
		{},
		{Externals: &workforce.External{
			Firstname: p("Grace"),
			Lastname:  p("Hopper"),
			Status:    "active",
			CostsByMonth: &workforce.ExternalCosts{CostsByMonth: []workforce.MonthlyCost{
				{Month: "2026-09", Costs: "1000"},
			}},
		}},
	}
}

// Run exercises the store.Store contract against stores built by open.
func Run(t *testing.T, open Factory) {
	ctx := context.Background()

	t.Run("RoundTripPreservesOrder", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Replace(ctx, "default", Records()))

		got, err := s.Records(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, Records(), got)
	})

	t.Run("ReplaceOverwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Replace(ctx, "default", Records()))
		require.NoError(t, s.Replace(ctx, "default", Records()[2:]))

		got, err := s.Records(ctx, "default")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Grace", *got[0].Externals.Firstname)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Replace(ctx, "empty", nil))

		got, err := s.Records(ctx, "empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("MissingDataset", func(t *testing.T) {
		s := open(t)
		_, err := s.Records(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrDatasetNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "nope"), store.ErrDatasetNotFound)
	})

	t.Run("DeleteThenRead", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Replace(ctx, "gone", Records()))
		require.NoError(t, s.Delete(ctx, "gone"))

		_, err := s.Records(ctx, "gone")
		assert.ErrorIs(t, err, store.ErrDatasetNotFound)
	})

	t.Run("ListSortedWithCounts", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Replace(ctx, "zeta", Records()[:1]))
		require.NoError(t, s.Replace(ctx, "alpha", Records()))

		infos, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "alpha", infos[0].Name)
		assert.Equal(t, 3, infos[0].Records)
		assert.False(t, infos[0].UpdatedAt.IsZero())
		assert.Equal(t, "zeta", infos[1].Name)
		assert.Equal(t, 1, infos[1].Records)
	})

	t.Run("InvalidName", func(t *testing.T) {
		s := open(t)
		for _, name := range []string{"", "Upper", "with space", "../etc"} {
			assert.ErrorIs(t, s.Replace(ctx, name, nil), store.ErrInvalidName, name)
		}
	})
}
