package plan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads default plans", func(t *testing.T) {
		t.Parallel()

		catalog, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(plan.DefaultPlans()...))
		require.NoError(t, err)

		for _, id := range []plan.ID{plan.Free, plan.Try, plan.Basic, plan.Pro} {
			assert.True(t, catalog.Has(id), "catalog should contain %s", id)
		}
	})

	t.Run("requires the free plan", func(t *testing.T) {
		t.Parallel()

		src := plan.NewInMemSource(plan.Plan{ID: plan.Basic, Name: "Basic", MessageAllowance: 300, ValidityDays: 30})
		_, err := plan.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plan.ErrNoFreePlan)
	})

	t.Run("rejects expiring free plan", func(t *testing.T) {
		t.Parallel()

		src := plan.NewInMemSource(plan.Plan{ID: plan.Free, Name: "Free", MessageAllowance: 10, ValidityDays: 7})
		_, err := plan.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfig)
	})

	t.Run("duplicate plan definitions panic at construction", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			plan.NewInMemSource(
				plan.Plan{ID: plan.Free, Name: "Free", MessageAllowance: 10},
				plan.Plan{ID: plan.Free, Name: "Free again", MessageAllowance: 20},
			)
		})
	})

	t.Run("rejects negative allowance", func(t *testing.T) {
		t.Parallel()

		src := plan.NewInMemSource(
			plan.Plan{ID: plan.Free, Name: "Free", MessageAllowance: 10},
			plan.Plan{ID: plan.Try, Name: "Try", MessageAllowance: -1, ValidityDays: 1},
		)
		_, err := plan.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plan.ErrInvalidPlanConfig)
	})
}

func TestCatalogResolve(t *testing.T) {
	t.Parallel()

	catalog, err := plan.NewCatalog(context.Background(), plan.NewInMemSource(plan.DefaultPlans()...))
	require.NoError(t, err)

	t.Run("known plan", func(t *testing.T) {
		t.Parallel()

		p, err := catalog.Resolve(plan.Basic)
		require.NoError(t, err)
		assert.Equal(t, plan.Basic, p.ID)
		assert.Equal(t, 300, p.MessageAllowance)
		assert.Equal(t, 30, p.ValidityDays)
	})

	t.Run("unknown plan falls back to free terms", func(t *testing.T) {
		t.Parallel()

		p, err := catalog.Resolve("platinum")
		assert.ErrorIs(t, err, plan.ErrUnknownPlan)
		assert.Equal(t, plan.Free, p.ID)
		assert.Equal(t, plan.DefaultFreeAllowance, p.MessageAllowance)
	})
}

func TestPlanExpiresAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("paid plan expiry", func(t *testing.T) {
		t.Parallel()

		p := plan.Plan{ID: plan.Basic, MessageAllowance: 300, ValidityDays: 30}
		expiresAt := p.ExpiresAt(now)
		require.NotNil(t, expiresAt)
		assert.Equal(t, now.AddDate(0, 0, 30), *expiresAt)
	})

	t.Run("free plan never expires", func(t *testing.T) {
		t.Parallel()

		p := plan.Plan{ID: plan.Free, MessageAllowance: 10}
		assert.Nil(t, p.ExpiresAt(now))
		assert.True(t, p.IsFree())
	})
}
