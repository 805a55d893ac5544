package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

func TestNewSupplier(t *testing.T) {
	t.Run("starts with zero advance", func(t *testing.T) {
		s, err := NewSupplier("Acme Traders")
		require.NoError(t, err)

		assert.True(t, s.AdvanceBalance.IsZero())
		assert.True(t, s.ShadowAdvanceBalance.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier("")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("with known identity keeps the ID", func(t *testing.T) {
		id := uuid.New()
		s, err := NewSupplierWithID(id, "Acme Traders")
		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
	})
}

func TestSupplier_IncreaseAdvance(t *testing.T) {
	t.Run("grows both columns", func(t *testing.T) {
		s, err := NewSupplier("Acme Traders")
		require.NoError(t, err)

		amount := valueobject.NewValuation(decimal.NewFromInt(300), decimal.NewFromInt(240))
		require.NoError(t, s.IncreaseAdvance(amount))
		require.NoError(t, s.IncreaseAdvance(amount))

		assert.True(t, s.AdvanceBalance.Equal(decimal.NewFromInt(600)))
		assert.True(t, s.ShadowAdvanceBalance.Equal(decimal.NewFromInt(480)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		s, err := NewSupplier("Acme Traders")
		require.NoError(t, err)

		err = s.IncreaseAdvance(valueobject.ZeroValuation())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
