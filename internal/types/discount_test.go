package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountKindValidate(t *testing.T) {
	valid := []DiscountKind{
		DiscountKindPercentage,
		DiscountKindFixedAmount,
		DiscountKindBuyXGetY,
		DiscountKindComboBundle,
		DiscountKindVolumeTier,
		DiscountKindCustomerSegment,
		DiscountKindTimeWindow,
		DiscountKindTiered,
	}
	for _, k := range valid {
		assert.NoError(t, k.Validate(), "kind %s", k)
	}

	assert.Error(t, DiscountKind("raffle").Validate())
	assert.Error(t, DiscountKind("").Validate())
}

func TestDiscountKindIsTierLadder(t *testing.T) {
	assert.True(t, DiscountKindVolumeTier.IsTierLadder())
	assert.True(t, DiscountKindTiered.IsTierLadder())
	assert.False(t, DiscountKindPercentage.IsTierLadder())
}

func TestApplicationModeValidate(t *testing.T) {
	for _, m := range []ApplicationMode{
		ApplicationModeAccumulable,
		ApplicationModeCascade,
		ApplicationModeExclusive,
	} {
		assert.NoError(t, m.Validate(), "mode %s", m)
	}

	assert.Error(t, ApplicationMode("solo").Validate())
}

func TestConditionKindValidate(t *testing.T) {
	assert.NoError(t, ConditionKindCategory.Validate())
	assert.NoError(t, ConditionKindTimeRange.Validate())
	assert.Error(t, ConditionKind("moon_phase").Validate())
}

func TestConditionKindIsSetMembership(t *testing.T) {
	assert.True(t, ConditionKindCategory.IsSetMembership())
	assert.True(t, ConditionKindRegion.IsSetMembership())
	assert.False(t, ConditionKindMinQuantity.IsSetMembership())
	assert.False(t, ConditionKindFirstOrderOnly.IsSetMembership())
}

func TestRelationKindValidate(t *testing.T) {
	for _, k := range []RelationKind{
		RelationKindConflict,
		RelationKindRequired,
		RelationKindOverride,
		RelationKindCombinable,
		RelationKindCascade,
	} {
		assert.NoError(t, k.Validate(), "kind %s", k)
	}

	assert.Error(t, RelationKind("friends_with").Validate())
}

func TestIsMatchingCurrency(t *testing.T) {
	assert.True(t, IsMatchingCurrency("usd", "USD"))
	assert.True(t, IsMatchingCurrency("EUR", "eur"))
	assert.False(t, IsMatchingCurrency("usd", "eur"))
	assert.False(t, IsMatchingCurrency("usd", ""))
}

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", GetCurrencySymbol("USD"))
	assert.Equal(t, "₹", GetCurrencySymbol("inr"))
	assert.Equal(t, "xyz", GetCurrencySymbol("xyz"))
}
