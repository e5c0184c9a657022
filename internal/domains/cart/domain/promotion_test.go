package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromotionRules_ResolveIsCaseInsensitive(t *testing.T) {
	rules := DefaultPromotionRules()
	for _, code := range []string{"FOODIO20", "foodio20", "  FoodIO20 "} {
		rate, ok := rules.Resolve(code)
		require.True(t, ok, code)
		require.Equal(t, "20", rate.String())
	}
	_, ok := rules.Resolve("NOPE")
	require.False(t, ok)
	_, ok = rules.Resolve("")
	require.False(t, ok)
}

func TestParsePromotionRules(t *testing.T) {
	rules, err := ParsePromotionRules(" weekend15:15 , VIP:12.5,")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, "15", rules["WEEKEND15"].String())
	require.Equal(t, "12.5", rules["VIP"].String())

	merged := DefaultPromotionRules().Merge(rules)
	require.Len(t, merged, 4)
	_, ok := DefaultPromotionRules()["VIP"]
	require.False(t, ok)
}

func TestParsePromotionRules_Rejects(t *testing.T) {
	for _, raw := range []string{"NOCOLON", ":10", "X:abc", "X:-1", "X:101"} {
		_, err := ParsePromotionRules(raw)
		require.Error(t, err, raw)
	}
}
