package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier(t *testing.T) {
	cases := []struct {
		score int
		want  ScoreTier
	}{
		{100, TierExcellent},
		{80, TierExcellent},
		{79, TierGood},
		{60, TierGood},
		{59, TierFair},
		{0, TierFair},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Tier(c.score), "score %d", c.score)
	}
}

func TestThresholdsAgreeWithTier(t *testing.T) {
	for s := 0; s <= 100; s++ {
		assert.Equal(t, Eligible(s), Tier(s) != TierFair, "score %d", s)
		assert.Equal(t, DeepDiveEligible(s), Tier(s) == TierExcellent, "score %d", s)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, MaxFunScore))
	assert.Equal(t, 80, Clamp(95, MaxFunScore))
	assert.Equal(t, 12, Clamp(12, MaxUsefulScore))
}

func TestParseDimension(t *testing.T) {
	cases := map[string]Dimension{
		"daily-life":           DimensionDailyLife,
		" Social_Entertainment": DimensionSocialEntertainment,
		"商业价值":                 DimensionCommercialValue,
		"日常生活维度":               DimensionDailyLife,
	}
	for in, want := range cases {
		got, ok := ParseDimension(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseDimension("health")
	assert.False(t, ok)
}

func TestDimensionLabel(t *testing.T) {
	assert.Equal(t, "社交娱乐", DimensionSocialEntertainment.Label())
	assert.Equal(t, 2, DimensionCommercialValue.Index())
	assert.Equal(t, -1, Dimension("x").Index())
}
