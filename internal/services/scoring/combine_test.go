package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"METI/internal/domain/models"
)

func TestCombineIsLinearAndBounded(t *testing.T) {
	for m := 0.0; m <= 100; m += 2.5 {
		for g := 0.0; g <= 100; g += 2.5 {
			final, level := Combine(m, g)
			assert.InDelta(t, 0.7*m+0.3*g, final, 1e-12, "m=%v g=%v", m, g)
			assert.GreaterOrEqual(t, final, 0.0)
			assert.LessOrEqual(t, final, 100.0)
			assert.Equal(t, Classify(final), level)
		}
	}
}

func TestCombineClampsOutOfRangeInputs(t *testing.T) {
	final, level := Combine(140, -20)
	assert.InDelta(t, 70.0, final, 1e-12)
	assert.Equal(t, models.LevelElevated, level)
}

func TestCombineLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  models.TensionLevel
	}{
		{0, models.LevelLow},
		{29.999, models.LevelLow},
		{30, models.LevelModerate},
		{59.999, models.LevelModerate},
		{60, models.LevelElevated},
		{79.999, models.LevelElevated},
		{80, models.LevelHigh},
		{100, models.LevelHigh},
	}
	for _, tc := range cases {
		final, level := Combine(tc.score, tc.score)
		assert.InDelta(t, tc.score, final, 1e-9)
		assert.Equal(t, tc.want, level, "score=%v", tc.score)
		assert.Equal(t, tc.want, Classify(tc.score), "score=%v", tc.score)
	}
}

func TestLevelPresentation(t *testing.T) {
	assert.Equal(t, "Moderate Tension", models.LevelModerate.Label())
	assert.Equal(t, models.ColorCritical, models.LevelHigh.Color())
	assert.Equal(t, models.ColorCalm, models.LevelLow.Color())
}
