package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, stripANSI(RenderProgress(0.5, 10)), "[█████░░░░░]  50%")
	assert.Contains(t, stripANSI(RenderProgress(0.75, 8)), "[██████░░]  75%")
	assert.Contains(t, stripANSI(RenderProgress(2, 4)), "[████] 100%", "goals past target clamp")
	assert.Contains(t, stripANSI(RenderProgress(-1, 4)), "[░░░░]   0%")
}

func TestRenderCompactBar(t *testing.T) {
	for _, pct := range []float64{-0.5, 0, 0.4, 1, 1.5} {
		for _, dim := range []bool{false, true} {
			got := stripANSI(RenderCompactBar(pct, 12, dim))
			assert.Len(t, []rune(got), 12)
			assert.NotContains(t, got, "[")
			assert.NotContains(t, got, "%")
		}
	}

	assert.Equal(t, "░░░░", stripANSI(RenderCompactBar(0.0, 4, true)))
	assert.Equal(t, "████", stripANSI(RenderCompactBar(1.0, 4, true)))
	assert.Equal(t, "█░", stripANSI(RenderCompactBar(0.5, 1, false)), "width clamps to 2")
}
