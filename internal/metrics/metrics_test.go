package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsSharedInstance(t *testing.T) {
	a := New()
	b := New()
	assert.Same(t, a, b, "second call must not re-register collectors")
}

func TestNew_CountersIncrement(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.ArmOutcomesTotal.WithLabelValues("lapsed"))
	m.ArmOutcomesTotal.WithLabelValues("lapsed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(m.ArmOutcomesTotal.WithLabelValues("lapsed")))
}
