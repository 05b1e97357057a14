package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStore(t *testing.T) {
	before := testutil.ToFloat64(StoreOps.WithLabelValues("select", "metrics_test"))
	beforeErr := testutil.ToFloat64(StoreErrors.WithLabelValues("select", "metrics_test"))

	ObserveStore("select", "metrics_test", time.Now(), nil)
	ObserveStore("select", "metrics_test", time.Now(), errors.New("boom"))

	assert.Equal(t, before+2, testutil.ToFloat64(StoreOps.WithLabelValues("select", "metrics_test")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(StoreErrors.WithLabelValues("select", "metrics_test")))
}
