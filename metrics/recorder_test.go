package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounters(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordLoad("ok")
	r.RecordLoad("ok")
	r.RecordLoad("cached")
	r.RecordDropped("missing", 3)
	r.RecordDropped("outlier", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.loads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.loads.WithLabelValues("cached")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.dropped.WithLabelValues("missing")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.dropped), "zero drops should not create a series")
}

func TestRecorderStagesAndSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveStage("load", 20*time.Millisecond)
	r.ObserveStage("clean", time.Millisecond)
	r.SetSessions(4)

	assert.Equal(t, 2, testutil.CollectAndCount(r.stageLatency))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.sessions))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRecordersUseSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestRecorderRequests(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObserveRequest("/api/sessions/:id", "GET", 200, 3*time.Millisecond)
	r.ObserveRequest("/api/sessions/:id", "GET", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("/api/sessions/:id", "GET", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.httpDuration))
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{101: "1xx", 201: "2xx", 304: "3xx", 422: "4xx", 500: "5xx", 0: "5xx"}
	for code, want := range tests {
		assert.Equal(t, want, statusClass(code), "code %d", code)
	}
}
