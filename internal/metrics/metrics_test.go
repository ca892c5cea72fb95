package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrementViaCallbacks(t *testing.T) {
	assert := assert.New(t)

	r := New()
	r.OnEncoded(4)
	r.OnFrame(4)
	r.OnDrop(10)
	r.OnRotation(2)
	r.OnSquelch()
	r.OnSquelch()

	assert.Equal(float64(1), testutil.ToFloat64(r.FramesEncoded))
	assert.Equal(float64(1), testutil.ToFloat64(r.FramesDecoded))
	assert.Equal(float64(1), testutil.ToFloat64(r.FramesDropped))
	assert.Equal(float64(1), testutil.ToFloat64(r.RotationLocks))
	assert.Equal(float64(2), testutil.ToFloat64(r.SquelchedSyms))
}

func TestHandlerServesMetrics(t *testing.T) {
	r := New()
	r.OnEncoded(1)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "ampkt_frames_encoded_total")
}
