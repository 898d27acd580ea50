package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := New(reg)

	r.ObserveQuoteBuild(150 * time.Millisecond)
	r.ObserveQuoteBuild(50 * time.Millisecond)
	r.ObservePDFRender("chrome", time.Second)
	r.IncNotification(ResultSent)
	r.IncNotification(ResultBlocked)
	r.IncHTTPRequest(http.MethodGet, "/get-sheet-data", http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.quotesBuilt))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues(ResultBlocked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/get-sheet-data", "200")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveQuoteBuild(time.Second)
	r.ObservePDFRender("fpdf", time.Second)
	r.IncNotification(ResultFailed)
	r.IncHTTPRequest("GET", "/", 200)
	assert.NotNil(t, r.Handler())
}

func TestHandlerServesMetrics(t *testing.T) {
	r := New(nil)
	r.ObserveQuoteBuild(time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "smeta_quotes_built_total 1"))
}
