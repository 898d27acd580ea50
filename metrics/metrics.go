package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification results
const (
	ResultSent    = "sent"
	ResultBlocked = "blocked"
	ResultFailed  = "failed"
)

// Recorder collects the service metrics on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prom.Registry
	quotesBuilt   prom.Counter
	quoteBuild    prom.Histogram
	pdfRender     *prom.HistogramVec
	notifications *prom.CounterVec
	httpRequests  *prom.CounterVec
}

// New constructs and registers the collectors on reg, a fresh registry is used when reg is nil
func New(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		quotesBuilt: prom.NewCounter(prom.CounterOpts{
			Namespace: "smeta",
			Name:      "quotes_built_total",
			Help:      "Quotes built from the spreadsheet",
		}),
		quoteBuild: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "smeta",
			Name:      "quote_build_seconds",
			Help:      "Time to fetch the grid and build a quote",
			Buckets:   prom.DefBuckets,
		}),
		pdfRender: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "smeta",
			Name:      "pdf_render_seconds",
			Help:      "PDF rendering duration by engine",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"engine"}),
		notifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "smeta",
			Name:      "notifications_sent_total",
			Help:      "Telegram notifications by result",
		}, []string{"result"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "smeta",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(r.quotesBuilt, r.quoteBuild, r.pdfRender, r.notifications, r.httpRequests)
	return r
}

func (r *Recorder) ObserveQuoteBuild(d time.Duration) {
	if r == nil {
		return
	}
	r.quotesBuilt.Inc()
	r.quoteBuild.Observe(d.Seconds())
}

func (r *Recorder) ObservePDFRender(engine string, d time.Duration) {
	if r == nil {
		return
	}
	r.pdfRender.WithLabelValues(engine).Observe(d.Seconds())
}

func (r *Recorder) IncNotification(result string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(result).Inc()
}

func (r *Recorder) IncHTTPRequest(method, route string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prom.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
