package request

import (
	"net/http"
	"net/http/httputil"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wad350/gwm-home-assistant/util"
)

type roundTripper struct {
	log  *util.Logger
	base http.RoundTripper
}

var (
	reqMetric = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "gwm",
		Subsystem:  "http",
		Name:       "request_duration_seconds",
		Help:       "A summary of HTTP request durations",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"host"})

	resMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gwm",
		Subsystem: "http",
		Name:      "request_total",
		Help:      "Total count of HTTP requests by status",
	}, []string{"host", "status"})
)

func init() {
	prometheus.MustRegister(reqMetric, resMetric)
}

// NewTripper creates a logging and instrumenting roundtripper
func NewTripper(log *util.Logger, base http.RoundTripper) http.RoundTripper {
	return &roundTripper{
		log:  log,
		base: base,
	}
}

func (r *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	r.log.TRACE.Printf("%s %s", req.Method, req.URL.String())

	if body, err := httputil.DumpRequestOut(req, true); err == nil {
		r.log.TRACE.Println(util.Redact(string(body)))
	}

	startTime := time.Now()
	resp, err := r.base.RoundTrip(req)
	reqMetric.WithLabelValues(req.URL.Host).Observe(time.Since(startTime).Seconds())

	if err != nil {
		resMetric.WithLabelValues(req.URL.Host, "error").Inc()
		return resp, err
	}

	resMetric.WithLabelValues(req.URL.Host, strconv.Itoa(resp.StatusCode)).Inc()

	if body, err := httputil.DumpResponse(resp, true); err == nil {
		r.log.TRACE.Println(util.Redact(string(body)))
	}

	return resp, err
}
