package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/princebhanderi/ed-tech-platform/core/cascade"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studynotion_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studynotion_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	cascadeSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studynotion_cascade_steps_total",
		Help: "Cascade delete steps by plan, step and result",
	}, []string{"plan", "step", "result"})

	cascadeAffected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studynotion_cascade_documents_affected_total",
		Help: "Documents changed by cascade delete steps",
	}, []string{"plan", "step"})
)

// metricsMiddleware labels requests by route pattern, not raw path, to bound cardinality.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}
		status := strconv.Itoa(ctx.Response().Status)
		path := ctx.Path()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(ctx.Request().Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Request().Method, path, status).Observe(time.Since(start).Seconds())
		return nil
	}
}

func metricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// observeCascade records a cascade run, including the step it failed at.
func observeCascade(report cascade.Report) {
	for _, res := range report.Results {
		cascadeSteps.WithLabelValues(report.Plan, res.Step, "ok").Inc()
		cascadeAffected.WithLabelValues(report.Plan, res.Step).Add(float64(res.Affected))
	}
	if report.Failed != "" {
		cascadeSteps.WithLabelValues(report.Plan, report.Failed, "failed").Inc()
	}
}
