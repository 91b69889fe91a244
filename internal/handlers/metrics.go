package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alextreichler/storefront/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_operations_total",
			Help: "Order ledger operations by outcome",
		},
		[]string{"operation", "status"},
	)

	dialogOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_dialog_operations_total",
			Help: "Inbox operations by outcome",
		},
		[]string{"operation", "status"},
	)

	unreadDialogs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_unread_dialogs",
		Help: "Open dialogs waiting for a staff reply, as of the last admin render",
	})

	pendingOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_pending_orders",
		Help: "Orders still in status placed, as of the last admin render",
	})
)

func observeRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// recordOrderOperation counts a ledger operation; skipped means an unknown id was ignored.
func recordOrderOperation(operation string, err error, skipped bool) {
	status := outcome(err)
	if err == nil && skipped {
		status = "skipped"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

func recordDialogOperation(operation string, err error, skipped bool) {
	status := outcome(err)
	if err == nil && skipped {
		status = "skipped"
	}
	dialogOperations.WithLabelValues(operation, status).Inc()
}

func publishCounters(c store.Counters) {
	unreadDialogs.Set(float64(c.UnreadDialogs))
	pendingOrders.Set(float64(c.PendingOrders))
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
