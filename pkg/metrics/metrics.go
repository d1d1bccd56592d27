// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 业务指标
	OrdersTotal         prometheus.Counter
	FilterPassesTotal   prometheus.Counter
	FilterPassesFailed  prometheus.Counter
	DistanceCacheHits   prometheus.Counter
	DistanceCacheMisses prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		OrdersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "orders_total",
			Help:      "Total orders submitted",
		}),
		FilterPassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "filter_passes_total",
			Help:      "Total delivery filter passes",
		}),
		FilterPassesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "filter_passes_failed_total",
			Help:      "Delivery filter passes that failed",
		}),
		DistanceCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "distance_cache_hits_total",
			Help:      "Distance cache hits",
		}),
		DistanceCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "deliveryhub",
			Subsystem: serviceName,
			Name:      "distance_cache_misses_total",
			Help:      "Distance cache misses",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.FilterPassesTotal,
		m.FilterPassesFailed,
		m.DistanceCacheHits,
		m.DistanceCacheMisses,
	}

	for _, collector := range collectors {
		if err := prometheus.DefaultRegisterer.Register(collector); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()

	return nil
}
