// Package metrics 提供基于Prometheus的书架指标
//
// 指标分三类：
//   - HTTP请求：总数、耗时、并发数（由中间件记录）
//   - 书架业务：变更次数（按操作）、持久化结果、各列表图书数量
//   - 消息队列：shelf.saved事件发布次数
//
// 所有指标通过promauto注册到默认Registry，/metrics端点由Handler暴露。
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（秒）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BookMutationsTotal 书架变更总数
	// 标签：op（create/update/delete/toggle/load）
	BookMutationsTotal *prometheus.CounterVec

	// ShelfPersistTotal 持久化次数
	// 标签：result（success/failure/skipped）
	ShelfPersistTotal *prometheus.CounterVec

	// BooksOnShelf 当前书架上的图书数
	// 标签：state（complete/incomplete）
	BooksOnShelf *prometheus.GaugeVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 可重复调用，只会注册一次（测试中多次调用不会panic）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "books_mutations_total",
				Help: "书架变更总数",
			},
			[]string{"op"},
		)

		ShelfPersistTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_persist_total",
				Help: "书架持久化次数",
			},
			[]string{"result"},
		)

		BooksOnShelf = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "books_total",
				Help: "书架上的图书数量",
			},
			[]string{"state"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)
	})
}

// Handler 返回/metrics端点处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// RecordMutation 记录一次书架变更
func RecordMutation(op string) {
	InitMetrics()
	IncCounterVec(BookMutationsTotal, map[string]string{"op": op})
}

// RecordPersist 记录一次持久化结果（success/failure/skipped）
func RecordPersist(result string) {
	InitMetrics()
	IncCounterVec(ShelfPersistTotal, map[string]string{"result": result})
}

// RecordShelfSize 记录两个列表的图书数量
func RecordShelfSize(incomplete, complete int) {
	InitMetrics()
	SetGaugeVec(BooksOnShelf, map[string]string{"state": "incomplete"}, float64(incomplete))
	SetGaugeVec(BooksOnShelf, map[string]string{"state": "complete"}, float64(complete))
}
