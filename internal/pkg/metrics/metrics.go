package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按方法/路径/状态计数请求量。
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration 请求耗时分布。
	HTTPRequestDuration *prometheus.HistogramVec
	// LoginTotal 登录结果计数（success / failure）。
	LoginTotal *prometheus.CounterVec
	// TokensIssuedTotal 按类型计数签发的令牌。
	TokensIssuedTotal *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics 注册所有指标，可重复调用。
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "path", "status"})

		HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskapi_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		LoginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_login_total",
			Help: "Login attempts by result.",
		}, []string{"result"})

		TokensIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_tokens_issued_total",
			Help: "Tokens issued by type.",
		}, []string{"type"})
	})
}
