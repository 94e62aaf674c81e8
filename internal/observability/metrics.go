package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

// Metrics is a process-wide Prometheus text exporter. Every method is a
// no-op on a nil receiver so callers never check Enabled.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *Counter

	quizOffered     *CounterVec
	quizAnswered    *CounterVec
	dataIntegrity   *Counter
	transientRetry  *CounterVec
	sessionsExpired *Counter

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init creates the exporter once. When enabled is false Current stays nil.
func Init(enabled bool, scrapeInterval time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	initOnce.Do(func() {
		instance = &Metrics{
			apiRequests: NewCounterVec("ad_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
			apiLatency: NewHistogramVec(
				"ad_api_request_duration_seconds",
				"API request latency in seconds by method/route.",
				[]string{"method", "route"},
				[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			),
			apiInflight: NewGauge("ad_api_inflight_requests", "In-flight API requests."),
			apiErrors:   NewCounter("ad_api_server_errors_total", "API responses with a 5xx status."),

			quizOffered:     NewCounterVec("ad_quiz_offered_total", "Prompts handed out by quiz type.", []string{"quiz_type"}),
			quizAnswered:    NewCounterVec("ad_quiz_answered_total", "Answers reconciled by item type.", []string{"item_type"}),
			dataIntegrity:   NewCounter("ad_data_integrity_errors_total", "Requests failed by inconsistent content data."),
			transientRetry:  NewCounterVec("ad_transient_retries_total", "Requests retried after a transient database error.", []string{"route"}),
			sessionsExpired: NewCounter("ad_sessions_expired_total", "Sessions removed by the janitor."),

			dbStats:   NewGaugeVec("ad_db_pool", "database/sql pool statistics.", []string{"stat"}),
			redisUp:   NewGauge("ad_redis_up", "1 when the last redis ping succeeded."),
			redisPing: NewGauge("ad_redis_ping_seconds", "Latency of the last redis ping."),

			scrapeInterval: scrapeInterval,
		}
	})
	return instance
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.quizOffered, m.quizAnswered, m.dataIntegrity, m.transientRetry, m.sessionsExpired,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
	if isServerErrorStatus(status) {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncQuizOffered(quizType string) {
	if m == nil {
		return
	}
	if quizType == "" {
		quizType = "none"
	}
	m.quizOffered.Inc(quizType)
}

func (m *Metrics) IncQuizAnswered(itemType string) {
	if m == nil {
		return
	}
	m.quizAnswered.Inc(itemType)
}

func (m *Metrics) IncDataIntegrity() {
	if m == nil {
		return
	}
	m.dataIntegrity.Inc()
}

func (m *Metrics) IncTransientRetry(route string) {
	if m == nil {
		return
	}
	m.transientRetry.Inc(route)
}

func (m *Metrics) AddSessionsExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsExpired.Add(float64(n))
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
