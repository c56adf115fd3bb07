package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config 指标配置
type Config struct {
	// Namespace 指标命名空间
	Namespace string `mapstructure:"namespace"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{Namespace: "cardwish"}
}

// GachaMetrics 抽卡服务指标
type GachaMetrics struct {
	config *Config

	// 抽卡指标
	RollTotal     *prometheus.CounterVec   // 抽卡总数（按卡池、结果）
	RollDuration  *prometheus.HistogramVec // 抽卡请求耗时
	CardsRolled   *prometheus.CounterVec   // 出卡总数（按卡池、稀有度）
	PityForced    *prometheus.CounterVec   // 保底强制出卡数（按卡池）
	DeckValidated *prometheus.CounterVec   // 卡组校验总数（按结果）

	// 持久化指标
	PitySaveFailures prometheus.Counter     // 保底落库失败数（运维对账信号）
	PityWritebacks   *prometheus.CounterVec // 异步写回总数（按结果）
	DBQueryTotal     *prometheus.CounterVec // 数据库查询总数（按操作、结果）
	CacheTotal       *prometheus.CounterVec // 缓存访问总数（按层、命中）
}

// New 创建指标收集器
func New(cfg *Config) *GachaMetrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ns := cfg.Namespace

	return &GachaMetrics{
		config: cfg,
		RollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "roll_total",
			Help:      "Total roll requests by pack type and result.",
		}, []string{"pack", "result"}),
		RollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "roll_duration_seconds",
			Help:      "Roll request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pack"}),
		CardsRolled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cards_rolled_total",
			Help:      "Cards produced by pack type and rarity.",
		}, []string{"pack", "rarity"}),
		PityForced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pity_forced_total",
			Help:      "Rolls forced by the pity guarantee.",
		}, []string{"pack"}),
		DeckValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "deck_validated_total",
			Help:      "Deck validations by outcome.",
		}, []string{"result"}),
		PitySaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pity_save_failures_total",
			Help:      "Pity state saves that failed and entered the write-back queue.",
		}),
		PityWritebacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pity_writebacks_total",
			Help:      "Asynchronous pity write-back attempts by result.",
		}, []string{"result"}),
		DBQueryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "db_query_total",
			Help:      "Database queries by operation and result.",
		}, []string{"op", "result"}),
		CacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_total",
			Help:      "Cache accesses by layer and hit/miss.",
		}, []string{"layer", "outcome"}),
	}
}

// Register 将全部指标注册到 Registry
func (m *GachaMetrics) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		m.RollTotal, m.RollDuration, m.CardsRolled, m.PityForced, m.DeckValidated,
		m.PitySaveFailures, m.PityWritebacks, m.DBQueryTotal, m.CacheTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordDBQuery 记录一次数据库查询
func (m *GachaMetrics) RecordDBQuery(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.DBQueryTotal.WithLabelValues(op, result).Inc()
}

// RecordCache 记录一次缓存访问
func (m *GachaMetrics) RecordCache(layer string, hit bool) {
	outcome := "hit"
	if !hit {
		outcome = "miss"
	}
	m.CacheTotal.WithLabelValues(layer, outcome).Inc()
}
