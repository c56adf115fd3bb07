package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/cardwish/app/gacha/internal/catalog"
	"github.com/lk2023060901/cardwish/app/gacha/internal/dao"
	"github.com/lk2023060901/cardwish/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/cardwish/app/gacha/internal/handler"
	"github.com/lk2023060901/cardwish/app/gacha/internal/metrics"
	"github.com/lk2023060901/cardwish/app/gacha/internal/repository"
	"github.com/lk2023060901/cardwish/app/gacha/internal/service"
	"github.com/lk2023060901/cardwish/pkg/app"
	"github.com/lk2023060901/cardwish/pkg/database/postgres"
	"github.com/lk2023060901/cardwish/pkg/database/redis"
	"github.com/lk2023060901/cardwish/pkg/logger"
	"github.com/lk2023060901/cardwish/pkg/prometheus"
	"github.com/lk2023060901/cardwish/pkg/web"
	"github.com/lk2023060901/cardwish/pkg/web/middleware"
)

// GachaConfig 抽卡服务自有配置
type GachaConfig struct {
	// DataDir 配置表数据目录
	DataDir string `mapstructure:"data_dir"`
	// WritebackWorkers 异步写回工作协程数
	WritebackWorkers int `mapstructure:"writeback_workers"`
}

// Config 服务完整配置
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// Database 配置
	Database postgres.Config `mapstructure:"database"`

	// Redis 配置
	Redis redis.Config `mapstructure:"redis"`

	// Prometheus 配置
	Prometheus prometheus.Config `mapstructure:"prometheus"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`

	// 抽卡配置
	Gacha GachaConfig `mapstructure:"gacha"`
}

func main() {
	var cfg Config

	// 1. 加载配置
	if err := app.LoadConfig(&cfg); err != nil {
		panic(err)
	}

	// 2. 初始化 Logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	defer l.Sync()

	// 3. 装载配置表并构建目录
	tables, err := gameconfig.Load(cfg.Gacha.DataDir, l)
	if err != nil {
		l.Error("failed to load game config tables", "error", err)
		return
	}
	cat, err := catalog.Build(tables)
	if err != nil {
		l.Error("failed to build card catalog", "error", err)
		return
	}

	// 4. Prometheus 与指标收集器
	promClient, err := prometheus.New(&cfg.Prometheus)
	if err != nil {
		l.Error("failed to create prometheus client", "error", err)
		return
	}
	defer promClient.Close()

	gachaMetrics := metrics.New(&cfg.Metrics)
	if err := gachaMetrics.Register(promClient.Registry()); err != nil {
		l.Error("failed to register metrics", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. 数据库与缓存
	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		l.Error("failed to create postgres client", "error", err)
		return
	}
	defer db.Close()

	rdb, err := redis.New(ctx, &cfg.Redis)
	if err != nil {
		l.Error("failed to create redis client", "error", err)
		return
	}
	defer rdb.Close()

	// 6. DAO / 仓储
	pityDAO := dao.NewPityDAO(db, l, gachaMetrics)
	collectionDAO := dao.NewCollectionDAO(db, l, gachaMetrics)
	deckDAO := dao.NewDeckDAO(db, l, gachaMetrics)
	cacheDAO := dao.NewCacheDAO(rdb, l, gachaMetrics)
	repo := repository.NewPlayerRepository(pityDAO, collectionDAO, deckDAO, cacheDAO, l)

	// 7. 引擎装配
	tracker := service.NewPityTracker(l, repo)
	defer tracker.Close()

	writeback, err := service.NewPityWriteback(l, repo, gachaMetrics, cfg.Gacha.WritebackWorkers)
	if err != nil {
		l.Error("failed to create pity writeback", "error", err)
		return
	}
	defer writeback.Close()

	rollSvc := service.NewRollService(l, tables, cat, tracker, repo, gachaMetrics,
		service.WithWriteback(writeback))
	deckSvc := service.NewDeckService(l, tables.Deck, cat, repo, gachaMetrics)

	// 8. Web Server 与路由
	webServer := web.NewServer(&cfg.Web, l)
	webServer.Router().Use(cors.Default())

	webServer.Router().GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := webServer.Router().Group("/api/v1")
	api.Use(middleware.PlayerIdentity())

	handler.NewRollHandler(l, rollSvc).Register(api)
	handler.NewDeckHandler(l, deckSvc).Register(api)
	handler.NewCatalogHandler(l, tables, cat, repo).Register(api)

	// 9. 监听退出信号
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("shutdown signal received")
		cancel()
	}()

	// 10. 运行服务
	if err := webServer.Run(ctx); err != nil {
		l.Error("web server exited with error", "error", err)
	}
}
