package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dietHandler "maitri-diet/internal/api/handlers/diet"
	"maitri-diet/internal/api/handlers/health"
	"maitri-diet/internal/api/middleware"
	"maitri-diet/internal/core/cache"
	"maitri-diet/internal/core/diet"
	"maitri-diet/internal/core/mealsource"
	"maitri-diet/internal/core/planstore"
	"maitri-diet/internal/core/queue"
	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

// Services 路由使用的服務
type Services struct {
	Diet  *diet.Service
	Plans dietHandler.PlanStore
	Cache cache.Store
	// Jobs 背景儲存隊列，plan store 停用時為 nil
	Jobs *queue.Manager
}

// NewServices 依設定組裝服務，store 可為 nil
func NewServices(cfg *config.Config, store cache.Store) *Services {
	var source diet.MealSource
	if cfg.MealSource.Enabled {
		source = mealsource.NewClient(&cfg.MealSource, store)
	}

	var (
		saver diet.PlanSaver
		plans dietHandler.PlanStore
		jobs  *queue.Manager
	)
	if cfg.PlanStore.Enabled {
		client := planstore.NewClient(&cfg.PlanStore)
		saver = client
		plans = client
		jobs = queue.NewManager(&cfg.SaveQueue)
	}

	policy := diet.Policy{
		PeriodIssuesMaxAge: cfg.Policy.PeriodIssuesMaxAge,
		SupervisionAge:     cfg.Policy.SupervisionAge,
	}
	engine := diet.NewEngine(source, cfg.MealSource.Timeout)

	common.LogInfo("服務初始化完成",
		zap.Bool("meal_source_enabled", source != nil),
		zap.Bool("plan_store_enabled", saver != nil),
		zap.Bool("cache_enabled", store != nil),
	)

	// 避免把 nil 指標包進 Dispatcher 介面
	var dispatcher diet.Dispatcher
	if jobs != nil {
		dispatcher = jobs
	}

	return &Services{
		Diet:  diet.NewService(engine, saver, dispatcher, policy),
		Plans: plans,
		Cache: store,
		Jobs:  jobs,
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svcs *Services) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg, readinessChecks(svcs.Cache), runtimeStats(svcs))
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	h := dietHandler.NewHandler(svcs.Diet, svcs.Plans)

	// POST 路由才需要限流與去重
	writeGuards := []gin.HandlerFunc{middleware.Deduplication(cfg.DedupWindow)}
	if cfg.RateLimit.Enabled {
		writeGuards = append([]gin.HandlerFunc{middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window)}, writeGuards...)
	}

	api := router.Group("/api/v1")
	{
		dietGroup := api.Group("/diet")
		{
			dietGroup.GET("/options", h.HandleOptions)
			dietGroup.GET("/plans/:userId", h.HandleGetUserPlan)
			dietGroup.DELETE("/plans/:userId", h.HandleDeleteUserPlan)

			guarded := dietGroup.Group("", writeGuards...)
			guarded.POST("/selection/goals", h.HandleToggleGoal)
			guarded.POST("/selection/symptoms", h.HandleToggleSymptom)
			guarded.POST("/validate", h.HandleValidate)
			guarded.POST("/generate", h.HandleGenerate)
			guarded.POST("/pdf", h.HandlePDF)
		}
	}

	common.LogInfo("路由設置完成",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)
	return router
}

func readinessChecks(store cache.Store) map[string]health.Checker {
	checks := make(map[string]health.Checker)
	if rs, ok := store.(*cache.RedisStore); ok {
		checks["redis"] = rs
	}
	return checks
}

// runtimeStats 組合記憶體快取與背景隊列的統計
func runtimeStats(svcs *Services) func() interface{} {
	m, hasCache := svcs.Cache.(*cache.Manager)
	if !hasCache && svcs.Jobs == nil {
		return nil
	}
	return func() interface{} {
		stats := make(map[string]interface{}, 2)
		if hasCache {
			stats["cache"] = m.GetStats()
		}
		if svcs.Jobs != nil {
			stats["save_queue"] = svcs.Jobs.GetQueueStatus()
		}
		return stats
	}
}
