package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

const readinessTimeout = 2 * time.Second

// Checker 就緒檢查的依賴
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Features  map[string]bool        `json:"features"`
	Stats     interface{}            `json:"stats,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	cfg    *config.Config
	checks map[string]Checker
	stats  func() interface{}
}

// NewHandler 創建健康檢查處理程序，checks 與 stats 可為 nil
func NewHandler(cfg *config.Config, checks map[string]Checker, stats func() interface{}) *Handler {
	return &Handler{cfg: cfg, checks: checks, stats: stats}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Features: map[string]bool{
			"meal_source": h.cfg.MealSource.Enabled,
			"plan_store":  h.cfg.PlanStore.Enabled,
			"cache":       h.cfg.Cache.Enabled,
			"rate_limit":  h.cfg.RateLimit.Enabled,
		},
	}
	if h.stats != nil {
		resp.Stats = h.stats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck 就緒檢查，任一依賴無法連線時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			common.LogWarn("就緒檢查失敗", zap.String("dependency", name), zap.Error(err))
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"dependencies": results,
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
