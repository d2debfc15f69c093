package mealsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"maitri-diet/internal/core/cache"
	"maitri-diet/internal/core/diet"
	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

const (
	generatePlanPath = "/api/diet/generate-plan"
	upstreamName     = "meal_source"
	cacheKeyPrefix   = "mealsource:"
)

// Client 外部餐點/熱量來源
type Client struct {
	client *resty.Client
	cache  cache.Store
}

// NewClient 創建外部餐點來源客戶端，store 可為 nil
func NewClient(cfg *config.MealSourceConfig, store cache.Store) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		client: client,
		cache:  store,
	}
}

// FetchMealSuggestions 取得餐點建議
// 連線錯誤、非 2xx 與 success=false 都回傳 ExternalSourceError
func (c *Client) FetchMealSuggestions(ctx context.Context, p diet.Profile) (*diet.MealSuggestions, error) {
	key, err := cacheKey(p)
	if err != nil {
		return nil, common.NewKindError(common.KindExternalSource, err)
	}

	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}

	requestID := common.RequestIDFromContext(ctx)
	start := time.Now()

	req := c.client.R().
		SetContext(ctx).
		SetBody(p)
	if requestID != "" {
		req.SetHeader("X-Request-ID", requestID)
	}
	resp, err := req.Post(generatePlanPath)

	suggestions, err := parseResponse(resp, err)
	common.LogUpstreamCall(upstreamName, time.Since(start), err, requestID)
	if err != nil {
		return nil, common.NewKindError(common.KindExternalSource, err)
	}

	c.store(ctx, key, suggestions)
	return suggestions, nil
}

func parseResponse(resp *resty.Response, err error) (*diet.MealSuggestions, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to send request to meal source: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("meal source returned status %d", resp.StatusCode())
	}

	var result diet.MealSuggestions
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse meal source response: %w", err)
	}
	if !result.Success {
		if result.Message != "" {
			return nil, fmt.Errorf("meal source reported failure: %s", result.Message)
		}
		return nil, errors.New("meal source reported failure")
	}
	return &result, nil
}

func cacheKey(p diet.Profile) (string, error) {
	hash, err := common.HashJSON(p)
	if err != nil {
		return "", fmt.Errorf("failed to hash profile: %w", err)
	}
	return cacheKeyPrefix + hash, nil
}

func (c *Client) lookup(ctx context.Context, key string) (*diet.MealSuggestions, bool) {
	if c.cache == nil {
		return nil, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("upstream", upstreamName), zap.Error(err))
		}
		common.LogCacheMiss(upstreamName)
		return nil, false
	}

	var cached diet.MealSuggestions
	if err := json.Unmarshal(data, &cached); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("upstream", upstreamName), zap.Error(err))
		return nil, false
	}
	common.LogCacheHit(upstreamName)
	return &cached, true
}

func (c *Client) store(ctx context.Context, key string, s *diet.MealSuggestions) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("upstream", upstreamName), zap.Error(err))
	}
}
