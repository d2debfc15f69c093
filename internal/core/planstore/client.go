package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"maitri-diet/internal/core/diet"
	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

const (
	savePlanPath = "/api/diet/save-plan"
	userPlanPath = "/api/diet/user/{userId}"
	upstreamName = "plan_store"
)

// ErrInvalidUserID 使用者 ID 必須為正整數
var ErrInvalidUserID = errors.New("user id must be a positive integer")

// SaveRequest 儲存計畫請求
type SaveRequest struct {
	UserID             int64    `json:"userId"`
	UserName           string   `json:"userName,omitempty"`
	Age                int      `json:"age"`
	Weight             float64  `json:"weight"`
	Height             float64  `json:"height"`
	ActivityLevel      string   `json:"activityLevel"`
	Symptoms           []string `json:"symptoms"`
	HealthGoals        []string `json:"healthGoals"`
	Allergies          string   `json:"allergies"`
	DietaryPreferences string   `json:"dietaryPreferences"`
	PlanContent        string   `json:"planContent"`
	CaloriesPerDay     int      `json:"caloriesPerDay"`
}

// Result 遠端儲存的通用回應
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UserPlan 使用者已儲存的計畫
type UserPlan struct {
	Success  bool            `json:"success"`
	HasPlan  bool            `json:"hasPlan"`
	DietPlan json.RawMessage `json:"dietPlan,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// Client 遠端計畫儲存客戶端
type Client struct {
	client *resty.Client
}

// NewClient 創建計畫儲存客戶端
func NewClient(cfg *config.PlanStoreConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// ParseUserID 解析使用者 ID
func ParseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// NewSaveRequest 依 Profile 與計畫組成儲存請求
func NewSaveRequest(sc diet.SaveContext, p diet.Profile, plan *diet.DietPlan) (*SaveRequest, error) {
	userID, err := ParseUserID(sc.UserID)
	if err != nil {
		return nil, err
	}
	content, err := common.ToJSON(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	req := &SaveRequest{
		UserID:             userID,
		UserName:           sc.UserName,
		Age:                p.Age,
		Weight:             p.WeightKg,
		Height:             p.HeightCm,
		ActivityLevel:      string(p.ActivityLevel),
		Symptoms:           make([]string, 0, len(p.Symptoms)),
		HealthGoals:        make([]string, 0, len(p.HealthGoals)),
		Allergies:          p.Allergies,
		DietaryPreferences: string(p.DietaryPreference),
		PlanContent:        content,
		CaloriesPerDay:     plan.DailyCalories,
	}
	for _, s := range p.Symptoms {
		req.Symptoms = append(req.Symptoms, string(s))
	}
	for _, g := range p.HealthGoals {
		req.HealthGoals = append(req.HealthGoals, string(g))
	}
	return req, nil
}

// SavePlan 儲存計畫，失敗時回傳 PersistenceError
func (c *Client) SavePlan(ctx context.Context, sc diet.SaveContext, p diet.Profile, plan *diet.DietPlan) error {
	body, err := NewSaveRequest(sc, p, plan)
	if err != nil {
		return common.NewKindError(common.KindPersistence, err)
	}

	var result Result
	err = c.do(ctx, sc.Token, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(savePlanPath)
	}, &result)
	if err == nil && !result.Success {
		err = fmt.Errorf("plan store rejected save: %s", result.Message)
	}
	if err != nil {
		return common.NewKindError(common.KindPersistence, err)
	}
	return nil
}

// GetUserPlan 查詢使用者已儲存的計畫
func (c *Client) GetUserPlan(ctx context.Context, userID, token string) (*UserPlan, error) {
	id, err := ParseUserID(userID)
	if err != nil {
		return nil, err
	}

	var result UserPlan
	err = c.do(ctx, token, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userId", strconv.FormatInt(id, 10)).Get(userPlanPath)
	}, &result)
	if err != nil {
		return nil, common.NewKindError(common.KindPersistence, err)
	}
	return &result, nil
}

// DeletePlan 刪除使用者已儲存的計畫
func (c *Client) DeletePlan(ctx context.Context, userID, token string) (*Result, error) {
	id, err := ParseUserID(userID)
	if err != nil {
		return nil, err
	}

	var result Result
	err = c.do(ctx, token, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("userId", strconv.FormatInt(id, 10)).Delete(userPlanPath)
	}, &result)
	if err != nil {
		return nil, common.NewKindError(common.KindPersistence, err)
	}
	return &result, nil
}

// do 發送請求並解析 JSON 回應
func (c *Client) do(ctx context.Context, token string, send func(*resty.Request) (*resty.Response, error), out interface{}) error {
	requestID := common.RequestIDFromContext(ctx)
	req := c.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if requestID != "" {
		req.SetHeader("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := send(req)
	err = decodeResponse(resp, err, out)
	common.LogUpstreamCall(upstreamName, time.Since(start), err, requestID)
	return err
}

func decodeResponse(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("failed to send request to plan store: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("plan store returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse plan store response: %w", err)
	}
	return nil
}
