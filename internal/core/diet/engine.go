package diet

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"maitri-diet/internal/pkg/common"
)

const (
	defaultMealTitle   = "Healthy Meal Option"
	defaultReadyInMins = 30
)

// MealSource 外部餐點/熱量來源
type MealSource interface {
	FetchMealSuggestions(ctx context.Context, p Profile) (*MealSuggestions, error)
}

// Engine 推薦引擎
type Engine struct {
	source  MealSource
	timeout time.Duration
	now     func() time.Time
}

// NewEngine 創建推薦引擎，source 為 nil 時一律使用靜態餐點表
func NewEngine(source MealSource, timeout time.Duration) *Engine {
	return &Engine{
		source:  source,
		timeout: timeout,
		now:     time.Now,
	}
}

// Generate 依 Profile 產生飲食計畫
// 外部來源失敗時退回靜態資料，唯一會回傳的錯誤是呼叫端 context 被取消
func (e *Engine) Generate(ctx context.Context, p Profile) (*DietPlan, error) {
	suggestions, sourceErr := e.fetch(ctx, p)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &DietPlan{
		DailyCalories:   CalculateCalories(p),
		Recommendations: BuildRecommendations(p),
		Supplements:     BuildSupplements(p),
		GeneratedAt:     e.now().UTC(),
	}

	switch {
	case sourceErr != nil:
		common.LogWarn("外部餐點來源不可用，使用靜態餐點表", zap.Error(sourceErr))
		plan.MealPlan = FallbackMealPlan(p.Allergies)
		plan.DataSource = SourceFallback
	case suggestions == nil || !suggestions.Success:
		common.LogWarn("外部餐點來源回應不成功，使用靜態餐點表")
		plan.MealPlan = FallbackMealPlan(p.Allergies)
		plan.DataSource = SourceFallback
	default:
		plan.MealPlan = BuildMealPlan(suggestions.Meals, p.Allergies)
		plan.SourceCalories = suggestions.Calories
		plan.DataSource = SourcePrimary
		if suggestions.Fallback {
			plan.DataSource = SourceFallback
		}
	}

	return plan, nil
}

func (e *Engine) fetch(ctx context.Context, p Profile) (*MealSuggestions, error) {
	if e.source == nil {
		return nil, common.ErrMealSourceDisabled
	}
	fetchCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.source.FetchMealSuggestions(fetchCtx, p)
}

// CalculateCalories 每日熱量目標
func CalculateCalories(p Profile) int {
	bonus := 100.0
	if p.ActivityLevel == ActivityActive {
		bonus = 300
	}
	return int(math.Round(1200 + p.WeightKg*15 + bonus))
}

// BuildRecommendations 依症狀宣告順序產生建議卡片，最後附加均衡飲食
func BuildRecommendations(p Profile) []Recommendation {
	recs := make([]Recommendation, 0, len(p.Symptoms)+1)
	for _, opt := range Symptoms {
		tag := SymptomTag(opt.ID)
		if !p.HasSymptom(tag) {
			continue
		}
		if rec, ok := symptomRecommendation(tag); ok {
			recs = append(recs, rec)
		}
	}
	return append(recs, balancedNutrition)
}

// BuildSupplements 依 年齡 → 症狀 → 目標 → 活動量 → 飲食 的順序累積補充品
func BuildSupplements(p Profile) []Supplement {
	var all []Supplement
	all = append(all, ageSupplements(p.Age)...)
	for _, opt := range Symptoms {
		if tag := SymptomTag(opt.ID); p.HasSymptom(tag) {
			all = append(all, symptomSupplements(tag)...)
		}
	}
	for _, opt := range Goals {
		if tag := GoalTag(opt.ID); p.HasGoal(tag) {
			all = append(all, goalSupplements(tag)...)
		}
	}
	all = append(all, activitySupplements(p.ActivityLevel)...)
	all = append(all, dietSupplements(p.DietaryPreference)...)

	seen := make(map[string]bool, len(all))
	out := make([]Supplement, 0, MaxSupplements)
	for _, s := range all {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		out = append(out, s)
		if len(out) == MaxSupplements {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, defaultSupplement)
	}
	return out
}

// BuildMealPlan 依位置分配外部餐點，空餐次以補位餐點填滿
func BuildMealPlan(meals []ExternalMeal, allergyText string) MealPlan {
	if len(meals) == 0 {
		return FallbackMealPlan(allergyText)
	}

	raw := make(MealPlan, len(MealSlots))
	for i, m := range meals {
		slot := SlotSnacks
		if i < len(MealSlots)-1 {
			slot = MealSlots[i]
		}
		raw[slot] = append(raw[slot], formatMeal(m))
	}

	plan := FilterMealPlan(raw, allergyText)
	for _, slot := range MealSlots {
		if len(plan[slot]) == 0 {
			plan[slot] = FilterMeals(slotFillers(slot), allergyText)
		}
	}
	if strings.TrimSpace(allergyText) != "" {
		plan[SlotSnacks] = padSnacks(plan[SlotSnacks], allergyText)
	}
	return plan
}

// FallbackMealPlan 過濾後的靜態餐點表
func FallbackMealPlan(allergyText string) MealPlan {
	return FilterMealPlan(fallbackMealTable(), allergyText)
}

func formatMeal(m ExternalMeal) string {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = defaultMealTitle
	}
	mins := m.ReadyInMinutes
	if mins <= 0 {
		mins = defaultReadyInMins
	}
	return fmt.Sprintf("%s (%d mins)", title, mins)
}
