package diet

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"maitri-diet/internal/pkg/common"
)

// FallbackNotice 資料來源為靜態表時給使用者的非阻擋提示
const FallbackNotice = "Live meal suggestions are unavailable right now, so this plan uses our curated meal library."

// SaveContext 儲存計畫所需的使用者資訊
type SaveContext struct {
	UserID   string
	UserName string
	Token    string
}

// PlanSaver 遠端計畫儲存
type PlanSaver interface {
	SavePlan(ctx context.Context, sc SaveContext, p Profile, plan *DietPlan) error
}

// Dispatcher 背景工作執行器
type Dispatcher interface {
	Enqueue(name string, run func(ctx context.Context) error) error
	Wait()
}

// PlanError 阻擋產生計畫的問題集合
type PlanError struct {
	Kind   common.ErrorKind
	Issues []ValidationIssue
}

// Error 實現 error 介面
func (e *PlanError) Error() string {
	var b strings.Builder
	b.WriteString("Please correct the following issues:\n\n")
	n := 0
	for _, issue := range e.Issues {
		if !issue.Blocking() {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", n, issue.Message)
	}
	return b.String()
}

// PlanResult 產生計畫的結果
type PlanResult struct {
	Plan       *DietPlan         `json:"plan"`
	Advisories []ValidationIssue `json:"advisories"`
	Notice     string            `json:"notice,omitempty"`
}

// Service 飲食計畫服務
type Service struct {
	engine *Engine
	saver  PlanSaver
	jobs   Dispatcher
	policy Policy
}

// NewService 創建飲食計畫服務，saver 或 jobs 為 nil 時不儲存計畫
func NewService(engine *Engine, saver PlanSaver, jobs Dispatcher, policy Policy) *Service {
	return &Service{
		engine: engine,
		saver:  saver,
		jobs:   jobs,
		policy: policy,
	}
}

// Validate 正規化並驗證表單，回傳 Profile 與所有問題
func (s *Service) Validate(form ProfileForm) (Profile, []ValidationIssue) {
	p, issues := NormalizeProfile(form)

	unparsed := make(map[string]bool)
	for _, issue := range issues {
		if rangeFields[issue.Field] {
			unparsed[issue.Field] = true
		}
	}

	// 無法解析的數值欄位不再回報範圍錯誤，其餘規則照常檢查
	for _, issue := range Validate(p, s.policy) {
		if unparsed[issue.Field] {
			continue
		}
		issues = append(issues, issue)
	}
	return p, issues
}

// rangeFields 有範圍檢查的數值欄位
var rangeFields = map[string]bool{"age": true, "weight": true, "height": true}

// Create 正規化 → 驗證 → 產生 → 背景儲存
func (s *Service) Create(ctx context.Context, form ProfileForm, sc SaveContext) (*PlanResult, error) {
	p, issues := s.Validate(form)
	if HasBlocking(issues) {
		return nil, &PlanError{Kind: blockingKind(issues), Issues: issues}
	}
	return s.generate(ctx, p, issues, sc)
}

// Generate 對已正規化的 Profile 執行驗證與產生
func (s *Service) Generate(ctx context.Context, p Profile, sc SaveContext) (*PlanResult, error) {
	issues := Validate(p, s.policy)
	if HasBlocking(issues) {
		return nil, &PlanError{Kind: blockingKind(issues), Issues: issues}
	}
	return s.generate(ctx, p, issues, sc)
}

func (s *Service) generate(ctx context.Context, p Profile, issues []ValidationIssue, sc SaveContext) (*PlanResult, error) {
	plan, err := s.engine.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Plan:       plan,
		Advisories: Advisories(issues),
	}
	if plan.DataSource == SourceFallback {
		result.Notice = FallbackNotice
	}

	s.savePlan(p, plan, sc)

	common.LogInfo("飲食計畫產生完成",
		zap.Int("daily_calories", plan.DailyCalories),
		zap.String("data_source", string(plan.DataSource)),
		zap.Int("advisories", len(result.Advisories)),
	)
	return result, nil
}

// savePlan 將儲存排入背景隊列，失敗只記錄日誌
func (s *Service) savePlan(p Profile, plan *DietPlan, sc SaveContext) {
	if s.saver == nil || s.jobs == nil || strings.TrimSpace(sc.UserID) == "" {
		return
	}

	err := s.jobs.Enqueue("save_plan", func(ctx context.Context) error {
		err := s.saver.SavePlan(ctx, sc, p, plan)
		if err != nil && common.KindOf(err) == "" {
			err = common.NewKindError(common.KindPersistence, err)
		}
		if err != nil {
			return err
		}
		common.LogDebug("飲食計畫已儲存", zap.String("user_id", sc.UserID))
		return nil
	})
	if err != nil {
		common.LogError("儲存飲食計畫失敗",
			zap.String("kind", string(common.KindPersistence)),
			zap.String("user_id", sc.UserID),
			zap.Error(err),
		)
	}
}

// Wait 等待已排入的背景儲存完成
func (s *Service) Wait() {
	if s.jobs != nil {
		s.jobs.Wait()
	}
}

// blockingKind 有規則衝突時優先回報衝突，其餘為輸入錯誤
func blockingKind(issues []ValidationIssue) common.ErrorKind {
	for _, i := range issues {
		if i.Blocking() && i.Kind == common.KindRuleConflict {
			return common.KindRuleConflict
		}
	}
	return common.KindInput
}
