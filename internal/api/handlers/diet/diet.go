package diet

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dietcore "maitri-diet/internal/core/diet"
	"maitri-diet/internal/core/planstore"
	"maitri-diet/internal/core/report"
	"maitri-diet/internal/pkg/common"
)

// PlanStore 計畫查詢與刪除
type PlanStore interface {
	GetUserPlan(ctx context.Context, userID, token string) (*planstore.UserPlan, error)
	DeletePlan(ctx context.Context, userID, token string) (*planstore.Result, error)
}

// OptionsResponse 表單選項
type OptionsResponse struct {
	Symptoms           []dietcore.Option `json:"symptoms"`
	Goals              []dietcore.Option `json:"goals"`
	ActivityLevels     []dietcore.Option `json:"activity_levels"`
	DietaryPreferences []dietcore.Option `json:"dietary_preferences"`
}

// GoalSelectionRequest 切換健康目標
type GoalSelectionRequest struct {
	Goals []dietcore.GoalTag `json:"goals"`
	Goal  dietcore.GoalTag   `json:"goal" binding:"required"`
}

// SymptomSelectionRequest 切換症狀
type SymptomSelectionRequest struct {
	Symptoms []dietcore.SymptomTag `json:"symptoms"`
	Symptom  dietcore.SymptomTag   `json:"symptom" binding:"required"`
}

// ValidateResponse 驗證結果
type ValidateResponse struct {
	Valid  bool                       `json:"valid"`
	Issues []dietcore.ValidationIssue `json:"issues"`
}

// GenerateRequest 產生計畫請求，user_id 存在時會在背景儲存
type GenerateRequest struct {
	dietcore.ProfileForm
	UserID   dietcore.FormValue `json:"user_id"`
	UserName string             `json:"user_name"`
}

// GenerateResponse 產生計畫響應
type GenerateResponse struct {
	Success    bool                       `json:"success"`
	Plan       *dietcore.DietPlan         `json:"plan"`
	Advisories []dietcore.ValidationIssue `json:"advisories"`
	Notice     string                     `json:"notice,omitempty"`
}

// PlanErrorResponse 阻擋產生計畫時的響應
type PlanErrorResponse struct {
	Code    string                     `json:"code"`
	Kind    common.ErrorKind           `json:"kind"`
	Message string                     `json:"message"`
	Issues  []dietcore.ValidationIssue `json:"issues"`
}

// PDFRequest 匯出 PDF 請求，缺少 plan 時先產生
type PDFRequest struct {
	Profile dietcore.ProfileForm `json:"profile"`
	Plan    *dietcore.DietPlan   `json:"plan,omitempty"`
}

// UserPlanResponse 已儲存計畫查詢響應
type UserPlanResponse struct {
	Success  bool        `json:"success"`
	HasPlan  bool        `json:"has_plan"`
	DietPlan interface{} `json:"diet_plan,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// Handler 飲食計畫處理程序
type Handler struct {
	service *dietcore.Service
	plans   PlanStore
}

// NewHandler 創建飲食計畫處理程序，plans 為 nil 時停用查詢與刪除
func NewHandler(service *dietcore.Service, plans PlanStore) *Handler {
	return &Handler{service: service, plans: plans}
}

// HandleOptions 回傳所有表單選項
func (h *Handler) HandleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Symptoms:           dietcore.Symptoms,
		Goals:              dietcore.Goals,
		ActivityLevels:     dietcore.ActivityLevels,
		DietaryPreferences: dietcore.DietaryPreferences,
	})
}

// HandleToggleGoal 切換健康目標，增重與減重互斥
func (h *Handler) HandleToggleGoal(c *gin.Context) {
	var req GoalSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}
	if !req.Goal.Valid() {
		common.WriteError(c, common.ErrInvalidRequest, "unknown health goal "+string(req.Goal))
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": dietcore.ToggleGoal(req.Goals, req.Goal)})
}

// HandleToggleSymptom 切換症狀
func (h *Handler) HandleToggleSymptom(c *gin.Context) {
	var req SymptomSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}
	if !req.Symptom.Valid() {
		common.WriteError(c, common.ErrInvalidRequest, "unknown symptom "+string(req.Symptom))
		return
	}
	c.JSON(http.StatusOK, gin.H{"symptoms": dietcore.ToggleSymptom(req.Symptoms, req.Symptom)})
}

// HandleValidate 只驗證不產生
func (h *Handler) HandleValidate(c *gin.Context) {
	var form dietcore.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	_, issues := h.service.Validate(form)
	if issues == nil {
		issues = []dietcore.ValidationIssue{}
	}
	c.JSON(http.StatusOK, ValidateResponse{
		Valid:  !dietcore.HasBlocking(issues),
		Issues: issues,
	})
}

// HandleGenerate 產生飲食計畫
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := common.RequestID(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	sc := dietcore.SaveContext{
		UserID:   string(req.UserID),
		UserName: req.UserName,
		Token:    common.BearerToken(c),
	}
	result, err := h.service.Create(c.Request.Context(), req.ProfileForm, sc)
	if err != nil {
		h.writeServiceError(c, err, requestID)
		return
	}

	advisories := result.Advisories
	if advisories == nil {
		advisories = []dietcore.ValidationIssue{}
	}
	c.JSON(http.StatusOK, GenerateResponse{
		Success:    true,
		Plan:       result.Plan,
		Advisories: advisories,
		Notice:     result.Notice,
	})
}

// HandlePDF 匯出 PDF
func (h *Handler) HandlePDF(c *gin.Context) {
	requestID := common.RequestID(c)

	var req PDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	profile, issues := dietcore.NormalizeProfile(req.Profile)
	if dietcore.HasBlocking(issues) {
		h.writeServiceError(c, &dietcore.PlanError{Kind: common.KindInput, Issues: issues}, requestID)
		return
	}

	plan := req.Plan
	if plan == nil {
		result, err := h.service.Generate(c.Request.Context(), profile, dietcore.SaveContext{})
		if err != nil {
			h.writeServiceError(c, err, requestID)
			return
		}
		plan = result.Plan
	}
	if plan.GeneratedAt.IsZero() {
		// 檔名與 PDF 內文使用同一個時間
		stamped := *plan
		stamped.GeneratedAt = report.GeneratedAt(plan)
		plan = &stamped
	}

	data, err := report.Render(profile, plan)
	if err != nil {
		common.LogError("PDF 產生失敗", zap.Error(err), zap.String("request_id", requestID))
		common.WriteError(c, common.ErrPDFRender, "")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(plan.GeneratedAt)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// HandleGetUserPlan 查詢使用者已儲存的計畫
func (h *Handler) HandleGetUserPlan(c *gin.Context) {
	if h.plans == nil {
		common.WriteError(c, common.ErrPlanStoreDisabled, "")
		return
	}

	userID := c.Param("userId")
	if _, err := planstore.ParseUserID(userID); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	plan, err := h.plans.GetUserPlan(c.Request.Context(), userID, common.BearerToken(c))
	if err != nil {
		common.LogError("查詢計畫失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, common.ErrBadGateway, "")
		return
	}

	resp := UserPlanResponse{
		Success: plan.Success,
		HasPlan: plan.HasPlan,
		Message: plan.Message,
	}
	if plan.HasPlan && len(plan.DietPlan) > 0 {
		resp.DietPlan = plan.DietPlan
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDeleteUserPlan 刪除使用者已儲存的計畫
func (h *Handler) HandleDeleteUserPlan(c *gin.Context) {
	if h.plans == nil {
		common.WriteError(c, common.ErrPlanStoreDisabled, "")
		return
	}

	userID := c.Param("userId")
	if _, err := planstore.ParseUserID(userID); err != nil {
		common.WriteError(c, common.ErrInvalidRequest, err.Error())
		return
	}

	result, err := h.plans.DeletePlan(c.Request.Context(), userID, common.BearerToken(c))
	if err != nil {
		common.LogError("刪除計畫失敗", zap.Error(err), zap.String("request_id", common.RequestID(c)))
		common.WriteError(c, common.ErrBadGateway, "")
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeServiceError 將服務錯誤轉為 HTTP 響應
func (h *Handler) writeServiceError(c *gin.Context, err error, requestID string) {
	var planErr *dietcore.PlanError
	switch {
	case errors.As(err, &planErr):
		common.LogInfo("飲食計畫驗證未通過",
			zap.String("kind", string(planErr.Kind)),
			zap.Int("issues", len(planErr.Issues)),
			zap.String("request_id", requestID),
		)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, PlanErrorResponse{
			Code:    common.ErrCodeValidationFailed,
			Kind:    planErr.Kind,
			Message: planErr.Error(),
			Issues:  planErr.Issues,
		})
	case errors.Is(err, context.DeadlineExceeded):
		common.WriteError(c, common.ErrGatewayTimeout, "")
	case errors.Is(err, context.Canceled):
		// 客戶端已離開，結果直接丟棄
		c.Abort()
	default:
		common.LogError("飲食計畫產生失敗", zap.Error(err), zap.String("request_id", requestID))
		common.WriteError(c, common.ErrInternalError, "")
	}
}
