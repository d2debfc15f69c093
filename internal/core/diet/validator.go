package diet

import (
	"fmt"

	"maitri-diet/internal/pkg/common"
)

// 欄位合法範圍
const (
	MinAge    = 13
	MaxAge    = 120
	MinWeight = 30.0
	MaxWeight = 300.0
	MinHeight = 100.0
	MaxHeight = 250.0
)

// Policy 年齡相關的啟發式門檻，屬於可調整的政策資料而非醫療事實
type Policy struct {
	// 超過此年齡選擇經期問題時提出建議
	PeriodIssuesMaxAge int
	// 達到此年齡且目標為增重/增肌時建議醫療監督
	SupervisionAge int
}

// DefaultPolicy 預設門檻
func DefaultPolicy() Policy {
	return Policy{
		PeriodIssuesMaxAge: 55,
		SupervisionAge:     70,
	}
}

// Validate 檢查 Profile 的矛盾與範圍，所有規則都會執行，結果依規則宣告順序排列
func Validate(p Profile, policy Policy) []ValidationIssue {
	var issues []ValidationIssue
	add := func(sev Severity, kind common.ErrorKind, field, msg string) {
		issues = append(issues, ValidationIssue{
			Message:  msg,
			Severity: sev,
			Kind:     kind,
			Field:    field,
		})
	}

	if p.Age < MinAge || p.Age > MaxAge {
		add(SeverityBlocking, common.KindInput, "age",
			fmt.Sprintf("Please enter a valid age between %d and %d.", MinAge, MaxAge))
	}
	if p.WeightKg < MinWeight || p.WeightKg > MaxWeight {
		add(SeverityBlocking, common.KindInput, "weight",
			fmt.Sprintf("Please enter a valid weight between %.0f and %.0f kg.", MinWeight, MaxWeight))
	}
	if p.HeightCm < MinHeight || p.HeightCm > MaxHeight {
		add(SeverityBlocking, common.KindInput, "height",
			fmt.Sprintf("Please enter a valid height between %.0f and %.0f cm.", MinHeight, MaxHeight))
	}

	// 正常選取流程不會出現此狀態，直接呼叫引擎的使用者仍需檢查
	if p.HasGoal(GoalWeightLoss) && p.HasGoal(GoalWeightGain) {
		add(SeverityBlocking, common.KindRuleConflict, "healthGoals",
			"You cannot have both weight loss and weight gain as goals. Please choose one.")
	}

	if p.Age > policy.PeriodIssuesMaxAge && p.HasSymptom(SymptomPeriodIssues) {
		add(SeverityAdvisory, common.KindRuleConflict, "symptoms",
			fmt.Sprintf("Period issues are not typically relevant for women over %d. Please review your symptom selections.", policy.PeriodIssuesMaxAge))
	}

	if p.Age >= policy.SupervisionAge && (p.HasGoal(GoalMuscleGain) || p.HasGoal(GoalWeightGain)) {
		add(SeverityAdvisory, common.KindRuleConflict, "healthGoals",
			fmt.Sprintf("For users over %d, significant weight or muscle gain goals should be supervised by a healthcare provider.", policy.SupervisionAge))
	}

	if p.ActivityLevel == ActivitySedentary && p.HasGoal(GoalMuscleGain) {
		add(SeverityAdvisory, common.KindRuleConflict, "healthGoals",
			"Muscle gain goals typically require regular physical activity. Consider adjusting your activity level or health goals.")
	}

	if len(p.Symptoms) == 0 && len(p.HealthGoals) == 0 {
		add(SeverityBlocking, common.KindInput, "symptoms",
			"Please select at least one symptom or health goal to get personalized recommendations.")
	}

	return issues
}

// HasBlocking 是否含有阻擋性問題
func HasBlocking(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Blocking() {
			return true
		}
	}
	return false
}

// Advisories 篩出建議性問題
func Advisories(issues []ValidationIssue) []ValidationIssue {
	var out []ValidationIssue
	for _, i := range issues {
		if !i.Blocking() {
			out = append(out, i)
		}
	}
	return out
}
