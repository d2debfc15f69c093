package diet

import (
	"time"

	"maitri-diet/internal/pkg/common"
)

// ActivityLevel 活動量
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

// DietaryPreference 飲食偏好
type DietaryPreference string

const (
	DietOmnivore      DietaryPreference = "omnivore"
	DietVegetarian    DietaryPreference = "vegetarian"
	DietVegan         DietaryPreference = "vegan"
	DietKeto          DietaryPreference = "keto"
	DietPaleo         DietaryPreference = "paleo"
	DietMediterranean DietaryPreference = "mediterranean"
)

// SymptomTag 可選症狀
type SymptomTag string

const (
	SymptomHeadaches    SymptomTag = "headaches"
	SymptomFatigue      SymptomTag = "fatigue"
	SymptomPeriodIssues SymptomTag = "period-issues"
	SymptomMoodSwings   SymptomTag = "mood-swings"
	SymptomDigestive    SymptomTag = "digestive"
	SymptomSkinProblems SymptomTag = "skin-problems"
	SymptomSleepIssues  SymptomTag = "sleep-issues"
	SymptomStress       SymptomTag = "stress"
	SymptomHairLoss     SymptomTag = "hair-loss"
	SymptomJointPain    SymptomTag = "joint-pain"
)

// GoalTag 可選健康目標
type GoalTag string

const (
	GoalWeightLoss      GoalTag = "weight-loss"
	GoalWeightGain      GoalTag = "weight-gain"
	GoalEnergyBoost     GoalTag = "energy-boost"
	GoalBetterSkin      GoalTag = "better-skin"
	GoalHormonalBalance GoalTag = "hormonal-balance"
	GoalDigestiveHealth GoalTag = "digestive-health"
	GoalMuscleGain      GoalTag = "muscle-gain"
)

// MealSlot 餐次
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnacks    MealSlot = "snacks"
)

// MealSlots 依固定順序列出所有餐次
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks}

// Option 供前端顯示的選項
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Symptoms 依宣告順序列出症狀，規則表以此順序套用
var Symptoms = []Option{
	{ID: string(SymptomHeadaches), Label: "Headaches"},
	{ID: string(SymptomFatigue), Label: "Fatigue"},
	{ID: string(SymptomPeriodIssues), Label: "Period Issues"},
	{ID: string(SymptomMoodSwings), Label: "Mood Swings"},
	{ID: string(SymptomDigestive), Label: "Digestive Issues"},
	{ID: string(SymptomSkinProblems), Label: "Skin Problems"},
	{ID: string(SymptomSleepIssues), Label: "Sleep Issues"},
	{ID: string(SymptomStress), Label: "Stress/Anxiety"},
	{ID: string(SymptomHairLoss), Label: "Hair Loss"},
	{ID: string(SymptomJointPain), Label: "Joint Pain"},
}

// Goals 依宣告順序列出健康目標
var Goals = []Option{
	{ID: string(GoalWeightLoss), Label: "Weight Loss"},
	{ID: string(GoalWeightGain), Label: "Weight Gain"},
	{ID: string(GoalEnergyBoost), Label: "Energy Boost"},
	{ID: string(GoalBetterSkin), Label: "Better Skin"},
	{ID: string(GoalHormonalBalance), Label: "Hormonal Balance"},
	{ID: string(GoalDigestiveHealth), Label: "Digestive Health"},
	{ID: string(GoalMuscleGain), Label: "Muscle Gain"},
}

// ActivityLevels 活動量選項
var ActivityLevels = []Option{
	{ID: string(ActivitySedentary), Label: "Sedentary"},
	{ID: string(ActivityLight), Label: "Light"},
	{ID: string(ActivityModerate), Label: "Moderate"},
	{ID: string(ActivityActive), Label: "Active"},
	{ID: string(ActivityVeryActive), Label: "Very Active"},
}

// DietaryPreferences 飲食偏好選項
var DietaryPreferences = []Option{
	{ID: string(DietOmnivore), Label: "Omnivore"},
	{ID: string(DietVegetarian), Label: "Vegetarian"},
	{ID: string(DietVegan), Label: "Vegan"},
	{ID: string(DietKeto), Label: "Keto"},
	{ID: string(DietPaleo), Label: "Paleo"},
	{ID: string(DietMediterranean), Label: "Mediterranean"},
}

// Label 取得選項的顯示名稱，找不到時回傳原始 ID
func Label(options []Option, id string) string {
	for _, o := range options {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func hasOption(options []Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Profile 正規化後的使用者健康資料，每次提交重新建立
type Profile struct {
	Age               int               `json:"age"`
	WeightKg          float64           `json:"weight"`
	HeightCm          float64           `json:"height"`
	ActivityLevel     ActivityLevel     `json:"activityLevel"`
	Symptoms          []SymptomTag      `json:"symptoms"`
	HealthGoals       []GoalTag         `json:"healthGoals"`
	Allergies         string            `json:"allergies"`
	DietaryPreference DietaryPreference `json:"dietaryPreferences"`
}

// HasSymptom 是否包含指定症狀
func (p Profile) HasSymptom(tag SymptomTag) bool {
	for _, s := range p.Symptoms {
		if s == tag {
			return true
		}
	}
	return false
}

// HasGoal 是否包含指定目標
func (p Profile) HasGoal(tag GoalTag) bool {
	for _, g := range p.HealthGoals {
		if g == tag {
			return true
		}
	}
	return false
}

// Severity 驗證結果嚴重度
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

// ValidationIssue 驗證結果
type ValidationIssue struct {
	Message  string           `json:"message"`
	Severity Severity         `json:"severity"`
	Kind     common.ErrorKind `json:"kind,omitempty"`
	Field    string           `json:"field,omitempty"`
}

// Blocking 是否阻擋產生計畫
func (i ValidationIssue) Blocking() bool {
	return i.Severity == SeverityBlocking
}

// Recommendation 建議卡片
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Supplement 補充品建議
type Supplement struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Reason string `json:"reason"`
}

// MealPlan 各餐次的餐點描述
type MealPlan map[MealSlot][]string

// DataSource 計畫資料來源
type DataSource string

const (
	SourcePrimary  DataSource = "primary"
	SourceFallback DataSource = "fallback"
)

// DietPlan 產生的飲食計畫，回傳後視為不可變
type DietPlan struct {
	DailyCalories   int              `json:"dailyCalories"`
	SourceCalories  float64          `json:"sourceCalories,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	MealPlan        MealPlan         `json:"mealPlan"`
	Supplements     []Supplement     `json:"supplements"`
	DataSource      DataSource       `json:"dataSource"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// ExternalMeal 外部來源提供的餐點
type ExternalMeal struct {
	Title          string `json:"title"`
	ReadyInMinutes int    `json:"readyInMinutes"`
}

// MealSuggestions 外部餐點/熱量來源的回應
type MealSuggestions struct {
	Success  bool           `json:"success"`
	Calories float64        `json:"calories,omitempty"`
	Meals    []ExternalMeal `json:"meals,omitempty"`
	Fallback bool           `json:"fallback,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// Valid 是否為已知的症狀
func (s SymptomTag) Valid() bool {
	return hasOption(Symptoms, string(s))
}

// Valid 是否為已知的目標
func (g GoalTag) Valid() bool {
	return hasOption(Goals, string(g))
}
