package diet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"maitri-diet/internal/pkg/common"
)

// FormValue 表單欄位值，可接受 JSON 數字或字串
type FormValue string

// UnmarshalJSON 實現 json.Unmarshaler 介面
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("form value must be a number or string: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// ProfileForm 原始表單輸入
type ProfileForm struct {
	Age                FormValue `json:"age"`
	Weight             FormValue `json:"weight"`
	Height             FormValue `json:"height"`
	ActivityLevel      string    `json:"activityLevel"`
	Symptoms           []string  `json:"symptoms"`
	HealthGoals        []string  `json:"healthGoals"`
	Allergies          string    `json:"allergies"`
	DietaryPreferences string    `json:"dietaryPreferences"`
}

// NormalizeProfile 將原始表單轉為 Profile，所有無法解析的欄位一次回報
func NormalizeProfile(form ProfileForm) (Profile, []ValidationIssue) {
	var issues []ValidationIssue
	inputIssue := func(field, msg string) {
		issues = append(issues, ValidationIssue{
			Message:  msg,
			Severity: SeverityBlocking,
			Kind:     common.KindInput,
			Field:    field,
		})
	}

	p := Profile{
		Allergies: strings.TrimSpace(form.Allergies),
	}

	if age, err := parseNumber(form.Age); err != nil {
		inputIssue("age", "Please enter your age as a whole number.")
	} else if age != math.Trunc(age) {
		inputIssue("age", "Please enter your age as a whole number.")
	} else {
		p.Age = int(age)
	}

	if weight, err := parseNumber(form.Weight); err != nil {
		inputIssue("weight", "Please enter your weight in kg.")
	} else {
		p.WeightKg = weight
	}

	if height, err := parseNumber(form.Height); err != nil {
		inputIssue("height", "Please enter your height in cm.")
	} else {
		p.HeightCm = height
	}

	activity := strings.ToLower(strings.TrimSpace(form.ActivityLevel))
	switch {
	case activity == "":
		inputIssue("activityLevel", "Please select your activity level.")
	case !hasOption(ActivityLevels, activity):
		inputIssue("activityLevel", fmt.Sprintf("Unknown activity level %q.", form.ActivityLevel))
	default:
		p.ActivityLevel = ActivityLevel(activity)
	}

	diet := strings.ToLower(strings.TrimSpace(form.DietaryPreferences))
	switch {
	case diet == "":
		p.DietaryPreference = DietOmnivore
	case !hasOption(DietaryPreferences, diet):
		inputIssue("dietaryPreferences", fmt.Sprintf("Unknown dietary preference %q.", form.DietaryPreferences))
	default:
		p.DietaryPreference = DietaryPreference(diet)
	}

	for _, tag := range uniqueTags(form.Symptoms) {
		if !hasOption(Symptoms, tag) {
			inputIssue("symptoms", fmt.Sprintf("Unknown symptom %q.", tag))
			continue
		}
		p.Symptoms = append(p.Symptoms, SymptomTag(tag))
	}

	for _, tag := range uniqueTags(form.HealthGoals) {
		if !hasOption(Goals, tag) {
			inputIssue("healthGoals", fmt.Sprintf("Unknown health goal %q.", tag))
			continue
		}
		p.HealthGoals = append(p.HealthGoals, GoalTag(tag))
	}

	return p, issues
}

func parseNumber(v FormValue) (float64, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// uniqueTags 去除重複標籤並保留首次出現順序
func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
