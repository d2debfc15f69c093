package diet

import (
	"encoding/json"
	"testing"

	"maitri-diet/internal/pkg/common"
)

func TestFormValueUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FormValue
	}{
		{"number", `30`, "30"},
		{"float", `60.5`, "60.5"},
		{"string", `" 165 "`, "165"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FormValue
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if v != tt.want {
				t.Fatalf("got %q, want %q", v, tt.want)
			}
		})
	}

	var v FormValue
	if err := json.Unmarshal([]byte(`true`), &v); err == nil {
		t.Fatal("expected error for boolean")
	}
}

func TestNormalizeProfile(t *testing.T) {
	form := ProfileForm{
		Age:                "30",
		Weight:             "60",
		Height:             "165",
		ActivityLevel:      "Active",
		Symptoms:           []string{"fatigue", "FATIGUE", " headaches "},
		HealthGoals:        []string{"energy-boost"},
		Allergies:          "  nuts ",
		DietaryPreferences: "",
	}

	p, issues := NormalizeProfile(form)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if p.Age != 30 || p.WeightKg != 60 || p.HeightCm != 165 {
		t.Fatalf("numbers not parsed: %+v", p)
	}
	if p.ActivityLevel != ActivityActive {
		t.Fatalf("activity = %q", p.ActivityLevel)
	}
	if p.DietaryPreference != DietOmnivore {
		t.Fatalf("empty diet should default to omnivore, got %q", p.DietaryPreference)
	}
	if p.Allergies != "nuts" {
		t.Fatalf("allergies not trimmed: %q", p.Allergies)
	}
	want := []SymptomTag{SymptomFatigue, SymptomHeadaches}
	if len(p.Symptoms) != len(want) {
		t.Fatalf("symptoms = %v, want %v", p.Symptoms, want)
	}
	for i := range want {
		if p.Symptoms[i] != want[i] {
			t.Fatalf("symptoms = %v, want %v", p.Symptoms, want)
		}
	}
}

func TestNormalizeProfileAggregatesIssues(t *testing.T) {
	form := ProfileForm{
		Age:                "thirty",
		Weight:             "",
		Height:             "abc",
		ActivityLevel:      "couch",
		Symptoms:           []string{"sneezing"},
		HealthGoals:        []string{"fly"},
		DietaryPreferences: "carnivore",
	}

	_, issues := NormalizeProfile(form)
	fields := map[string]bool{}
	for _, i := range issues {
		if !i.Blocking() {
			t.Fatalf("normalization issue should be blocking: %+v", i)
		}
		if i.Kind != common.KindInput {
			t.Fatalf("kind = %q, want %q", i.Kind, common.KindInput)
		}
		fields[i.Field] = true
	}
	for _, f := range []string{"age", "weight", "height", "activityLevel", "dietaryPreferences", "symptoms", "healthGoals"} {
		if !fields[f] {
			t.Errorf("missing issue for %s", f)
		}
	}
}

func TestNormalizeProfileRejectsFractionalAge(t *testing.T) {
	_, issues := NormalizeProfile(ProfileForm{
		Age:           "30.5",
		Weight:        "60",
		Height:        "165",
		ActivityLevel: "light",
	})
	if len(issues) != 1 || issues[0].Field != "age" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestNormalizeProfileLeavesRangesToValidator(t *testing.T) {
	p, issues := NormalizeProfile(ProfileForm{
		Age:           "5",
		Weight:        "500",
		Height:        "20",
		ActivityLevel: "light",
		Symptoms:      []string{"stress"},
	})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if got := Validate(p, DefaultPolicy()); len(got) != 3 {
		t.Fatalf("validator should report 3 range issues, got %+v", got)
	}
}
