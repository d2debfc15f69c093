package diet

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

type fakeSource struct {
	resp  *MealSuggestions
	err   error
	delay time.Duration
	calls int
}

func (f *fakeSource) FetchMealSuggestions(ctx context.Context, p Profile) (*MealSuggestions, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func newTestEngine(src MealSource) *Engine {
	e := NewEngine(src, time.Second)
	e.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	return e
}

func supplementNames(s []Supplement) []string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.Name
	}
	return names
}

func TestCalculateCalories(t *testing.T) {
	tests := []struct {
		weight   float64
		activity ActivityLevel
		want     int
	}{
		{60, ActivityActive, 2400},
		{60, ActivityVeryActive, 2200},
		{60, ActivitySedentary, 2200},
		{72.4, ActivityLight, 2386},
		{30, ActivityModerate, 1750},
	}

	for _, tt := range tests {
		p := Profile{WeightKg: tt.weight, ActivityLevel: tt.activity}
		got := CalculateCalories(p)
		if got != tt.want {
			t.Errorf("CalculateCalories(%v, %s) = %d, want %d", tt.weight, tt.activity, got, tt.want)
		}
		bonus := 100.0
		if tt.activity == ActivityActive {
			bonus = 300
		}
		if want := int(math.Round(1200 + tt.weight*15 + bonus)); got != want || got <= 0 {
			t.Errorf("formula mismatch: %d vs %d", got, want)
		}
	}
}

func TestBuildRecommendations(t *testing.T) {
	p := Profile{Symptoms: []SymptomTag{SymptomPeriodIssues, SymptomHeadaches}}
	recs := BuildRecommendations(p)

	titles := make([]string, len(recs))
	for i, r := range recs {
		titles[i] = r.Title
	}
	want := []string{"Hydration & Magnesium", "Omega-3 & Healthy Fats", "Balanced Nutrition"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}

	if recs := BuildRecommendations(Profile{}); len(recs) != 1 || recs[0] != balancedNutrition {
		t.Fatalf("empty profile should only get the catch-all: %+v", recs)
	}
}

func TestBuildSupplements(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want []string
	}{
		{
			name: "nothing matches",
			p:    Profile{Age: 25, ActivityLevel: ActivityLight, DietaryPreference: DietOmnivore},
			want: []string{"Women's Multivitamin"},
		},
		{
			name: "mature vegan",
			p:    Profile{Age: 52, ActivityLevel: ActivityLight, DietaryPreference: DietVegan},
			want: []string{"Calcium + Vitamin D", "B12", "Iron", "Algae-based Omega-3"},
		},
		{
			name: "duplicates collapse in accumulation order",
			p: Profile{
				Age:               35,
				Symptoms:          []SymptomTag{SymptomMoodSwings, SymptomPeriodIssues},
				ActivityLevel:     ActivityModerate,
				DietaryPreference: DietOmnivore,
			},
			want: []string{"Vitamin D", "Omega-3", "Magnesium"},
		},
		{
			name: "capped at six",
			p: Profile{
				Age:               55,
				Symptoms:          []SymptomTag{SymptomFatigue, SymptomDigestive, SymptomJointPain},
				HealthGoals:       []GoalTag{GoalWeightLoss},
				ActivityLevel:     ActivityVeryActive,
				DietaryPreference: DietVegan,
			},
			want: []string{"Calcium + Vitamin D", "B12", "Iron", "Vitamin B Complex", "Probiotics", "Digestive Enzymes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := supplementNames(BuildSupplements(tt.p))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildMealPlanDistributesByPosition(t *testing.T) {
	meals := []ExternalMeal{
		{Title: "Veggie omelette", ReadyInMinutes: 15},
		{Title: "", ReadyInMinutes: 0},
		{Title: "Chickpea stew", ReadyInMinutes: 45},
		{Title: "Fruit salad", ReadyInMinutes: 5},
		{Title: "Pecan bar", ReadyInMinutes: 10},
	}

	plan := BuildMealPlan(meals, "")
	want := MealPlan{
		SlotBreakfast: {"Veggie omelette (15 mins)"},
		SlotLunch:     {"Healthy Meal Option (30 mins)"},
		SlotDinner:    {"Chickpea stew (45 mins)"},
		SlotSnacks:    {"Fruit salad (5 mins)", "Pecan bar (10 mins)"},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Fatalf("got %v, want %v", plan, want)
	}
}

func TestBuildMealPlanFillsEmptySlots(t *testing.T) {
	plan := BuildMealPlan([]ExternalMeal{{Title: "Almond porridge", ReadyInMinutes: 10}}, "nuts")

	if got := plan[SlotBreakfast]; !reflect.DeepEqual(got, []string{"Greek yogurt with chia seeds"}) {
		t.Fatalf("breakfast = %v", got)
	}
	if got := plan[SlotLunch]; len(got) != 2 {
		t.Fatalf("lunch = %v", got)
	}
	for _, slot := range MealSlots {
		for _, meal := range plan[slot] {
			if containsKeyword(meal, nutKeywords) || containsKeyword(meal, []string{"nuts"}) {
				t.Fatalf("%s contains nut meal %q", slot, meal)
			}
		}
	}
	if len(plan[SlotSnacks]) < minSnacks {
		t.Fatalf("snacks not padded: %v", plan[SlotSnacks])
	}
}

func TestGenerateScenario(t *testing.T) {
	e := newTestEngine(&fakeSource{err: errors.New("connection refused")})
	plan, err := e.Generate(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if plan.DailyCalories != 2400 {
		t.Fatalf("calories = %d, want 2400", plan.DailyCalories)
	}
	want := []string{"Vitamin D", "Iron", "Vitamin B Complex", "Electrolyte Supplement", "Magnesium", "B12"}
	if got := supplementNames(plan.Supplements); !reflect.DeepEqual(got, want) {
		t.Fatalf("supplements = %v, want %v", got, want)
	}
	for _, slot := range MealSlots {
		for _, meal := range plan.MealPlan[slot] {
			if containsKeyword(meal, nutKeywords) {
				t.Fatalf("%s contains nut meal %q", slot, meal)
			}
		}
	}
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name   string
		source MealSource
	}{
		{"unreachable", &fakeSource{err: errors.New("dial tcp: connection refused")}},
		{"unsuccessful", &fakeSource{resp: &MealSuggestions{Success: false}}},
		{"timeout", &fakeSource{delay: 5 * time.Second}},
		{"no source", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(tt.source)
			e.timeout = 20 * time.Millisecond

			plan, err := e.Generate(context.Background(), validProfile())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if plan.DataSource != SourceFallback {
				t.Fatalf("dataSource = %s", plan.DataSource)
			}
			if !reflect.DeepEqual(plan.MealPlan, FallbackMealPlan("nuts")) {
				t.Fatalf("meal plan is not the filtered fallback table")
			}
		})
	}
}

func TestGeneratePrimary(t *testing.T) {
	src := &fakeSource{resp: &MealSuggestions{
		Success:  true,
		Calories: 1950,
		Meals:    []ExternalMeal{{Title: "Shakshuka", ReadyInMinutes: 25}},
	}}
	plan, err := newTestEngine(src).Generate(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.DataSource != SourcePrimary {
		t.Fatalf("dataSource = %s", plan.DataSource)
	}
	if plan.DailyCalories != 2400 || plan.SourceCalories != 1950 {
		t.Fatalf("calories = %d / %v", plan.DailyCalories, plan.SourceCalories)
	}
	if plan.MealPlan[SlotBreakfast][0] != "Shakshuka (25 mins)" {
		t.Fatalf("breakfast = %v", plan.MealPlan[SlotBreakfast])
	}
}

func TestGenerateFlaggedFallbackKeepsMeals(t *testing.T) {
	src := &fakeSource{resp: &MealSuggestions{
		Success:  true,
		Fallback: true,
		Meals:    []ExternalMeal{{Title: "Lentil dal", ReadyInMinutes: 40}},
	}}
	plan, err := newTestEngine(src).Generate(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.DataSource != SourceFallback {
		t.Fatalf("dataSource = %s", plan.DataSource)
	}
	if plan.MealPlan[SlotBreakfast][0] != "Lentil dal (40 mins)" {
		t.Fatalf("breakfast = %v", plan.MealPlan[SlotBreakfast])
	}
}

func TestGenerateIdempotent(t *testing.T) {
	resp := &MealSuggestions{
		Success: true,
		Meals:   []ExternalMeal{{Title: "A", ReadyInMinutes: 10}, {Title: "B"}, {Title: "C"}, {Title: "D"}},
	}
	e := NewEngine(&fakeSource{resp: resp}, time.Second)

	first, err := e.Generate(context.Background(), validProfile())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Generate(context.Background(), validProfile())
	if err != nil {
		t.Fatal(err)
	}
	first.GeneratedAt, second.GeneratedAt = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ:\n%+v\n%+v", first, second)
	}
}

func TestGenerateCallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := newTestEngine(&fakeSource{delay: time.Second}).Generate(ctx, validProfile())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if plan != nil {
		t.Fatal("plan should be discarded when the caller cancels")
	}
}
