package mealsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"maitri-diet/internal/core/cache"
	"maitri-diet/internal/core/diet"
	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

func testProfile() diet.Profile {
	return diet.Profile{
		Age:               30,
		WeightKg:          60,
		HeightCm:          165,
		ActivityLevel:     diet.ActivityActive,
		Symptoms:          []diet.SymptomTag{diet.SymptomFatigue},
		HealthGoals:       []diet.GoalTag{diet.GoalEnergyBoost},
		Allergies:         "nuts",
		DietaryPreference: diet.DietVegetarian,
	}
}

func newTestClient(url string, store cache.Store) *Client {
	return NewClient(&config.MealSourceConfig{
		Enabled: true,
		BaseURL: url,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, store)
}

func TestFetchMealSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/diet/generate-plan" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("request id header = %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		for _, k := range []string{"age", "weight", "height", "activityLevel", "symptoms", "healthGoals", "allergies", "dietaryPreferences"} {
			if _, ok := body[k]; !ok {
				t.Errorf("body missing %q", k)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"calories":1980,"meals":[{"title":"Shakshuka","readyInMinutes":25}]}`))
	}))
	defer srv.Close()

	ctx := common.WithRequestID(context.Background(), "req-1")
	got, err := newTestClient(srv.URL, nil).FetchMealSuggestions(ctx, testProfile())
	if err != nil {
		t.Fatalf("FetchMealSuggestions: %v", err)
	}
	if !got.Success || got.Calories != 1980 || len(got.Meals) != 1 || got.Meals[0].Title != "Shakshuka" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
}

func TestFetchMealSuggestionsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"bad request", http.StatusBadRequest, `{"error":"Missing required fields"}`},
		{"unsuccessful", http.StatusOK, `{"success":false,"message":"quota exceeded"}`},
		{"malformed", http.StatusOK, `{"success":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, nil).FetchMealSuggestions(context.Background(), testProfile())
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := common.KindOf(err); kind != common.KindExternalSource {
				t.Fatalf("kind = %q, want %q", kind, common.KindExternalSource)
			}
		})
	}
}

func TestFetchMealSuggestionsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, nil).FetchMealSuggestions(context.Background(), testProfile())
	if common.KindOf(err) != common.KindExternalSource {
		t.Fatalf("err = %v", err)
	}
}

func TestFetchMealSuggestionsUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true,"meals":[{"title":"Dal","readyInMinutes":30}]}`))
	}))
	defer srv.Close()

	store := cache.NewManager(&config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	client := newTestClient(srv.URL, store)

	for i := 0; i < 3; i++ {
		got, err := client.FetchMealSuggestions(context.Background(), testProfile())
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got.Meals[0].Title != "Dal" {
			t.Fatalf("call %d: %+v", i, got)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("upstream called %d times, want 1", n)
	}

	other := testProfile()
	other.Allergies = "dairy"
	if _, err := client.FetchMealSuggestions(context.Background(), other); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("different profile should miss the cache, calls = %d", n)
	}
}

func TestFetchMealSuggestionsDoesNotCacheFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	store := cache.NewManager(&config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()
	client := newTestClient(srv.URL, store)

	for i := 0; i < 2; i++ {
		if _, err := client.FetchMealSuggestions(context.Background(), testProfile()); err == nil {
			t.Fatal("expected error")
		}
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestClientSatisfiesEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	engine := diet.NewEngine(newTestClient(srv.URL, nil), time.Second)
	plan, err := engine.Generate(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.DataSource != diet.SourceFallback {
		t.Fatalf("dataSource = %s", plan.DataSource)
	}
}
