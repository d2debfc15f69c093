package diet

import "strings"

// AllergenGroup 過敏原關鍵字群組
type AllergenGroup struct {
	Name string
	// 過敏描述中出現任一觸發詞即啟用此群組
	Triggers []string
	// 餐點描述中出現任一關鍵字即剔除
	Keywords []string
}

// AllergenGroups 固定的過敏原群組
var AllergenGroups = []AllergenGroup{
	{
		Name:     "nuts",
		Triggers: []string{"nuts", "nut", "almond"},
		Keywords: []string{"nuts", "almond", "walnut", "cashew", "pecan"},
	},
	{
		Name:     "dairy",
		Triggers: []string{"dairy", "milk", "lactose"},
		Keywords: []string{"yogurt", "cheese", "milk", "cream"},
	},
	{
		Name:     "gluten",
		Triggers: []string{"gluten", "wheat"},
		Keywords: []string{"bread", "pasta", "wheat", "cereal"},
	},
	{
		Name:     "seafood",
		Triggers: []string{"fish", "seafood", "shellfish"},
		Keywords: []string{"salmon", "fish", "seafood", "shrimp"},
	},
	{
		Name:     "soy",
		Triggers: []string{"soy"},
		Keywords: []string{"tofu"},
	},
}

// safeSnacks 點心被過濾太多時的補位清單
var safeSnacks = []string{"Fresh fruit", "Rice cakes", "Vegetable sticks with olive oil", "Smoothie bowl"}

const (
	minSnacks    = 2
	paddedSnacks = 4
)

// ActiveAllergenGroups 回傳過敏描述啟用的群組
func ActiveAllergenGroups(allergyText string) []AllergenGroup {
	text := strings.ToLower(strings.TrimSpace(allergyText))
	if text == "" {
		return nil
	}
	var active []AllergenGroup
	for _, g := range AllergenGroups {
		if containsAny(text, g.Triggers) {
			active = append(active, g)
		}
	}
	return active
}

// FilterMeals 剔除含有過敏原關鍵字的餐點，過敏描述為空時原樣回傳
func FilterMeals(meals []string, allergyText string) []string {
	if strings.TrimSpace(allergyText) == "" {
		return meals
	}
	return filterByGroups(meals, ActiveAllergenGroups(allergyText))
}

// FilterMealPlan 過濾每個餐次，並在點心不足時以安全清單補位
func FilterMealPlan(plan MealPlan, allergyText string) MealPlan {
	out := make(MealPlan, len(MealSlots))
	for _, slot := range MealSlots {
		out[slot] = FilterMeals(plan[slot], allergyText)
	}
	if strings.TrimSpace(allergyText) != "" {
		out[SlotSnacks] = padSnacks(out[SlotSnacks], allergyText)
	}
	return out
}

func filterByGroups(meals []string, groups []AllergenGroup) []string {
	out := make([]string, 0, len(meals))
	for _, meal := range meals {
		lower := strings.ToLower(meal)
		flagged := false
		for _, g := range groups {
			if containsAny(lower, g.Keywords) {
				flagged = true
				break
			}
		}
		if !flagged {
			out = append(out, meal)
		}
	}
	return out
}

// padSnacks 點心少於 2 項時補到 4 項或安全清單用完為止
func padSnacks(snacks []string, allergyText string) []string {
	if len(snacks) >= minSnacks {
		return snacks
	}
	out := append([]string(nil), snacks...)
	for _, s := range FilterMeals(safeSnacks, allergyText) {
		if len(out) >= paddedSnacks {
			break
		}
		if !containsString(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
