package diet

// balancedNutrition 永遠附加在最後的建議
var balancedNutrition = Recommendation{
	Title:       "Balanced Nutrition",
	Description: "Focus on whole foods, lean proteins, complex carbohydrates, and plenty of colorful vegetables.",
}

// symptomRecommendation 每個症狀對應一張固定建議卡片
func symptomRecommendation(tag SymptomTag) (Recommendation, bool) {
	switch tag {
	case SymptomHeadaches:
		return Recommendation{
			Title:       "Hydration & Magnesium",
			Description: "Increase water intake to 8-10 glasses daily. Include magnesium-rich foods like spinach, almonds, and dark chocolate.",
		}, true
	case SymptomFatigue:
		return Recommendation{
			Title:       "Iron & B-Vitamins",
			Description: "Include iron-rich foods like lentils, spinach, and lean meats. Add B-vitamin sources like whole grains and leafy greens.",
		}, true
	case SymptomPeriodIssues:
		return Recommendation{
			Title:       "Omega-3 & Healthy Fats",
			Description: "Include fatty fish, walnuts, and flaxseeds. Maintain regular meal times and avoid excessive refined sugars.",
		}, true
	case SymptomMoodSwings:
		return Recommendation{
			Title:       "Steady Blood Sugar",
			Description: "Eat regular, balanced meals with complex carbohydrates and protein to keep energy and mood stable.",
		}, true
	case SymptomDigestive:
		return Recommendation{
			Title:       "Fiber & Probiotics",
			Description: "Add fermented foods, whole grains, and plenty of vegetables. Drink water throughout the day to support digestion.",
		}, true
	case SymptomSkinProblems:
		return Recommendation{
			Title:       "Antioxidants & Hydration",
			Description: "Choose colorful fruits and vegetables rich in vitamins A, C, and E, and limit processed sugar.",
		}, true
	case SymptomSleepIssues:
		return Recommendation{
			Title:       "Sleep-Friendly Evenings",
			Description: "Avoid caffeine after midday and keep dinner light. Foods with tryptophan and magnesium can support restful sleep.",
		}, true
	case SymptomStress:
		return Recommendation{
			Title:       "Calming Nutrients",
			Description: "Include leafy greens, whole grains, and omega-3 sources. Limit caffeine and alcohol during stressful periods.",
		}, true
	case SymptomHairLoss:
		return Recommendation{
			Title:       "Protein & Micronutrients",
			Description: "Ensure adequate protein, iron, and zinc from legumes, eggs, seeds, and leafy greens.",
		}, true
	case SymptomJointPain:
		return Recommendation{
			Title:       "Anti-Inflammatory Foods",
			Description: "Favor turmeric, ginger, berries, and omega-3 rich foods while reducing fried and processed foods.",
		}, true
	}
	return Recommendation{}, false
}

// symptomSupplements 症狀對應的補充品
func symptomSupplements(tag SymptomTag) []Supplement {
	switch tag {
	case SymptomFatigue:
		return []Supplement{
			{Name: "Iron", Dosage: "As recommended by doctor", Reason: "Combat fatigue and support energy levels"},
			{Name: "Vitamin B Complex", Dosage: "1 tablet daily", Reason: "Energy metabolism support"},
		}
	case SymptomPeriodIssues:
		return []Supplement{
			{Name: "Omega-3", Dosage: "1000mg daily", Reason: "Hormonal balance and inflammation reduction"},
			{Name: "Magnesium", Dosage: "200-400mg daily", Reason: "Hormonal regulation and cramp relief"},
		}
	case SymptomMoodSwings:
		return []Supplement{
			{Name: "Omega-3", Dosage: "1000mg daily", Reason: "Mood stabilization and brain health"},
			{Name: "Vitamin D", Dosage: "2000 IU daily", Reason: "Mood regulation support"},
		}
	case SymptomDigestive:
		return []Supplement{
			{Name: "Probiotics", Dosage: "10-50 billion CFU daily", Reason: "Digestive health and gut microbiome"},
			{Name: "Digestive Enzymes", Dosage: "With meals as needed", Reason: "Improve nutrient absorption"},
		}
	case SymptomJointPain:
		return []Supplement{
			{Name: "Glucosamine + Chondroitin", Dosage: "1500mg + 1200mg daily", Reason: "Joint health and cartilage support"},
			{Name: "Turmeric/Curcumin", Dosage: "500-1000mg daily", Reason: "Anti-inflammatory support"},
		}
	case SymptomHeadaches, SymptomSkinProblems, SymptomSleepIssues, SymptomStress, SymptomHairLoss:
		return nil
	}
	return nil
}

// goalSupplements 目標對應的補充品
func goalSupplements(tag GoalTag) []Supplement {
	switch tag {
	case GoalWeightLoss:
		return []Supplement{
			{Name: "Green Tea Extract", Dosage: "300-400mg daily", Reason: "Metabolism boost and fat oxidation"},
			{Name: "Chromium", Dosage: "200 mcg daily", Reason: "Blood sugar and appetite regulation"},
		}
	case GoalMuscleGain:
		return []Supplement{
			{Name: "Whey Protein", Dosage: "20-30g post-workout", Reason: "Muscle building and recovery"},
			{Name: "Creatine", Dosage: "3-5g daily", Reason: "Strength and muscle development"},
		}
	case GoalBetterSkin:
		return []Supplement{
			{Name: "Collagen", Dosage: "10g daily", Reason: "Skin elasticity and hydration"},
			{Name: "Vitamin C", Dosage: "1000mg daily", Reason: "Collagen synthesis and antioxidant protection"},
		}
	case GoalWeightGain, GoalEnergyBoost, GoalHormonalBalance, GoalDigestiveHealth:
		return nil
	}
	return nil
}

// ageSupplements 年齡區間對應的補充品
func ageSupplements(age int) []Supplement {
	switch {
	case age >= 50:
		return []Supplement{
			{Name: "Calcium + Vitamin D", Dosage: "1000mg + 800 IU daily", Reason: "Bone health support for mature women"},
			{Name: "B12", Dosage: "2.4 mcg daily", Reason: "Enhanced absorption needs with age"},
		}
	case age >= 30:
		return []Supplement{
			{Name: "Vitamin D", Dosage: "1000-2000 IU daily", Reason: "General health and immune support"},
		}
	}
	return nil
}

// activitySupplements 活動量對應的補充品
func activitySupplements(level ActivityLevel) []Supplement {
	switch level {
	case ActivityActive, ActivityVeryActive:
		return []Supplement{
			{Name: "Electrolyte Supplement", Dosage: "During/after workouts", Reason: "Hydration and muscle function"},
			{Name: "Magnesium", Dosage: "300-400mg daily", Reason: "Muscle recovery and sleep quality"},
		}
	case ActivitySedentary, ActivityLight, ActivityModerate:
		return nil
	}
	return nil
}

// dietSupplements 飲食偏好對應的補充品
func dietSupplements(pref DietaryPreference) []Supplement {
	switch pref {
	case DietVegetarian:
		return []Supplement{
			{Name: "B12", Dosage: "2.4 mcg daily", Reason: "Essential for plant-based diets"},
			{Name: "Iron", Dosage: "As recommended by doctor", Reason: "Plant-based iron absorption support"},
		}
	case DietVegan:
		return []Supplement{
			{Name: "B12", Dosage: "2.4 mcg daily", Reason: "Essential for plant-based diets"},
			{Name: "Iron", Dosage: "As recommended by doctor", Reason: "Plant-based iron absorption support"},
			{Name: "Algae-based Omega-3", Dosage: "300mg DHA + EPA daily", Reason: "Vegan-friendly essential fatty acids"},
		}
	case DietOmnivore, DietKeto, DietPaleo, DietMediterranean:
		return nil
	}
	return nil
}

// defaultSupplement 沒有任何規則命中時的通用補充品
var defaultSupplement = Supplement{
	Name:   "Women's Multivitamin",
	Dosage: "As directed",
	Reason: "General nutritional insurance",
}

// MaxSupplements 補充品清單上限
const MaxSupplements = 6

// fallbackMealTable 外部來源不可用時的靜態餐點表
func fallbackMealTable() MealPlan {
	return MealPlan{
		SlotBreakfast: {
			"Steel-cut oats with fresh berries and chia seeds",
			"Greek yogurt parfait with granola and seasonal fruit",
			"Avocado toast on sprouted grain bread with hemp seeds",
			"Green smoothie with spinach, banana, and protein powder",
			"Veggie-packed scrambled eggs with herbs",
			"Overnight chia pudding with almond milk and fruit",
		},
		SlotLunch: {
			"Rainbow quinoa bowl with roasted vegetables",
			"Lentil and vegetable soup with mixed greens",
			"Grilled chicken breast with sweet potato and steamed broccoli",
			"Buddha bowl with chickpeas, tahini, and fresh vegetables",
			"Wild salmon salad with mixed greens and olive oil dressing",
			"Turkey and vegetable lettuce wraps with brown rice",
		},
		SlotDinner: {
			"Baked wild salmon with roasted asparagus and quinoa",
			"Lean turkey meatballs with zucchini noodles",
			"Three-bean vegetable curry with cauliflower rice",
			"Grilled tofu stir-fry with colorful vegetables",
			"Herb-crusted chicken with roasted root vegetables",
			"Stuffed bell peppers with lean ground turkey and quinoa",
		},
		SlotSnacks: {
			"Raw almonds and fresh apple slices",
			"Hummus with cucumber and bell pepper strips",
			"Greek yogurt with a drizzle of honey and berries",
			"Homemade trail mix with nuts, seeds, and dried fruit",
			"Avocado on rice cakes with sea salt",
			"Green tea with a small handful of walnuts",
		},
	}
}

// slotFillers 外部來源未填滿的餐次使用的補位餐點
func slotFillers(slot MealSlot) []string {
	switch slot {
	case SlotBreakfast:
		return []string{"Oatmeal with berries and nuts", "Greek yogurt with chia seeds"}
	case SlotLunch:
		return []string{"Quinoa salad with vegetables", "Lentil soup with whole grain bread"}
	case SlotDinner:
		return []string{"Grilled salmon with roasted vegetables", "Bean and vegetable curry"}
	case SlotSnacks:
		return []string{"Mixed nuts and seeds", "Apple with almond butter"}
	}
	return nil
}
