package diet

// exclusiveGoals 互斥的目標：選取其一時自動移除另一個
var exclusiveGoals = map[GoalTag]GoalTag{
	GoalWeightLoss: GoalWeightGain,
	GoalWeightGain: GoalWeightLoss,
}

// ToggleGoal 切換目標選取狀態，回傳新的切片，不修改輸入
func ToggleGoal(goals []GoalTag, tag GoalTag) []GoalTag {
	out := make([]GoalTag, 0, len(goals)+1)
	selected := false
	for _, g := range goals {
		if g == tag {
			selected = true
			continue
		}
		out = append(out, g)
	}
	if selected {
		return out
	}

	if opposite, ok := exclusiveGoals[tag]; ok {
		kept := out[:0]
		for _, g := range out {
			if g != opposite {
				kept = append(kept, g)
			}
		}
		out = kept
	}
	return append(out, tag)
}

// ToggleSymptom 切換症狀選取狀態，回傳新的切片，不修改輸入
func ToggleSymptom(symptoms []SymptomTag, tag SymptomTag) []SymptomTag {
	out := make([]SymptomTag, 0, len(symptoms)+1)
	selected := false
	for _, s := range symptoms {
		if s == tag {
			selected = true
			continue
		}
		out = append(out, s)
	}
	if !selected {
		out = append(out, tag)
	}
	return out
}
