package nutrition

// Advice returns zero or more advisory strings for a reading. The
// thresholds here are independent of the encoder buckets; several can
// fire at once and mid-range readings produce no advice at all.
func Advice(calories, proteins, fat, carbohydrate float64) []string {
	advice := []string{}

	if calories < 100 {
		advice = append(advice, "Calories are very low - consider more nutrient-dense foods")
	} else if calories > 400 {
		advice = append(advice, "Calories are high - balance with physical activity")
	}

	if proteins < 5 {
		advice = append(advice, "Protein is low - add a protein source")
	} else if proteins > 30 {
		advice = append(advice, "Protein is high - good for muscle and focus")
	}

	if fat > 30 {
		advice = append(advice, "Fat is high - limit oily foods")
	} else if fat < 5 {
		advice = append(advice, "Fat is very low - the body needs healthy fats")
	}

	if carbohydrate > 50 {
		advice = append(advice, "Carbohydrate is high - good for energy, watch blood sugar")
	} else if carbohydrate < 15 {
		advice = append(advice, "Carbohydrate is low - good for focus, make sure energy is sufficient")
	}

	return advice
}

// Caloric contribution per gram of each macronutrient.
const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarb    = 4
)

// IsBalanced reports whether the macro split falls inside the commonly
// recommended ranges: protein 10-35%, fat 20-35%, carbohydrate 45-65% of
// the computed caloric total. A zero total is never balanced.
func IsBalanced(calories, proteins, fat, carbohydrate float64) bool {
	total := proteins*kcalPerGramProtein + fat*kcalPerGramFat + carbohydrate*kcalPerGramCarb
	if total == 0 {
		return false
	}

	proteinPct := proteins * kcalPerGramProtein / total * 100
	fatPct := fat * kcalPerGramFat / total * 100
	carbPct := carbohydrate * kcalPerGramCarb / total * 100

	return proteinPct >= 10 && proteinPct <= 35 &&
		fatPct >= 20 && fatPct <= 35 &&
		carbPct >= 45 && carbPct <= 65
}
