package nutrition

import "sort"

// DefaultRecommendationLimit is used when a caller asks for zero or a
// negative number of recommendations.
const DefaultRecommendationLimit = 5

// Recommendation is a catalog entry annotated with whether its primary
// mood matches the requested one.
type Recommendation struct {
	FoodItem
	MoodMatch bool `json:"mood_match"`
}

// healthFilters maps a health-condition tag to its food predicate.
// Tags are the Indonesian condition names used by the assessment flow.
// Note: "vegetarian" filters by mood category, not by any ingredient
// attribute of the food; the catalog carries no ingredient data.
var healthFilters = map[string]func(FoodItem) bool{
	"diabetes": func(f FoodItem) bool {
		return f.Calories <= 200 && f.Carbohydrate <= 30
	},
	"hipertensi": func(f FoodItem) bool {
		return f.Calories <= 200 && f.Fat <= 15
	},
	"kolesterol": func(f FoodItem) bool {
		return f.Fat <= 15
	},
	"obesitas": func(f FoodItem) bool {
		return f.Calories <= 200 && f.Fat <= 15
	},
	"vegetarian": func(f FoodItem) bool {
		return f.PrimaryMood == MoodRelaxing || f.PrimaryMood == MoodEnergizing
	},
}

// Recommend filters and ranks the food catalog for a mood. Health-condition
// predicates are intersected in the order supplied; unrecognized tags are
// ignored. Mood "all" skips the mood filter. The result is truncated to
// limit entries and is empty (never nil-error) when nothing matches.
//
// Ranking is mood-driven: energizing sorts by descending carbohydrate,
// relaxing by ascending calories, focusing by descending proteins; any
// other mood preserves catalog order. Sorts are stable so equal keys keep
// catalog order.
func Recommend(catalog []FoodItem, mood string, limit int, healthConditions []string) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	filtered := make([]FoodItem, 0, len(catalog))
	for _, food := range catalog {
		if mood != "" && mood != "all" && food.PrimaryMood != mood {
			continue
		}
		filtered = append(filtered, food)
	}

	for _, condition := range healthConditions {
		predicate, ok := healthFilters[condition]
		if !ok {
			continue
		}
		kept := filtered[:0]
		for _, food := range filtered {
			if predicate(food) {
				kept = append(kept, food)
			}
		}
		filtered = kept
	}

	switch mood {
	case MoodEnergizing:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Carbohydrate > filtered[j].Carbohydrate
		})
	case MoodRelaxing:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Calories < filtered[j].Calories
		})
	case MoodFocusing:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Proteins > filtered[j].Proteins
		})
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	recommendations := make([]Recommendation, 0, len(filtered))
	for _, food := range filtered {
		recommendations = append(recommendations, Recommendation{
			FoodItem:  food,
			MoodMatch: food.PrimaryMood == mood,
		})
	}
	return recommendations
}
