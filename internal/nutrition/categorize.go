package nutrition

// categoryNames maps an ordinal bucket index to its display name.
var categoryNames = [...]string{"very_low", "low", "medium", "high"}

// Categorize buckets four raw nutrient readings into ordinal categories
// 0..3. The thresholds must stay identical to the ones used to label the
// training data; changing them silently invalidates the shipped model.
func Categorize(calories, proteins, fat, carbohydrate float64) [4]int {
	return [4]int{
		bucket(calories, 100, 200, 400),
		bucket(proteins, 5, 15, 30),
		bucket(fat, 5, 15, 30),
		bucket(carbohydrate, 15, 30, 50),
	}
}

func bucket(v, low, mid, high float64) int {
	switch {
	case v <= low:
		return 0
	case v <= mid:
		return 1
	case v <= high:
		return 2
	default:
		return 3
	}
}

// CategoryName returns the display name for a bucket index, or "unknown"
// for anything outside 0..3.
func CategoryName(index int) string {
	if index < 0 || index >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[index]
}
