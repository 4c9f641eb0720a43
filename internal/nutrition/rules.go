package nutrition

// ClassifyByRules labels a reading with a deterministic threshold-based
// classifier, independent of the neural model. It is used as a cross-check
// against the network's prediction, never as the primary output.
func ClassifyByRules(calories, proteins, fat, carbohydrate float64) string {
	energizing := carbohydrate > 30 && proteins >= 5 && proteins <= 15
	relaxing := calories < 150 && proteins < 5
	focusing := proteins > 15 && carbohydrate < 10

	return resolveRules(energizing, relaxing, focusing)
}

// resolveRules applies the four-way resolution policy: exactly one
// predicate true yields that mood, none yields "uncategorized", two or
// more yield "multi_category". With the current predicates the protein
// ranges are disjoint, so the multi branch is unreachable from real
// readings; the policy is kept (and tested) separately so predicate
// changes cannot silently alter it.
func resolveRules(energizing, relaxing, focusing bool) string {
	matches := 0
	mood := MoodUncategorized
	if energizing {
		matches++
		mood = MoodEnergizing
	}
	if relaxing {
		matches++
		mood = MoodRelaxing
	}
	if focusing {
		matches++
		mood = MoodFocusing
	}

	if matches > 1 {
		return MoodMultiCategory
	}
	return mood
}
