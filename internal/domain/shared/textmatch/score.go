package textmatch

// Alias learning gate. A confirmed mapping is only worth remembering when the
// customer's text is close enough to the canonical label to be the same
// product (>= LearnFloor) but not so close that resolution would already have
// matched it (< LearnCeiling).
const (
	LearnFloor   = 0.5
	LearnCeiling = 0.98
)

// Score returns a symmetric similarity between two normalized keys in [0,1]
// using bigram (Dice) overlap. Identical keys score 1.0, disjoint keys score
// near 0, and near-duplicates score materially higher than unrelated text.
func Score(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1.0
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigramsA := bigrams(a)
	bigramsB := bigrams(b)

	var shared int
	for gram, count := range bigramsA {
		if other, ok := bigramsB[gram]; ok {
			shared += min(count, other)
		}
	}

	totalA := len(a) - 1
	totalB := len(b) - 1
	return 2.0 * float64(shared) / float64(totalA+totalB)
}

// Learnable reports whether a raw/canonical pair falls inside the alias
// learning gate.
func Learnable(score float64) bool {
	return score >= LearnFloor && score < LearnCeiling
}

func bigrams(s string) map[string]int {
	grams := make(map[string]int, len(s)-1)
	for i := 0; i+2 <= len(s); i++ {
		grams[s[i:i+2]]++
	}
	return grams
}
