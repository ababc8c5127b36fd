package fuzzy

import (
	"strings"
)

// LevenshteinDistance returns the number of single-rune edits between s1 and s2
// after lowercasing and folding accents.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalize(s1))
	r2 := []rune(normalize(s2))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Threshold is the edit distance tolerated for a query of the given length.
func Threshold(query string) int {
	n := len([]rune(normalize(query)))
	switch {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// Match reports whether query matches text by substring, word prefix or a
// word within the typo threshold ("chiken" matches "Grilled chicken").
func Match(query, text string) bool {
	q := normalize(query)
	t := normalize(text)
	if q == "" {
		return false
	}
	if strings.Contains(t, q) {
		return true
	}
	threshold := Threshold(q)
	for _, word := range strings.Fields(t) {
		if strings.HasPrefix(word, q) || LevenshteinDistance(q, word) <= threshold {
			return true
		}
	}
	return false
}

// MatchMeal checks the meal name first and the notes second.
func MatchMeal(query, name, notes string) bool {
	return Match(query, name) || Match(query, notes)
}

// Score ranks a meal for query. Higher is more relevant; name hits outweigh notes.
func Score(query, name, notes string) float64 {
	q := normalize(query)
	return fieldScore(q, normalize(name), 100) + fieldScore(q, normalize(notes), 30)
}

func fieldScore(q, text string, weight float64) float64 {
	if q == "" || text == "" {
		return 0
	}
	if text == q {
		return weight * 2
	}
	if strings.Contains(text, q) {
		score := weight
		for _, w := range strings.Fields(text) {
			if w == q {
				score += weight / 2
				break
			}
		}
		return score
	}

	best := 0.0
	for _, w := range strings.Fields(text) {
		s := 0.0
		if strings.HasPrefix(w, q) {
			s = weight * 0.4
		}
		if d := LevenshteinDistance(q, w); d <= Threshold(q) {
			if f := weight*0.5 - float64(d)*weight*0.15; f > s {
				s = f
			}
		}
		if s > best {
			best = s
		}
	}
	return best
}

func normalize(s string) string {
	s = strings.ToLower(removeAccents(s))
	return strings.Join(strings.Fields(s), " ")
}

// removeAccents folds common Latin diacritics so "crème brûlée" matches "creme brulee".
func removeAccents(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case 'á', 'à', 'â', 'ä', 'ã', 'å', 'Á', 'À', 'Â', 'Ä':
			b.WriteRune('a')
		case 'é', 'è', 'ê', 'ë', 'É', 'È', 'Ê':
			b.WriteRune('e')
		case 'í', 'ì', 'î', 'ï':
			b.WriteRune('i')
		case 'ó', 'ò', 'ô', 'ö', 'õ', 'Ó', 'Ö':
			b.WriteRune('o')
		case 'ú', 'ù', 'û', 'ü', 'Ü':
			b.WriteRune('u')
		case 'ñ':
			b.WriteRune('n')
		case 'ç':
			b.WriteRune('c')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
