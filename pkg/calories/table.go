// Package calories estimates a portion's calories from a classifier label.
package calories

import "strings"

// DefaultCalories is used when no entry matches the label.
const DefaultCalories = 250

type Entry struct {
	Keyword  string
	Calories int
}

// Table is searched in order; the first keyword contained in the label wins.
type Table []Entry

// Default is the built-in per-portion table.
var Default = Table{
	{"pizza", 285},
	{"burger", 540},
	{"sandwich", 350},
	{"salad", 150},
	{"pasta", 400},
	{"rice", 206},
	{"chicken", 165},
	{"fish", 206},
	{"bread", 265},
	{"apple", 95},
	{"banana", 105},
	{"orange", 62},
	{"egg", 155},
	{"milk", 149},
	{"cheese", 402},
	{"yogurt", 100},
	{"cake", 350},
	{"ice cream", 207},
	{"chocolate", 546},
	{"coffee", 2},
	{"tea", 2},
	{"juice", 112},
	{"soda", 140},
	{"water", 0},
	{"soup", 86},
	{"fries", 312},
	{"hotdog", 290},
	{"taco", 226},
	{"sushi", 200},
	{"steak", 271},
}

// Lookup returns the calories of the first matching entry, case-insensitively.
func (t Table) Lookup(label string) (int, bool) {
	l := strings.ToLower(label)
	for _, e := range t {
		if strings.Contains(l, e.Keyword) {
			return e.Calories, true
		}
	}
	return 0, false
}

// Estimate is Lookup with DefaultCalories on a miss.
func (t Table) Estimate(label string) int {
	if c, ok := t.Lookup(label); ok {
		return c
	}
	return DefaultCalories
}

// Estimate uses the Default table.
func Estimate(label string) int {
	return Default.Estimate(label)
}
