package session

import "fmt"

// FocusCategory is the ground-truth attentiveness label of a synthetic session.
type FocusCategory string

const (
	Distracted    FocusCategory = "distracted"
	SemiAttentive FocusCategory = "semi-attentive"
	Attentive     FocusCategory = "attentive"
)

// Categories lists every FocusCategory in generation order.
var Categories = []FocusCategory{Distracted, SemiAttentive, Attentive}

// Ordinal maps the category onto the class label used by model training
// (distracted=0, semi-attentive=1, attentive=2). Unknown categories return -1.
func (c FocusCategory) Ordinal() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the known categories.
func (c FocusCategory) Valid() bool { return c.Ordinal() >= 0 }

func (c FocusCategory) String() string { return string(c) }

// ParseCategory returns the FocusCategory named s.
func ParseCategory(s string) (FocusCategory, error) {
	c := FocusCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("session: unknown focus category %q", s)
	}
	return c, nil
}

// CategoryFromOrdinal is the inverse of Ordinal.
func CategoryFromOrdinal(i int) (FocusCategory, error) {
	if i < 0 || i >= len(Categories) {
		return "", fmt.Errorf("session: focus ordinal %d out of range", i)
	}
	return Categories[i], nil
}

// Feature names one behavioural range of a category.
type Feature string

const (
	Duration     Feature = "duration"
	TabSwitches  Feature = "tab_switches"
	Keystrokes   Feature = "keystrokes"
	MouseMoves   Feature = "mouse_moves"
	Inactivity   Feature = "inactivity"
	Scrolls      Feature = "scrolls"
	Productivity Feature = "productivity"
)

// Features lists the seven ranged features every category must define.
var Features = []Feature{Duration, TabSwitches, Keystrokes, MouseMoves, Inactivity, Scrolls, Productivity}

// Range is an inclusive integer bound.
type Range struct {
	Low  int
	High int
}

// Contains reports whether v lies in [Low, High].
func (r Range) Contains(v int) bool { return v >= r.Low && v <= r.High }

// Ranges holds the bounds of one category, keyed by feature.
type Ranges map[Feature]Range

// RangeTable holds the bounds of every category.
type RangeTable map[FocusCategory]Ranges

// Distribution is the target record count of every category.
type Distribution map[FocusCategory]int

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// DefaultDistribution is the 40/38/22 split of a 300-session dataset.
func DefaultDistribution() Distribution {
	return Distribution{
		Distracted:    120,
		SemiAttentive: 114,
		Attentive:     66,
	}
}

// DefaultRanges returns the behavioural bounds of each focus category.
func DefaultRanges() RangeTable {
	return RangeTable{
		Distracted: {
			Duration:     {1, 4},
			TabSwitches:  {8, 15},
			Keystrokes:   {30, 80},
			MouseMoves:   {50, 120},
			Inactivity:   {4, 8},
			Scrolls:      {5, 40},
			Productivity: {20, 40},
		},
		SemiAttentive: {
			Duration:     {4, 8},
			TabSwitches:  {3, 7},
			Keystrokes:   {100, 180},
			MouseMoves:   {100, 180},
			Inactivity:   {1, 4},
			Scrolls:      {50, 100},
			Productivity: {45, 65},
		},
		Attentive: {
			Duration:     {8, 12},
			TabSwitches:  {0, 2},
			Keystrokes:   {200, 320},
			MouseMoves:   {180, 250},
			Inactivity:   {0, 1},
			Scrolls:      {100, 180},
			Productivity: {70, 95},
		},
	}
}
