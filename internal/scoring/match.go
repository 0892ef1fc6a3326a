package scoring

import (
	"maps"
	"slices"
	"strings"
	"unicode"
)

// containsTerm reports whether term occurs in text as a whole word or phrase.
// Both arguments are expected in lower case.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}

	return false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if containsTerm(text, term) {
			return true
		}
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	return !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	r := rune(b)
	return r >= 0x80 || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// metroOf returns the metro area a location belongs to or "".
func metroOf(location string) string {
	location = strings.ToLower(location)
	for _, metro := range sortedMetros {
		if containsAny(location, metros[metro]) {
			return metro
		}
	}
	return ""
}

// citiesIn returns every known city mentioned in text, in table order.
func citiesIn(text string) []string {
	var cities []string
	for _, metro := range sortedMetros {
		for _, city := range metros[metro] {
			if containsTerm(text, city) {
				cities = append(cities, city)
			}
		}
	}
	return cities
}

var sortedMetros = slices.Sorted(maps.Keys(metros))
