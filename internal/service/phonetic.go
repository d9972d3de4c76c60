package service

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// nearMissThreshold is the minimum Jaro-Winkler similarity for a wrong
// answer to count as a near miss.
const nearMissThreshold = 0.7

// SoundsLike reports whether response is a phonetic near miss of answer:
// both words share a Double Metaphone code and are close in spelling.
// Identical words are not near misses.
func SoundsLike(response, answer string) bool {
	r := strings.ToLower(strings.TrimSpace(response))
	a := strings.ToLower(strings.TrimSpace(answer))
	if r == "" || a == "" || r == a {
		return false
	}

	if !codesOverlap(metaphoneCodes(r), metaphoneCodes(a)) {
		return false
	}
	return matchr.JaroWinkler(r, a, false) >= nearMissThreshold
}

func metaphoneCodes(word string) []string {
	p, s := matchr.DoubleMetaphone(word)
	codes := make([]string, 0, 2)
	if p != "" {
		codes = append(codes, p)
	}
	if s != "" && s != p {
		codes = append(codes, s)
	}
	return codes
}

func codesOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
