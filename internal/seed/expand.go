// Package seed expands a raw seed profile into the four canonical
// element sets consumed by the phase enumerator: words, numbers,
// specials and separators. All sets are deduplicated and sorted so
// that a numeric cursor position always decodes to the same candidate
// across runs, which is what makes exact resume possible.
package seed

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"passbot/internal/config"
)

// ErrNoWords is returned when expansion yields an empty word set.
// Generation cannot start without at least one word.
var ErrNoWords = errors.New("seed: no usable words in profile")

// Year ranges outside this window are considered typos and dropped.
const (
	minYear = 1900
	maxYear = 2035
)

// ElementSets holds the derived, sorted, immutable-for-the-run element
// sequences. Separators always contains the empty string; underscore
// is appended only when the profile enables it.
type ElementSets struct {
	Words      []string
	Numbers    []string
	Specials   []string
	Separators []string
}

// Expand derives the element sets from a profile. Malformed fragments
// (non-numeric mobiles, bad dates, inverted year ranges, unknown
// pattern widths) contribute nothing; only an empty word set is fatal.
func Expand(p *config.SeedProfile) (*ElementSets, error) {
	words := make(map[string]struct{})
	for _, raw := range p.Words {
		for _, v := range Variations(raw) {
			words[v] = struct{}{}
		}
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	numbers := make(map[string]struct{})
	for _, mobile := range p.MobileNumbers {
		for _, frag := range MobileFragments(mobile) {
			numbers[frag] = struct{}{}
		}
	}
	for _, frag := range DateFragments(p.BirthDate) {
		numbers[frag] = struct{}{}
	}
	for _, year := range YearRange(p.YearRange) {
		numbers[year] = struct{}{}
	}
	for _, pattern := range p.NumberPatterns {
		for _, v := range PatternValues(pattern) {
			numbers[v] = struct{}{}
		}
	}

	specials := make(map[string]struct{})
	for _, sym := range p.Symbols {
		sym = strings.TrimSpace(sym)
		if sym != "" {
			specials[sym] = struct{}{}
		}
	}

	separators := []string{""}
	if p.UnderscoreSeparator {
		separators = append(separators, "_")
	}

	return &ElementSets{
		Words:      sortedKeys(words),
		Numbers:    sortedKeys(numbers),
		Specials:   sortedKeys(specials),
		Separators: separators,
	}, nil
}

// Variations returns the case variants of a word: lowercase, uppercase
// and capitalized. Duplicates collapse for words where variants
// coincide (digits-only input, single-case scripts).
func Variations(word string) []string {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	lower := strings.ToLower(word)
	seen := make(map[string]struct{}, 3)
	out := make([]string, 0, 3)
	for _, v := range []string{lower, strings.ToUpper(word), capitalize(lower)} {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// capitalize upper-cases the first rune of an already-lowercased word.
func capitalize(lower string) string {
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(r)) + lower[size:]
}

// MobileFragments extracts every contiguous digit substring of length
// 2-10 from a phone number. Non-digit characters are stripped first,
// so "+49 170 1234" and "491701234" yield the same fragments.
func MobileFragments(raw string) []string {
	digits := digitsOnly(raw)
	if len(digits) < 2 {
		return nil
	}
	frags := make(map[string]struct{})
	for start := 0; start < len(digits); start++ {
		for end := start + 2; end <= len(digits) && end-start <= 10; end++ {
			frags[digits[start:end]] = struct{}{}
		}
	}
	return sortedKeys(frags)
}

// DateFragments parses a strict 8-digit DDMMYYYY date and returns its
// parts, all ordered pairwise concatenations of distinct parts, and
// the eight common three-part arrangements. Only "/", "-" and spaces
// are tolerated as separators; any other character, or a digit count
// other than eight, yields nothing.
func DateFragments(raw string) []string {
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '-' || r == ' ' {
			return -1
		}
		return r
	}, raw)
	if len(clean) != 8 || digitsOnly(clean) != clean {
		return nil
	}
	day, month, year := clean[:2], clean[2:4], clean[4:]
	year2 := year[2:]

	frags := make(map[string]struct{})
	parts := []string{day, month, year, year2}
	for _, p := range parts {
		frags[p] = struct{}{}
	}
	for i, a := range parts {
		for j, b := range parts {
			if i != j {
				frags[a+b] = struct{}{}
			}
		}
	}
	for _, f := range []string{
		day + month + year2, day + month + year,
		month + day + year2, month + day + year,
		year2 + day + month, year + day + month,
		year2 + month + day, year + month + day,
	} {
		frags[f] = struct{}{}
	}
	return sortedKeys(frags)
}

// YearRange expands an inclusive "YYYY-YYYY" range into year strings.
// Malformed, inverted or out-of-window ranges yield nothing.
func YearRange(raw string) []string {
	raw = strings.TrimSpace(raw)
	start, end, ok := strings.Cut(raw, "-")
	if !ok {
		return nil
	}
	from, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return nil
	}
	to, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return nil
	}
	if from < minYear || from > to || to > maxYear {
		return nil
	}
	years := make([]string, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// PatternValues expands a fixed-width pattern request into every
// zero-padded value of that width: "00" -> 00..99, "000" -> 000..999,
// "0000" -> 0000..9999. Unknown patterns yield nothing.
func PatternValues(pattern string) []string {
	var width, limit int
	switch strings.TrimSpace(pattern) {
	case "00":
		width, limit = 2, 100
	case "000":
		width, limit = 3, 1000
	case "0000":
		width, limit = 4, 10000
	default:
		return nil
	}
	values := make([]string, limit)
	for i := 0; i < limit; i++ {
		values[i] = zeroPad(i, width)
	}
	return values
}

func zeroPad(i, width int) string {
	s := strconv.Itoa(i)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
