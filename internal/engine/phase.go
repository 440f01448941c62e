// Package engine implements the phased enumeration loop: seven
// combination phases with deterministic, positionally-addressable
// candidate orderings, a resumable cursor, and the single-threaded run
// loop that feeds dedup, strength filtering and the output sink.
package engine

import (
	"passbot/internal/seed"
)

// Phase is one combination strategy. Count and At together form an
// explicit index-to-candidate mapping: At(p) for p in [0, Count()) is
// the exact enumeration order, so a linear cursor position uniquely
// identifies the next candidate. A phase whose required element sets
// are empty reports Count() == 0 and is skipped.
type Phase interface {
	Number() int
	Label() string
	Count() int64
	At(pos int64) string
}

// Phases builds the seven phases, in order, over the given sets.
func Phases(sets *seed.ElementSets) []Phase {
	w, n, s, p := sets.Words, sets.Numbers, sets.Specials, sets.Separators
	return []Phase{
		singlePhase{num: 1, label: "Single Words", elems: w},
		singlePhase{num: 2, label: "Single Numbers", elems: n},
		pairPhase{num: 3, label: "Word + Number", a: w, b: n, seps: p},
		pairPhase{num: 4, label: "Word + Special", a: w, b: s, seps: p},
		pairPhase{num: 5, label: "Number + Special", a: n, b: s, seps: p},
		wordPairPhase{num: 6, label: "Word + Word", words: w, seps: p},
		triplePhase{num: 7, label: "Three Elements", words: w, numbers: n, specials: s, seps: p},
	}
}

// EstimatedTotal is the sum of all phase counts: the number of
// candidates the run will consider (not the accepted count, which
// dedup and strength filtering reduce).
func EstimatedTotal(sets *seed.ElementSets) int64 {
	var total int64
	for _, ph := range Phases(sets) {
		total += ph.Count()
	}
	return total
}

// singlePhase emits each element verbatim (phases 1 and 2).
type singlePhase struct {
	num   int
	label string
	elems []string
}

func (ph singlePhase) Number() int         { return ph.num }
func (ph singlePhase) Label() string       { return ph.label }
func (ph singlePhase) Count() int64        { return int64(len(ph.elems)) }
func (ph singlePhase) At(pos int64) string { return ph.elems[pos] }

// pairPhase emits a+sep+b and b+sep+a for every (a, b, sep), with the
// order bit innermost (phases 3-5). Nesting, outer to inner:
// a, b, sep, order.
type pairPhase struct {
	num   int
	label string
	a, b  []string
	seps  []string
}

func (ph pairPhase) Number() int   { return ph.num }
func (ph pairPhase) Label() string { return ph.label }

func (ph pairPhase) Count() int64 {
	return int64(len(ph.a)) * int64(len(ph.b)) * int64(len(ph.seps)) * 2
}

func (ph pairPhase) At(pos int64) string {
	order := pos % 2
	pos /= 2
	sep := ph.seps[pos%int64(len(ph.seps))]
	pos /= int64(len(ph.seps))
	b := ph.b[pos%int64(len(ph.b))]
	a := ph.a[pos/int64(len(ph.b))]
	if order == 0 {
		return a + sep + b
	}
	return b + sep + a
}

// wordPairPhase emits w1+sep+w2 for every ordered distinct pair
// (phase 6). Nesting, outer to inner: first word, second word
// (skipping the first), sep. Both orders appear because (i, j) and
// (j, i) are distinct ordered pairs.
type wordPairPhase struct {
	num   int
	label string
	words []string
	seps  []string
}

func (ph wordPairPhase) Number() int   { return ph.num }
func (ph wordPairPhase) Label() string { return ph.label }

func (ph wordPairPhase) Count() int64 {
	w := int64(len(ph.words))
	if w < 2 {
		return 0
	}
	return w * (w - 1) * int64(len(ph.seps))
}

func (ph wordPairPhase) At(pos int64) string {
	w := int64(len(ph.words))
	sep := ph.seps[pos%int64(len(ph.seps))]
	pos /= int64(len(ph.seps))
	i := pos / (w - 1)
	j := pos % (w - 1)
	if j >= i {
		j++ // second index skips the first word
	}
	return ph.words[i] + sep + ph.words[j]
}

// triplePhase is phase 7: first the word+number+special block with all
// six orderings, then the word-pair+number block with three orderings.
// One linear position spans both blocks, matching the single
// combination index the cursor model requires.
type triplePhase struct {
	num      int
	label    string
	words    []string
	numbers  []string
	specials []string
	seps     []string
}

func (ph triplePhase) Number() int   { return ph.num }
func (ph triplePhase) Label() string { return ph.label }

// countWNS is |W|*|N|*|S|*|P|^2*6, zero when any required set is empty.
func (ph triplePhase) countWNS() int64 {
	p := int64(len(ph.seps))
	return int64(len(ph.words)) * int64(len(ph.numbers)) * int64(len(ph.specials)) * p * p * 6
}

// countWWN is |W|*(|W|-1)*|N|*|P|^2*3, zero without two words.
func (ph triplePhase) countWWN() int64 {
	w := int64(len(ph.words))
	if w < 2 {
		return 0
	}
	p := int64(len(ph.seps))
	return w * (w - 1) * int64(len(ph.numbers)) * p * p * 3
}

func (ph triplePhase) Count() int64 {
	return ph.countWNS() + ph.countWWN()
}

func (ph triplePhase) At(pos int64) string {
	wns := ph.countWNS()
	if pos < wns {
		return ph.atWNS(pos)
	}
	return ph.atWWN(pos - wns)
}

// atWNS decodes the word+number+special block. Nesting, outer to
// inner: word, number, special, sep1, sep2, ordering.
func (ph triplePhase) atWNS(pos int64) string {
	p := int64(len(ph.seps))
	order := pos % 6
	pos /= 6
	sep2 := ph.seps[pos%p]
	pos /= p
	sep1 := ph.seps[pos%p]
	pos /= p
	s := ph.specials[pos%int64(len(ph.specials))]
	pos /= int64(len(ph.specials))
	n := ph.numbers[pos%int64(len(ph.numbers))]
	w := ph.words[pos/int64(len(ph.numbers))]

	switch order {
	case 0:
		return w + sep1 + n + sep2 + s
	case 1:
		return w + sep1 + s + sep2 + n
	case 2:
		return n + sep1 + w + sep2 + s
	case 3:
		return n + sep1 + s + sep2 + w
	case 4:
		return s + sep1 + w + sep2 + n
	default:
		return s + sep1 + n + sep2 + w
	}
}

// atWWN decodes the word-pair+number block. Nesting, outer to inner:
// first word, second word (skipping the first), number, sep1, sep2,
// ordering.
func (ph triplePhase) atWWN(pos int64) string {
	p := int64(len(ph.seps))
	w := int64(len(ph.words))
	order := pos % 3
	pos /= 3
	sep2 := ph.seps[pos%p]
	pos /= p
	sep1 := ph.seps[pos%p]
	pos /= p
	n := ph.numbers[pos%int64(len(ph.numbers))]
	pos /= int64(len(ph.numbers))
	i := pos / (w - 1)
	j := pos % (w - 1)
	if j >= i {
		j++
	}
	w1, w2 := ph.words[i], ph.words[j]

	switch order {
	case 0:
		return w1 + sep1 + w2 + sep2 + n
	case 1:
		return w1 + sep1 + n + sep2 + w2
	default:
		return n + sep1 + w1 + sep2 + w2
	}
}
