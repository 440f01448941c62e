package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"passbot/internal/seed"
)

func testSets() *seed.ElementSets {
	return &seed.ElementSets{
		Words:      []string{"aa", "bb", "cc"},
		Numbers:    []string{"1", "2"},
		Specials:   []string{"!", "#"},
		Separators: []string{"", "_"},
	}
}

// enumerate materializes a phase through its positional interface.
func enumerate(ph Phase) []string {
	out := make([]string, 0, ph.Count())
	for pos := int64(0); pos < ph.Count(); pos++ {
		out = append(out, ph.At(pos))
	}
	return out
}

func TestPhaseCounts(t *testing.T) {
	sets := testSets()
	w, n, s, p := int64(3), int64(2), int64(2), int64(2)

	wants := []int64{
		w,                     // 1: single words
		n,                     // 2: single numbers
		w * n * p * 2,         // 3: word+number, both orders
		w * s * p * 2,         // 4: word+special
		n * s * p * 2,         // 5: number+special
		w * (w - 1) * p,       // 6: ordered distinct word pairs
		w*n*s*p*p*6 + w*(w-1)*n*p*p*3, // 7: triples
	}
	phases := Phases(sets)
	var total int64
	for i, ph := range phases {
		if ph.Count() != wants[i] {
			t.Errorf("phase %d count = %d, want %d", i+1, ph.Count(), wants[i])
		}
		if ph.Number() != i+1 {
			t.Errorf("phase at index %d reports number %d", i, ph.Number())
		}
		total += wants[i]
	}
	if got := EstimatedTotal(sets); got != total {
		t.Errorf("EstimatedTotal = %d, want %d", got, total)
	}
}

func TestPhasePositionalDecodeMatchesNestedLoops(t *testing.T) {
	sets := testSets()
	w, n, s, p := sets.Words, sets.Numbers, sets.Specials, sets.Separators
	phases := Phases(sets)

	// Phase 3: word outer, number, separator, order innermost.
	var want []string
	for _, a := range w {
		for _, b := range n {
			for _, sep := range p {
				want = append(want, a+sep+b, b+sep+a)
			}
		}
	}
	if diff := cmp.Diff(want, enumerate(phases[2])); diff != "" {
		t.Errorf("phase 3 order mismatch (-want +got):\n%s", diff)
	}

	// Phase 5: number outer, special, separator, order innermost.
	want = nil
	for _, a := range n {
		for _, b := range s {
			for _, sep := range p {
				want = append(want, a+sep+b, b+sep+a)
			}
		}
	}
	if diff := cmp.Diff(want, enumerate(phases[4])); diff != "" {
		t.Errorf("phase 5 order mismatch (-want +got):\n%s", diff)
	}

	// Phase 6: ordered distinct pairs, separator innermost.
	want = nil
	for i, w1 := range w {
		for j, w2 := range w {
			if i == j {
				continue
			}
			for _, sep := range p {
				want = append(want, w1+sep+w2)
			}
		}
	}
	if diff := cmp.Diff(want, enumerate(phases[5])); diff != "" {
		t.Errorf("phase 6 order mismatch (-want +got):\n%s", diff)
	}
}

func TestTriplePhaseMatchesNestedLoops(t *testing.T) {
	sets := testSets()
	w, n, s, p := sets.Words, sets.Numbers, sets.Specials, sets.Separators
	ph := Phases(sets)[6]

	// Block one: word, number, special with all six orderings;
	// block two: ordered word pairs with a number, three orderings.
	var want []string
	for _, wv := range w {
		for _, nv := range n {
			for _, sv := range s {
				for _, s1 := range p {
					for _, s2 := range p {
						want = append(want,
							wv+s1+nv+s2+sv, wv+s1+sv+s2+nv,
							nv+s1+wv+s2+sv, nv+s1+sv+s2+wv,
							sv+s1+wv+s2+nv, sv+s1+nv+s2+wv)
					}
				}
			}
		}
	}
	for i, w1 := range w {
		for j, w2 := range w {
			if i == j {
				continue
			}
			for _, nv := range n {
				for _, s1 := range p {
					for _, s2 := range p {
						want = append(want,
							w1+s1+w2+s2+nv, w1+s1+nv+s2+w2, nv+s1+w1+s2+w2)
					}
				}
			}
		}
	}
	if diff := cmp.Diff(want, enumerate(ph)); diff != "" {
		t.Errorf("phase 7 order mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptySetsZeroCounts(t *testing.T) {
	tests := []struct {
		name  string
		sets  *seed.ElementSets
		zeros []int // 1-based phase numbers that must report zero
	}{
		{
			"no numbers",
			&seed.ElementSets{Words: []string{"a", "b"}, Specials: []string{"!"}, Separators: []string{""}},
			[]int{2, 3, 5},
		},
		{
			"no specials",
			&seed.ElementSets{Words: []string{"a", "b"}, Numbers: []string{"1"}, Separators: []string{""}},
			[]int{4, 5},
		},
		{
			"single word",
			&seed.ElementSets{Words: []string{"a"}, Separators: []string{""}},
			[]int{2, 3, 4, 5, 6, 7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := Phases(tt.sets)
			zero := make(map[int]bool)
			for _, z := range tt.zeros {
				zero[z] = true
			}
			for _, ph := range phases {
				if zero[ph.Number()] && ph.Count() != 0 {
					t.Errorf("phase %d count = %d, want 0", ph.Number(), ph.Count())
				}
				if !zero[ph.Number()] && ph.Count() == 0 {
					t.Errorf("phase %d unexpectedly empty", ph.Number())
				}
			}
		})
	}
}

func TestTriplePhasePartialEmptiness(t *testing.T) {
	// Two words and numbers but no specials: the word-number-special
	// block vanishes and only the word-pair-number block remains.
	sets := &seed.ElementSets{
		Words:      []string{"a", "b"},
		Numbers:    []string{"1"},
		Separators: []string{""},
	}
	ph := Phases(sets)[6]
	want := []string{"ab1", "a1b", "1ab", "ba1", "b1a", "1ba"}
	if diff := cmp.Diff(want, enumerate(ph)); diff != "" {
		t.Errorf("phase 7 without specials mismatch (-want +got):\n%s", diff)
	}
}

func TestPhaseDeterminism(t *testing.T) {
	// The same position must decode to the same candidate on every call;
	// resume correctness depends on it.
	for _, ph := range Phases(testSets()) {
		first := enumerate(ph)
		second := enumerate(ph)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("phase %d not deterministic:\n%s", ph.Number(), diff)
		}
	}
}
