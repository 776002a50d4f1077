package random

import (
	"slices"
	"testing"
)

func TestSampleDistinctAndClamped(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"subset", 5, 5},
		{"all", 10, 10},
		{"more than available", 25, 10},
		{"negative", -1, 0},
		{"zero", 0, 0},
	}
	s := NewSeeded(1, 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(s, items, tt.n)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			seen := map[int]bool{}
			for _, v := range got {
				if seen[v] {
					t.Fatalf("duplicate %d in %v", v, got)
				}
				seen[v] = true
			}
		})
	}
	if !slices.Equal(items, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("input was modified: %v", items)
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	a := Sample(NewSeeded(7, 7), items, 4)
	b := Sample(NewSeeded(7, 7), items, 4)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

// Each of the 6 permutations of 3 items should show up about 1/6 of the time.
func TestShuffleIsRoughlyUniform(t *testing.T) {
	s := NewSeeded(42, 99)
	counts := map[string]int{}
	const rounds = 60000
	for i := 0; i < rounds; i++ {
		p := []byte("abc")
		s.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
		counts[string(p)]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected 6 permutations, got %d", len(counts))
	}
	for perm, c := range counts {
		if c < 9000 || c > 11000 {
			t.Errorf("permutation %s seen %d times, want ~10000", perm, c)
		}
	}
}
