package retriever

import (
	"math"

	"romdex/internal/adapter/analyzer"
)

// PartialRatio scores how well the shorter of two strings fits somewhere
// inside the longer one, from 0 to 100. Both sides are normalized first.
// Each alignment is scored by indel similarity, 2*LCS/(len(a)+len(b)), so a
// dropped or doubled letter costs little. Alignments hanging off either end
// of the longer string count too.
func PartialRatio(a, b string) int {
	return partialRatio(analyzer.Normalize(a), analyzer.Normalize(b))
}

func partialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}

	n := len(short)
	best := 0.0
	try := func(window []rune) bool {
		if r := indelRatio(short, window); r > best {
			best = r
		}
		return best == 1
	}

	for i := 1; i < n; i++ {
		if try(long[:i]) {
			return 100
		}
	}
	for i := 0; i+n <= len(long); i++ {
		if try(long[i : i+n]) {
			return 100
		}
	}
	for i := len(long) - n + 1; i < len(long); i++ {
		if try(long[i:]) {
			return 100
		}
	}
	return int(math.Round(100 * best))
}

func indelRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLen(a, b)) / float64(total)
}

// lcsLen is the length of the longest common subsequence of a and b.
func lcsLen(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, ra := range a {
		for j, rb := range b {
			switch {
			case ra == rb:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
