// Package scoring provides the default majority-judgement scorer.
package scoring

import (
	"math"
	"sort"

	"reviewdesk/contexts/programme/ranking-service/ports"
)

// valueRadix is one more than the highest vote value, so each median digit
// fits one base-3 position.
const valueRadix = 3

// MajorityJudgement scores a multiset of vote values (0 bad, 1 ok,
// 2 excellent) by repeatedly extracting the lower median, then reading the
// median sequence as base-3 digits, most significant first. The raw total is
// normalised by the maximum achievable for that many votes, giving a score
// in [0, 1] where a proposal judged excellent by everyone scores 1.
//
// The median sequence gives majority judgement its tie-break: two proposals
// with the same first median are separated by the next, so the ordering is a
// strict total order over multisets of equal size.
type MajorityJudgement struct{}

func (MajorityJudgement) Score(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	total := 0.0
	maxTotal := 0.0
	for len(sorted) > 0 {
		mid := (len(sorted) - 1) / 2
		median := sorted[mid]
		sorted = append(sorted[:mid], sorted[mid+1:]...)

		place := math.Pow(valueRadix, float64(len(sorted)))
		total += float64(median) * place
		maxTotal += float64(valueRadix-1) * place
	}
	return total / maxTotal
}

var _ ports.Scorer = MajorityJudgement{}
