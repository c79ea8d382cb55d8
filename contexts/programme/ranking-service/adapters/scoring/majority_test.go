package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestScoreBounds(t *testing.T) {
	scorer := MajorityJudgement{}

	if got := scorer.Score(nil); got != 0 {
		t.Fatalf("empty vote set should score 0, got %v", got)
	}
	if got := scorer.Score([]int{0, 0, 0, 0}); got != 0 {
		t.Fatalf("all-bad should score 0, got %v", got)
	}
	if got := scorer.Score([]int{2, 2, 2}); got != 1 {
		t.Fatalf("all-excellent should score 1, got %v", got)
	}
	if got := scorer.Score([]int{2}); got != 1 {
		t.Fatalf("single excellent should score 1, got %v", got)
	}
}

func TestScoreMedianSequence(t *testing.T) {
	scorer := MajorityJudgement{}

	// Medians extract as 2, 1, 2 -> base-3 digits 2*9 + 1*3 + 2 = 23, out
	// of a maximum 26.
	if got := scorer.Score([]int{2, 2, 1}); !almostEqual(got, 23.0/26.0) {
		t.Fatalf("Score([2,2,1]) = %v, want %v", got, 23.0/26.0)
	}
	if got := scorer.Score([]int{1, 1, 1}); !almostEqual(got, 0.5) {
		t.Fatalf("Score([1,1,1]) = %v, want 0.5", got)
	}
	if got := scorer.Score([]int{0, 1, 1}); !almostEqual(got, 10.0/26.0) {
		t.Fatalf("Score([0,1,1]) = %v, want %v", got, 10.0/26.0)
	}
}

func TestScoreOrdersByMerit(t *testing.T) {
	scorer := MajorityJudgement{}

	strong := scorer.Score([]int{2, 2, 1})
	middle := scorer.Score([]int{1, 1, 1})
	weak := scorer.Score([]int{0, 1, 1})
	if !(strong > middle && middle > weak) {
		t.Fatalf("expected strict ordering, got %v > %v > %v", strong, middle, weak)
	}

	// A shared first median separates on the next one.
	better := scorer.Score([]int{1, 1, 2})
	if !(better > middle) {
		t.Fatalf("second median should break the tie: %v vs %v", better, middle)
	}
}

func TestScoreIgnoresInputOrder(t *testing.T) {
	scorer := MajorityJudgement{}

	a := scorer.Score([]int{2, 0, 1, 1, 2})
	b := scorer.Score([]int{1, 2, 2, 0, 1})
	if a != b {
		t.Fatalf("score must be order independent: %v vs %v", a, b)
	}
}
