package blankpoly

import (
	"testing"

	"github.com/archer-lili/zkp-coloring/pkg/hashoracle"
)

func TestRunningSumAndSum(t *testing.T) {
	values := []byte{0, 1, 1, 0, 1}
	bp := New(values)
	want := []uint64{0, 1, 2, 2, 3}
	for i, w := range want {
		if got := bp.RunningSum(i); got != w {
			t.Fatalf("RunningSum(%d) = %d, want %d", i, got, w)
		}
	}
	if bp.Sum() != 3 {
		t.Fatalf("Sum() = %d, want 3", bp.Sum())
	}
}

func TestEvaluateMatchesInput(t *testing.T) {
	values := []byte{1, 0, 0, 1, 1, 0}
	bp := New(values)
	for i, v := range values {
		if bp.Evaluate(i) != v {
			t.Fatalf("Evaluate(%d) = %d, want %d", i, bp.Evaluate(i), v)
		}
	}
}

func TestAllZeroAndAllOne(t *testing.T) {
	zeros := make([]byte, 10)
	bp := New(zeros)
	if bp.Sum() != 0 {
		t.Fatalf("all-zero sum should be 0, got %d", bp.Sum())
	}
	ones := make([]byte, 10)
	for i := range ones {
		ones[i] = 1
	}
	bp = New(ones)
	if bp.Sum() != 10 {
		t.Fatalf("all-one sum should be 10, got %d", bp.Sum())
	}
}

func TestCommitDeterministic(t *testing.T) {
	o := hashoracle.Blake3{}
	a := New([]byte{1, 0, 1})
	b := New([]byte{1, 0, 1})
	if a.Commit(o) != b.Commit(o) {
		t.Fatalf("identical vectors must commit identically")
	}
	c := New([]byte{1, 1, 1})
	if a.Commit(o) == c.Commit(o) {
		t.Fatalf("distinct vectors must not commit identically")
	}
}
