package common

import (
	"math/big"
	"testing"
)

func TestMinMaxAbs(t *testing.T) {
	a, b := big.NewInt(1), big.NewInt(2)
	if Min(a, b).Int64() != 1 || Min(b, a).Int64() != 1 {
		t.Fatalf("Min should return 1")
	}
	if Max(a, b).Int64() != 2 || Max(b, a).Int64() != 2 {
		t.Fatalf("Max should return 2")
	}
	if Abs(big.NewInt(-1)).Int64() != 1 || Abs(big.NewInt(1)).Int64() != 1 {
		t.Fatalf("Abs should return 1")
	}
}

func TestHalfOfCeiled(t *testing.T) {
	cases := []struct{ in, want int64 }{{1, 1}, {2, 1}, {3, 2}, {4, 2}}
	for _, c := range cases {
		if got := HalfOfCeiled(big.NewInt(c.in)).Int64(); got != c.want {
			t.Fatalf("HalfOfCeiled(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFloorDivAndAdjustToStep(t *testing.T) {
	cases := []struct {
		name            string
		value, step     int64
		wantQ, wantSnap int64
	}{
		{"zero", 0, 32, 0, 0},
		{"inside_first", 31, 32, 0, 0},
		{"exact", 64, 32, 2, 64},
		{"negative_one", -1, 32, -1, -32},
		{"negative_exact", -32, 32, -1, -32},
		{"negative_inside", -33, 32, -2, -64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := FloorDiv(big.NewInt(c.value), big.NewInt(c.step))
			if q.Int64() != c.wantQ {
				t.Fatalf("FloorDiv(%d, %d) = %s, want %d", c.value, c.step, q, c.wantQ)
			}
			s := AdjustToStep(big.NewInt(c.value), big.NewInt(c.step))
			if s.Int64() != c.wantSnap {
				t.Fatalf("AdjustToStep(%d, %d) = %s, want %d", c.value, c.step, s, c.wantSnap)
			}
		})
	}
}

func TestFloorDivHugeValues(t *testing.T) {
	v, _ := new(big.Int).SetString("-100000000000000000000000000001", 10)
	q := FloorDiv(v, big.NewInt(10))
	want, _ := new(big.Int).SetString("-10000000000000000000000000001", 10)
	if q.Cmp(want) != 0 {
		t.Fatalf("FloorDiv huge = %s, want %s", q, want)
	}
}

func TestFloorDivPanicsOnNonPositiveStep(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	FloorDiv(big.NewInt(1), big.NewInt(0))
}

func TestFloorQuo(t *testing.T) {
	cases := []struct {
		value float64
		step  float64
		want  int64
	}{
		{0, 8, 0},
		{7.9, 8, 0},
		{8, 8, 1},
		{-0.5, 8, -1},
		{-8, 8, -1},
		{-8.5, 8, -2},
		{100, 12.5, 8},
	}
	for _, c := range cases {
		if got := FloorQuo(big.NewFloat(c.value), c.step).Int64(); got != c.want {
			t.Fatalf("FloorQuo(%v, %v) = %d, want %d", c.value, c.step, got, c.want)
		}
	}
}

func TestAdjustToStepInt(t *testing.T) {
	if AdjustToStepInt(33, 32) != 32 || AdjustToStepInt(-1, 32) != -32 || AdjustToStepInt(0, 16) != 0 {
		t.Fatalf("AdjustToStepInt mismatch")
	}
}

func TestFindIndexOfClosest(t *testing.T) {
	steps := []float64{0.25, 0.5, 1, 2}
	if i := FindIndexOfClosest(steps, 0.9); i != 2 {
		t.Fatalf("expected 2, got %d", i)
	}
	if i := FindIndexOfClosest(steps, 10); i != 3 {
		t.Fatalf("expected 3, got %d", i)
	}
}
