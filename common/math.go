package common

import (
	"math"
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// Min returns the smaller of a and b. The result aliases one of the arguments.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b. The result aliases one of the arguments.
func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		return a
	}
	return b
}

// Abs returns a new big.Int holding |v|.
func Abs(v *big.Int) *big.Int {
	return new(big.Int).Abs(v)
}

// HalfOfCeiled halves v rounding up: 1->1, 2->1, 3->2, 4->2.
func HalfOfCeiled(v *big.Int) *big.Int {
	n := new(big.Int).Add(v, bigOne)
	return n.Quo(n, bigTwo)
}

// FloorDiv divides value by step rounding toward negative infinity.
// A non-positive step is a programming error.
func FloorDiv(value, step *big.Int) *big.Int {
	if step.Sign() <= 0 {
		panic("common: FloorDiv step must be positive")
	}
	q, m := new(big.Int).QuoRem(value, step, new(big.Int))
	if m.Sign() < 0 {
		q.Sub(q, bigOne)
	}
	return q
}

// AdjustToStep snaps value down to the closest multiple of step (toward -inf).
func AdjustToStep(value, step *big.Int) *big.Int {
	q := FloorDiv(value, step)
	return q.Mul(q, step)
}

// AdjustToStepInt is AdjustToStep for small pixel values inside a tile-set image.
func AdjustToStepInt(value, step int) int {
	if step <= 0 {
		panic("common: AdjustToStepInt step must be positive")
	}
	return int(math.Floor(float64(value)/float64(step))) * step
}

// FloorQuo returns floor(value / step) for a positive fractional step.
func FloorQuo(value *big.Float, step float64) *big.Int {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		panic("common: FloorQuo step must be positive and finite")
	}
	q := new(big.Float).SetPrec(value.Prec() + 64)
	q.Quo(value, big.NewFloat(step))
	i, acc := q.Int(nil)
	// Int truncates toward zero; correct negative non-integers.
	if q.Sign() < 0 && acc != big.Exact {
		i.Sub(i, bigOne)
	}
	return i
}

// FindIndexOfClosest returns the index of the value closest to v. Ties keep
// the earlier index. values must not be empty.
func FindIndexOfClosest(values []float64, v float64) int {
	closest := 0
	distance := math.Abs(values[0] - v)
	for i := 1; i < len(values); i++ {
		d := math.Abs(values[i] - v)
		if d < distance {
			distance = d
			closest = i
		}
	}
	return closest
}
