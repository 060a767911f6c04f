package common

import (
	"fmt"
	"math/big"
	"strings"
)

// CellPosition addresses one cell of the unbounded map grid. The components
// are treated as immutable; every arithmetic helper allocates.
type CellPosition struct {
	Row    *big.Int
	Column *big.Int
}

// NewCellPosition builds a position from machine integers.
func NewCellPosition(row, column int64) CellPosition {
	return CellPosition{Row: big.NewInt(row), Column: big.NewInt(column)}
}

// Equal reports whether both components match.
func (p CellPosition) Equal(o CellPosition) bool {
	return p.Row.Cmp(o.Row) == 0 && p.Column.Cmp(o.Column) == 0
}

// Key is the canonical map key for p.
func (p CellPosition) Key() string {
	return p.Row.String() + "_" + p.Column.String()
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (CellPosition, error) {
	row, column, ok := strings.Cut(key, "_")
	if !ok {
		return CellPosition{}, fmt.Errorf("common: parse cell key %q: missing separator", key)
	}
	r, ok := new(big.Int).SetString(row, 10)
	if !ok {
		return CellPosition{}, fmt.Errorf("common: parse cell key %q: bad row", key)
	}
	c, ok := new(big.Int).SetString(column, 10)
	if !ok {
		return CellPosition{}, fmt.Errorf("common: parse cell key %q: bad column", key)
	}
	return CellPosition{Row: r, Column: c}, nil
}

// Add returns p offset by o.
func (p CellPosition) Add(o CellPosition) CellPosition {
	return CellPosition{
		Row:    new(big.Int).Add(p.Row, o.Row),
		Column: new(big.Int).Add(p.Column, o.Column),
	}
}

// Sub returns p - o.
func (p CellPosition) Sub(o CellPosition) CellPosition {
	return CellPosition{
		Row:    new(big.Int).Sub(p.Row, o.Row),
		Column: new(big.Int).Sub(p.Column, o.Column),
	}
}

// Offset returns p moved by (rows, columns).
func (p CellPosition) Offset(rows, columns int64) CellPosition {
	return CellPosition{
		Row:    new(big.Int).Add(p.Row, big.NewInt(rows)),
		Column: new(big.Int).Add(p.Column, big.NewInt(columns)),
	}
}

// Clone returns a position that shares no storage with p.
func (p CellPosition) Clone() CellPosition {
	return CellPosition{Row: new(big.Int).Set(p.Row), Column: new(big.Int).Set(p.Column)}
}

func (p CellPosition) String() string {
	return fmt.Sprintf("(%s, %s)", p.Row, p.Column)
}

// Neighbors returns the 4-connected neighbours in up, right, down, left order.
func (p CellPosition) Neighbors() [4]CellPosition {
	return [4]CellPosition{
		p.Offset(-1, 0),
		p.Offset(0, 1),
		p.Offset(1, 0),
		p.Offset(0, -1),
	}
}
