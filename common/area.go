package common

import "math/big"

// Area is a pixel rectangle inside a tile-set image.
type Area struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (a Area) Equal(b Area) bool {
	return a.X == b.X && a.Y == b.Y && a.Width == b.Width && a.Height == b.Height
}

// FromTo is a rectangle of cells given by its inclusive corners.
type FromTo struct {
	From CellPosition
	To   CellPosition
}

// CellArea is a rectangle of cells given by its top-left cell and size.
type CellArea struct {
	Row    *big.Int
	Column *big.Int
	Width  *big.Int
	Height *big.Int
}

// SingleCell is the 1x1 area at p.
func SingleCell(p CellPosition) CellArea {
	return CellArea{Row: p.Row, Column: p.Column, Width: big.NewInt(1), Height: big.NewInt(1)}
}

// AreaBetween is the inclusive bounding rectangle of two cells.
func AreaBetween(a, b CellPosition) CellArea {
	width := Abs(new(big.Int).Sub(b.Column, a.Column))
	height := Abs(new(big.Int).Sub(b.Row, a.Row))
	return CellArea{
		Row:    new(big.Int).Set(Min(a.Row, b.Row)),
		Column: new(big.Int).Set(Min(a.Column, b.Column)),
		Width:  width.Add(width, bigOne),
		Height: height.Add(height, bigOne),
	}
}

// Origin is the top-left cell.
func (a CellArea) Origin() CellPosition {
	return CellPosition{Row: a.Row, Column: a.Column}
}

// FromTo converts to inclusive corners.
func (a CellArea) FromTo() FromTo {
	return FromTo{
		From: a.Origin().Clone(),
		To: CellPosition{
			Row:    new(big.Int).Sub(new(big.Int).Add(a.Row, a.Height), bigOne),
			Column: new(big.Int).Sub(new(big.Int).Add(a.Column, a.Width), bigOne),
		},
	}
}

// CellArea converts inclusive corners to origin + size. From must not be
// below or right of To.
func (f FromTo) CellArea() CellArea {
	h := new(big.Int).Sub(f.To.Row, f.From.Row)
	w := new(big.Int).Sub(f.To.Column, f.From.Column)
	return CellArea{
		Row:    new(big.Int).Set(f.From.Row),
		Column: new(big.Int).Set(f.From.Column),
		Width:  w.Add(w, bigOne),
		Height: h.Add(h, bigOne),
	}
}

// Contains reports whether p lies inside f.
func (f FromTo) Contains(p CellPosition) bool {
	return p.Row.Cmp(f.From.Row) >= 0 && p.Row.Cmp(f.To.Row) <= 0 &&
		p.Column.Cmp(f.From.Column) >= 0 && p.Column.Cmp(f.To.Column) <= 0
}

// Contains reports whether p lies inside a.
func (a CellArea) Contains(p CellPosition) bool {
	return a.FromTo().Contains(p)
}

// Equal reports whether both areas cover the same cells.
func (a CellArea) Equal(b CellArea) bool {
	return a.Row.Cmp(b.Row) == 0 && a.Column.Cmp(b.Column) == 0 &&
		a.Width.Cmp(b.Width) == 0 && a.Height.Cmp(b.Height) == 0
}

// IsEmpty reports whether the area has no cells.
func (a CellArea) IsEmpty() bool {
	return a.Width.Sign() <= 0 || a.Height.Sign() <= 0
}

// Each calls fn row-major with the offset of every cell relative to the area
// origin and its absolute position. Returning false stops the walk.
func (a CellArea) Each(fn func(offset, pos CellPosition) bool) {
	for row := new(big.Int).Set(bigZero); row.Cmp(a.Height) < 0; row.Add(row, bigOne) {
		for column := new(big.Int).Set(bigZero); column.Cmp(a.Width) < 0; column.Add(column, bigOne) {
			offset := CellPosition{Row: new(big.Int).Set(row), Column: new(big.Int).Set(column)}
			pos := CellPosition{
				Row:    new(big.Int).Add(a.Row, row),
				Column: new(big.Int).Add(a.Column, column),
			}
			if !fn(offset, pos) {
				return
			}
		}
	}
}
