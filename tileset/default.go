package tileset

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/milk9111/tilemap/tilemap"
	"golang.org/x/image/colornames"
)

// DefaultColumns and DefaultRows give the layout of the generated palette.
const (
	DefaultColumns = 8
	DefaultRows    = 8
)

// DefaultName is the name of the palette registered for new maps.
const DefaultName = "palette.png"

// DefaultImage renders an 8x8 grid of solid, outlined tiles of the given size.
func DefaultImage(size tilemap.Size) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width*DefaultColumns, size.Height*DefaultRows))
	names := colornames.Names
	for i := 0; i < DefaultColumns*DefaultRows; i++ {
		c := colornames.Map[names[(i*len(names)/(DefaultColumns*DefaultRows))%len(names)]]
		x := (i % DefaultColumns) * size.Width
		y := (i / DefaultColumns) * size.Height
		cell := image.Rect(x, y, x+size.Width, y+size.Height)
		draw.Draw(img, cell, image.NewUniform(darken(c)), image.Point{}, draw.Src)
		if size.Width > 2 && size.Height > 2 {
			draw.Draw(img, cell.Inset(1), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return img
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xff}
}

// Default returns the generated palette as a tile set ready to register.
func Default(size tilemap.Size) (tilemap.TileSet, error) {
	content, err := EncodeDataURL(DefaultImage(size))
	if err != nil {
		return tilemap.TileSet{}, err
	}
	return tilemap.TileSet{Name: DefaultName, Content: content}, nil
}
