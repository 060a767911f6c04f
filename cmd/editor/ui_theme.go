package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	toolbarBackground = color.RGBA{220, 220, 240, 255}
	panelBackground   = color.RGBA{40, 40, 40, 255}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func buttonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:         solidNineSlice(color.RGBA{180, 180, 180, 255}),
		Hover:        solidNineSlice(color.RGBA{200, 200, 200, 255}),
		Pressed:      solidNineSlice(color.RGBA{160, 160, 160, 255}),
		PressedHover: solidNineSlice(color.RGBA{170, 170, 190, 255}),
		Disabled:     solidNineSlice(color.RGBA{130, 130, 130, 255}),
	}
}

func buttonTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelBackground),
		},
		ButtonTheme: &widget.ButtonParams{
			Image:     buttonImage(),
			TextFace:  fontFace,
			TextColor: buttonTextColor(),
		},
		LabelTheme: &widget.LabelParams{
			Face:  fontFace,
			Color: &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 128}},
		},
	}
}
