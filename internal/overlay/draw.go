package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/desktop-scenarios/internal/platform"
)

const (
	glyphWidth  = 7
	glyphHeight = 13
	margin      = 8
	labelHeight = glyphHeight + 2*margin
)

var namedColors = map[string]color.RGBA{
	"green":   {R: 0, G: 200, B: 0, A: 255},
	"red":     {R: 230, G: 0, B: 0, A: 255},
	"blue":    {R: 0, G: 90, B: 255, A: 255},
	"yellow":  {R: 255, G: 215, B: 0, A: 255},
	"orange":  {R: 255, G: 140, B: 0, A: 255},
	"purple":  {R: 150, G: 0, B: 200, A: 255},
	"cyan":    {R: 0, G: 200, B: 220, A: 255},
	"magenta": {R: 220, G: 0, B: 180, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"black":   {R: 0, G: 0, B: 0, A: 255},
}

// ParseColor accepts a color name or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q (use a name such as green or #rrggbb)", s)
}

// Render draws rect as a frame of the given thickness on a transparent
// canvas, with message labelled underneath. The canvas origin corresponds
// to (rect.X-margin, rect.Y-margin) on screen.
func Render(rect platform.Bounds, c color.RGBA, thickness int, message string) *image.RGBA {
	if thickness < 1 {
		thickness = 1
	}
	w := rect.Width + 2*margin
	h := rect.Height + 2*margin
	if message != "" {
		h += labelHeight
		if lw := len(message)*glyphWidth + 2*margin; lw > w {
			w = lw
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i := 0; i < thickness; i++ {
		drawRectangle(img, margin+i, margin+i, margin+rect.Width-i, margin+rect.Height-i, c)
	}
	if message != "" {
		textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		outline := color.RGBA{R: 0, G: 0, B: 0, A: 220}
		drawTextWithOutline(img, message, margin, margin+rect.Height+margin+glyphHeight, textColor, outline)
	}
	return img
}

func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	b := img.Bounds()
	x1, y1 = max(x1, b.Min.X), max(y1, b.Min.Y)
	x2, y2 = min(x2, b.Max.X), min(y2, b.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawTextWithOutline draws text with its baseline at (x, y).
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	draw := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+dx, y+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				draw(dx, dy, outlineColor)
			}
		}
	}
	draw(0, 0, textColor)
}
