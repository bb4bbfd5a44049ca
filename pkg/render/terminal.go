package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer into the cells of area, scaling it with
// nearest sampling to area's width and twice its height. Each cell shows two
// pixel rows with ▀ (upper half block): fg = top pixel, bg = bottom pixel.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols, rows := area.Dx(), area.Dy()
	if cols <= 0 || rows <= 0 || fb.Width == 0 || fb.Height == 0 {
		return
	}
	pixRows := rows * 2

	for row := range rows {
		for col := range cols {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.sample(col, row*2, cols, pixRows),
					Bg: fb.sample(col, row*2+1, cols, pixRows),
				},
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

// sample returns the framebuffer color shown at (x, y) of a top-down image
// of size w×h.
func (fb *Framebuffer) sample(x, y, w, h int) color.RGBA {
	sx := x * fb.Width / w
	sy := fb.Height - 1 - y*fb.Height/h
	return toRGBA(fb.Pixel(sx, sy))
}

// ANSI renders the framebuffer as a styled string cols characters wide,
// preserving the aspect ratio with two pixel rows per line.
func (fb *Framebuffer) ANSI(cols int) string {
	if cols <= 0 || fb.Width == 0 || fb.Height == 0 {
		return ""
	}
	rows := max(1, cols*fb.Height/fb.Width/2)

	buf := uv.NewScreenBuffer(cols, rows)
	fb.Draw(buf, uv.Rect(0, 0, cols, rows))
	return buf.Render()
}
