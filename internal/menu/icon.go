package menu

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

// TrayIconSize is the edge length of the rendered tray icon.
const TrayIconSize = 32

var (
	bgTop    = [3]float64{34, 46, 72}
	bgBottom = [3]float64{16, 22, 36}
	border   = [3]float64{220, 225, 235}
	barTint  = [3]float64{90, 170, 255}
	lineTint = [3]float64{180, 195, 220}
)

// sdRoundedRect is the signed distance from (px, py) to a rounded rectangle
// centred on the origin. Negative values are inside.
func sdRoundedRect(px, py, hw, hh, r float64) float64 {
	qx := math.Abs(px) - hw + r
	qy := math.Abs(py) - hh + r
	ox, oy := math.Max(qx, 0), math.Max(qy, 0)
	outside := math.Sqrt(ox*ox + oy*oy)
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - r
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func blend(dst *[3]float64, src [3]float64, alpha float64) {
	for i := range dst {
		dst[i] = (1-alpha)*dst[i] + alpha*src[i]
	}
}

// RenderIcon draws the application icon: a rounded slate square with a light
// border, a bright label bar in the upper third and faint text lines below.
func RenderIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}

	s := float64(size)
	bgRadius := s * 0.18
	borderW := math.Max(s*0.06, 1)
	cx, cy := s/2, s/2
	half := s/2 - 0.5

	barCY := cy - s*0.18
	barHW := s * 0.34
	barHH := s * 0.08

	lineH := math.Max(s*0.03, 0.5)
	lineGap := s * 0.12

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5

			dBg := sdRoundedRect(px-cx, py-cy, half, half, bgRadius)
			if dBg > 1 {
				continue
			}

			t := clamp01(py / s)
			var c [3]float64
			for i := range c {
				c[i] = bgTop[i] + (bgBottom[i]-bgTop[i])*t
			}
			alpha := 1.0
			if dBg > -1 {
				alpha = clamp01(-dBg + 0.5)
			}

			if dBg > -borderW-1 && dBg < 0.5 {
				blend(&c, border, clamp01(dBg+borderW+0.5)*clamp01(-dBg))
			}

			dBar := sdRoundedRect(px-cx, py-barCY, barHW, barHH, barHH)
			if dBar < 1 {
				brightness := 1 - math.Abs((px-cx)/barHW)*0.15
				tint := [3]float64{barTint[0] * brightness, barTint[1] * brightness, barTint[2] * brightness}
				blend(&c, tint, clamp01(-dBar+0.5))
			}

			for i := 0; i < 3; i++ {
				fi := float64(i)
				lineCY := barCY + barHH + lineGap*(fi+1)
				lineW := barHW * (1 - 0.18*fi)
				d := math.Max(math.Abs(px-cx)-lineW, math.Abs(py-lineCY)-lineH)
				if d < 1 && dBg < -borderW {
					fade := 1 - fi*0.3
					blend(&c, lineTint, clamp01((-d+0.5)*fade)*0.45)
				}
			}

			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(c[0]),
				G: uint8(c[1]),
				B: uint8(c[2]),
				A: uint8(alpha * 255),
			})
		}
	}
	return img
}

// IconPNG renders the icon at size and encodes it as PNG.
func IconPNG(size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, RenderIcon(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
