// Package render implements the renderer collaborator the simulation
// leaves abstract as a tcell-backed ASCII view: rail network with its
// trains, and ship compartments shaded by atmosphere level. Color
// quantization falls back to a Redmean nearest-256-palette LUT for
// terminals without truecolor support.
package render

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/tanks/core"
)

// ColorMode indicates terminal color capability.
type ColorMode uint8

const (
	ColorMode256 ColorMode = iota
	ColorModeTrueColor
)

// DetectColorMode inspects environment variables for truecolor support,
// since no portable terminfo query gives a reliable answer across
// emulators.
func DetectColorMode() ColorMode {
	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		return ColorModeTrueColor
	}
	for _, v := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "WEZTERM_PANE"} {
		if os.Getenv(v) != "" {
			return ColorModeTrueColor
		}
	}
	term := os.Getenv("TERM")
	if strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") || strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}
	return ColorMode256
}

var cubeValues = [6]int{0, 95, 135, 175, 215, 255}

// lut256 is a 6-bit-quantized Redmean nearest-palette-index table, built
// once at init.
var lut256 [64 * 64 * 64]uint8

func init() {
	for r := 0; r < 64; r++ {
		for g := 0; g < 64; g++ {
			for b := 0; b < 64; b++ {
				r8, g8, b8 := (r<<2)|2, (g<<2)|2, (b<<2)|2
				lut256[r<<12|g<<6|b] = nearest256(r8, g8, b8)
			}
		}
	}
}

func nearest256(r, g, b int) uint8 {
	if r == g && g == b {
		switch {
		case r < 8:
			return 16
		case r > 238:
			return 231
		default:
			return uint8(232 + (r-8)/10)
		}
	}
	best, bestDist := uint8(16), 1<<30
	for i := 0; i < 216; i++ {
		cr, cg, cb := cubeValues[i/36], cubeValues[(i/6)%6], cubeValues[i%6]
		if d := redmean(r, g, b, cr, cg, cb); d < bestDist {
			bestDist, best = d, uint8(16+i)
		}
	}
	for i := 0; i < 24; i++ {
		gray := 8 + i*10
		if d := redmean(r, g, b, gray, gray, gray); d < bestDist {
			bestDist, best = d, uint8(232+i)
		}
	}
	return best
}

func redmean(r1, g1, b1, r2, g2, b2 int) int {
	rmean := (r1 + r2) / 2
	dr, dg, db := r1-r2, g1-g2, b1-b2
	return (((512+rmean)*dr*dr)>>8) + 4*dg*dg + (((767-rmean)*db*db)>>8)
}

// rgbTo256 converts an RGB color to its nearest xterm-256 palette index.
func rgbTo256(c core.RGB) uint8 {
	return lut256[int(c.R>>2)<<12|int(c.G>>2)<<6|int(c.B>>2)]
}

// tcellColor converts an RGB to a tcell.Color appropriate for mode.
func tcellColor(c core.RGB, mode ColorMode) tcell.Color {
	if mode == ColorModeTrueColor {
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.PaletteColor(int(rgbTo256(c)))
}
