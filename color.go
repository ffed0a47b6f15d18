package motion

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ParseHex parses "#rrggbb" or "#rgb". The second result is false for
// anything else, including named colors and "transparent".
func ParseHex(s string) (color.RGBA, bool) {
	h, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.RGBA{}, false
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// FormatHex formats c as lowercase "#rrggbb".
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// LerpColor interpolates two hex colors channel by channel, rounding each
// channel. ok is false when either input is not a recognized hex color.
func LerpColor(from, to string, t float64) (string, bool) {
	a, ok := ParseHex(from)
	if !ok {
		return "", false
	}
	b, ok := ParseHex(to)
	if !ok {
		return "", false
	}
	return FormatHex(color.RGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: 0xff,
	}), true
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(Lerp(float64(a), float64(b), t))
	return uint8(max(0, min(255, v)))
}
