// Package theme derives the colour palette the UI applies while a tournament
// is open. Everything here is a pure function of the tournament's colours;
// there is no shared theme state.
package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/cockroachdb/errors"
)

var ErrInvalidColor = errors.New("invalid hex color")

type Shades struct {
	Lightest string `json:"lightest"`
	Lighter  string `json:"lighter"`
	Base     string `json:"base"`
	Darker   string `json:"darker"`
	Darkest  string `json:"darkest"`
}

type Palette struct {
	Primary    string `json:"primary"`
	Background Shades `json:"background"`
}

// ForColors builds the palette for a tournament's colour pair.
func ForColors(c bracket.Colors) (Palette, error) {
	if _, _, _, err := parseRGB(c.Primary); err != nil {
		return Palette{}, err
	}
	bg, err := GenerateShades(c.Background)
	if err != nil {
		return Palette{}, err
	}
	return Palette{Primary: c.Primary, Background: bg}, nil
}

// Default is the palette for the built-in colours.
func Default() Palette {
	p, err := ForColors(bracket.DefaultColors())
	if err != nil {
		panic(err)
	}
	return p
}

// GenerateShades returns two lighter and two darker variants of hexColor.
// Lighter shades move each channel 6% and 12% of the way to 255, darker
// ones scale each channel by 0.94 and 0.88. Any alpha suffix is ignored and
// Base is the input unchanged.
func GenerateShades(hexColor string) (Shades, error) {
	r, g, b, err := parseRGB(hexColor)
	if err != nil {
		return Shades{}, err
	}

	lighten := func(p float64) string {
		return toHex(brighten(r, p), brighten(g, p), brighten(b, p))
	}
	darken := func(p float64) string {
		return toHex(dim(r, p), dim(g, p), dim(b, p))
	}

	return Shades{
		Lightest: lighten(0.12),
		Lighter:  lighten(0.06),
		Base:     hexColor,
		Darker:   darken(0.06),
		Darkest:  darken(0.12),
	}, nil
}

func parseRGB(hexColor string) (int, int, int, error) {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) < 6 {
		return 0, 0, 0, errors.Wrapf(ErrInvalidColor, "%q", hexColor)
	}

	var channels [3]int
	for i := range channels {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, errors.Wrapf(ErrInvalidColor, "%q", hexColor)
		}
		channels[i] = int(v)
	}
	return channels[0], channels[1], channels[2], nil
}

func brighten(v int, p float64) int {
	return clamp(roundHalfUp(float64(v) + float64(255-v)*p))
}

func dim(v int, p float64) int {
	return clamp(roundHalfUp(float64(v) * (1 - p)))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v int) int {
	return min(255, max(0, v))
}

func toHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
