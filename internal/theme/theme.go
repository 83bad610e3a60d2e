// Package theme holds the dashboard palette and the color helpers used to
// turn chart colors into terminal colors.
package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the semantic color palette for the dashboard.
type Theme struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Border  lipgloss.Color
	Focus   lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// Default is a dark palette built around the chart blues and purples.
var Default = Theme{
	Base:    lipgloss.Color("#1E1F26"),
	Surface: lipgloss.Color("#2B2C35"),
	Border:  lipgloss.Color("#4A4B57"),
	Focus:   lipgloss.Color("#77B9F2"),
	Muted:   lipgloss.Color("#858392"),
	Text:    lipgloss.Color("#DFDBDD"),
	Primary: lipgloss.Color("#77B9F2"),
	Accent:  lipgloss.Color("#C398F5"),
	Success: lipgloss.Color("#4ED4CD"),
	Warning: lipgloss.Color("#FFD300"),
	Error:   lipgloss.Color("#E94090"),
}

// RGBA is a parsed color with alpha in [0, 1]
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Hex formats the color without its alpha
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color converts to a lipgloss color, dropping alpha
func (c RGBA) Color() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// ParseCSSColor parses "#rrggbb", "rgb(r, g, b)", "rgba(r, g, b, a)" and the
// four-argument "rgb(r, g, b, a)" form browsers also accept.
func ParseCSSColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") {
		r, g, b, ok := hexToRGB(s)
		if !ok {
			return RGBA{}, fmt.Errorf("invalid hex color: %q", s)
		}
		return RGBA{R: r, G: g, B: b, A: 1}, nil
	}

	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("invalid color: %q", s)
	}
	fn := strings.ToLower(strings.TrimSpace(s[:open]))
	if fn != "rgb" && fn != "rgba" {
		return RGBA{}, fmt.Errorf("unsupported color function: %q", fn)
	}

	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("invalid color: %q", s)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("invalid color channel %q in %q", parts[i], s)
		}
		channels[i] = uint8(v)
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid alpha %q in %q", parts[3], s)
		}
		alpha = a
	}

	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// Blend flattens c onto an opaque background using its alpha
func Blend(c RGBA, background lipgloss.Color) lipgloss.Color {
	br, bg, bb, ok := hexToRGB(string(background))
	if !ok {
		return c.Color()
	}
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(c.A*float64(fg) + (1-c.A)*float64(bg)))
	}
	return RGBA{R: mix(c.R, br), G: mix(c.G, bg), B: mix(c.B, bb), A: 1}.Color()
}

// ChartColor resolves a chart color string for the terminal, falling back
// to the theme's primary color when the string cannot be parsed.
func (t Theme) ChartColor(css string) lipgloss.Color {
	c, err := ParseCSSColor(css)
	if err != nil {
		return t.Primary
	}
	return Blend(c, t.Base)
}

// GradientText applies a horizontal color gradient across each line of text.
func GradientText(text string, from, to lipgloss.Color) string {
	fr, fg, fb, _ := hexToRGB(string(from))
	tr, tg, tb, _ := hexToRGB(string(to))

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		runes := []rune(line)
		n := len(runes)
		if n == 0 {
			result = append(result, "")
			continue
		}

		var sb strings.Builder
		for i, r := range runes {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			c := RGBA{
				R: uint8(math.Round(float64(fr) + t*float64(int(tr)-int(fr)))),
				G: uint8(math.Round(float64(fg) + t*float64(int(tg)-int(fg)))),
				B: uint8(math.Round(float64(fb) + t*float64(int(tb)-int(fb)))),
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(c.Color()).Render(string(r)))
		}
		result = append(result, sb.String())
	}
	return strings.Join(result, "\n")
}

func hexToRGB(hex string) (uint8, uint8, uint8, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
