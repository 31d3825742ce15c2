package color

import (
	"hash/fnv"
	"os"

	fcolor "github.com/fatih/color"
)

// keyPalette is the set of colors handed out by Key.
var keyPalette = []fcolor.Attribute{
	fcolor.FgHiRed,
	fcolor.FgHiGreen,
	fcolor.FgHiYellow,
	fcolor.FgHiBlue,
	fcolor.FgHiMagenta,
	fcolor.FgHiCyan,
	fcolor.FgRed,
	fcolor.FgGreen,
	fcolor.FgYellow,
	fcolor.FgBlue,
	fcolor.FgMagenta,
	fcolor.FgCyan,
}

// Supported reports whether stdout should get colored output.
// FORCE_COLOR wins over NO_COLOR and terminal detection.
func Supported() bool {
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !fcolor.NoColor
}

// KeyAttribute returns the same color for the same key on every call.
func KeyAttribute(key string) fcolor.Attribute {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return keyPalette[h.Sum32()%uint32(len(keyPalette))]
}

// Painter colors text, or returns it untouched when disabled.
type Painter struct {
	enabled bool
}

func NewPainter(enabled bool) Painter {
	return Painter{enabled: enabled}
}

func (p Painter) Enabled() bool {
	return p.enabled
}

func (p Painter) Paint(text string, attrs ...fcolor.Attribute) string {
	if !p.enabled || len(attrs) == 0 {
		return text
	}
	c := fcolor.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Key paints text with the color assigned to key.
func (p Painter) Key(key, text string) string {
	return p.Paint(text, KeyAttribute(key))
}
