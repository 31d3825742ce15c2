// Package view renders tasks for the terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/taskboard/pkg/color"
)

type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

var Formats = []string{string(FormatTable), string(FormatYAML), string(FormatJSON)}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

type Renderer struct {
	w      io.Writer
	format Format
	paint  color.Painter
	now    func() time.Time
}

type Option func(*Renderer)

func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.paint = color.NewPainter(enabled)
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

func New(w io.Writer, format Format, opts ...Option) *Renderer {
	r := &Renderer{
		w:      w,
		format: format,
		paint:  color.NewPainter(color.Supported()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Message prints a line of plain text in table mode and nothing otherwise,
// so that structured output stays machine readable.
func (r *Renderer) Message(format string, args ...any) error {
	if r.format != FormatTable {
		return nil
	}
	_, err := fmt.Fprintf(r.w, format+"\n", args...)
	return err
}

// dump writes v as YAML or JSON. It reports false in table mode.
func (r *Renderer) dump(v any) (bool, error) {
	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return true, enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("failed to encode json: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}

func (r *Renderer) println(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
