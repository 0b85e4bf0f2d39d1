package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	toon "github.com/toon-format/toon-go"
)

// Renderable is data with its own text and markdown layouts.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData is what JSON and TOON encode.
	RenderData() any
}

// Formatter writes values in one format to one destination.
type Formatter struct {
	format  Format
	w       io.Writer
	file    *os.File
	colored bool
}

// NewFormatter writes to stdout, or creates the named output file.
// Files never get colour.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Formatter{format: format, w: f, file: f}, nil
}

// NewWriterFormatter writes to w.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, w: w, colored: colored}
}

// Close closes the output file, if the formatter created one.
func (f *Formatter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Output writes data. Renderable values choose their own text and
// markdown layout; anything else is written as JSON, fenced in markdown.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	switch f.format {
	case FormatJSON:
		if ok {
			data = r.RenderData()
		}
		return f.writeJSON(data)
	case FormatTOON:
		if ok {
			data = r.RenderData()
		}
		return f.writeTOON(data)
	case FormatMarkdown:
		if ok {
			return r.RenderMarkdown(f.w)
		}
		fmt.Fprintln(f.w, "```json")
		if err := f.writeJSON(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(f.w, "```")
		return err
	default:
		if ok {
			return r.RenderText(f.w, f.colored)
		}
		return f.writeJSON(data)
	}
}

func (f *Formatter) writeJSON(data any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) writeTOON(data any) error {
	out, err := MarshalTOON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.w, out)
	return err
}

// MarshalTOON encodes data as TOON with two-space indentation.
func MarshalTOON(data any) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", fmt.Errorf("encode toon: %w", err)
	}
	return string(out), nil
}
