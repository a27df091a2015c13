// internal/courseio/codec.go
package courseio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/conecourse/editor/internal/drawing"
	"github.com/conecourse/editor/pkg/core"
)

var (
	// ErrMalformed is returned when a course file is not valid JSON.
	ErrMalformed = errors.New("malformed course file")
	// ErrMissingPosition is returned when a cone has no latlng.
	ErrMissingPosition = errors.New("cone has no latlng")
	// ErrBadLine is returned when a line references a cone index that does
	// not exist.
	ErrBadLine = errors.New("line references a missing cone")
)

var gzipMagic = []byte{0x1f, 0x8b}

type rawFile struct {
	Cones        []rawCone          `json:"cones"`
	MapCenter    *core.LatLng       `json:"mapCenter"`
	MapZoom      *float64           `json:"mapZoom"`
	GridSettings *core.GridSettings `json:"gridSettings"`
	Timestamp    string             `json:"timestamp"`
	Stats        Stats              `json:"stats"`
	Lines        []rawLine          `json:"lines"`
}

type rawCone struct {
	LatLng *core.LatLng `json:"latlng"`
	Type   *string      `json:"type"`
	Angle  *float64     `json:"angle"`
}

type rawLine struct {
	Start   int      `json:"start"`
	End     int      `json:"end"`
	Color   string   `json:"color"`
	Weight  *float64 `json:"weight"`
	Opacity *float64 `json:"opacity"`
}

// Decode reads a course file, plain or gzip compressed. A missing angle
// becomes 0 and a missing type becomes a regular cone. Any other problem
// rejects the whole file.
func Decode(r io.Reader) (File, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return File{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		defer gz.Close()
		return decodeJSON(gz)
	}
	return decodeJSON(br)
}

// Parse decodes a course file held in memory.
func Parse(data []byte) (File, error) {
	return Decode(bytes.NewReader(data))
}

// ReadFile decodes the course file at path.
func ReadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open course file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func decodeJSON(r io.Reader) (File, error) {
	dec := json.NewDecoder(r)
	var raw rawFile
	if err := dec.Decode(&raw); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: trailing data after course object", ErrMalformed)
	}

	out := File{
		Cones:        make([]ConeJSON, len(raw.Cones)),
		MapCenter:    raw.MapCenter,
		MapZoom:      DefaultMapZoom,
		GridSettings: raw.GridSettings,
		Timestamp:    raw.Timestamp,
		Stats:        raw.Stats,
	}
	if raw.MapZoom != nil && *raw.MapZoom != 0 {
		out.MapZoom = *raw.MapZoom
	}

	for i, rc := range raw.Cones {
		if rc.LatLng == nil {
			return File{}, fmt.Errorf("cone %d: %w", i, ErrMissingPosition)
		}
		c := ConeJSON{LatLng: *rc.LatLng, Type: core.Regular}
		if rc.Type != nil && *rc.Type != "" {
			kind, err := core.ParseConeKind(*rc.Type)
			if err != nil {
				return File{}, fmt.Errorf("cone %d: %w", i, err)
			}
			c.Type = kind
		}
		if rc.Angle != nil {
			c.Angle = core.NormalizeAngle(*rc.Angle)
		}
		out.Cones[i] = c
	}

	for i, rl := range raw.Lines {
		if rl.Start < 0 || rl.Start >= len(out.Cones) || rl.End < 0 || rl.End >= len(out.Cones) {
			return File{}, fmt.Errorf("line %d: %w", i, ErrBadLine)
		}
		style := drawing.DefaultStyle()
		if rl.Color != "" {
			style.Color = rl.Color
		}
		if rl.Weight != nil && *rl.Weight > 0 {
			style.Weight = *rl.Weight
		}
		if rl.Opacity != nil && *rl.Opacity > 0 {
			style.Opacity = *rl.Opacity
		}
		out.Lines = append(out.Lines, LineJSON{Start: rl.Start, End: rl.End, Style: style})
	}

	return out, nil
}

// Encode writes f as indented JSON, gzip compressed when compress is set.
func Encode(w io.Writer, f File, compress bool) error {
	if !compress {
		return encodeJSON(w, f)
	}
	gz := gzip.NewWriter(w)
	if err := encodeJSON(gz, f); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Marshal returns the encoded bytes of f.
func Marshal(f File, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, compress); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(w io.Writer, f File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to encode course: %w", err)
	}
	return nil
}

// WriteFile writes f into dir under the name FileName derives from the
// export time and returns the full path.
func WriteFile(dir string, f File, compress bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, FileName(f.ExportTime(), compress))
	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, f, compress); err != nil {
		return "", err
	}
	return outputPath, nil
}

// ContentType returns the MIME type of an encoded course.
func ContentType(compress bool) string {
	if compress {
		return "application/gzip"
	}
	return "application/json"
}
