package recording

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Parse errors. Each aborts only the load of the offending file.
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrInvalidJSON    = errors.New("invalid JSON")
	ErrMissingVersion = errors.New("header missing version")
	ErrMissingEvents  = errors.New("events missing or not an array")
)

const (
	defaultCols = 80
	defaultRows = 24
	maxGridDim  = 2000
)

// Load reads and parses a recording from a file.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rec, nil
}

// Parse parses a recording from either a single JSON object with an
// embedded events array, or a line-delimited stream whose first line is
// the header object and whose remaining non-blank lines are events.
func Parse(data []byte) (*Recording, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyInput
	}

	if gjson.Valid(text) {
		return parseSingleObject(text)
	}
	return parseLineDelimited(text)
}

func parseSingleObject(text string) (*Recording, error) {
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	header, theme, err := parseHeader(doc)
	if err != nil {
		return nil, err
	}

	events := doc.Get("events")
	if !events.Exists() || !events.IsArray() {
		return nil, ErrMissingEvents
	}

	// Export patches the original header, so keep it verbatim minus the
	// event payload.
	raw, err := sjson.Delete(text, "events")
	if err != nil {
		raw = text
	}
	header.Raw = raw

	return build(header, theme, events.Array()), nil
}

func parseLineDelimited(text string) (*Recording, error) {
	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])
	if !gjson.Valid(first) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.Parse(first)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	header, theme, err := parseHeader(doc)
	if err != nil {
		return nil, err
	}
	header.Raw = first

	var events []gjson.Result
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		events = append(events, gjson.Parse(line))
	}
	return build(header, theme, events), nil
}

func parseHeader(doc gjson.Result) (Header, Theme, error) {
	version := doc.Get("version")
	if !version.Exists() {
		return Header{}, Theme{}, ErrMissingVersion
	}

	h := Header{
		Version: int(version.Int()),
		Cols:    clampDim(doc.Get("width"), defaultCols),
		Rows:    clampDim(doc.Get("height"), defaultRows),
	}

	theme := DefaultTheme()
	if t := doc.Get("theme"); t.IsObject() {
		if fg := t.Get("fg"); fg.Exists() {
			theme.Foreground = parseHexColor(fg.String(), theme.Foreground)
		}
		if bg := t.Get("bg"); bg.Exists() {
			theme.Background = parseHexColor(bg.String(), theme.Background)
		}
		if pal := t.Get("palette"); pal.Exists() {
			theme.Palette = parsePalette(pal.String(), theme.Palette)
		}
	}
	return h, theme, nil
}

func clampDim(v gjson.Result, def int) int {
	if !v.Exists() {
		return def
	}
	n := int(v.Int())
	if n < 1 {
		return 1
	}
	if n > maxGridDim {
		return maxGridDim
	}
	return n
}

// build normalizes event times and derives the output-only list.
// Malformed entries are skipped; parsing never fails past the header.
func build(header Header, theme Theme, raw []gjson.Result) *Recording {
	rec := &Recording{
		ID:     uuid.NewString(),
		Header: header,
		Theme:  theme,
	}

	deltas := header.Version >= 3
	cursor := 0.0
	for _, item := range raw {
		if !item.IsArray() {
			continue
		}
		parts := item.Array()
		if len(parts) < 3 {
			continue
		}
		if parts[0].Type != gjson.Number {
			continue
		}
		t := parts[0].Float()
		if math.IsNaN(t) || math.IsInf(t, 0) {
			continue
		}

		switch {
		case deltas:
			cursor += math.Max(0, t)
		case t < cursor:
			// Older recorders occasionally emit deltas without
			// declaring version 3; a backwards jump is the tell.
			cursor += math.Max(0, t)
		default:
			cursor = t
		}

		ev := Event{Time: cursor, Kind: parts[1].String(), Data: parts[2].String()}
		rec.Events = append(rec.Events, ev)
		if ev.Kind == "o" {
			rec.Output = append(rec.Output, OutputEvent{Time: ev.Time, Text: ev.Data})
		}
	}

	if n := len(rec.Output); n > 0 {
		rec.Duration = rec.Output[n-1].Time
	}
	return rec
}
