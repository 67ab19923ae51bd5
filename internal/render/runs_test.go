package render

import (
	"strings"
	"testing"

	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render/core"
	"github.com/mchenetz/ascii-edit/internal/term"
)

func cellsOf(text string, style core.Style) []core.Cell {
	cells := make([]core.Cell, 0, len(text))
	for _, r := range text {
		cells = append(cells, core.NewStyledCell(r, style))
	}
	return cells
}

func TestRowRunsGrouping(t *testing.T) {
	theme := recording.DefaultTheme()
	red := core.DefaultStyle().WithForeground(theme.Palette[1])

	var cells []core.Cell
	cells = append(cells, cellsOf("ab", core.DefaultStyle())...)
	cells = append(cells, cellsOf("cd", red)...)
	cells = append(cells, cellsOf("e", core.DefaultStyle())...)

	runs := RowRuns(cells, theme)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	want := []string{"ab", "cd", "e"}
	for i, r := range runs {
		if r.Text != want[i] {
			t.Errorf("run %d text = %q, want %q", i, r.Text, want[i])
		}
	}
	if !runs[1].Style.Foreground.Equals(theme.Palette[1]) {
		t.Errorf("run 1 fg = %v, want palette[1]", runs[1].Style.Foreground)
	}
}

func TestRowRunsResolvesDefaults(t *testing.T) {
	theme := recording.DefaultTheme()
	runs := RowRuns(cellsOf("x", core.DefaultStyle()), theme)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if !runs[0].Style.Foreground.Equals(theme.Foreground) {
		t.Errorf("fg = %v, want theme foreground", runs[0].Style.Foreground)
	}
	if !runs[0].Style.Background.Equals(theme.Background) {
		t.Errorf("bg = %v, want theme background", runs[0].Style.Background)
	}
}

func TestRowRunsReverseSwapsResolvedColors(t *testing.T) {
	theme := recording.DefaultTheme()
	runs := RowRuns(cellsOf("x", core.DefaultStyle().Reverse()), theme)
	if !runs[0].Style.Foreground.Equals(theme.Background) {
		t.Errorf("reversed fg = %v, want theme background", runs[0].Style.Foreground)
	}
	if !runs[0].Style.Background.Equals(theme.Foreground) {
		t.Errorf("reversed bg = %v, want theme foreground", runs[0].Style.Background)
	}
}

func TestRowRunsMergesVisuallyIdenticalStyles(t *testing.T) {
	// Explicit theme-foreground red next to palette red resolves to the same
	// run style and merges.
	theme := recording.DefaultTheme()
	theme.Foreground = theme.Palette[1]

	var cells []core.Cell
	cells = append(cells, cellsOf("a", core.DefaultStyle())...)
	cells = append(cells, cellsOf("b", core.DefaultStyle().WithForeground(theme.Palette[1]))...)

	runs := RowRuns(cells, theme)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1 merged run", len(runs))
	}
	if runs[0].Text != "ab" {
		t.Errorf("run text = %q, want ab", runs[0].Text)
	}
}

func TestRowRunsDecoration(t *testing.T) {
	theme := recording.DefaultTheme()
	cases := []struct {
		style core.Style
		want  Decoration
	}{
		{core.DefaultStyle(), DecorationNone},
		{core.DefaultStyle().Underline(), DecorationUnderline},
		{core.DefaultStyle().Strikethrough(), DecorationStrike},
		{core.DefaultStyle().Underline().Strikethrough(), DecorationUnderlineStrike},
	}
	for _, tc := range cases {
		runs := RowRuns(cellsOf("x", tc.style), theme)
		if got := runs[0].Style.Decoration; got != tc.want {
			t.Errorf("attrs %b: decoration = %d, want %d", tc.style.Attributes, got, tc.want)
		}
	}
}

func TestHTMLRowEscapes(t *testing.T) {
	theme := recording.DefaultTheme()
	out := HTMLRow(cellsOf("<a&b>", core.DefaultStyle()), theme)
	if !strings.Contains(out, "&lt;a&amp;b&gt;") {
		t.Errorf("output not escaped: %s", out)
	}
	if strings.Contains(out, "<a&b>") {
		t.Errorf("raw markup leaked into output: %s", out)
	}
}

func TestHTMLRowStyles(t *testing.T) {
	theme := recording.DefaultTheme()
	style := core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)).Bold()
	out := HTMLRow(cellsOf("hi", style), theme)
	if !strings.Contains(out, "color:#ff0000") {
		t.Errorf("foreground missing from %s", out)
	}
	if !strings.Contains(out, "font-weight:bold") {
		t.Errorf("bold missing from %s", out)
	}
}

func TestHTMLDimFadesForeground(t *testing.T) {
	theme := recording.Theme{
		Foreground: core.ColorFromRGB(255, 255, 255),
		Background: core.ColorFromRGB(0, 0, 0),
		Palette:    recording.DefaultTheme().Palette,
	}
	out := HTMLRow(cellsOf("x", core.DefaultStyle().Dim()), theme)
	if strings.Contains(out, "color:#ffffff;") {
		t.Errorf("dim text kept full-strength foreground: %s", out)
	}
	// Halfway between white and black.
	if !strings.Contains(out, "color:#7f7f7f") && !strings.Contains(out, "color:#808080") {
		t.Errorf("dim foreground not blended toward background: %s", out)
	}
}

func TestHTMLWholeScreen(t *testing.T) {
	theme := recording.DefaultTheme()
	events := []recording.OutputEvent{{Time: 0, Text: "hello\nworld"}}
	screen := term.Replay(events, 3, 10, theme)

	out := HTML(screen, theme)
	if !strings.HasPrefix(out, "<pre") || !strings.HasSuffix(out, "</pre>") {
		t.Errorf("output not wrapped in <pre>: %s", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("screen text missing from %s", out)
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("got %d newlines, want one per row plus the opening tag", got)
	}
}
