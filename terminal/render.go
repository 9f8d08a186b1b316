package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"square-mapper/models"
)

// Renderer prints the canonical dump, optionally painting each tile in
// its display color. Color is dropped automatically when out is not a
// terminal.
type Renderer struct {
	color  bool
	lg     *lipgloss.Renderer
	styles map[models.TileKind]lipgloss.Style
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, color bool) *Renderer {
	r := &Renderer{color: color}
	if !color {
		return r
	}

	r.lg = lipgloss.NewRenderer(out)
	r.styles = make(map[models.TileKind]lipgloss.Style, len(models.AllTileKinds))
	for _, kind := range models.AllTileKinds {
		r.styles[kind] = r.lg.NewStyle().Background(lipgloss.Color(kind.HexColor()))
	}
	return r
}

// Render returns dump, colored when enabled
func (r *Renderer) Render(dump string) string {
	if !r.color {
		return dump
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(dump, "\n") {
		label, body, ok := strings.Cut(line, " - ")
		if !ok {
			sb.WriteString(line)
			continue
		}
		sb.WriteString(label)
		sb.WriteString(" - ")

		runes := []rune(body)
		for i := 0; i < len(runes); i++ {
			if runes[i] == '[' && i+2 < len(runes) && runes[i+2] == ']' {
				c := runes[i+1]
				sb.WriteByte('[')
				sb.WriteString(r.styles[models.TileKindFromChar(c)].Render(string(c)))
				sb.WriteByte(']')
				i += 2
				continue
			}
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}
