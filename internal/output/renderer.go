package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/atikulmunna/logview/internal/model"
)

// Renderer writes LogEntry values to an output stream.
type Renderer interface {
	Render(entry model.LogEntry) error
}

// Formats lists the accepted --output values.
var Formats = []string{"text", "json", "yaml"}

// New returns the renderer for format. query, when set, is highlighted in
// text output.
func New(format string, w io.Writer, query string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextRenderer(w, query), nil
	case "json":
		return NewJSONRenderer(w), nil
	case "yaml":
		return NewYAMLRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // blue
	styleNotice     = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))  // teal
	styleDebug      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleWarn       = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleDeprecated = lipgloss.NewStyle().Foreground(lipgloss.Color("141")) // purple
	styleError      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleTimestamp  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleNew        = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	styleMatch      = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0"))
)

// LevelStyle returns the color used for a severity.
func LevelStyle(level model.Level) lipgloss.Style {
	switch level {
	case model.LevelError:
		return styleError
	case model.LevelWarning:
		return styleWarn
	case model.LevelDeprecated:
		return styleDeprecated
	case model.LevelNotice:
		return styleNotice
	case model.LevelDebug:
		return styleDebug
	default:
		return styleInfo
	}
}

// TextRenderer prints entries to the terminal with severity-based colors.
type TextRenderer struct {
	w     io.Writer
	query string
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer, query string) *TextRenderer {
	return &TextRenderer{w: w, query: query}
}

func (r *TextRenderer) Render(entry model.LogEntry) error {
	_, err := fmt.Fprintln(r.w, FormatEntry(entry, r.query))
	return err
}

// FormatEntry renders one entry as a colored line. Continuation lines of
// the message are indented under the first one.
func FormatEntry(entry model.LogEntry, query string) string {
	var b strings.Builder
	if entry.IsNew {
		b.WriteString(styleNew.Render("●"))
		b.WriteByte(' ')
	}
	if entry.Timestamp != "" {
		b.WriteString(styleTimestamp.Render(entry.Timestamp))
		b.WriteByte(' ')
	}
	b.WriteString(LevelStyle(entry.Level).Render(fmt.Sprintf("%-10s", strings.ToUpper(entry.DisplayLevel()))))
	b.WriteByte(' ')

	msg := Highlight(entry.Message, query, func(s string) string { return styleMatch.Render(s) })
	b.WriteString(strings.ReplaceAll(msg, "\n", "\n    "))
	return b.String()
}

// Highlight wraps every case-insensitive occurrence of query in text with
// mark. An empty query returns text unchanged.
func Highlight(text, query string, mark func(string) string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return text
	}
	lower := strings.ToLower(text)
	// Lowercasing can change byte lengths outside ASCII; skip highlighting then.
	if len(lower) != len(text) {
		return text
	}

	var b strings.Builder
	start := 0
	for {
		i := strings.Index(lower[start:], q)
		if i < 0 {
			break
		}
		i += start
		b.WriteString(text[start:i])
		b.WriteString(mark(text[i : i+len(q)]))
		start = i + len(q)
	}
	b.WriteString(text[start:])
	return b.String()
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each log entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}

// ---------------------------------------------------------------------------
// YAML Renderer (one document per entry)
// ---------------------------------------------------------------------------

// YAMLRenderer prints each log entry as a YAML document.
type YAMLRenderer struct {
	enc *yaml.Encoder
}

// NewYAMLRenderer returns a Renderer that writes YAML documents to w.
func NewYAMLRenderer(w io.Writer) *YAMLRenderer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLRenderer{enc: enc}
}

func (r *YAMLRenderer) Render(entry model.LogEntry) error {
	return r.enc.Encode(entry)
}

// Close flushes the YAML stream.
func (r *YAMLRenderer) Close() error {
	return r.enc.Close()
}
