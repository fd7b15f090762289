package render

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guidoenr/spectrafield/internal/input"
	"golang.org/x/term"
)

var (
	resetANSI       = "\x1b[0m"
	precomputedANSI [256]string
)

func init() {
	for i := range precomputedANSI {
		precomputedANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
	}
}

// TerminalConfig configures a Terminal presenter.
type TerminalConfig struct {
	Palette   string
	UseANSI   bool
	StatusBar bool
	// Out defaults to os.Stdout.
	Out *os.File
}

// Terminal presents framebuffers as colored glyphs, one cell per pixel.
type Terminal struct {
	palette     []rune
	useANSI     bool
	statusBar   bool
	out         *os.File
	w           *bufio.Writer
	lines       []string
	width       int
	statusStyle lipgloss.Style
	opened      bool
}

// NewTerminal creates a presenter writing to cfg.Out.
func NewTerminal(cfg TerminalConfig) *Terminal {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{
		palette:   Palette(cfg.Palette),
		useANSI:   cfg.UseANSI,
		statusBar: cfg.StatusBar,
		out:       out,
		w:         bufio.NewWriterSize(out, 1<<16),
		width:     80,
		statusStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("162")),
	}
}

// RasterOptions sizes points for character cells, which are coarse and
// about twice as tall as they are wide.
func (t *Terminal) RasterOptions() []RasterOption {
	return []RasterOption{WithPointScale(0.12), WithPixelAspect(0.5)}
}

// Open switches to the alternate screen and hides the cursor.
func (t *Terminal) Open() error {
	if t.opened {
		return nil
	}
	t.opened = true
	_, err := io.WriteString(t.out, "\x1b[?1049h\x1b[2J\x1b[H\x1b[?25l")
	return err
}

// Size returns the drawable area in cells, excluding the status line.
func (t *Terminal) Size() (int, int) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	t.width = w
	if t.statusBar && h > 1 {
		h--
	}
	return w, h
}

// Events returns nil; keyboard input is read separately.
func (t *Terminal) Events() []input.Event { return nil }

// Present draws fb from the top-left corner followed by the status line.
func (t *Terminal) Present(fb *Framebuffer, status string) error {
	lines := t.Render(fb)
	if _, err := t.w.WriteString("\x1b[H"); err != nil {
		return err
	}
	for i, line := range lines {
		t.w.WriteString(line)
		// a newline after a full-height last row scrolls the screen
		if t.statusBar || i < len(lines)-1 {
			t.w.WriteByte('\n')
		}
	}
	if t.statusBar {
		t.w.WriteString(t.StatusLine(status))
	}
	return t.w.Flush()
}

// Render converts fb into one string per row. The returned slice is reused.
func (t *Terminal) Render(fb *Framebuffer) []string {
	if cap(t.lines) < fb.Height {
		t.lines = make([]string, fb.Height)
	}
	t.lines = t.lines[:fb.Height]

	var builder strings.Builder
	for y := 0; y < fb.Height; y++ {
		builder.Reset()
		builder.Grow(fb.Width * 8)
		lastColor := -1
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.At(x, y)
			char := t.glyph(r, g, b)
			if t.useANSI && char != ' ' {
				if c := rgbToANSI(r, g, b); c != lastColor {
					builder.WriteString(colorCode(c))
					lastColor = c
				}
			}
			builder.WriteRune(char)
		}
		if t.useANSI {
			builder.WriteString(resetANSI)
		}
		t.lines[y] = builder.String()
	}
	return t.lines
}

// StatusLine renders text as a full-width bar.
func (t *Terminal) StatusLine(text string) string {
	width := t.width
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) > width {
		text = string(runes[:width])
	}
	if !t.useANSI {
		return text + strings.Repeat(" ", width-len([]rune(text)))
	}
	return t.statusStyle.Width(width).Render(text)
}

// Close restores the cursor and leaves the alternate screen.
func (t *Terminal) Close() error {
	if !t.opened {
		return nil
	}
	t.opened = false
	_, err := io.WriteString(t.out, "\x1b[?25h\x1b[?1049l\x1b[0m")
	return err
}

// glyph picks a palette rune by ink coverage; white paper is blank.
func (t *Terminal) glyph(r, g, b float64) rune {
	ink := 1 - luminance(r, g, b)
	if len(t.palette) == 0 {
		return ' '
	}
	index := clampInt(int(ink*float64(len(t.palette)-1)+0.5), 0, len(t.palette)-1)
	return t.palette[index]
}

func luminance(r, g, b float64) float64 {
	return clamp01(0.2126*r + 0.7152*g + 0.0722*b)
}

func colorCode(index int) string {
	return precomputedANSI[clampInt(index, 0, len(precomputedANSI)-1)]
}

func rgbToANSI(r, g, b float64) int {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)

	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		gray := int(clampFloat(math.Round(r*23), 0, 23))
		return 232 + gray
	}

	ri := int(clampFloat(r*5+0.5, 0, 5))
	gi := int(clampFloat(g*5+0.5, 0, 5))
	bi := int(clampFloat(b*5+0.5, 0, 5))
	return 16 + 36*ri + 6*gi + bi
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
