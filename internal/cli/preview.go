package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gbrlpzz/star-hash/internal/config"
	"github.com/gbrlpzz/star-hash/pkg/astro"
	"github.com/gbrlpzz/star-hash/pkg/catalog"
	"github.com/gbrlpzz/star-hash/pkg/ephem"
)

// newPreviewCmd creates the preview command: an ASCII rendition of the
// same composed sky, for a quick terminal check before writing an SVG.
func newPreviewCmd(configPath *string) *cobra.Command {
	var (
		lat, lon float64
		timeStr  string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the sky in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagsSet := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			return runPreview(cmd.Context(), *configPath, lat, lon, timeStr, flagsSet)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "observer latitude in degrees (default: IP geolocation)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "observer longitude in degrees (default: IP geolocation)")
	cmd.Flags().StringVar(&timeStr, "time", "", "observation instant, RFC3339 (default: now)")
	return cmd
}

func runPreview(ctx context.Context, configPath string, lat, lon float64, timeStr string, flagsSet bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	instant, err := resolveInstant(timeStr)
	if err != nil {
		return err
	}
	lat, lon, _ = resolveLocation(ctx, cfg, lat, lon, flagsSet)

	objects, err := placeObjects(lat, lon, instant)
	if err != nil {
		return err
	}

	m := previewModel{
		objects: objects,
		lat:     lat,
		lon:     lon,
		when:    instant,
	}
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// skyObject is one glyph placed on the unit disc.
type skyObject struct {
	x, y  float64
	glyph string
	style lipgloss.Style
}

var (
	styleBright = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleMid    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleFaint  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	styleBody   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleFrame  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// starGlyph buckets magnitude into terminal glyphs, brightest boldest.
func starGlyph(mag float64) (string, lipgloss.Style) {
	switch {
	case mag < 1:
		return "✦", styleBright
	case mag < 2.5:
		return "*", styleMid
	default:
		return "·", styleFaint
	}
}

var bodyGlyphs = map[ephem.BodyKind]string{
	ephem.Sun:     "☉",
	ephem.Moon:    "☾",
	ephem.Mercury: "m",
	ephem.Venus:   "v",
	ephem.Mars:    "M",
	ephem.Jupiter: "J",
	ephem.Saturn:  "S",
}

// placeObjects projects the catalog and bodies onto the unit disc, keeping
// only positions above the horizon.
func placeObjects(lat, lon float64, instant time.Time) ([]skyObject, error) {
	lst, err := astro.LocalSiderealTime(instant, lon)
	if err != nil {
		return nil, err
	}

	stars, err := catalog.Embedded().Load()
	if err != nil {
		return nil, err
	}

	var objects []skyObject
	for _, s := range stars {
		ra, dec, err := astro.Precess(s.RADeg, s.DecDeg, instant)
		if err != nil {
			return nil, err
		}
		p := astro.Project(astro.ToHorizontal(ra, dec, lst, lat))
		if !p.Visible {
			continue
		}
		glyph, style := starGlyph(s.Mag)
		objects = append(objects, skyObject{x: p.X, y: p.Y, glyph: glyph, style: style})
	}

	provider := ephem.NewMeeusProvider()
	for _, kind := range ephem.AllKinds() {
		body, err := provider.Position(kind, instant)
		if err != nil {
			continue // omitted, same policy as the SVG composer
		}
		p := astro.Project(astro.ToHorizontal(body.RADeg, body.DecDeg, lst, lat))
		if !p.Visible {
			continue
		}
		objects = append(objects, skyObject{x: p.X, y: p.Y, glyph: bodyGlyphs[kind], style: styleBody})
	}
	return objects, nil
}

type previewModel struct {
	objects       []skyObject
	lat, lon      float64
	when          time.Time
	width, height int
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View rasterizes the disc into the terminal. Cells are roughly twice as
// tall as wide, so the x axis is stretched by two to keep the horizon
// circular.
func (m previewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "measuring terminal..."
	}

	rows := m.height - 3
	cols := m.width
	radius := float64(rows-1) / 2
	if r := float64(cols-1) / 4; r < radius {
		radius = r
	}
	if radius < 3 {
		return "terminal too small"
	}
	cy := float64(rows) / 2
	cx := float64(cols) / 2

	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	plot := func(x, y float64, cell string) {
		col := int(math.Round(cx + x*radius*2))
		row := int(math.Round(cy + y*radius))
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = cell
		}
	}

	// Horizon ring and cardinal letters.
	for a := 0.0; a < 2*math.Pi; a += 0.02 {
		plot(math.Cos(a), math.Sin(a), styleFrame.Render("·"))
	}
	plot(0, -1, styleFrame.Render("N"))
	plot(0, 1, styleFrame.Render("S"))
	plot(1, 0, styleFrame.Render("E"))
	plot(-1, 0, styleFrame.Render("W"))

	for _, o := range m.objects {
		plot(o.x, o.y, o.style.Render(o.glyph))
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	b.WriteString(styleFrame.Render(fmt.Sprintf(
		"%.4f, %.4f at %s  (q to quit)",
		m.lat, m.lon, m.when.Format(time.RFC3339))))
	return b.String()
}
