package ticket

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"time"

	"github.com/jo-hoe/ambitions/internal/backend/commands"
	"github.com/jo-hoe/ambitions/internal/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const dateLayout = "January 2, 2006"

var (
	colorLabel  = color.RGBA{0x94, 0xa3, 0xb8, 0xff} // slate-400
	colorMuted  = color.RGBA{0x64, 0x74, 0x8b, 0xff} // slate-500
	colorText   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorDream  = color.RGBA{0xfc, 0xd3, 0x4d, 0xff} // amber-300
	colorBrand  = color.RGBA{0xfb, 0x71, 0x85, 0xff} // rose-400
	transparent = color.RGBA{}
)

// Renderer draws the fixed-layout ticket card as a PNG.
type Renderer struct {
	width    int
	height   int
	location *time.Location
	regular  *opentype.Font
	bold     *opentype.Font
}

func NewRenderer(width, height int, location *time.Location) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid ticket size %dx%d", width, height)
	}
	if location == nil {
		location = time.UTC
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Renderer{width: width, height: height, location: location, regular: regular, bold: bold}, nil
}

// FormatDate renders createdAt (Unix ms) the way the ticket footer shows it.
func (r *Renderer) FormatDate(createdAt int64) string {
	return time.UnixMilli(createdAt).In(r.location).Format(dateLayout)
}

func (r *Renderer) Render(ambition core.Ambition) ([]byte, error) {
	w, h := r.width, r.height
	canvas, err := commands.RenderSVG([]byte(cardSVG(w, h)), w, h, transparent)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket card: %w", err)
	}

	// Layout is expressed in units of a 450px wide card.
	u := float64(w) / 450
	cx := int(float64(w-perforationWidth(w)) / 2)
	content := int(float64(w-perforationWidth(w)) - 64*u)
	y := func(v float64) int { return int(v * float64(h) / 600) }

	steps := []struct {
		font     *opentype.Font
		text     string
		size     float64
		minSize  float64
		baseline int
		color    color.Color
	}{
		{r.bold, "Ambitious", 26 * u, 26 * u, y(126), colorBrand},
		{r.regular, "OFFICIAL RECORD OF AMBITION", 12 * u, 9 * u, y(150), colorLabel},
		{r.regular, "NAME", 11 * u, 11 * u, y(200), colorLabel},
		{r.bold, ambition.Name, 26 * u, 14 * u, y(232), colorText},
		{r.regular, "DREAM", 11 * u, 11 * u, y(278), colorLabel},
		{r.bold, ambition.Ambition, 40 * u, 16 * u, y(322), colorDream},
	}
	for _, step := range steps {
		if err := r.drawCentered(canvas, step.font, step.text, step.size, step.minSize, content, cx, step.baseline, step.color); err != nil {
			return nil, err
		}
	}

	columns := []struct {
		label string
		value string
		cx    int
	}{
		{"AT AGE", strconv.Itoa(ambition.Age), cx - int(90*u)},
		{"TARGET", strconv.Itoa(ambition.TargetYear), cx + int(90*u)},
	}
	for _, column := range columns {
		if err := r.drawCentered(canvas, r.regular, column.label, 11*u, 11*u, int(150*u), column.cx, y(380), colorLabel); err != nil {
			return nil, err
		}
		if err := r.drawCentered(canvas, r.bold, column.value, 26*u, 14*u, int(150*u), column.cx, y(412), colorText); err != nil {
			return nil, err
		}
	}

	footerY := y(540)
	left := int(32 * u)
	right := w - perforationWidth(w) - int(32*u)
	if err := r.drawAt(canvas, r.regular, "ID: "+strconv.FormatInt(ambition.ID, 10), 12*u, left, footerY, colorMuted, alignLeft, content/2); err != nil {
		return nil, err
	}
	if err := r.drawAt(canvas, r.regular, r.FormatDate(ambition.CreatedAt), 12*u, right, footerY, colorMuted, alignRight, content/2); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}
	return buf.Bytes(), nil
}

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

func (r *Renderer) drawCentered(dst *image.RGBA, f *opentype.Font, text string, size, minSize float64, maxWidth, cx, baseline int, c color.Color) error {
	face, fitted, err := fitText(f, text, size, minSize, maxWidth)
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(fitted).Round()
	d.Dot = fixed.P(cx-width/2, baseline)
	d.DrawString(fitted)
	return nil
}

func (r *Renderer) drawAt(dst *image.RGBA, f *opentype.Font, text string, size float64, x, baseline int, c color.Color, align alignment, maxWidth int) error {
	face, fitted, err := fitText(f, text, size, size*0.7, maxWidth)
	if err != nil {
		return err
	}
	defer func() { _ = face.Close() }()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	if align == alignRight {
		x -= d.MeasureString(fitted).Round()
	}
	d.Dot = fixed.P(x, baseline)
	d.DrawString(fitted)
	return nil
}
