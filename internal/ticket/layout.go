package ticket

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jo-hoe/ambitions/internal/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const ellipsis = "…"

const logoDefs = `<linearGradient id="logo-main" x1="0.5" y1="1" x2="0.5" y2="0">
<stop offset="0%" stop-color="#4F46E5"/>
<stop offset="30%" stop-color="#7C3AED"/>
<stop offset="50%" stop-color="#EC4899"/>
<stop offset="75%" stop-color="#F97316"/>
<stop offset="100%" stop-color="#FBBF24"/>
</linearGradient>
<linearGradient id="logo-wing" x1="0.5" y1="1" x2="0.5" y2="0">
<stop offset="0%" stop-color="#EC4899"/>
<stop offset="100%" stop-color="#FBBF24"/>
</linearGradient>`

const logoPaths = `<path d="M71 0 L91 25 H51 Z" fill="#FBBF24" fill-opacity="0.7"/>
<path d="M71 8 L97 44 H81 V78 H61 V44 H45 Z" fill="url(#logo-main)"/>
<path d="M71 84 L95 108 L71 132 L47 108 Z" fill="url(#logo-main)"/>
<path d="M95 45 C 120 40, 140 55, 130 80 C 125 90, 108 72, 95 45 Z" fill="url(#logo-wing)"/>`

// LogoSVG is the standalone brand mark, also served as the site icon.
const LogoSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 142 133" width="142" height="133">
<defs>` + logoDefs + `</defs>
` + logoPaths + `
</svg>`

// Slug lowercases name and replaces every whitespace character with "-".
func Slug(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, strings.ToLower(name))
}

// FileName is the download name offered for a record's ticket.
func FileName(ambition core.Ambition) string {
	return "ambition-ticket-" + Slug(ambition.Name) + ".png"
}

func perforationWidth(width int) int {
	return width * 32 / 450
}

// cardSVG draws everything on the ticket except text, in a w x h viewBox.
func cardSVG(w, h int) string {
	u := float64(w) / 450
	sy := float64(h) / 600
	body := float64(w - perforationWidth(w))
	radius := 16 * u
	pad := 32 * u
	logoSize := 48 * u
	logoScale := logoSize / 142

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`, w, h, w, h)
	b.WriteString("<defs>" + logoDefs + "</defs>")
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" rx="%.2f" ry="%.2f" fill="#1e293b"/>`, w, h, radius, radius)

	// Header and footer separators.
	for _, lineY := range []float64{166 * sy, 500 * sy} {
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#475569" stroke-width="%.2f" stroke-dasharray="%.2f %.2f"/>`,
			pad, lineY, body-pad, lineY, 2*u, 6*u, 4*u)
	}
	// Divider between age and target.
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#475569" stroke-width="%.2f"/>`,
		body/2, 368*sy, body/2, 416*sy, u)

	// Perforated edge.
	hole := 5 * u
	for holeY := 10 * u; holeY < float64(h)-hole; holeY += 20 * u {
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#0f172a"/>`, body, holeY, hole)
	}

	fmt.Fprintf(&b, `<g transform="translate(%.2f %.2f) scale(%.4f)">`, body/2-logoSize/2, 40*sy, logoScale)
	b.WriteString(logoPaths)
	b.WriteString("</g></svg>")
	return b.String()
}

// fitText returns a face no larger than size in which text fits maxWidth,
// shrinking down to minSize and then truncating with an ellipsis.
// The caller closes the face.
func fitText(f *opentype.Font, text string, size, minSize float64, maxWidth int) (font.Face, string, error) {
	if minSize > size {
		minSize = size
	}
	for current := size; ; current-- {
		if current < minSize {
			current = minSize
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: current, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create font face: %w", err)
		}
		if font.MeasureString(face, text).Round() <= maxWidth {
			return face, text, nil
		}
		if current == minSize {
			return face, truncate(face, text, maxWidth), nil
		}
		_ = face.Close()
	}
}

func truncate(face font.Face, text string, maxWidth int) string {
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRightFunc(string(runes), unicode.IsSpace) + ellipsis
		if font.MeasureString(face, candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
