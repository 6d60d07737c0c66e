// Package theme holds the visual configuration shared by the web and
// terminal front ends. A Theme is built once at start-up and passed by
// value; nothing in it changes at runtime.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the brand colour set.
type Palette struct {
	DarkGreen string
	Amber     string
	White     string
	Muted     string
	Accent    string // author ids and secondary text
}

// ButtonStyle is the default solid button look.
type ButtonStyle struct {
	Background      string
	Foreground      string
	HoverBackground string
	Padding         string
}

// InputStyle is the default text input look.
type InputStyle struct {
	FocusBorderColor string
	BorderColor      string
	Placeholder      string
}

// Theme is the complete presentational configuration.
type Theme struct {
	Palette    Palette
	FontFamily string
	Button     ButtonStyle
	Input      InputStyle
}

// Default returns the brand theme: dark green, amber and white on Arial.
func Default() Theme {
	p := Palette{
		DarkGreen: "#22543D",
		Amber:     "#E09132",
		White:     "#FFFFFF",
		Muted:     "#718096",
		Accent:    "#319795",
	}
	return Theme{
		Palette:    p,
		FontFamily: "Arial, sans-serif",
		Button: ButtonStyle{
			Background:      p.Amber,
			Foreground:      p.White,
			HoverBackground: p.DarkGreen,
			Padding:         "1px",
		},
		Input: InputStyle{
			FocusBorderColor: p.Amber,
			BorderColor:      p.Amber,
			Placeholder:      p.Muted,
		},
	}
}

// CSS renders the theme as a stylesheet for the web front end.
func (t Theme) CSS() string {
	p := t.Palette
	var b strings.Builder
	rule := func(selector string, decls ...string) {
		fmt.Fprintf(&b, "%s{%s}\n", selector, strings.Join(decls, ";"))
	}
	rule("html,body", "background:"+p.White, "font-family:"+t.FontFamily, "margin:0")
	rule(".navbar", "background:"+p.DarkGreen, "color:"+p.White, "padding:16px 32px", "display:flex", "justify-content:space-between", "align-items:center", "box-shadow:0 2px 4px rgba(0,0,0,.2)")
	rule(".navbar .brand", "font-size:1.25rem", "font-weight:bold")
	rule("input,textarea", "border:1px solid "+t.Input.BorderColor, "border-radius:6px", "padding:8px", "width:100%", "box-sizing:border-box", "margin-bottom:8px", "font-family:inherit")
	rule("input:focus,textarea:focus", "outline:none", "border-color:"+t.Input.FocusBorderColor)
	rule("::placeholder", "color:"+t.Input.Placeholder)
	rule("button", "background:"+t.Button.Background, "color:"+t.Button.Foreground, "border:none", "border-radius:6px", "padding:8px 16px", "cursor:pointer")
	rule("button:hover", "background:"+t.Button.HoverBackground)
	rule("button:disabled", "opacity:.4", "cursor:not-allowed")
	rule(".layout", "display:flex", "flex-wrap:wrap", "gap:30px", "justify-content:space-evenly", "width:90%", "margin:auto")
	rule(".creator", "border:1px solid #E2E8F0", "border-radius:8px", "padding:16px", "margin-top:40px", "min-width:320px", "align-self:flex-start", "position:sticky", "top:40px")
	rule(".posts", "max-width:650px", "width:100%")
	rule(".posts h1", "color:"+p.DarkGreen)
	rule(".post", "border:1px solid #E2E8F0", "border-radius:8px", "background:"+p.White, "padding:16px", "margin-bottom:16px")
	rule(".post h2", "color:"+p.DarkGreen, "margin-top:0")
	rule(".post:hover", "background:"+p.DarkGreen, "color:"+p.White)
	rule(".post:hover h2", "color:"+p.Amber)
	rule(".post .author", "font-size:.875rem", "color:"+p.Accent)
	rule(".pagination", "display:flex", "gap:16px", "justify-content:center", "align-items:center", "margin:16px")
	rule(".pagination form", "margin:0")
	rule(".spinner", "margin:32px auto", "width:32px", "height:32px", "border:4px solid #E2E8F0", "border-top-color:"+p.DarkGreen, "border-radius:50%", "animation:spin 1s linear infinite")
	rule("@keyframes spin", "to{transform:rotate(360deg)}")
	rule(".toast", "background:#38A169", "color:"+p.White, "padding:12px 16px", "border-radius:6px", "position:fixed", "bottom:24px", "left:50%", "transform:translateX(-50%)")
	return b.String()
}

// Styles are the lipgloss renderings of the theme for the terminal.
type Styles struct {
	Navbar   lipgloss.Style
	Heading  lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Author   lipgloss.Style
	Faint    lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Box      lipgloss.Style
	Focused  lipgloss.Style
	Toast    lipgloss.Style
}

// Terminal builds the lipgloss styles for the terminal front end.
func (t Theme) Terminal() Styles {
	p := t.Palette
	green := lipgloss.Color(p.DarkGreen)
	amber := lipgloss.Color(p.Amber)
	white := lipgloss.Color(p.White)
	return Styles{
		Navbar:   lipgloss.NewStyle().Bold(true).Foreground(white).Background(green).Padding(0, 2),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(green),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(amber),
		Body:     lipgloss.NewStyle(),
		Author:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Button:   lipgloss.NewStyle().Foreground(white).Background(amber).Padding(0, 1),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Padding(0, 1),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Muted)).Padding(0, 1),
		Focused:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(amber).Padding(0, 1),
		Toast:    lipgloss.NewStyle().Foreground(white).Background(green).Padding(0, 1),
	}
}
