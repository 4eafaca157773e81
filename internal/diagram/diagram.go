// Package diagram holds what every sequence diagram dialect shares: the
// rendering options, the method color palette and the Renderer contract.
package diagram

import (
	"io"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/participant"
)

// AccentColors are the fixed palette slots 1..4 used for self-calls.
var AccentColors = [...]string{"#00FFFF", "#8FBC8F", "#FFFAF0", "#DAA520"}

const (
	DefaultFontName       = "微软雅黑"
	DefaultMethodBarColor = "#FFE0A7"
)

// Renderer writes the diagram of a call tree.
type Renderer interface {
	Render(w io.Writer, root *calltree.Call, participants []*participant.Participant) error
	// Extension is the file extension of the output, including the dot.
	Extension() string
}

// Styles holds the participant colors picked by class attributes.
type Styles struct {
	External  string
	Interface string
	Class     string
}

// Color returns the style color of p. External wins over interface; anything
// else is a plain class.
func (s Styles) Color(p *participant.Participant) string {
	switch {
	case p.HasAttribute(calltree.AttributeExternal):
		return s.External
	case p.HasAttribute(calltree.AttributeInterface):
		return s.Interface
	default:
		return s.Class
	}
}

// Features toggles the optional parts of the output.
type Features struct {
	Links       bool // url annotations on participants and edges
	StyleColors bool // participant colors
	Grouping    bool // participants wrapped in a box
	ReturnTypes bool // return type on return edges
}

type Options struct {
	SimplifyCallNames bool
	FontName          string
	MethodBarColor    string
	Styles            Styles
	Features          Features
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SimplifyCallNames: true,
		FontName:          DefaultFontName,
		MethodBarColor:    DefaultMethodBarColor,
		Styles: Styles{
			External:  "#D3D3D3",
			Interface: "#B0E0E6",
			Class:     "#FFFFFF",
		},
		Features: Features{Links: true, StyleColors: true, Grouping: true},
	}
}

// Palette returns the method colors. Slot 0 is the default call color.
func (o Options) Palette() []string {
	palette := make([]string, 0, len(AccentColors)+1)
	palette = append(palette, o.MethodBarColor)
	return append(palette, AccentColors[:]...)
}

// SelfCallSlot maps the n-th self-call of a participant onto the palette
// slots 1..size-1, skipping the default slot.
func SelfCallSlot(n, size int) int {
	return (n-1)%(size-1) + 1
}

// ReturnLabel is the text of a return edge from child back to its caller,
// before any link annotation is added.
func (o Options) ReturnLabel(child *calltree.Call) string {
	label := "return"
	if rt := child.ReturnType(); o.Features.ReturnTypes && rt != "" && rt != "void" {
		label += " " + rt
	}
	return label
}
