// Package render looks up diagram renderers by format name.
package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vanstudio/sequence-cli/internal/diagram"
	"github.com/vanstudio/sequence-cli/internal/mermaid"
	"github.com/vanstudio/sequence-cli/internal/plantuml"
)

const (
	FormatPlantUML = "plantuml"
	FormatMermaid  = "mermaid"
)

var ErrUnsupportedFormat = errors.New("unsupported diagram format")

type factory func(diagram.Options) diagram.Renderer

var factories = map[string]factory{
	FormatPlantUML: func(opts diagram.Options) diagram.Renderer { return plantuml.New(opts) },
	FormatMermaid:  func(opts diagram.Options) diagram.Renderer { return mermaid.New(opts) },
}

// New returns the renderer registered for format.
func New(format string, opts diagram.Options) (diagram.Renderer, error) {
	f, ok := factories[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, format, Formats())
	}
	return f(opts), nil
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
