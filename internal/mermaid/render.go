// Package mermaid renders a call tree as a Mermaid sequence diagram.
package mermaid

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/diagram"
	"github.com/vanstudio/sequence-cli/internal/participant"
)

type Renderer struct {
	opts diagram.Options
}

func New(opts diagram.Options) *Renderer {
	return &Renderer{opts: opts}
}

func (r *Renderer) Extension() string {
	return ".mmd"
}

// Render writes a Mermaid `sequenceDiagram` for root to w.
// Participants are declared in the given order, and self-calls are wrapped in
// colored rect blocks that cycle through the accent palette.
//
// Example:
//
//	var buf bytes.Buffer
//	r := mermaid.New(diagram.DefaultOptions())
//	if err := r.Render(&buf, root, participant.Collect(root).List()); err != nil {
//		log.Fatal(err)
//	}
func (r *Renderer) Render(w io.Writer, root *calltree.Call, participants []*participant.Participant) error {
	sequenceDiagram, err := analyze(root, participants, r.opts)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("sequenceDiagram\n")
	sb.WriteString("    autonumber\n")
	sb.WriteString(fmt.Sprintf("    actor %s\n", participant.ActorName))

	for _, p := range sequenceDiagram.participants {
		sb.WriteString(fmt.Sprintf("    participant %s\n", p.name))
		if p.link != "" {
			sb.WriteString(fmt.Sprintf("    link %s: source @ %s\n", p.name, p.link))
		}
	}
	sb.WriteString("\n")

	writeFlow(&sb, sequenceDiagram.entry, false, 1)
	renderElements(&sb, sequenceDiagram.elements, 2)
	writeFlow(&sb, sequenceDiagram.exit, true, 1)

	_, err = w.Write([]byte(sb.String()))

	return err
}

func renderElements(sb *strings.Builder, elements []element, indent int) {
	for _, e := range elements {
		if e.note.text != "" {
			writeIndent(sb, indent)
			sb.WriteString(fmt.Sprintf("Note over %s: %s\n", e.note.over, e.note.text))
			continue
		}
		inner := indent
		if e.color != "" {
			writeIndent(sb, indent)
			sb.WriteString(fmt.Sprintf("rect %s\n", e.color))
			inner++
		}
		if e.create {
			writeIndent(sb, inner)
			sb.WriteString(fmt.Sprintf("Note over %s: create\n", e.flow.to))
		}
		writeFlow(sb, e.flow, false, inner)
		renderElements(sb, e.elements, inner+1)
		writeFlow(sb, e.ret, true, inner)
		if e.color != "" {
			writeIndent(sb, indent)
			sb.WriteString("end\n")
		}
	}
}

func writeFlow(sb *strings.Builder, f flow, isReturn bool, indent int) {
	arrow := "->>"
	if isReturn {
		arrow = "-->>"
	}
	writeIndent(sb, indent)
	sb.WriteString(fmt.Sprintf("%s%s%s: %s\n", f.from, arrow, f.to, f.label))
}

func writeIndent(sb *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		sb.WriteString("    ")
	}
}
