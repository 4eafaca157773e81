// Package plantuml renders a call tree as a PlantUML sequence diagram.
package plantuml

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/diagram"
	"github.com/vanstudio/sequence-cli/internal/participant"
)

// Renderer turns call trees into PlantUML text. A Renderer holds no per-render
// state and may be used from several goroutines.
type Renderer struct {
	opts    diagram.Options
	palette []string
}

func New(opts diagram.Options) *Renderer {
	return &Renderer{opts: opts, palette: opts.Palette()}
}

// Palette returns the method colors; slot 0 is the default call color.
func (r *Renderer) Palette() []string {
	return append([]string(nil), r.palette...)
}

func (r *Renderer) Extension() string {
	return ".puml"
}

// Render writes the diagram for root to w.
func (r *Renderer) Render(w io.Writer, root *calltree.Call, participants []*participant.Participant) error {
	_, err := io.WriteString(w, r.Format(root, participants))
	return err
}

// Format returns the diagram for root. Participants are declared in the
// given order.
func (r *Renderer) Format(root *calltree.Call, participants []*participant.Participant) string {
	var sb strings.Builder

	sb.WriteString("@startuml\n")
	sb.WriteString(fmt.Sprintf("skinparam defaultFontName %s\n", r.opts.FontName))
	sb.WriteString("autoactivate on\n")
	sb.WriteString("autonumber\n")

	r.writeParticipants(&sb, participants)

	classA := root.ClassName()
	if root.IsConstructor() {
		sb.WriteString(fmt.Sprintf("create %s\n", classA))
	}
	sb.WriteString(fmt.Sprintf("%s -> %s%s : %s\n",
		participant.ActorName, classA, r.palette[0], r.callText(root)))

	r.writeCalls(&sb, root)

	sb.WriteString("return\n")
	sb.WriteString("@enduml\n")
	return sb.String()
}

func (r *Renderer) writeParticipants(sb *strings.Builder, participants []*participant.Participant) {
	indent := ""
	if r.opts.Features.Grouping {
		sb.WriteString("box Class\n")
		indent = "  "
	}
	for _, p := range participants {
		sb.WriteString(fmt.Sprintf("%sparticipant %s", indent, p.Name))
		if r.opts.Features.StyleColors {
			sb.WriteString(" " + r.opts.Styles.Color(p))
		}
		sb.WriteString("\n")
		if r.opts.Features.Links {
			sb.WriteString(fmt.Sprintf("%surl of %s is [[%s]]\n", indent, p.Name, p.Path))
		}
	}
	if r.opts.Features.Grouping {
		sb.WriteString("end box\n")
	}
	sb.WriteString("\n")
}

// frame is a call whose children are being emitted. next is the index of the
// child to emit next.
type frame struct {
	call   *calltree.Call
	caller *calltree.Call
	next   int
}

// writeCalls emits the body below root depth first: each call edge, then the
// calls it makes, then its return edge. Self-call counters are keyed by
// participant name and live for one render.
func (r *Renderer) writeCalls(sb *strings.Builder, root *calltree.Call) {
	selfCalls := make(map[string]int)
	stack := []*frame{{call: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if calls := top.call.Children(); top.next < len(calls) {
			child := calls[top.next]
			top.next++
			r.writeCall(sb, top.call, child, selfCalls)
			stack = append(stack, &frame{call: child, caller: top.call})
			continue
		}
		stack = stack[:len(stack)-1]
		if top.caller != nil {
			r.writeReturn(sb, top.caller, top.call)
		}
	}
}

func (r *Renderer) writeCall(sb *strings.Builder, parent, child *calltree.Call, selfCalls map[string]int) {
	classA := parent.ClassName()
	classB := child.ClassName()
	if child.IsConstructor() {
		sb.WriteString(fmt.Sprintf("create %s\n", classB))
	}
	color := r.palette[0]
	if classA == classB {
		selfCalls[classA]++
		color = r.palette[diagram.SelfCallSlot(selfCalls[classA], len(r.palette))]
	}
	sb.WriteString(fmt.Sprintf("%s -> %s%s : %s\n", classA, classB, color, r.callText(child)))
}

func (r *Renderer) writeReturn(sb *strings.Builder, parent, child *calltree.Call) {
	label := r.opts.ReturnLabel(child)
	methodA := parent.MethodName()
	if r.opts.Features.Links {
		label += fmt.Sprintf(" [[%s#%s %s]]", parent.Class().Path, methodA, methodA)
	} else {
		label += " " + methodA
	}
	sb.WriteString(fmt.Sprintf("%s --> %s : %s\n", child.ClassName(), parent.ClassName(), label))
}

func (r *Renderer) callText(c *calltree.Call) string {
	label := c.Label(r.opts.SimplifyCallNames)
	if !r.opts.Features.Links {
		return label
	}
	return fmt.Sprintf("[[%s#%s %s]]", c.Class().Path, label, label)
}
