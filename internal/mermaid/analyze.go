package mermaid

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/diagram"
	"github.com/vanstudio/sequence-cli/internal/participant"
)

type sequenceDiagram struct {
	participants []participantLine
	entry        flow
	exit         flow
	elements     []element
}

type participantLine struct {
	name string
	link string
}

// untracedCall marks a call whose target was not recorded.
const untracedCall = "(untraced call)"

// element is one call with the calls it makes and its return. An untraced
// call only carries a note.
type element struct {
	flow     flow
	ret      flow
	create   bool
	color    string // rect color for self-calls, empty otherwise
	note     note
	elements []element
}

type note struct {
	over string
	text string
}

type flow struct {
	from  string
	to    string
	label string
}

func analyze(root *calltree.Call, participants []*participant.Participant, opts diagram.Options) (*sequenceDiagram, error) {
	d := &sequenceDiagram{}
	for _, p := range participants {
		line := participantLine{name: p.Name}
		if opts.Features.Links {
			line.link = p.Path
		}
		d.participants = append(d.participants, line)
	}

	rootClass := root.ClassName()
	d.entry = flow{from: participant.ActorName, to: rootClass, label: root.Label(opts.SimplifyCallNames)}
	d.exit = flow{from: rootClass, to: participant.ActorName, label: "return"}

	a := &analyzer{opts: opts, palette: opts.Palette(), selfCalls: make(map[string]int)}
	elements, err := a.elements(root)
	if err != nil {
		return nil, err
	}
	d.elements = elements
	return d, nil
}

type analyzer struct {
	opts      diagram.Options
	palette   []string
	selfCalls map[string]int
}

// frame is a call whose children are being analyzed into out. next is the
// index of the child to analyze next.
type frame struct {
	call *calltree.Call
	out  *[]element
	next int
}

// elements builds the nested elements below root depth first with an
// explicit stack. A frame's out slice only grows while the frame is on top,
// so the pointers held by deeper frames stay valid.
func (a *analyzer) elements(root *calltree.Call) ([]element, error) {
	elements := make([]element, 0, len(root.Children()))
	stack := []*frame{{call: root, out: &elements}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		calls := top.call.Children()
		if top.next == len(calls) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := calls[top.next]
		top.next++

		e, err := a.element(top.call, child)
		if err != nil {
			return nil, err
		}
		*top.out = append(*top.out, e)
		if child.IsEmpty() {
			continue
		}
		last := &(*top.out)[len(*top.out)-1]
		stack = append(stack, &frame{call: child, out: &last.elements})
	}
	return elements, nil
}

// element describes the call from parent to child without its nested calls.
func (a *analyzer) element(parent, child *calltree.Call) (element, error) {
	classA := parent.ClassName()
	if child.IsEmpty() {
		return element{note: note{over: classA, text: untracedCall}}, nil
	}
	classB := child.ClassName()
	e := element{
		flow:     flow{from: classA, to: classB, label: child.Label(a.opts.SimplifyCallNames)},
		ret:      flow{from: classB, to: classA, label: a.opts.ReturnLabel(child) + " " + parent.MethodName()},
		create:   child.IsConstructor(),
		elements: make([]element, 0, len(child.Children())),
	}
	if classA == classB {
		a.selfCalls[classA]++
		rgb, err := rectColor(a.palette[diagram.SelfCallSlot(a.selfCalls[classA], len(a.palette))])
		if err != nil {
			return element{}, err
		}
		e.color = rgb
	}
	return e, nil
}

// rectColor converts a #RRGGBB palette color to the rgb() form Mermaid rects take.
func rectColor(hex string) (string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid self-call color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b), nil
}
