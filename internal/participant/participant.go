// Package participant keeps the lifelines of a sequence diagram.
//
// Participants are identified by their display name only: two classes from
// different packages that share a short name collapse into one lifeline.
package participant

import (
	"strings"

	"github.com/vanstudio/sequence-cli/internal/calltree"
)

// ActorName is the name of the synthetic caller of the root method.
const ActorName = "Actor"

// Participant is one lifeline of the diagram.
type Participant struct {
	Name       string
	FullName   string
	Seq        int
	Path       string
	Attributes []string
	methods    []Method
}

// Method is a method invoked on a participant.
type Method struct {
	Name string
	Seq  int
}

// New creates a participant from a possibly qualified type name. The display
// name is the part after the last '.'.
func New(name string, attributes []string, seq int, path string) *Participant {
	return &Participant{
		Name:       name[strings.LastIndex(name, ".")+1:],
		FullName:   name,
		Seq:        seq,
		Path:       path,
		Attributes: attributes,
	}
}

// AddMethod records m, keeping methods ordered by start sequence.
func (p *Participant) AddMethod(m Method) {
	pos := len(p.methods)
	for i, other := range p.methods {
		if other.Seq > m.Seq {
			pos = i
			break
		}
	}
	p.methods = append(p.methods, Method{})
	copy(p.methods[pos+1:], p.methods[pos:])
	p.methods[pos] = m
}

// Methods returns the recorded methods in start sequence order.
func (p *Participant) Methods() []Method {
	return p.methods
}

// PackageName returns the qualifier of FullName, or "" for the default package.
func (p *Participant) PackageName() string {
	i := strings.LastIndex(p.FullName, ".")
	if i == -1 {
		return ""
	}
	return p.FullName[:i]
}

func (p *Participant) HasAttribute(attr string) bool {
	for _, a := range p.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

func (p *Participant) IsActor() bool {
	return p.Name == ActorName
}

// Registry collects participants in first-registration order.
type Registry struct {
	order  []*Participant
	byName map[string]*Participant
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Participant)}
}

// Register adds p unless a participant with the same display name exists.
// The first registration wins.
func (r *Registry) Register(p *Participant) {
	if _, ok := r.byName[p.Name]; ok {
		return
	}
	r.byName[p.Name] = p
	r.order = append(r.order, p)
}

// Get returns the participant registered under the display name.
func (r *Registry) Get(name string) (*Participant, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// List returns the participants in first-registration order.
func (r *Registry) List() []*Participant {
	return append([]*Participant(nil), r.order...)
}

// Collect walks root in pre-order and registers the owner of every call.
// Empty calls are skipped.
func Collect(root *calltree.Call) *Registry {
	r := NewRegistry()
	calltree.Walk(root, func(c *calltree.Call) bool {
		if c.IsEmpty() {
			return true
		}
		class := c.Class()
		name := class.ShortName()
		if _, ok := r.Get(name); !ok {
			p := New(class.QualifiedName(), class.Attributes, c.Seq, class.Path)
			// the recorded short name wins over the derived one
			p.Name = name
			r.Register(p)
		}
		p, _ := r.Get(name)
		p.AddMethod(Method{Name: c.MethodName(), Seq: c.Seq})
		return true
	})
	return r
}
