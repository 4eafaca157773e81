// Package calltree holds the recorded call tree that diagrams are rendered from.
package calltree

import "strings"

const (
	// AttributeExternal marks a class that lives outside the analyzed project.
	AttributeExternal = "external"
	// AttributeInterface marks an interface type.
	AttributeInterface = "interface"
)

// Class describes the type that owns a method.
type Class struct {
	Name       string   `yaml:"name,omitempty" toml:"name,omitempty" msgpack:"name,omitempty"`
	FullName   string   `yaml:"full_name,omitempty" toml:"full_name,omitempty" msgpack:"full_name,omitempty"`
	Path       string   `yaml:"path,omitempty" toml:"path,omitempty" msgpack:"path,omitempty"`
	Attributes []string `yaml:"attributes,omitempty" toml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// ShortName returns the display name of the class. When Name is empty it is
// derived from the text after the last '.' of FullName.
func (c Class) ShortName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FullName[strings.LastIndex(c.FullName, ".")+1:]
}

// QualifiedName returns FullName, or ShortName when no full name was recorded.
func (c Class) QualifiedName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Name
}

// HasAttribute reports whether attr is set on the class.
func (c Class) HasAttribute(attr string) bool {
	for _, a := range c.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Method is the invoked method.
type Method struct {
	Class       Class  `yaml:"class" toml:"class" msgpack:"class"`
	Name        string `yaml:"name" toml:"name" msgpack:"name"`
	Signature   string `yaml:"signature,omitempty" toml:"signature,omitempty" msgpack:"signature,omitempty"`
	ReturnType  string `yaml:"return_type,omitempty" toml:"return_type,omitempty" msgpack:"return_type,omitempty"`
	Constructor bool   `yaml:"constructor,omitempty" toml:"constructor,omitempty" msgpack:"constructor,omitempty"`
}

// Call is one invocation in the trace. Calls holds the invocations made by
// it, in call order.
type Call struct {
	Method *Method `yaml:"method,omitempty" toml:"method,omitempty" msgpack:"method,omitempty"`
	Seq    int     `yaml:"seq,omitempty" toml:"seq,omitempty" msgpack:"seq,omitempty"`
	Calls  []*Call `yaml:"calls,omitempty" toml:"calls,omitempty" msgpack:"calls,omitempty"`
}

// IsEmpty reports whether the call carries no method.
func (c *Call) IsEmpty() bool {
	return c == nil || c.Method == nil
}

// ClassName returns the display name of the owning class, or "" for an empty call.
func (c *Call) ClassName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Method.Class.ShortName()
}

// Class returns the owning class, or the zero Class for an empty call.
func (c *Call) Class() Class {
	if c.IsEmpty() {
		return Class{}
	}
	return c.Method.Class
}

// MethodName returns the bare method name, or "" for an empty call.
func (c *Call) MethodName() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Method.Name
}

// Label returns the text used on call edges: the bare method name when
// simplify is set, the full signature otherwise.
func (c *Call) Label(simplify bool) string {
	if c.IsEmpty() {
		return ""
	}
	if simplify || c.Method.Signature == "" {
		return c.Method.Name
	}
	return c.Method.Signature
}

// IsConstructor reports whether the call creates a new instance.
func (c *Call) IsConstructor() bool {
	return !c.IsEmpty() && c.Method.Constructor
}

// ReturnType returns the short return type name, or "".
func (c *Call) ReturnType() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Method.ReturnType
}

// Children returns the calls made by c. It is safe on a nil call.
func (c *Call) Children() []*Call {
	if c == nil {
		return nil
	}
	return c.Calls
}

// Walk visits the tree in pre-order. It stops early when fn returns false.
func Walk(root *Call, fn func(*Call) bool) {
	if root == nil {
		return
	}
	stack := []*Call{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(c) {
			return
		}
		for i := len(c.Calls) - 1; i >= 0; i-- {
			if c.Calls[i] != nil {
				stack = append(stack, c.Calls[i])
			}
		}
	}
}

// Number assigns start sequence numbers in pre-order, beginning at 1.
func Number(root *Call) {
	seq := 0
	Walk(root, func(c *Call) bool {
		seq++
		c.Seq = seq
		return true
	})
}

func numbered(root *Call) bool {
	found := false
	Walk(root, func(c *Call) bool {
		if c.Seq != 0 {
			found = true
			return false
		}
		return true
	})
	return found
}
