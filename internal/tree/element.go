// Package tree models an i3 append_layout description: containers holding
// placeholder windows, each carrying the swallow criteria and the commands
// that populate it.
//
// Every value is immutable in practice. Transformations such as MapWindows
// and WithoutMarks rebuild the tree rather than editing it in place.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/i3layout/internal/command"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Toplevel is anything that can be appended to a workspace: a single Node or
// a Multi forest.
type Toplevel interface {
	// ToLayout returns the JSON-compatible value for i3.
	ToLayout() any
	// ToCommands returns the commands to launch, depth first, left to right.
	ToCommands() []command.Command
	// LayoutString renders ToLayout as JSON. An empty indent renders compact JSON.
	LayoutString(indent string) (string, error)
	// MapWindows replaces every Window leaf by f(leaf).
	MapWindows(f func(Window) Node) Toplevel
	// WithoutMarks clears the marks of every Window and Layout.
	WithoutMarks() Toplevel
}

// Node is a single tree: a Window, a Layout or a RawElement.
type Node interface {
	Toplevel
	mapNode(f func(Window) Node) Node
	stripMarks() Node
}

// Fields is an ordered bag of JSON members the model does not interpret.
// Values are kept verbatim.
type Fields = orderedmap.OrderedMap[string, json.RawMessage]

// NewFields returns an empty Fields bag.
func NewFields() *Fields {
	return orderedmap.New[string, json.RawMessage]()
}

type object = orderedmap.OrderedMap[string, any]

func newObject() *object {
	return orderedmap.New[string, any]()
}

// mergeOthers copies unrecognized members into obj. Members already set by
// the model win.
func mergeOthers(obj *object, others *Fields) {
	if others == nil {
		return
	}
	for pair := others.Oldest(); pair != nil; pair = pair.Next() {
		if _, present := obj.Get(pair.Key); !present {
			obj.Set(pair.Key, pair.Value)
		}
	}
}

func marshalLayout(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("json encode: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func nodesCommands(nodes []Node) []command.Command {
	var cmds []command.Command
	for _, n := range nodes {
		cmds = append(cmds, n.ToCommands()...)
	}
	return cmds
}
