package view

import "github.com/agiangrant/scrollkit/geom"

// Node is a concrete, in-memory View. Hosts without a native view tree, the
// simulate command and tests build hierarchies out of Nodes.
type Node struct {
	name           string
	frame          geom.Rect
	boundsOrigin   geom.Point
	parent         *Node
	children       []*Node
	firstResponder bool
}

// NewNode creates a detached node with the given frame.
func NewNode(name string, frame geom.Rect) *Node {
	return &Node{name: name, frame: frame}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Frame() geom.Rect { return n.frame }

func (n *Node) Bounds() geom.Rect {
	return geom.Rect{Origin: n.boundsOrigin, Size: n.frame.Size}
}

func (n *Node) Superview() View {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Subviews() []View {
	out := make([]View, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) IsFirstResponder() bool { return n.firstResponder }

// SetFrame moves or resizes the node.
func (n *Node) SetFrame(r geom.Rect) { n.frame = r }

// SetSize resizes the node, keeping its origin.
func (n *Node) SetSize(s geom.Size) { n.frame.Size = s }

// SetBoundsOrigin shifts the node's own coordinate space.
func (n *Node) SetBoundsOrigin(p geom.Point) { n.boundsOrigin = p }

// SetFirstResponder marks or clears the node as the first responder.
func (n *Node) SetFirstResponder(on bool) { n.firstResponder = on }

// AddSubview appends child, detaching it from any previous parent first.
func (n *Node) AddSubview(child *Node) {
	child.RemoveFromSuperview()
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveFromSuperview detaches n from its parent.
func (n *Node) RemoveFromSuperview() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}
