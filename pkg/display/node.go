package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NodeType distinguishes what a node draws.
type NodeType int

const (
	// NodeTypeContainer draws nothing itself; it only groups children.
	NodeTypeContainer NodeType = iota
	// NodeTypeSprite draws an image.
	NodeTypeSprite
	// NodeTypeText draws a single line of text.
	NodeTypeText
)

// Rect is an axis-aligned rectangle in a node's local coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Label is the text payload of a NodeTypeText node.
type Label struct {
	Text  string
	Face  text.Face
	Color color.Color
}

// Node is the scene graph element used for every visual: containers,
// sprites and text all share this struct.
type Node struct {
	Name string
	Type NodeType

	// Position relative to the parent.
	X, Y float64

	Alpha   float64
	Visible bool

	// Interactive makes the node itself a hit-test candidate. It needs a
	// HitArea or drawable content to be hit.
	Interactive bool
	// InteractiveChildren gates hit testing of the whole subtree.
	InteractiveChildren bool
	// HitArea overrides the region derived from the image or label.
	HitArea *Rect

	Image *ebiten.Image
	Label *Label

	parent   *Node
	children []*Node
	handlers map[EventType][]Handler
}

func newNode(name string, t NodeType) *Node {
	return &Node{
		Name:                name,
		Type:                t,
		Alpha:               1,
		Visible:             true,
		InteractiveChildren: true,
	}
}

// NewContainer creates an empty grouping node.
func NewContainer(name string) *Node {
	return newNode(name, NodeTypeContainer)
}

// NewSprite creates a node that draws img. img may be nil (draws nothing).
func NewSprite(name string, img *ebiten.Image) *Node {
	n := newNode(name, NodeTypeSprite)
	n.Image = img
	return n
}

// NewText creates a single-line text node.
func NewText(name, str string, face text.Face, clr color.Color) *Node {
	n := newNode(name, NodeTypeText)
	n.Label = &Label{Text: str, Face: face, Color: clr}
	return n
}

// SetPosition sets the node's local position.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list in paint order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// AddChild appends child on top of the existing children. A child that
// already has a parent is moved.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child and reports whether it was a direct child.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveFromParent detaches the node from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// IsDescendantOf reports whether n is ancestor or lies below it.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// GlobalPosition returns the node's origin in screen coordinates.
func (n *Node) GlobalPosition() (float64, float64) {
	x, y := 0.0, 0.0
	for p := n; p != nil; p = p.parent {
		x += p.X
		y += p.Y
	}
	return x, y
}

// Size returns the node's own drawable size (children are not included).
func (n *Node) Size() (float64, float64) {
	switch {
	case n.HitArea != nil:
		return n.HitArea.Width, n.HitArea.Height
	case n.Image != nil:
		b := n.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	case n.Label != nil && n.Label.Face != nil:
		return text.Measure(n.Label.Text, n.Label.Face, 0)
	}
	return 0, 0
}

// hitRect returns the local hit region and whether the node has one.
func (n *Node) hitRect() (Rect, bool) {
	if n.HitArea != nil {
		return *n.HitArea, true
	}
	w, h := n.Size()
	if w == 0 && h == 0 {
		return Rect{}, false
	}
	return Rect{Width: w, Height: h}, true
}

// On registers h for events of type t on this node.
func (n *Node) On(t EventType, h Handler) {
	if n.handlers == nil {
		n.handlers = make(map[EventType][]Handler)
	}
	n.handlers[t] = append(n.handlers[t], h)
}

// Off removes every handler for t.
func (n *Node) Off(t EventType) {
	delete(n.handlers, t)
}

func (n *Node) emit(e *Event) {
	for _, h := range n.handlers[e.Type] {
		h(e)
		if e.stopped {
			return
		}
	}
}

// Draw paints the node and its visible children onto dst.
func (n *Node) Draw(dst *ebiten.Image) {
	n.draw(dst, 0, 0, 1)
}

func (n *Node) draw(dst *ebiten.Image, ox, oy, alpha float64) {
	if !n.Visible {
		return
	}
	x, y := ox+n.X, oy+n.Y
	a := alpha * n.Alpha
	if a <= 0 {
		return
	}

	switch n.Type {
	case NodeTypeSprite:
		if n.Image != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, y)
			op.ColorScale.ScaleAlpha(float32(a))
			dst.DrawImage(n.Image, op)
		}
	case NodeTypeText:
		if n.Label != nil && n.Label.Face != nil {
			op := &text.DrawOptions{}
			op.GeoM.Translate(x, y)
			if n.Label.Color != nil {
				op.ColorScale.ScaleWithColor(n.Label.Color)
			}
			op.ColorScale.ScaleAlpha(float32(a))
			text.Draw(dst, n.Label.Text, n.Label.Face, op)
		}
	}

	for _, c := range n.children {
		c.draw(dst, x, y, a)
	}
}
