package display

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Stage is the display root. It owns the top-level container, turns raw
// pointer state into node events and paints the attached tree.
//
// Stage is not safe for concurrent use; it belongs to the update goroutine.
type Stage struct {
	root *Node

	hover   *Node // node under the pointer after the last Feed
	pressed *Node // node that received the last pointer down
	down    bool
	fed     bool
	x, y    float64

	moveHandlers []func(x, y float64)
	downHandlers []func(x, y float64)
	hitBuf       []*Node

	touchIDs []ebiten.TouchID
	touching bool
}

// NewStage creates a stage with an empty root container.
func NewStage() *Stage {
	root := NewContainer("stage")
	return &Stage{root: root}
}

// Root returns the stage's root container.
func (s *Stage) Root() *Node {
	return s.root
}

// Attach adds n on top of everything currently attached.
func (s *Stage) Attach(n *Node) {
	s.root.AddChild(n)
}

// Detach removes n from the root and reports whether it was attached.
// Pointer tracking that pointed into n is dropped.
func (s *Stage) Detach(n *Node) bool {
	if !s.root.RemoveChild(n) {
		return false
	}
	if s.hover != nil && s.hover.IsDescendantOf(n) {
		s.hover = nil
	}
	if s.pressed != nil && s.pressed.IsDescendantOf(n) {
		s.pressed = nil
	}
	return true
}

// Attached reports whether n is a direct child of the root.
func (s *Stage) Attached(n *Node) bool {
	return n != nil && n.parent == s.root
}

// BringToFront re-attaches n as the topmost root child.
func (s *Stage) BringToFront(n *Node) {
	s.root.AddChild(n)
}

// OnPointerMove registers a stage-level callback for every pointer move.
func (s *Stage) OnPointerMove(fn func(x, y float64)) {
	s.moveHandlers = append(s.moveHandlers, fn)
}

// OnPointerDown registers a stage-level callback for every primary press,
// regardless of what lies under the pointer.
func (s *Stage) OnPointerDown(fn func(x, y float64)) {
	s.downHandlers = append(s.downHandlers, fn)
}

// PointerPosition returns the last fed pointer position.
func (s *Stage) PointerPosition() (float64, float64) {
	return s.x, s.y
}

// Update polls Ebitengine input and feeds it to the stage. Touch input
// takes priority over the mouse while a finger is down.
func (s *Stage) Update() {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(s.touchIDs[0])
		s.touching = true
		s.Feed(float64(tx), float64(ty), true)
		return
	}
	if s.touching {
		// finger lifted: release at the last known position
		s.touching = false
		s.Feed(s.x, s.y, false)
		return
	}
	mx, my := ebiten.CursorPosition()
	s.Feed(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// Feed advances the pointer state machine with one sample and dispatches
// the resulting events in order: move, out/over, down or up/upoutside.
func (s *Stage) Feed(x, y float64, pressed bool) {
	moved := !s.fed || x != s.x || y != s.y
	s.fed = true
	s.x, s.y = x, y

	target := s.HitTest(x, y)

	if moved {
		for _, fn := range s.moveHandlers {
			fn(x, y)
		}
		if target != nil {
			dispatch(EventPointerMove, target, x, y)
		}
	}

	if target != s.hover {
		if prev := s.hover; prev != nil {
			s.hover = nil
			dispatch(EventPointerOut, prev, x, y)
		}
		s.hover = target
		if target != nil {
			dispatch(EventPointerOver, target, x, y)
		}
	}

	switch {
	case pressed && !s.down:
		s.down = true
		for _, fn := range s.downHandlers {
			fn(x, y)
		}
		s.pressed = target
		if target != nil {
			dispatch(EventPointerDown, target, x, y)
		}
	case !pressed && s.down:
		s.down = false
		p := s.pressed
		s.pressed = nil
		if target != nil {
			dispatch(EventPointerUp, target, x, y)
		}
		if p != nil && (target == nil || !target.IsDescendantOf(p)) {
			dispatch(EventPointerUpOutside, p, x, y)
		}
	}
}

// HitTest returns the topmost interactive node containing (x, y), or nil.
func (s *Stage) HitTest(x, y float64) *Node {
	s.hitBuf = collectInteractive(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		r, ok := n.hitRect()
		if !ok {
			continue
		}
		gx, gy := n.GlobalPosition()
		if r.Contains(x-gx, y-gy) {
			return n
		}
	}
	return nil
}

// collectInteractive walks the tree in paint order, skipping hidden
// subtrees and subtrees with InteractiveChildren disabled.
func collectInteractive(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.Interactive {
		buf = append(buf, n)
	}
	if !n.InteractiveChildren {
		return buf
	}
	for _, c := range n.children {
		buf = collectInteractive(c, buf)
	}
	return buf
}

// Draw paints every attached node onto screen.
func (s *Stage) Draw(screen *ebiten.Image) {
	s.root.Draw(screen)
}
