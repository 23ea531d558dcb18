package display

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AlphaTween animates a node's Alpha. Call Update(dt) every frame; dt uses
// the same unit as duration.
type AlphaTween struct {
	node     *Node
	tween    *gween.Tween
	from, to float32
	duration float32
	fn       ease.TweenFunc
	loop     bool
	Done     bool
}

// TweenAlpha fades node from its current alpha to to.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *AlphaTween {
	from := float32(node.Alpha)
	return &AlphaTween{
		node:     node,
		tween:    gween.New(from, float32(to), duration, fn),
		from:     from,
		to:       float32(to),
		duration: duration,
		fn:       fn,
	}
}

// PulseAlpha swings node's alpha between low and high until stopped.
func PulseAlpha(node *Node, low, high float64, duration float32, fn ease.TweenFunc) *AlphaTween {
	node.Alpha = high
	t := TweenAlpha(node, low, duration, fn)
	t.loop = true
	return t
}

// Update advances the tween and writes the value to the node.
func (t *AlphaTween) Update(dt float32) {
	if t.Done {
		return
	}
	val, finished := t.tween.Update(dt)
	t.node.Alpha = float64(val)
	if !finished {
		return
	}
	if !t.loop {
		t.Done = true
		return
	}
	t.from, t.to = t.to, t.from
	t.tween = gween.New(t.from, t.to, t.duration, t.fn)
}

// Stop ends the tween, leaving the node's alpha where it is.
func (t *AlphaTween) Stop() { t.Done = true }
