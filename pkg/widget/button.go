// Package widget 实现所有可点击界面元素共用的三态按钮状态机
//
// 状态转换（输入为按钮命中区域上的原始指针事件）：
//
//	Idle    --pointerover-->      Hover    显示悬停图 + 遮罩，请求交互光标
//	Hover   --pointerout-->       Idle     显示常态图，请求默认光标
//	Hover   --pointerdown-->      Pressed  显示按下图，阻止事件继续冒泡
//	Pressed --pointerup-->        Hover    显示悬停图，发出 Activated，阻止冒泡
//	Pressed --pointerupoutside--> Idle     显示常态图，清除按下标记，不触发
//	Pressed --pointerout-->       Idle     同上
//
// 表外的事件一律忽略。已退役（Retire）的按钮忽略所有事件。
package widget

import (
	"errors"
	"fmt"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrMissingVisual 按钮缺少三态图片之一
var ErrMissingVisual = errors.New("widget: missing visual")

// State 按钮交互状态
type State int

const (
	// StateIdle 常态
	StateIdle State = iota
	// StateHover 悬停
	StateHover
	// StatePressed 按下
	StatePressed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateHover:
		return "Hover"
	case StatePressed:
		return "Pressed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Activated 按钮被点击（在命中区域内按下并释放）时发出的唯一事件
type Activated struct {
	WidgetID string
}

// CursorRequester 按钮向光标层发出的请求（不阻塞状态转换）
type CursorRequester interface {
	SetDefault()
	SetInteractive()
}

// Option 按钮构造选项
type Option func(*Button)

// WithOverlay 设置悬停时叠加显示的半透明遮罩
func WithOverlay(img *ebiten.Image) Option {
	return func(b *Button) {
		if img == nil {
			return
		}
		b.overlay = display.NewSprite(b.name+"/overlay", img)
		b.overlay.Visible = false
	}
}

// WithCursor 设置悬停时切换的光标层
func WithCursor(c CursorRequester) Option {
	return func(b *Button) {
		b.cursor = c
	}
}

// WithPosition 设置按钮位置（父容器坐标）
func WithPosition(x, y float64) Option {
	return func(b *Button) {
		b.node.SetPosition(x, y)
	}
}

// Button 三态按钮
//
// 不变量：normal/hover/pressed 三张图任意时刻恰好一张可见，
// 遮罩（如有）与 hover 同步显示。
type Button struct {
	name string
	node *display.Node

	normal  *display.Node
	hover   *display.Node
	pressed *display.Node
	overlay *display.Node

	state     State
	isPressed bool
	retired   bool

	cursor    CursorRequester
	observers []func(Activated)
}

// NewButton 创建三态按钮
//
// 参数：
//   - name: 按钮标识，用于日志和区分 Activated 事件来源
//   - normal, hover, pressed: 三态图片，任一为 nil 时返回 ErrMissingVisual
//   - opts: 可选配置
//
// 返回：
//   - *Button: 处于 Idle 状态的按钮
//   - error: 缺图时的错误
func NewButton(name string, normal, hover, pressed *ebiten.Image, opts ...Option) (*Button, error) {
	var missing []string
	if normal == nil {
		missing = append(missing, "normal")
	}
	if hover == nil {
		missing = append(missing, "hover")
	}
	if pressed == nil {
		missing = append(missing, "pressed")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: button %q lacks %v", ErrMissingVisual, name, missing)
	}

	b := &Button{
		name:    name,
		node:    display.NewContainer(name),
		normal:  display.NewSprite(name+"/normal", normal),
		hover:   display.NewSprite(name+"/hover", hover),
		pressed: display.NewSprite(name+"/pressed", pressed),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.node.AddChild(b.normal)
	b.node.AddChild(b.hover)
	b.node.AddChild(b.pressed)
	if b.overlay != nil {
		b.node.AddChild(b.overlay)
	}

	// 命中区域取常态图尺寸
	w, h := b.normal.Size()
	b.node.Interactive = true
	b.node.HitArea = &display.Rect{Width: w, Height: h}

	b.node.On(display.EventPointerOver, b.onPointerOver)
	b.node.On(display.EventPointerOut, b.onPointerOut)
	b.node.On(display.EventPointerDown, b.onPointerDown)
	b.node.On(display.EventPointerUp, b.onPointerUp)
	b.node.On(display.EventPointerUpOutside, b.onPointerUpOutside)

	b.apply(StateIdle)
	return b, nil
}

// Name 返回按钮标识
func (b *Button) Name() string { return b.name }

// Node 返回按钮根节点，由场景挂到自己的容器上
func (b *Button) Node() *display.Node { return b.node }

// State 返回当前状态
func (b *Button) State() State { return b.state }

// IsPressed 返回按下标记
func (b *Button) IsPressed() bool { return b.isPressed }

// SetPosition 设置按钮位置
func (b *Button) SetPosition(x, y float64) { b.node.SetPosition(x, y) }

// OnActivated 注册点击回调
func (b *Button) OnActivated(fn func(Activated)) {
	b.observers = append(b.observers, fn)
}

// Retire 标记按钮退役，之后不再响应任何事件
func (b *Button) Retire() { b.retired = true }

// Retired 返回是否已退役
func (b *Button) Retired() bool { return b.retired }

// VisibleStates 返回当前可见的状态图（用于校验不变量）
func (b *Button) VisibleStates() []State {
	var out []State
	if b.normal.Visible {
		out = append(out, StateIdle)
	}
	if b.hover.Visible {
		out = append(out, StateHover)
	}
	if b.pressed.Visible {
		out = append(out, StatePressed)
	}
	return out
}

// OverlayVisible 返回遮罩是否可见（无遮罩时为 false）
func (b *Button) OverlayVisible() bool {
	return b.overlay != nil && b.overlay.Visible
}

// apply 切换状态并同步三态图可见性
func (b *Button) apply(s State) {
	b.state = s
	b.normal.Visible = s == StateIdle
	b.hover.Visible = s == StateHover
	b.pressed.Visible = s == StatePressed
	if b.overlay != nil {
		b.overlay.Visible = s == StateHover
	}
}

func (b *Button) requestCursor(interactive bool) {
	if b.cursor == nil {
		return
	}
	if interactive {
		b.cursor.SetInteractive()
	} else {
		b.cursor.SetDefault()
	}
}

func (b *Button) onPointerOver(e *display.Event) {
	if b.retired || b.state != StateIdle {
		return
	}
	b.apply(StateHover)
	b.requestCursor(true)
}

func (b *Button) onPointerOut(e *display.Event) {
	if b.retired {
		return
	}
	switch b.state {
	case StateHover, StatePressed:
		b.isPressed = false
		b.apply(StateIdle)
		b.requestCursor(false)
	}
}

func (b *Button) onPointerDown(e *display.Event) {
	if b.retired || b.state != StateHover {
		return
	}
	b.isPressed = true
	b.apply(StatePressed)
	e.StopPropagation()
}

func (b *Button) onPointerUp(e *display.Event) {
	if b.retired || b.state != StatePressed {
		return
	}
	b.isPressed = false
	b.apply(StateHover)
	e.StopPropagation()
	b.emit()
}

func (b *Button) onPointerUpOutside(e *display.Event) {
	if b.retired || b.state != StatePressed {
		return
	}
	b.isPressed = false
	b.apply(StateIdle)
	b.requestCursor(false)
}

func (b *Button) emit() {
	if b.retired {
		return
	}
	ev := Activated{WidgetID: b.name}
	for _, fn := range b.observers {
		fn(ev)
	}
}
