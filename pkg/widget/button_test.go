package widget

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2"
)

type cursorLog struct {
	calls []string
}

func (c *cursorLog) SetDefault()     { c.calls = append(c.calls, "default") }
func (c *cursorLog) SetInteractive() { c.calls = append(c.calls, "interactive") }

func (c *cursorLog) last() string {
	if len(c.calls) == 0 {
		return ""
	}
	return c.calls[len(c.calls)-1]
}

func images(w, h int) (*ebiten.Image, *ebiten.Image, *ebiten.Image) {
	return ebiten.NewImage(w, h), ebiten.NewImage(w, h), ebiten.NewImage(w, h)
}

// newTestButton 创建位于 (100,100)，尺寸 50x20 的按钮并挂到舞台上
func newTestButton(t *testing.T, opts ...Option) (*Button, *display.Stage, *[]Activated) {
	t.Helper()
	n, h, p := images(50, 20)
	opts = append([]Option{WithPosition(100, 100)}, opts...)
	b, err := NewButton("start", n, h, p, opts...)
	if err != nil {
		t.Fatalf("NewButton() error = %v", err)
	}
	var got []Activated
	b.OnActivated(func(a Activated) { got = append(got, a) })

	stage := display.NewStage()
	stage.Attach(b.Node())
	return b, stage, &got
}

func assertInvariant(t *testing.T, b *Button) {
	t.Helper()
	vis := b.VisibleStates()
	if len(vis) != 1 {
		t.Fatalf("visible states = %v, want exactly one", vis)
	}
	if vis[0] != b.State() {
		t.Fatalf("visible state %v does not match state %v", vis[0], b.State())
	}
	if b.IsPressed() != (b.State() == StatePressed) {
		t.Fatalf("isPressed = %v in state %v", b.IsPressed(), b.State())
	}
}

func TestNewButton_MissingVisual(t *testing.T) {
	img := ebiten.NewImage(4, 4)
	tests := []struct {
		name             string
		normal, hov, prs *ebiten.Image
		missing          string
	}{
		{"no normal", nil, img, img, "normal"},
		{"no hover", img, nil, img, "hover"},
		{"no pressed", img, img, nil, "pressed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewButton("b", tt.normal, tt.hov, tt.prs)
			if !errors.Is(err, ErrMissingVisual) {
				t.Fatalf("NewButton() error = %v, want ErrMissingVisual", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q should name %q", err, tt.missing)
			}
		})
	}
}

func TestButton_InitialState(t *testing.T) {
	b, _, _ := newTestButton(t)
	if b.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", b.State())
	}
	assertInvariant(t, b)
	if b.Node().HitArea == nil || b.Node().HitArea.Width != 50 || b.Node().HitArea.Height != 20 {
		t.Errorf("HitArea = %+v, want 50x20", b.Node().HitArea)
	}
}

func TestButton_Transitions(t *testing.T) {
	type step struct {
		x, y    float64
		pressed bool
		want    State
	}
	tests := []struct {
		name      string
		steps     []step
		activated int
		cursor    string
	}{
		{
			name: "hover and leave",
			steps: []step{
				{110, 110, false, StateHover},
				{10, 10, false, StateIdle},
			},
			cursor: "default",
		},
		{
			name: "press and release inside",
			steps: []step{
				{110, 110, false, StateHover},
				{110, 110, true, StatePressed},
				{110, 110, false, StateHover},
			},
			activated: 1,
			cursor:    "interactive",
		},
		{
			name: "press and drag out",
			steps: []step{
				{110, 110, false, StateHover},
				{110, 110, true, StatePressed},
				{10, 10, true, StateIdle},
				{10, 10, false, StateIdle},
			},
			cursor: "default",
		},
		{
			name: "drag out and back does not rearm",
			steps: []step{
				{110, 110, false, StateHover},
				{110, 110, true, StatePressed},
				{10, 10, true, StateIdle},
				{110, 110, true, StateHover},
				{110, 110, false, StateHover},
			},
			cursor: "interactive",
		},
		{
			name: "press outside then enter",
			steps: []step{
				{10, 10, true, StateIdle},
				{110, 110, true, StateHover},
				{110, 110, false, StateHover},
			},
			cursor: "interactive",
		},
		{
			name: "two clicks",
			steps: []step{
				{110, 110, false, StateHover},
				{110, 110, true, StatePressed},
				{110, 110, false, StateHover},
				{120, 105, true, StatePressed},
				{120, 105, false, StateHover},
			},
			activated: 2,
			cursor:    "interactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := &cursorLog{}
			b, stage, got := newTestButton(t, WithCursor(cur))
			for i, s := range tt.steps {
				stage.Feed(s.x, s.y, s.pressed)
				if b.State() != s.want {
					t.Fatalf("step %d: State() = %v, want %v", i, b.State(), s.want)
				}
				assertInvariant(t, b)
			}
			if len(*got) != tt.activated {
				t.Errorf("activations = %d, want %d", len(*got), tt.activated)
			}
			for _, a := range *got {
				if a.WidgetID != "start" {
					t.Errorf("WidgetID = %q, want start", a.WidgetID)
				}
			}
			if cur.last() != tt.cursor {
				t.Errorf("last cursor request = %q, want %q (all: %v)", cur.last(), tt.cursor, cur.calls)
			}
		})
	}
}

// TestButton_UpOutsideResets 直接投递 pointerupoutside（指针未离开前不会有 pointerout 的情况）
func TestButton_UpOutsideResets(t *testing.T) {
	cur := &cursorLog{}
	b, _, got := newTestButton(t, WithCursor(cur))
	send := func(et display.EventType) {
		e := &display.Event{Type: et, Target: b.Node(), CurrentTarget: b.Node()}
		switch et {
		case display.EventPointerOver:
			b.onPointerOver(e)
		case display.EventPointerDown:
			b.onPointerDown(e)
		case display.EventPointerUpOutside:
			b.onPointerUpOutside(e)
		}
	}
	send(display.EventPointerOver)
	send(display.EventPointerDown)
	send(display.EventPointerUpOutside)

	if b.State() != StateIdle || b.IsPressed() {
		t.Errorf("after upoutside: state %v pressed %v, want Idle/false", b.State(), b.IsPressed())
	}
	if len(*got) != 0 {
		t.Errorf("activations = %d, want 0", len(*got))
	}
	if cur.last() != "default" {
		t.Errorf("last cursor request = %q, want default", cur.last())
	}
}

func TestButton_DownStopsPropagation(t *testing.T) {
	b, stage, _ := newTestButton(t)
	parent := display.NewContainer("parent")
	parentDowns := 0
	parent.On(display.EventPointerDown, func(e *display.Event) { parentDowns++ })

	stage.Detach(b.Node())
	parent.AddChild(b.Node())
	stage.Attach(parent)

	stage.Feed(110, 110, false)
	stage.Feed(110, 110, true)
	if parentDowns != 0 {
		t.Errorf("parent saw %d pointerdown events, want 0", parentDowns)
	}
}

func TestButton_Overlay(t *testing.T) {
	b, stage, _ := newTestButton(t, WithOverlay(ebiten.NewImage(50, 20)))
	if b.OverlayVisible() {
		t.Fatal("overlay visible while idle")
	}
	stage.Feed(110, 110, false)
	if !b.OverlayVisible() {
		t.Error("overlay hidden while hovered")
	}
	stage.Feed(110, 110, true)
	if b.OverlayVisible() {
		t.Error("overlay visible while pressed")
	}
}

func TestButton_Retire(t *testing.T) {
	cur := &cursorLog{}
	b, stage, got := newTestButton(t, WithCursor(cur))
	stage.Feed(110, 110, false)
	b.Retire()

	stage.Feed(110, 110, true)
	stage.Feed(110, 110, false)
	stage.Feed(10, 10, false)

	if b.State() != StateHover {
		t.Errorf("retired button changed state to %v", b.State())
	}
	if len(*got) != 0 {
		t.Errorf("retired button activated %d times", len(*got))
	}
	if len(cur.calls) != 1 {
		t.Errorf("cursor calls = %v, want only the pre-retire request", cur.calls)
	}
}

// TestButton_RandomSequences 随机指针序列下状态不变量始终成立，
// 且每次触发都恰好对应一次命中区域内的完整按下-释放
func TestButton_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := [][2]float64{{110, 110}, {149, 119}, {10, 10}, {99, 99}, {200, 110}}

	for run := 0; run < 200; run++ {
		b, stage, got := newTestButton(t)
		want := 0
		armed := false
		inside := false
		pressed := false

		for i := 0; i < 40; i++ {
			p := points[rng.Intn(len(points))]
			down := rng.Intn(2) == 0
			nowInside := p[0] >= 100 && p[0] <= 150 && p[1] >= 100 && p[1] <= 120

			// 参考模型
			if inside && !nowInside {
				armed = false
			}
			if down && !pressed && nowInside {
				armed = true
			}
			if !down && pressed {
				if armed && nowInside {
					want++
				}
				armed = false
			}
			inside, pressed = nowInside, down

			stage.Feed(p[0], p[1], down)
			assertInvariant(t, b)
		}
		if len(*got) != want {
			t.Fatalf("run %d: activations = %d, want %d", run, len(*got), want)
		}
	}
}

// loginSource 模拟 login 资源集：只有 stage1 三态齐全
type loginSource struct {
	have map[string]bool
}

func (s *loginSource) ResolveTexture(ctx context.Context, category, key string) (*resource.Texture, error) {
	if !s.have[category+"/"+key] {
		return nil, &resource.ResourceNotFoundError{Set: "login", Category: category, Key: key}
	}
	return &resource.Texture{Path: category + "/" + key, Image: ebiten.NewImage(60, 60)}, nil
}

func TestLoad_StageButton(t *testing.T) {
	src := &loginSource{have: map[string]bool{
		"StageSelect/stage1_0": true,
		"StageSelect/stage1_1": true,
		"StageSelect/stage1_2": true,
		"StageSelect/stage2_0": true,
	}}

	b, err := Load(context.Background(), src, "stage1", "StageSelect", "stage1_", WithPosition(220, 95))
	if err != nil {
		t.Fatalf("Load(stage1) error = %v", err)
	}
	if b.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", b.State())
	}

	_, err = Load(context.Background(), src, "stage2", "StageSelect", "stage2_")
	if !errors.Is(err, ErrMissingVisual) {
		t.Errorf("Load(stage2) error = %v, want ErrMissingVisual", err)
	}
	if !errors.Is(err, resource.ErrNotFound) {
		t.Errorf("Load(stage2) error = %v, want wrapped ErrNotFound", err)
	}
}

func TestTextButton_CenteredLabel(t *testing.T) {
	n, h, p := images(104, 30)
	tb, err := NewTextButton("next", "Next", nil, 16, color.White, n, h, p)
	if err != nil {
		t.Fatalf("NewTextButton() error = %v", err)
	}
	if tb.Caption() != "Next" {
		t.Errorf("Caption() = %q", tb.Caption())
	}
	lw, lh := tb.LabelNode().Size()
	if lw <= 0 || lh <= 0 {
		t.Fatalf("label size = %vx%v, want positive", lw, lh)
	}
	if got, want := tb.LabelNode().X, (104-lw)/2; got != want {
		t.Errorf("label X = %v, want %v", got, want)
	}

	tb.SetCaption("Previous page")
	lw, _ = tb.LabelNode().Size()
	if got, want := tb.LabelNode().X, (104-lw)/2; got != want {
		t.Errorf("label X after SetCaption = %v, want %v", got, want)
	}
	if tb.LabelNode().Interactive {
		t.Error("label must not be interactive")
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{StateIdle: "Idle", StateHover: "Hover", StatePressed: "Pressed", State(9): "State(9)"} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
