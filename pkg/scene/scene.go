// Package scene 定义场景生命周期以及负责切换场景的 Host
//
// 每个场景拥有一棵根容器节点。Host 同一时刻最多挂载一个 Active 场景，
// 切换时先卸下旧场景，再异步初始化新场景，初始化完成后在更新 goroutine 上挂载。
package scene

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/widget"
)

// Lifecycle 场景生命周期
type Lifecycle int32

const (
	// Constructed 已创建，尚未交给 Host
	Constructed Lifecycle = iota
	// Initializing Init 正在运行
	Initializing
	// Active 已挂载，接收输入和帧更新
	Active
	// Retired 已退役，不再接收任何输入
	Retired
)

func (l Lifecycle) String() string {
	switch l {
	case Constructed:
		return "Constructed"
	case Initializing:
		return "Initializing"
	case Active:
		return "Active"
	case Retired:
		return "Retired"
	}
	return fmt.Sprintf("Lifecycle(%d)", int32(l))
}

// Scene 可被 Host 切换的场景
//
// 具体场景通过嵌入 *Base 实现该接口。
type Scene interface {
	// Name 场景名，用于日志和错误
	Name() string
	// Init 选择资源集、解析资源并构建控件，在独立 goroutine 上运行
	// 返回错误时，若根节点已有内容，场景仍以降级状态激活
	Init(ctx context.Context) error
	// Update 每帧调用，仅在 Active 状态下调用，dt 以帧为单位
	Update(dt float64)
	// Root 返回场景根节点
	Root() *display.Node

	base() *Base
}

// Base 场景公共部分：根节点、生命周期、控件登记和观察者列表
type Base struct {
	name  string
	root  *display.Node
	state atomic.Int32
	host  atomic.Pointer[Host]

	mu        sync.Mutex
	widgets   []*widget.Button
	routes    map[string][]func()
	observers []func(widget.Activated)
}

// NewBase 创建场景公共部分
func NewBase(name string) *Base {
	return &Base{
		name:   name,
		root:   display.NewContainer(name),
		routes: make(map[string][]func()),
	}
}

func (b *Base) base() *Base { return b }

// Name 返回场景名
func (b *Base) Name() string { return b.name }

// Root 返回场景根节点
func (b *Base) Root() *display.Node { return b.root }

// Update 默认不做任何事
func (b *Base) Update(dt float64) {}

// Lifecycle 返回当前生命周期
func (b *Base) Lifecycle() Lifecycle { return Lifecycle(b.state.Load()) }

func (b *Base) setLifecycle(l Lifecycle) { b.state.Store(int32(l)) }

// Host 返回管理该场景的 Host，未交给 Host 前为 nil
func (b *Base) Host() *Host { return b.host.Load() }

// Cursor 返回 Host 的光标层，控件悬停时通过它切换光标
func (b *Base) Cursor() widget.CursorRequester {
	if h := b.Host(); h != nil && h.cursor != nil {
		return h.cursor
	}
	return nil
}

// AddWidget 登记控件：控件的 Activated 事件汇入场景观察者列表，场景退役时控件一并退役
func (b *Base) AddWidget(w *widget.Button) {
	b.mu.Lock()
	b.widgets = append(b.widgets, w)
	b.mu.Unlock()
	w.OnActivated(b.dispatch)
}

// Widgets 返回已登记的控件
func (b *Base) Widgets() []*widget.Button {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*widget.Button, len(b.widgets))
	copy(out, b.widgets)
	return out
}

// OnActivated 注册观察者，收到场景内任意控件的 Activated 事件
func (b *Base) OnActivated(fn func(widget.Activated)) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Handle 为指定控件注册点击处理
func (b *Base) Handle(widgetID string, fn func()) {
	b.mu.Lock()
	b.routes[widgetID] = append(b.routes[widgetID], fn)
	b.mu.Unlock()
}

// dispatch 仅在 Active 状态下把事件交给观察者
func (b *Base) dispatch(ev widget.Activated) {
	if b.Lifecycle() != Active {
		return
	}
	b.mu.Lock()
	observers := append([]func(widget.Activated){}, b.observers...)
	routes := append([]func(){}, b.routes[ev.WidgetID]...)
	b.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
	for _, fn := range routes {
		fn()
	}
}

// retire 场景退役：生命周期置为 Retired，所有控件退役
func (b *Base) retire() {
	b.setLifecycle(Retired)
	for _, w := range b.Widgets() {
		w.Retire()
	}
}
