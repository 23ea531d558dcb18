// Package cursor 实现跟随指针的自定义光标层
//
// 光标层持有两张图：默认光标与交互光标（悬停在按钮上时显示）。
// 两张图在 EnsureReady 中并发加载且只加载一次；加载完成前的模式切换会被记录，
// 就绪后生效。就绪后隐藏系统光标。
package cursor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// 光标贴图在资源清单中的位置
const (
	Category       = "Cursor"
	KeyDefault     = "Pointer"
	KeyInteractive = "Button"
)

// Mode 光标模式
type Mode int

const (
	// ModeDefault 默认箭头
	ModeDefault Mode = iota
	// ModeInteractive 可点击元素上的手型
	ModeInteractive
)

func (m Mode) String() string {
	if m == ModeInteractive {
		return "interactive"
	}
	return "default"
}

// TextureResolver 光标贴图来源，resource.View 满足该接口
type TextureResolver interface {
	ResolveTexture(ctx context.Context, category, key string) (*resource.Texture, error)
}

// Option 光标层构造选项
type Option func(*Overlay)

// WithPrepare 设置加载贴图前执行的准备步骤（通常是加载并选中资源集）
func WithPrepare(fn func(ctx context.Context) error) Option {
	return func(o *Overlay) { o.prepare = fn }
}

// WithSystemCursor 替换隐藏系统光标的方式，默认调用 ebiten.SetCursorMode
func WithSystemCursor(fn func(ebiten.CursorModeType)) Option {
	return func(o *Overlay) { o.setCursorMode = fn }
}

// Overlay 自定义光标层
//
// EnsureReady 可在任意 goroutine 并发调用；其余方法只能在更新 goroutine 调用。
type Overlay struct {
	src           TextureResolver
	prepare       func(ctx context.Context) error
	setCursorMode func(ebiten.CursorModeType)

	node        *display.Node
	def         *display.Node
	interactive *display.Node
	mode        Mode

	once    sync.Once
	done    chan struct{}
	defImg  *ebiten.Image
	intImg  *ebiten.Image
	loadErr error

	applied bool
}

// New 创建光标层，贴图在 EnsureReady 时才加载
func New(src TextureResolver, opts ...Option) *Overlay {
	o := &Overlay{
		src:           src,
		setCursorMode: ebiten.SetCursorMode,
		node:          display.NewContainer("cursor"),
		def:           display.NewSprite("cursor/default", nil),
		interactive:   display.NewSprite("cursor/interactive", nil),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	// 就绪前整个光标层不可见
	o.node.Visible = false
	o.node.InteractiveChildren = false
	o.node.AddChild(o.def)
	o.node.AddChild(o.interactive)
	o.show(ModeDefault)
	return o
}

// Node 返回光标层根节点
func (o *Overlay) Node() *display.Node { return o.node }

// Mode 返回当前模式
func (o *Overlay) Mode() Mode { return o.mode }

// EnsureReady 确保两张光标贴图已加载
//
// 首次调用发起加载，之后的调用（包括并发调用）等待同一次加载并得到相同的结果。
// 加载失败不会重试。ctx 只控制本次等待，不会取消正在进行的加载。
func (o *Overlay) EnsureReady(ctx context.Context) error {
	o.once.Do(func() {
		go o.load(context.WithoutCancel(ctx))
	})
	select {
	case <-o.done:
		return o.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Overlay) load(ctx context.Context) {
	defer close(o.done)

	if o.prepare != nil {
		if err := o.prepare(ctx); err != nil {
			o.loadErr = fmt.Errorf("cursor: prepare: %w", err)
			log.Printf("[Cursor] %v", o.loadErr)
			return
		}
	}

	var defImg, intImg *ebiten.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tex, err := o.src.ResolveTexture(gctx, Category, KeyDefault)
		if err != nil {
			return err
		}
		defImg = tex.Image
		return nil
	})
	g.Go(func() error {
		tex, err := o.src.ResolveTexture(gctx, Category, KeyInteractive)
		if err != nil {
			return err
		}
		intImg = tex.Image
		return nil
	})
	if err := g.Wait(); err != nil {
		o.loadErr = fmt.Errorf("cursor: %w", err)
		log.Printf("[Cursor] Failed to load cursor textures: %v", err)
		return
	}
	o.defImg, o.intImg = defImg, intImg
	log.Printf("[Cursor] Cursor textures loaded")
}

// Ready 报告贴图是否已加载成功（非阻塞）
func (o *Overlay) Ready() bool {
	select {
	case <-o.done:
		return o.loadErr == nil
	default:
		return false
	}
}

// Update 在更新 goroutine 上把加载结果挂到显示树，每帧调用
func (o *Overlay) Update() {
	if o.applied || !o.Ready() {
		return
	}
	o.applied = true
	o.def.Image = o.defImg
	o.interactive.Image = o.intImg
	o.node.Visible = true
	o.show(o.mode)
	o.setCursorMode(ebiten.CursorModeHidden)
}

// SetDefault 切换到默认光标
func (o *Overlay) SetDefault() { o.show(ModeDefault) }

// SetInteractive 切换到交互光标
func (o *Overlay) SetInteractive() { o.show(ModeInteractive) }

// show 先隐藏当前光标再显示目标光标，保证任意时刻恰好一张可见
func (o *Overlay) show(m Mode) {
	cur, next := o.visual(o.mode), o.visual(m)
	cur.Visible = false
	o.mode = m
	next.Visible = true
}

func (o *Overlay) visual(m Mode) *display.Node {
	if m == ModeInteractive {
		return o.interactive
	}
	return o.def
}

// FollowPointer 把光标层移动到指针位置，不做其他处理
func (o *Overlay) FollowPointer(x, y float64) {
	o.node.SetPosition(x, y)
}

// Visible 返回当前可见的光标图节点
func (o *Overlay) Visible() []*display.Node {
	var out []*display.Node
	for _, n := range []*display.Node{o.def, o.interactive} {
		if n.Visible {
			out = append(out, n)
		}
	}
	return out
}
