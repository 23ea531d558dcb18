// Package scenes 包含应用的具体场景：欢迎界面（主菜单 + CG 画廊）和关卡选择界面
package scenes

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/decker502/vnmenu/pkg/save"
	"github.com/decker502/vnmenu/pkg/scene"
	"github.com/decker502/vnmenu/pkg/widget"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 场景名，同时也是各自的资源集 ID
const (
	WelcomeSceneName = "welcome"
	LoginSceneName   = "login"
)

// Env 场景共享的依赖
type Env struct {
	Resolver *resource.Resolver
	// Audio 为 nil 时不播放音乐
	Audio       *audio.Context
	MusicVolume float64
	Save        *save.Store
	// OnStageSelected 关卡被选中时调用（stage 从 1 开始），可为 nil
	OnStageSelected func(stage int)
}

// builder 场景初始化辅助：创建元素失败时记录日志并收集错误，继续构建其余部分
type builder struct {
	ctx   context.Context
	tag   string
	view  *resource.View
	base  *scene.Base
	errs  []error
	white color.Color
}

func newBuilder(ctx context.Context, tag string, view *resource.View, base *scene.Base) *builder {
	return &builder{ctx: ctx, tag: tag, view: view, base: base, white: color.White}
}

// sprite 创建精灵并加到 parent 上，失败返回 nil
func (b *builder) sprite(parent *display.Node, category, key string, x, y float64) *display.Node {
	n, err := b.view.ResolveSprite(b.ctx, category, key)
	if err != nil {
		b.fail(fmt.Errorf("sprite %s/%s: %w", category, key, err))
		return nil
	}
	n.SetPosition(x, y)
	parent.AddChild(n)
	return n
}

// button 创建三态按钮并登记到场景，点击时调用 onClick
func (b *builder) button(parent *display.Node, name, category, prefix string, x, y float64, onClick func()) *widget.Button {
	btn, err := widget.Load(b.ctx, b.view, name, category, prefix,
		widget.WithPosition(x, y), widget.WithCursor(b.base.Cursor()))
	if err != nil {
		b.fail(err)
		return nil
	}
	b.register(parent, btn, onClick)
	return btn
}

// textButton 创建文字按钮并登记到场景
func (b *builder) textButton(parent *display.Node, name, caption string, fontSize float64,
	category, prefix string, x, y float64, onClick func()) *widget.TextButton {
	normal, hover, pressed, err := widget.ResolveStates(b.ctx, b.view, category, prefix)
	if err != nil {
		b.fail(fmt.Errorf("button %q: %w", name, errors.Join(widget.ErrMissingVisual, err)))
		return nil
	}
	tb, err := widget.NewTextButton(name, caption, nil, fontSize, b.white, normal, hover, pressed,
		widget.WithPosition(x, y), widget.WithCursor(b.base.Cursor()))
	if err != nil {
		b.fail(err)
		return nil
	}
	b.register(parent, tb.Button, onClick)
	return tb
}

func (b *builder) register(parent *display.Node, btn *widget.Button, onClick func()) {
	b.base.AddWidget(btn)
	if onClick != nil {
		b.base.Handle(btn.Name(), onClick)
	}
	parent.AddChild(btn.Node())
}

func (b *builder) fail(err error) {
	log.Printf("[%s] %v", b.tag, err)
	b.errs = append(b.errs, err)
}

func (b *builder) err() error {
	return errors.Join(b.errs...)
}

// selectSet 加载并选中场景的资源集
func selectSet(ctx context.Context, r *resource.Resolver, view *resource.View, setID string) error {
	if err := r.LoadSet(ctx, setID); err != nil {
		return err
	}
	return view.SelectSet(setID)
}
