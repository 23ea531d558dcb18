package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/display"
	"github.com/tanema/gween/ease"
)

// gallery CG 画廊：模态面板（分页缩略图）和全屏查看器
//
// 面板或查看器打开期间，欢迎界面背景层不接收输入。
type gallery struct {
	owner *WelcomeScene

	layer  *display.Node // 半透明遮罩 + 面板
	board  *display.Node
	pages  []*display.Node
	page   int
	fade   *display.AlphaTween
	black  *display.Node
	viewer *display.Node
	images []*display.Node // 下标即 CG 编号，加载失败的为 nil
	shown  int
}

func newGallery(owner *WelcomeScene, b *builder) *gallery {
	g := &gallery{
		owner:  owner,
		layer:  display.NewContainer("cg/layer"),
		viewer: display.NewContainer("cg/viewer"),
		images: make([]*display.Node, config.CGCount),
		shown:  -1,
	}
	g.layer.Visible = false
	g.viewer.Visible = false

	// 遮罩拦截面板外的点击
	if mask := b.sprite(g.layer, "CGBoard", "CGAlpha", 0, 0); mask != nil {
		mask.Interactive = true
	}

	g.board = b.sprite(g.layer, "CGBoard", "board", config.CGBoardX, config.CGBoardY)
	if g.board == nil {
		// 面板缺失时仍需要一个容器承载按钮
		g.board = display.NewContainer("cg/board")
		g.board.SetPosition(config.CGBoardX, config.CGBoardY)
		g.layer.AddChild(g.board)
	}
	b.sprite(g.board, "CGBoard", "title", config.CGTitleX, config.CGTitleY)
	b.button(g.board, "CGClose", "CGBoard", "close", config.CGCloseX, config.CGCloseY, g.close)
	b.textButton(g.board, "CGPrev", "Previous", 12, "CGBoard", "page", config.CGPrevX, config.CGPagingY, func() { g.turn(-1) })
	b.textButton(g.board, "CGNext", "Next", 12, "CGBoard", "page", config.CGNextX, config.CGPagingY, func() { g.turn(1) })
	g.createThumbs(b)

	if g.black = b.sprite(owner.Root(), "CGBoard", "Black", 0, 0); g.black != nil {
		g.black.Visible = false
	}
	owner.Root().AddChild(g.layer)
	g.createViewer(b)
	owner.Root().AddChild(g.viewer)
	return g
}

func (g *gallery) createThumbs(b *builder) {
	for p := 0; p < config.CGPageCount; p++ {
		page := display.NewContainer(fmt.Sprintf("cg/page%d", p))
		page.Visible = p == 0
		g.board.AddChild(page)
		g.pages = append(g.pages, page)
	}
	for id := 0; id < config.CGCount; id++ {
		x, y, p := config.CGThumbPosition(id)
		b.button(g.pages[p], fmt.Sprintf("CGThumb%d", id), "CG", fmt.Sprintf("btn%d", id), x, y, func() { g.show(id) })
	}
}

func (g *gallery) createViewer(b *builder) {
	for id := 0; id < config.CGCount; id++ {
		tex, err := g.owner.view.ResolveTexture(b.ctx, "CG", fmt.Sprintf("CG%d", id))
		if err != nil {
			b.fail(fmt.Errorf("cg %d: %w", id, err))
			continue
		}
		w, h := tex.Size()
		n := display.NewSprite(fmt.Sprintf("cg/CG%d", id), tex.Image)
		n.SetPosition(float64(config.ScreenWidth-w)/2, float64(config.ScreenHeight-h)/2)
		n.Visible = false
		g.viewer.AddChild(n)
		g.images[id] = n
	}
	b.button(g.viewer, "CGViewerClose", "CGBoard", "close", config.CGViewerCloseX, config.CGViewerCloseY, g.closeViewer)
}

// open 显示面板并淡入
func (g *gallery) open() {
	if g == nil {
		return
	}
	g.layer.Visible = true
	g.layer.Alpha = 0
	g.fade = display.TweenAlpha(g.layer, 1, config.CGBoardFadeFrames, ease.OutQuad)
	g.owner.background.InteractiveChildren = false
}

func (g *gallery) close() {
	g.layer.Visible = false
	g.fade = nil
	g.owner.background.InteractiveChildren = true
}

// turn 翻页，越界时不做任何事
func (g *gallery) turn(dir int) {
	next := g.page + dir
	if next < 0 || next >= len(g.pages) {
		return
	}
	g.page = next
	for i, p := range g.pages {
		p.Visible = i == g.page
	}
}

// show 在全屏查看器中显示编号为 id 的 CG
func (g *gallery) show(id int) {
	if g.images[id] == nil {
		log.Printf("[WelcomeScene] CG%d not available", id)
		return
	}
	for i, n := range g.images {
		if n != nil {
			n.Visible = i == id
		}
	}
	g.shown = id
	if g.black != nil {
		g.black.Visible = true
	}
	g.viewer.Visible = true
	g.layer.Visible = false
}

// closeViewer 关闭查看器回到面板
func (g *gallery) closeViewer() {
	g.viewer.Visible = false
	if g.black != nil {
		g.black.Visible = false
	}
	g.shown = -1
	g.layer.Visible = true
	g.layer.Alpha = 1
}

func (g *gallery) update(dt float64) {
	if g == nil || g.fade == nil {
		return
	}
	g.fade.Update(float32(dt))
	if g.fade.Done {
		g.fade = nil
	}
}
