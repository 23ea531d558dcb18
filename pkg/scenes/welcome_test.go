package scenes

import (
	"testing"

	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/scene"
)

func activeWelcome(t *testing.T) (*fixture, *WelcomeScene) {
	t.Helper()
	f := newFixture(t, welcomeManifest(), loginManifest())
	w := NewWelcome(f.env)
	if err := f.activate(t, w); err != nil {
		t.Fatalf("activate error = %v", err)
	}
	return f, w
}

func menuPoint(name string) (float64, float64) {
	for i, n := range config.WelcomeMenuButtons {
		if n == name {
			return config.WelcomeMenuX + 5, config.WelcomeMenuY[i] + 5
		}
	}
	panic("unknown menu button " + name)
}

func TestWelcome_Elements(t *testing.T) {
	_, w := activeWelcome(t)

	for _, name := range []string{"BG/Underpainting", "BG/Background", "BG/Logo", "CGBoard/board", "CGBoard/title"} {
		if findNode(w.Root(), name) == nil {
			t.Errorf("%s missing", name)
		}
	}
	logo := findNode(w.Root(), "BG/Logo")
	if logo != nil && (logo.X != config.WelcomeLogoX || logo.Y != config.WelcomeLogoY) {
		t.Errorf("logo at (%v,%v)", logo.X, logo.Y)
	}

	// 4 个菜单 + 关闭 + 翻页 2 + 19 个缩略图 + 查看器关闭
	if got, want := len(w.Widgets()), 4+1+2+config.CGCount+1; got != want {
		t.Errorf("%d widgets, want %d", got, want)
	}
	if w.prompt == nil || w.prompt.Visible {
		t.Error("audio prompt should exist and stay hidden without audio")
	}
	if w.gallery.layer.Visible || w.gallery.viewer.Visible {
		t.Error("gallery visible on start")
	}
}

func TestWelcome_StartOpensLogin(t *testing.T) {
	f, w := activeWelcome(t)
	f.click(menuPoint("Start"))
	f.waitActive(t, LoginSceneName)
	if w.Lifecycle() != scene.Retired {
		t.Errorf("welcome lifecycle = %v, want Retired", w.Lifecycle())
	}
}

func TestWelcome_ExitRequestsExit(t *testing.T) {
	f, _ := activeWelcome(t)
	f.click(menuPoint("Exit"))
	if !f.host.ExitRequested() {
		t.Error("Exit did not request application exit")
	}
}

func TestWelcome_GalleryIsModal(t *testing.T) {
	f, w := activeWelcome(t)
	g := w.gallery

	f.click(menuPoint("CG"))
	if !g.layer.Visible {
		t.Fatal("gallery did not open")
	}
	if w.background.InteractiveChildren {
		t.Error("background still interactive under the gallery")
	}

	// 淡入
	if g.layer.Alpha != 0 {
		t.Errorf("fade should start from 0, got %v", g.layer.Alpha)
	}
	for i := 0; i < int(config.CGBoardFadeFrames)+1; i++ {
		f.host.Update(1)
	}
	if g.layer.Alpha != 1 || g.fade != nil {
		t.Errorf("fade not finished: alpha %v", g.layer.Alpha)
	}

	// 遮罩挡住主菜单
	f.click(menuPoint("Start"))
	f.host.Update(1)
	if f.host.Busy() || f.host.Current() != scene.Scene(w) {
		t.Error("menu button reacted through the gallery")
	}

	f.clickNode(findNode(g.board, "CGClose"))
	if g.layer.Visible {
		t.Error("close did not hide the gallery")
	}
	if !w.background.InteractiveChildren {
		t.Error("background not re-enabled after closing the gallery")
	}
}

func TestWelcome_GalleryPagingAndViewer(t *testing.T) {
	f, w := activeWelcome(t)
	g := w.gallery
	f.click(menuPoint("CG"))

	prev := findNode(g.board, "CGPrev")
	next := findNode(g.board, "CGNext")

	f.clickNode(prev)
	if g.page != 0 {
		t.Errorf("page = %d after prev on first page, want 0", g.page)
	}
	f.clickNode(next)
	if g.page != 1 || g.pages[0].Visible || !g.pages[1].Visible {
		t.Fatalf("page = %d after next, want 1", g.page)
	}
	f.clickNode(next)
	if g.page != 1 {
		t.Errorf("page = %d after next on last page, want 1", g.page)
	}

	// 第二页第一个缩略图是 CG12
	f.clickNode(findNode(g.pages[1], "CGThumb12"))
	if !g.viewer.Visible || g.layer.Visible || !g.black.Visible {
		t.Fatal("viewer not shown")
	}
	if g.shown != 12 {
		t.Errorf("shown = %d, want 12", g.shown)
	}
	for i, n := range g.images {
		if n.Visible != (i == 12) {
			t.Errorf("CG%d visible = %v", i, n.Visible)
		}
	}
	if w.background.InteractiveChildren {
		t.Error("background interactive while viewing a CG")
	}

	f.clickNode(findNode(g.viewer, "CGViewerClose"))
	if g.viewer.Visible || g.black.Visible || !g.layer.Visible {
		t.Error("closing the viewer should return to the board")
	}
}

func TestWelcome_MissingThumbnailStillActivates(t *testing.T) {
	f := newFixture(t, welcomeManifest().without("CG", "btn50"), nil)
	w := NewWelcome(f.env)
	err := f.activate(t, w)
	if err == nil {
		t.Fatal("missing thumbnail should be reported")
	}
	if w.Lifecycle() != scene.Active {
		t.Errorf("Lifecycle() = %v, want Active", w.Lifecycle())
	}
	if findNode(w.gallery.pages[0], "CGThumb5") != nil {
		t.Error("thumbnail without visuals was created")
	}
}
