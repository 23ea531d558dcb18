// Package app 提供应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/cursor"
	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/embedded"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/decker502/vnmenu/pkg/save"
	"github.com/decker502/vnmenu/pkg/scene"
	"github.com/decker502/vnmenu/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// App 应用包装器，实现 ebiten.Game 接口
type App struct {
	cfg    config.AppConfig
	ctx    context.Context
	cancel context.CancelFunc

	stage  *display.Stage
	host   *scene.Host
	cursor *cursor.Overlay

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入资源时（cfg.Assets.Dir 为空），调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg config.AppConfig) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 配置日志输出
	if cfg.Log.Verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	var loader resource.Loader = embedded.Default()
	if cfg.Assets.Dir != "" {
		loader = embedded.DirLoader(cfg.Assets.Dir)
		log.Printf("[App] Loading assets from %s", cfg.Assets.Dir)
	}
	resolver := resource.NewResolver(loader, resource.WithManifests(cfg.Assets.Manifests))

	ctx, cancel := context.WithCancel(context.Background())
	stage := display.NewStage()

	// 光标资源集先加载再选中
	cursorView := resolver.View()
	overlay := cursor.New(cursorView, cursor.WithPrepare(func(ctx context.Context) error {
		if err := resolver.LoadSet(ctx, cfg.Cursor.Set); err != nil {
			return err
		}
		return cursorView.SelectSet(cfg.Cursor.Set)
	}))
	stage.OnPointerMove(overlay.FollowPointer)
	go func() {
		if err := overlay.EnsureReady(ctx); err != nil {
			log.Printf("[App] Custom cursor unavailable, keeping system cursor: %v", err)
		}
	}()

	host := scene.NewHost(ctx, stage, overlay)

	// 初始化音频上下文
	audioContext := audio.NewContext(cfg.Audio.SampleRate)

	env := scenes.Env{
		Resolver:    resolver,
		Audio:       audioContext,
		MusicVolume: cfg.Audio.MusicVolume,
		Save:        save.Open(cfg.Save.AppName),
	}
	host.SetScene(scenes.NewWelcome(env))
	log.Printf("[App] Started, first scene: %s", scenes.WelcomeSceneName)

	return &App{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		stage:  stage,
		host:   host,
		cursor: overlay,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.stage.Update()
	a.cursor.Update()

	// 帧时间以帧为单位：每个 tick 为 1.0
	a.host.Update(1.0)

	if a.host.ExitRequested() {
		a.Close()
		return ebiten.Termination
	}
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.host.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

// Host 返回场景宿主
func (a *App) Host() *scene.Host {
	return a.host
}

// Close 取消所有进行中的加载
func (a *App) Close() {
	a.cancel()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.cfg.Log.Verbose
}
