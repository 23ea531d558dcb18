package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/vnmenu/pkg/app"
	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/embedded"
)

func main() {
	configPath := flag.String("config", config.AppConfigFile, "应用配置文件路径 (TOML)")
	assetsDir := flag.String("assets", "", "从磁盘目录加载资源，而不是使用嵌入资源")
	quiet := flag.Bool("quiet", false, "关闭日志输出")
	flag.Parse()

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}
	if *quiet {
		cfg.Log.Verbose = false
	}

	// 初始化嵌入资源
	// assetsFS 在 embed.go 中声明
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
