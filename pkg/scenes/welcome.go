package scenes

import (
	"context"
	"fmt"
	"log"

	"github.com/decker502/vnmenu/pkg/audio"
	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/decker502/vnmenu/pkg/scene"
	"github.com/decker502/vnmenu/pkg/widget"
	"github.com/tanema/gween/ease"
)

const audioPromptText = "Click anywhere to start the music"

// WelcomeScene 欢迎界面：背景、标志、主菜单、背景音乐和 CG 画廊
type WelcomeScene struct {
	*scene.Base
	env  Env
	view *resource.View

	background *display.Node // 背景、标志和主菜单；画廊打开时禁止交互

	music       *audio.Music
	musicPlayed bool
	prompt      *display.Node
	promptPulse *display.AlphaTween

	gallery *gallery
}

// NewWelcome 创建欢迎场景
func NewWelcome(env Env) *WelcomeScene {
	return &WelcomeScene{
		Base:       scene.NewBase(WelcomeSceneName),
		env:        env,
		view:       env.Resolver.View(),
		background: display.NewContainer("welcome/background"),
	}
}

// Init 构建场景元素
func (s *WelcomeScene) Init(ctx context.Context) error {
	log.Printf("[WelcomeScene] Creating scene elements")
	if err := selectSet(ctx, s.env.Resolver, s.view, WelcomeSceneName); err != nil {
		return err
	}
	b := newBuilder(ctx, "WelcomeScene", s.view, s.Base)
	root := s.Root()

	root.AddChild(s.background)
	b.sprite(s.background, "BG", "Underpainting", 0, 0)
	b.sprite(s.background, "BG", "Background", 0, 0)
	b.sprite(s.background, "BG", "Logo", config.WelcomeLogoX, config.WelcomeLogoY)
	s.createMenu(b)
	s.createMusic(b)
	s.createAudioPrompt(b)

	s.gallery = newGallery(s, b)

	log.Printf("[WelcomeScene] Scene elements created")
	return b.err()
}

func (s *WelcomeScene) createMenu(b *builder) {
	for i, name := range config.WelcomeMenuButtons {
		b.button(s.background, name, "GUI", name, config.WelcomeMenuX, config.WelcomeMenuY[i], nil)
	}
	s.Handle("Start", s.onStart)
	s.Handle("CG", func() { s.gallery.open() })
	s.Handle("Settings", func() { log.Printf("[WelcomeScene] Open settings") })
	s.Handle("Exit", func() {
		log.Printf("[WelcomeScene] Exit game")
		s.Host().RequestExit()
	})
}

func (s *WelcomeScene) createMusic(b *builder) {
	if s.env.Audio == nil {
		log.Printf("[WelcomeScene] Audio disabled, skipping BGM")
		return
	}
	snd, err := s.view.ResolveSound(b.ctx, "BGM", "BGM")
	if err != nil {
		b.fail(fmt.Errorf("bgm: %w", err))
		return
	}
	m, err := audio.NewMusic(s.env.Audio, snd)
	if err != nil {
		b.fail(fmt.Errorf("bgm: %w", err))
		return
	}
	m.SetVolume(s.env.MusicVolume)
	s.music = m
}

func (s *WelcomeScene) createAudioPrompt(b *builder) {
	face, err := widget.DefaultFace(24)
	if err != nil {
		b.fail(err)
		return
	}
	s.prompt = display.NewText("welcome/audioPrompt", audioPromptText, face, b.white)
	w, h := s.prompt.Size()
	s.prompt.SetPosition(config.WelcomeAudioPromptCenterX-w/2, config.WelcomeAudioPromptCenterY-h/2)
	s.prompt.Visible = false
	s.Root().AddChild(s.prompt)
}

// Update 激活后第一帧开始播放音乐；自动播放被阻止时显示提示，直到音频可用
func (s *WelcomeScene) Update(dt float64) {
	if s.music != nil {
		if !s.musicPlayed {
			s.musicPlayed = true
			if !s.music.Play() {
				log.Printf("[WelcomeScene] Autoplay blocked, waiting for user interaction")
				s.showPrompt()
			}
		} else if s.prompt != nil && s.prompt.Visible && s.music.Permitted() {
			s.hidePrompt()
		}
	}
	if s.promptPulse != nil {
		s.promptPulse.Update(float32(dt))
	}
	s.gallery.update(dt)
}

func (s *WelcomeScene) showPrompt() {
	if s.prompt == nil {
		return
	}
	s.prompt.Visible = true
	s.promptPulse = display.PulseAlpha(s.prompt, 0.35, 1, config.AudioPromptPulseFrames, ease.InOutSine)
}

func (s *WelcomeScene) hidePrompt() {
	s.prompt.Visible = false
	if s.promptPulse != nil {
		s.promptPulse.Stop()
		s.promptPulse = nil
	}
}

func (s *WelcomeScene) onStart() {
	log.Printf("[WelcomeScene] Start game")
	s.Host().SetScene(NewLogin(s.env))
}

// OnRetire 停止背景音乐
func (s *WelcomeScene) OnRetire() {
	if s.music != nil {
		if err := s.music.Close(); err != nil {
			log.Printf("[WelcomeScene] Failed to close BGM: %v", err)
		}
	}
}
