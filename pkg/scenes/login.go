package scenes

import (
	"context"
	"fmt"
	"log"

	"github.com/decker502/vnmenu/pkg/config"
	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/decker502/vnmenu/pkg/save"
	"github.com/decker502/vnmenu/pkg/scene"
)

// LoginScene 关卡选择界面
//
// 按存档中已解锁的关卡数显示关卡按钮，标题和分隔线随进度逐段出现。
type LoginScene struct {
	*scene.Base
	env  Env
	view *resource.View

	gui          *display.Node
	stageButtons int
}

// NewLogin 创建关卡选择场景
func NewLogin(env Env) *LoginScene {
	return &LoginScene{
		Base: scene.NewBase(LoginSceneName),
		env:  env,
		view: env.Resolver.View(),
		gui:  display.NewContainer("login/gui"),
	}
}

// unlocked 返回已解锁关卡数（1 ~ 13）
func (s *LoginScene) unlocked() int {
	if s.env.Save == nil {
		return save.MinUnlockedStages
	}
	return s.env.Save.UnlockedStageCount()
}

// Init 构建背景、标题、关卡按钮和返回按钮
func (s *LoginScene) Init(ctx context.Context) error {
	if err := selectSet(ctx, s.env.Resolver, s.view, LoginSceneName); err != nil {
		return err
	}
	b := newBuilder(ctx, "LoginScene", s.view, s.Base)
	root := s.Root()

	b.sprite(root, "BG", "Underpainting", 0, 0)
	s.createTitles(b)

	root.AddChild(s.gui)
	s.createStageButtons(b)
	b.textButton(s.gui, "Back", "Back", 16, "Button", "Back", config.LoginBackX, config.LoginBackY, s.onBack)

	log.Printf("[LoginScene] Scene elements created (%d stage buttons)", s.stageButtons)
	return b.err()
}

// createTitles 标题 1 与最后一条分隔线始终显示，其余随最高已解锁关卡出现
func (s *LoginScene) createTitles(b *builder) {
	root := s.Root()
	highest := s.unlocked() - 1

	b.sprite(root, "Title", "1", config.LoginTitleX, config.LoginTitleY[0])
	for i, threshold := range config.LoginTitleThresholds {
		if highest <= threshold {
			continue
		}
		b.sprite(root, "Title", fmt.Sprintf("%d", i+2), config.LoginTitleX, config.LoginTitleY[i+1])
		b.sprite(root, "Title", "Line", config.LoginLineX, config.LoginLineY[i])
	}
	b.sprite(root, "Title", "Line", config.LoginLineX, config.LoginLineY[len(config.LoginLineY)-1])
}

func (s *LoginScene) createStageButtons(b *builder) {
	n := min(s.unlocked(), len(config.LoginStageX))
	for i := 0; i < n; i++ {
		stage := i + 1
		name := fmt.Sprintf("stage%d", stage)
		btn := b.button(s.gui, name, "StageSelect", fmt.Sprintf("stage%d_", stage),
			config.LoginStageX[i], config.LoginStageY[i], func() { s.onStageSelect(stage) })
		if btn != nil {
			s.stageButtons++
		}
	}
}

func (s *LoginScene) onStageSelect(stage int) {
	log.Printf("[LoginScene] Selected stage: %d", stage)
	if s.env.OnStageSelected != nil {
		s.env.OnStageSelected(stage)
	}
}

func (s *LoginScene) onBack() {
	s.Host().SetScene(NewWelcome(s.env))
}

// StageButtons 返回成功创建的关卡按钮数
func (s *LoginScene) StageButtons() int { return s.stageButtons }
