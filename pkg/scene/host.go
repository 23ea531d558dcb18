package scene

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/widget"
	"github.com/hajimehoshi/ebiten/v2"
)

// Cursor Host 管理的光标层：每次挂载新场景后被移到最上层并重置为默认光标
type Cursor interface {
	widget.CursorRequester
	Node() *display.Node
}

// Retirer 场景可选实现：退役时在更新 goroutine 上调用，用于停止音乐等清理
type Retirer interface {
	OnRetire()
}

type swapRequest struct {
	scene Scene
	done  chan error
}

type initResult struct {
	req *swapRequest
	err error
}

// Host 场景宿主
//
// 除 Init 在独立 goroutine 上运行外，Host 的所有方法都必须在更新 goroutine 上调用。
// 切换请求串行执行：已有切换进行中时新请求排队，排队只保留最新的一个。
type Host struct {
	ctx    context.Context
	stage  *display.Stage
	cursor Cursor

	current  Scene
	backdrop *display.Node // 已退役场景的最后画面，新场景挂载前绘制在最底层

	inflight *swapRequest
	queued   *swapRequest
	results  chan initResult

	exitRequested bool
}

// NewHost 创建场景宿主
//
// 参数：
//   - ctx: 传给每个场景 Init 的上下文
//   - stage: 显示根
//   - cursor: 光标层，可为 nil
func NewHost(ctx context.Context, stage *display.Stage, cursor Cursor) *Host {
	h := &Host{
		ctx:     ctx,
		stage:   stage,
		results: make(chan initResult, 1),
	}
	if cursor != nil {
		h.cursor = cursor
		stage.Attach(cursor.Node())
	}
	return h
}

// Stage 返回显示根
func (h *Host) Stage() *display.Stage { return h.stage }

// Current 返回最近一次开始切换的场景（可能仍在初始化）
func (h *Host) Current() Scene { return h.current }

// Busy 报告是否有切换正在进行
func (h *Host) Busy() bool { return h.inflight != nil }

// SetScene 请求切换到场景 s
//
// 返回的通道在切换结束时收到一个值：nil 表示完全成功；
// *InitializationError 表示场景已以降级状态激活，或初始化彻底失败未挂载；
// ErrSwapSuperseded 表示请求被更新的请求取代。
func (h *Host) SetScene(s Scene) <-chan error {
	done := make(chan error, 1)
	if s == nil {
		done <- errors.New("scene: nil scene")
		return done
	}
	if s.base().Lifecycle() != Constructed {
		done <- fmt.Errorf("%w: %s", ErrSceneReused, s.Name())
		return done
	}

	req := &swapRequest{scene: s, done: done}
	if h.inflight != nil {
		if prev := h.queued; prev != nil {
			log.Printf("[SceneHost] Swap to %q superseded by %q", prev.scene.Name(), s.Name())
			prev.done <- ErrSwapSuperseded
		}
		h.queued = req
		return done
	}
	h.start(req)
	return done
}

// start 卸下当前场景并在 goroutine 上开始初始化新场景
func (h *Host) start(req *swapRequest) {
	s := req.scene
	if cur := h.current; cur != nil {
		wasActive := cur.base().Lifecycle() == Active
		h.stage.Detach(cur.Root())
		retire(cur)
		if wasActive {
			h.backdrop = cur.Root()
		}
		log.Printf("[SceneHost] Retired scene %q", cur.Name())
	}

	h.current = s
	s.base().host.Store(h)
	s.base().setLifecycle(Initializing)
	h.inflight = req
	log.Printf("[SceneHost] Initializing scene %q", s.Name())

	go func() {
		h.results <- initResult{req: req, err: runInit(h.ctx, s)}
	}()
}

// retire 退役场景，每个场景只执行一次
func retire(s Scene) {
	if s.base().Lifecycle() == Retired {
		return
	}
	s.base().retire()
	if r, ok := s.(Retirer); ok {
		r.OnRetire()
	}
}

func runInit(ctx context.Context, s Scene) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during init: %v", r)
		}
	}()
	return s.Init(ctx)
}

// finish 在更新 goroutine 上处理一次 Init 完成
func (h *Host) finish(res initResult) {
	req, s := res.req, res.req.scene
	h.inflight = nil

	var err error
	if res.err != nil {
		err = &InitializationError{Scene: s.Name(), Err: res.err}
		log.Printf("[SceneHost] %v", err)
	}

	if next := h.queued; next != nil {
		h.queued = nil
		retire(s)
		log.Printf("[SceneHost] Scene %q dropped before activation, switching to %q", s.Name(), next.scene.Name())
		req.done <- errors.Join(ErrSwapSuperseded, err)
		h.start(next)
		return
	}

	if err != nil && s.Root().NumChildren() == 0 {
		retire(s)
		log.Printf("[SceneHost] Scene %q has no content, keeping previous frame", s.Name())
		req.done <- err
		return
	}

	h.stage.Attach(s.Root())
	h.backdrop = nil
	s.base().setLifecycle(Active)
	if h.cursor != nil {
		h.stage.BringToFront(h.cursor.Node())
		h.cursor.SetDefault()
	}
	log.Printf("[SceneHost] Scene %q active", s.Name())
	req.done <- err
}

// Update 处理已完成的初始化，并以 max(dt, 0) 推进当前 Active 场景
func (h *Host) Update(dt float64) {
	for drained := false; !drained; {
		select {
		case res := <-h.results:
			h.finish(res)
		default:
			drained = true
		}
	}

	if dt < 0 {
		dt = 0
	}
	if cur := h.current; cur != nil && cur.base().Lifecycle() == Active {
		cur.Update(dt)
	}
}

// Draw 绘制背景残影（如有）和显示根
func (h *Host) Draw(screen *ebiten.Image) {
	if h.backdrop != nil {
		h.backdrop.Draw(screen)
	}
	h.stage.Draw(screen)
}

// Backdrop 返回正在作为残影绘制的已退役场景根节点
func (h *Host) Backdrop() *display.Node { return h.backdrop }

// RequestExit 请求退出程序
func (h *Host) RequestExit() {
	log.Printf("[SceneHost] Exit requested")
	h.exitRequested = true
}

// ExitRequested 报告是否已请求退出
func (h *Host) ExitRequested() bool { return h.exitRequested }
