package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrSwapSuperseded 排队中的切换请求被更新的请求取代
	ErrSwapSuperseded = errors.New("scene: swap superseded by a newer request")
	// ErrSceneReused 场景实例已交给过 Host，不能再次使用
	ErrSceneReused = errors.New("scene: scene instance already used")
)

// InitializationError 场景初始化失败
//
// Err 可能是多个错误经 errors.Join 合并的结果。
type InitializationError struct {
	Scene string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("scene %q: initialization failed: %v", e.Scene, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
