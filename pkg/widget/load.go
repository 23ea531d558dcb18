package widget

import (
	"context"
	"errors"
	"fmt"

	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2"
)

// TextureSource 按 (category, key) 解析纹理，resource.View 满足该接口
type TextureSource interface {
	ResolveTexture(ctx context.Context, category, key string) (*resource.Texture, error)
}

// ResolveStates 解析一组三态图片：category 下的 prefix0 / prefix1 / prefix2
// 分别对应常态、悬停、按下
//
// 返回的三张图中解析失败的为 nil，错误合并在 error 中返回。
func ResolveStates(ctx context.Context, src TextureSource, category, prefix string) (normal, hover, pressed *ebiten.Image, err error) {
	imgs := make([]*ebiten.Image, 3)
	var errs []error
	for i := range imgs {
		key := fmt.Sprintf("%s%d", prefix, i)
		tex, e := src.ResolveTexture(ctx, category, key)
		if e != nil {
			errs = append(errs, e)
			continue
		}
		imgs[i] = tex.Image
	}
	return imgs[0], imgs[1], imgs[2], errors.Join(errs...)
}

// Load 解析三态图片并创建按钮
func Load(ctx context.Context, src TextureSource, name, category, prefix string, opts ...Option) (*Button, error) {
	normal, hover, pressed, err := ResolveStates(ctx, src, category, prefix)
	if err != nil {
		return nil, fmt.Errorf("button %q: %w", name, errors.Join(ErrMissingVisual, err))
	}
	return NewButton(name, normal, hover, pressed, opts...)
}
