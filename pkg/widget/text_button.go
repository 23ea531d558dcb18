package widget

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	faceSourceOnce sync.Once
	faceSource     *text.GoTextFaceSource
	faceSourceErr  error
)

// DefaultFace 返回内置 Go Regular 字体的指定字号字体
func DefaultFace(size float64) (text.Face, error) {
	faceSourceOnce.Do(func() {
		faceSource, faceSourceErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	if faceSourceErr != nil {
		return nil, fmt.Errorf("load default font: %w", faceSourceErr)
	}
	return &text.GoTextFace{Source: faceSource, Size: size}, nil
}

// TextButton 带文字标签的三态按钮，标签在按钮图片上居中
type TextButton struct {
	*Button
	label *display.Node
}

// NewTextButton 创建文字按钮
//
// face 为 nil 时使用 DefaultFace(fontSize)。
func NewTextButton(name, caption string, face text.Face, fontSize float64, clr color.Color,
	normal, hover, pressed *ebiten.Image, opts ...Option) (*TextButton, error) {
	b, err := NewButton(name, normal, hover, pressed, opts...)
	if err != nil {
		return nil, err
	}
	if face == nil {
		face, err = DefaultFace(fontSize)
		if err != nil {
			return nil, err
		}
	}

	tb := &TextButton{
		Button: b,
		label:  display.NewText(name+"/label", caption, face, clr),
	}
	tb.node.AddChild(tb.label)
	tb.center()
	return tb, nil
}

// Caption 返回标签文字
func (tb *TextButton) Caption() string { return tb.label.Label.Text }

// SetCaption 修改标签文字并重新居中
func (tb *TextButton) SetCaption(s string) {
	tb.label.Label.Text = s
	tb.center()
}

// LabelNode 返回标签节点
func (tb *TextButton) LabelNode() *display.Node { return tb.label }

func (tb *TextButton) center() {
	bw, bh := tb.normal.Size()
	lw, lh := tb.label.Size()
	tb.label.SetPosition((bw-lw)/2, (bh-lh)/2)
}
