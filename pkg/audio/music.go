// Package audio 播放背景音乐
package audio

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

type stream interface {
	io.ReadSeeker
	Length() int64
}

// decode 按格式解码，返回可无限循环的流
func decode(format string, data []byte) (stream, error) {
	reader := bytes.NewReader(data)
	switch format {
	case "mp3":
		return mp3.DecodeWithoutResampling(reader)
	case "ogg":
		return vorbis.DecodeWithoutResampling(reader)
	case "wav":
		return wav.DecodeWithoutResampling(reader)
	case "au":
		return decodeAU(data)
	}
	return nil, fmt.Errorf("unsupported audio format: %q (supported: mp3, ogg, wav, au)", format)
}

// player *audio.Player 中本包用到的部分
type player interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(v float64)
	Close() error
}

// Music 循环播放的背景音乐
type Music struct {
	path    string
	player  player
	length  int64
	ready   func() bool
	playing bool
}

// NewMusic 解码声音资源并创建循环播放器（不会开始播放）
//
// 参数：
//   - ctx: 全局音频上下文
//   - snd: 已解析的声音资源
//
// 返回：
//   - *Music: 播放器
//   - error: 格式不支持或解码失败
func NewMusic(ctx *audio.Context, snd *resource.Sound) (*Music, error) {
	if ctx == nil {
		return nil, fmt.Errorf("audio context is nil")
	}
	s, err := decode(snd.Format(), snd.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", snd.Path, err)
	}

	loop := audio.NewInfiniteLoop(s, s.Length())
	p, err := ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", snd.Path, err)
	}
	return &Music{
		path:   snd.Path,
		player: p,
		length: s.Length(),
		ready:  ctx.IsReady,
	}, nil
}

// Path 返回音乐文件路径
func (m *Music) Path() string { return m.path }

// Length 返回单次循环的字节长度
func (m *Music) Length() int64 { return m.length }

// Play 开始播放，返回音频输出是否已被允许
//
// 浏览器等平台在用户交互前不允许自动播放，此时返回 false，
// 播放会在音频上下文就绪后开始。
func (m *Music) Play() bool {
	if !m.playing {
		m.player.Play()
		m.playing = true
	}
	permitted := m.ready()
	if !permitted {
		log.Printf("[Audio] Autoplay not permitted yet for %s", m.path)
	}
	return permitted
}

// Permitted 报告音频输出当前是否被允许
func (m *Music) Permitted() bool { return m.ready() }

// Playing 报告是否处于播放状态
func (m *Music) Playing() bool { return m.playing }

// SetVolume 设置音量 0.0 ~ 1.0
func (m *Music) SetVolume(v float64) {
	m.player.SetVolume(v)
}

// Stop 停止播放并回到开头
func (m *Music) Stop() {
	if !m.playing {
		return
	}
	m.player.Pause()
	if err := m.player.Rewind(); err != nil {
		log.Printf("[Audio] Failed to rewind %s: %v", m.path, err)
	}
	m.playing = false
}

// Close 释放播放器
func (m *Music) Close() error {
	m.Stop()
	return m.player.Close()
}
