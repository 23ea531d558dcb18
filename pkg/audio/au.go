package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Sun/NeXT .au 文件头（大端，至少 24 字节）
type auHeader struct {
	Magic      uint32
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF 表示未知
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64 // ".snd"
	auHeaderSize    = 24
	auEncodingULaw  = 1
	auEncodingPCM16 = 3
)

// pcmStream 内存中的 16 位小端立体声 PCM
type pcmStream struct {
	*bytes.Reader
}

// Length 返回 PCM 字节数
func (s *pcmStream) Length() int64 {
	return s.Size()
}

// decodeAU 把 .au 数据解码为 16 位立体声 PCM，单声道会复制到两个声道
// 支持 μ-law (1) 和 16 位线性 PCM (3) 编码
func decodeAU(data []byte) (*pcmStream, error) {
	if len(data) < auHeaderSize {
		return nil, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}
	var h auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if h.Magic != auMagic {
		return nil, fmt.Errorf("invalid AU magic number: 0x%08x", h.Magic)
	}
	if h.Channels < 1 || h.Channels > 2 {
		return nil, fmt.Errorf("unsupported AU channel count: %d", h.Channels)
	}
	if h.DataOffset < auHeaderSize || int(h.DataOffset) >= len(data) {
		return nil, fmt.Errorf("invalid AU data offset: %d (file size: %d)", h.DataOffset, len(data))
	}

	body := data[h.DataOffset:]
	if h.DataSize != 0xFFFFFFFF && int(h.DataSize) < len(body) {
		body = body[:h.DataSize]
	}

	var samples []int16
	switch h.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = ulawToLinear(b)
		}
	case auEncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
		}
	default:
		return nil, fmt.Errorf("unsupported AU encoding: %d (supported: 1 μ-law, 3 PCM16)", h.Encoding)
	}

	// 每帧输出左右两个声道
	frames := len(samples) / int(h.Channels)
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		l := samples[f*int(h.Channels)]
		r := l
		if h.Channels == 2 {
			r = samples[f*2+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(l))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(r))
	}

	return &pcmStream{Reader: bytes.NewReader(out)}, nil
}

// ulawToLinear G.711 μ-law 解码
func ulawToLinear(u byte) int16 {
	u = ^u
	t := (int(u&0x0f)<<3 + 0x84) << ((u & 0x70) >> 4)
	if u&0x80 != 0 {
		return int16(0x84 - t)
	}
	return int16(t - 0x84)
}
