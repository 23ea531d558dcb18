package audio

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/decker502/vnmenu/pkg/resource"
)

func auBytes(encoding, channels uint32, body []byte) []byte {
	var b bytes.Buffer
	for _, v := range []uint32{auMagic, auHeaderSize, uint32(len(body)), encoding, 8000, channels} {
		binary.Write(&b, binary.BigEndian, v)
	}
	b.Write(body)
	return b.Bytes()
}

func TestUlawToLinear(t *testing.T) {
	tests := []struct {
		in   byte
		want int16
	}{
		{0x00, -32124},
		{0x80, 32124},
		{0xFF, 0},
		{0x7F, 0},
		{0x0F, -16764},
		{0xF0, 120},
	}
	for _, tt := range tests {
		if got := ulawToLinear(tt.in); got != tt.want {
			t.Errorf("ulawToLinear(0x%02x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeAU(t *testing.T) {
	t.Run("ulaw mono is upmixed", func(t *testing.T) {
		s, err := decodeAU(auBytes(auEncodingULaw, 1, []byte{0x00, 0x80, 0xFF}))
		if err != nil {
			t.Fatalf("decodeAU: %v", err)
		}
		if s.Length() != 3*4 {
			t.Fatalf("Length() = %d, want 12", s.Length())
		}
		pcm := make([]int16, 6)
		if err := binary.Read(s, binary.LittleEndian, pcm); err != nil {
			t.Fatal(err)
		}
		want := []int16{-32124, -32124, 32124, 32124, 0, 0}
		for i := range want {
			if pcm[i] != want[i] {
				t.Errorf("sample %d = %d, want %d", i, pcm[i], want[i])
			}
		}
	})

	t.Run("pcm16 stereo", func(t *testing.T) {
		body := []byte{0x01, 0x00, 0xFF, 0xFF} // 256, -1 大端
		s, err := decodeAU(auBytes(auEncodingPCM16, 2, body))
		if err != nil {
			t.Fatalf("decodeAU: %v", err)
		}
		pcm := make([]int16, 2)
		if err := binary.Read(s, binary.LittleEndian, pcm); err != nil {
			t.Fatal(err)
		}
		if pcm[0] != 256 || pcm[1] != -1 {
			t.Errorf("pcm = %v, want [256 -1]", pcm)
		}
	})

	errs := []struct {
		name string
		data []byte
		want string
	}{
		{"short", []byte(".snd"), "too short"},
		{"magic", append([]byte("RIFF"), make([]byte, 24)...), "magic"},
		{"encoding", auBytes(27, 1, []byte{0}), "unsupported AU encoding"},
		{"channels", auBytes(auEncodingULaw, 6, []byte{0}), "channel count"},
		{"no data", auBytes(auEncodingULaw, 1, nil), "data offset"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAU(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("decodeAU() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestNewMusic_AU(t *testing.T) {
	snd := &resource.Sound{Path: "media/bgm/title.au", Data: auBytes(auEncodingULaw, 1, make([]byte, 800))}
	m, err := NewMusic(testAudioContext, snd)
	if err != nil {
		t.Fatalf("NewMusic() error = %v", err)
	}
	defer m.Close()
	if m.Length() != 800*4 {
		t.Errorf("Length() = %d, want %d", m.Length(), 800*4)
	}
}
