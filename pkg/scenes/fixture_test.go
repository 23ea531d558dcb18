package scenes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/decker502/vnmenu/pkg/display"
	"github.com/decker502/vnmenu/pkg/embedded"
	"github.com/decker502/vnmenu/pkg/resource"
	"github.com/decker502/vnmenu/pkg/save"
	"github.com/decker502/vnmenu/pkg/scene"
)

// 所有按钮、缩略图都使用同一尺寸，便于计算点击位置
const iconSize = 20

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// manifest 描述一个资源集：category -> keys，全部指向同一张图
type manifest map[string][]string

func (m manifest) without(category, key string) manifest {
	out := manifest{}
	for c, keys := range m {
		for _, k := range keys {
			if c == category && k == key {
				continue
			}
			out[c] = append(out[c], k)
		}
	}
	return out
}

func (m manifest) xml(bigCategories map[string]bool) string {
	var sb strings.Builder
	sb.WriteString(`<Resources base="assets/media">` + "\n")
	cats := make([]string, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&sb, "  <SpriteInformation type=%q>\n", c)
		for _, k := range m[c] {
			file := "icon.png"
			if bigCategories[c+"/"+k] {
				file = "screen.png"
			}
			fmt.Fprintf(&sb, "    <Sprite name=%q>%s</Sprite>\n", k, file)
		}
		sb.WriteString("  </SpriteInformation>\n")
	}
	sb.WriteString(`  <SoundInformation type="BGM"><Sound name="BGM">title.wav</Sound></SoundInformation>` + "\n")
	sb.WriteString("</Resources>\n")
	return sb.String()
}

func states(prefix string) []string {
	return []string{prefix + "0", prefix + "1", prefix + "2"}
}

func loginManifest() manifest {
	m := manifest{
		"BG":     {"Underpainting"},
		"Title":  {"1", "2", "3", "Line"},
		"Button": states("Back"),
	}
	for i := 1; i <= 13; i++ {
		m["StageSelect"] = append(m["StageSelect"], states(fmt.Sprintf("stage%d_", i))...)
	}
	return m
}

func welcomeManifest() manifest {
	m := manifest{
		"BG":      {"Underpainting", "Background", "Logo"},
		"GUI":     {},
		"CGBoard": {"CGAlpha", "board", "title", "Black"},
		"Cursor":  {"Pointer", "Button"},
	}
	for _, name := range []string{"Start", "CG", "Settings", "Exit"} {
		m["GUI"] = append(m["GUI"], states(name)...)
	}
	m["CGBoard"] = append(m["CGBoard"], states("close")...)
	m["CGBoard"] = append(m["CGBoard"], states("page")...)
	for id := 0; id < 19; id++ {
		m["CG"] = append(m["CG"], states(fmt.Sprintf("btn%d", id))...)
		m["CG"] = append(m["CG"], fmt.Sprintf("CG%d", id))
	}
	return m
}

// 全屏尺寸的资源（背景、遮罩）
var screenSized = map[string]bool{
	"BG/Underpainting": true, "BG/Background": true,
	"CGBoard/CGAlpha": true, "CGBoard/Black": true,
}

type fixture struct {
	host  *scene.Host
	stage *display.Stage
	env   Env
}

func newFixture(t *testing.T, welcome, login manifest) *fixture {
	t.Helper()
	files := fstest.MapFS{
		"assets/media/icon.png":   {Data: pngBytes(t, iconSize, iconSize)},
		"assets/media/screen.png": {Data: pngBytes(t, 800, 600)},
		"assets/media/title.wav":  {Data: []byte("RIFF")},
	}
	if welcome != nil {
		files["assets/loader/welcome.xml"] = &fstest.MapFile{Data: []byte(welcome.xml(screenSized))}
	}
	if login != nil {
		files["assets/loader/login.xml"] = &fstest.MapFile{Data: []byte(login.xml(screenSized))}
	}

	store, _ := save.NewStore(nil)
	stage := display.NewStage()
	return &fixture{
		host:  scene.NewHost(context.Background(), stage, nil),
		stage: stage,
		env: Env{
			Resolver: resource.NewResolver(embedded.NewLoader(files)),
			Save:     store,
		},
	}
}

// activate 切换场景并驱动 Host 直到切换结束
func (f *fixture) activate(t *testing.T, s scene.Scene) error {
	t.Helper()
	return f.await(t, f.host.SetScene(s))
}

func (f *fixture) await(t *testing.T, ch <-chan error) error {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case err := <-ch:
			return err
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for scene swap")
		}
		f.host.Update(1)
		time.Sleep(time.Millisecond)
	}
}

// waitActive 驱动 Host 直到当前场景为 name 且已激活
func (f *fixture) waitActive(t *testing.T, name string) scene.Scene {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		cur := f.host.Current()
		if cur != nil && cur.Name() == name && f.stage.Attached(cur.Root()) {
			return cur
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q to activate", name)
		}
		f.host.Update(1)
		time.Sleep(time.Millisecond)
	}
}

// click 在 (x, y) 完成一次悬停、按下、释放
func (f *fixture) click(x, y float64) {
	f.stage.Feed(x, y, false)
	f.stage.Feed(x, y, true)
	f.stage.Feed(x, y, false)
}

// clickNode 点击节点左上角内侧
func (f *fixture) clickNode(n *display.Node) {
	x, y := n.GlobalPosition()
	f.click(x+iconSize/2, y+iconSize/2)
}

func findNode(root *display.Node, name string) *display.Node {
	if root.Name == name {
		return root
	}
	for _, c := range root.Children() {
		if n := findNode(c, name); n != nil {
			return n
		}
	}
	return nil
}

func countNodes(root *display.Node, name string) int {
	n := 0
	if root.Name == name {
		n++
	}
	for _, c := range root.Children() {
		n += countNodes(c, name)
	}
	return n
}
