// Package main 离线检查资源清单
//
// 读取 assets/loader/ 下的每个清单（或命令行指定的资源集），
// 报告被跳过的条目、缺失的文件、无法解码的图片以及不支持的音频格式。
//
// Usage:
//
//	go run ./cmd/check_manifests [flags] [set...]
//
// Flags:
//
//	--root <dir>    资源根目录（其下应有 assets/），默认为当前目录
//	--verbose       输出每个条目的检查结果
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/decker502/vnmenu/pkg/embedded"
	"github.com/decker502/vnmenu/pkg/resource"
)

var (
	rootFlag    = flag.String("root", ".", "资源根目录（其下应有 assets/）")
	verboseFlag = flag.Bool("verbose", false, "输出每个条目的检查结果")
)

// supportedSounds 音乐播放器可以解码的格式
var supportedSounds = map[string]bool{"mp3": true, "ogg": true, "wav": true, "au": true}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	fsys := os.DirFS(*rootFlag)
	sets := flag.Args()
	if len(sets) == 0 {
		var err error
		if sets, err = discoverSets(fsys); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	if len(sets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no manifests found under assets/loader/")
		os.Exit(2)
	}

	r := resource.NewResolver(embedded.NewLoader(fsys))
	problems := check(context.Background(), r, embedded.NewLoader(fsys), sets, os.Stdout, *verboseFlag)
	if problems > 0 {
		fmt.Printf("\n❌ %d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("\n✅ All manifests OK")
}

// discoverSets 列出 assets/loader/ 下所有 .xml/.yaml 清单对应的资源集 ID
func discoverSets(fsys fs.FS) ([]string, error) {
	seen := map[string]bool{}
	var sets []string
	for _, pattern := range []string{"assets/loader/*.xml", "assets/loader/*.yaml", "assets/loader/*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			id := strings.TrimSuffix(path.Base(m), path.Ext(m))
			if !seen[id] {
				seen[id] = true
				sets = append(sets, id)
			}
		}
	}
	sort.Strings(sets)
	return sets, nil
}

// check 加载每个资源集并逐条验证，返回发现的问题数
//
// YAML 清单需要通过 resource.WithManifestPath 在 r 上配置路径。
func check(ctx context.Context, r *resource.Resolver, loader resource.Loader, sets []string, w io.Writer, verbose bool) int {
	problems := 0
	for _, id := range sets {
		fmt.Fprintf(w, "=== %s (%s) ===\n", id, r.ManifestPath(id))
		if err := r.LoadSet(ctx, id); err != nil {
			fmt.Fprintf(w, "  FAIL  %v\n", err)
			problems++
			continue
		}
		set, _ := r.Set(id)
		for _, p := range set.Problems() {
			fmt.Fprintf(w, "  SKIP  %v\n", p)
			problems++
		}
		for _, e := range set.Entries() {
			if err := checkEntry(ctx, loader, e); err != nil {
				fmt.Fprintf(w, "  FAIL  %s/%s: %v\n", e.Category, e.Key, err)
				problems++
				continue
			}
			if verbose {
				fmt.Fprintf(w, "  OK    %s/%s -> %s\n", e.Category, e.Key, e.Path)
			}
		}
		fmt.Fprintf(w, "  %d entries\n", set.Len())
	}
	return problems
}

func checkEntry(ctx context.Context, loader resource.Loader, e resource.Entry) error {
	data, err := loader.Load(ctx, e.Path)
	if err != nil {
		return err
	}
	switch e.Kind {
	case resource.KindSprite:
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("%s: decode: %w", e.Path, err)
		}
	case resource.KindSound:
		snd := resource.Sound{Path: e.Path}
		if !supportedSounds[snd.Format()] {
			return fmt.Errorf("%s: unsupported audio format %q", e.Path, snd.Format())
		}
	}
	return nil
}
