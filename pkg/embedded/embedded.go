// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数和 resource.Loader 实现，让其他包可以访问嵌入的资源。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotInitialized 未调用 Init 就访问嵌入资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	assetsFS    fs.FS
	initialized bool
)

// Init 初始化嵌入资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(assets fs.FS) {
	assetsFS = assets
	initialized = assets != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径：正斜杠、去掉 "./" 前缀，并要求以 "assets/" 开头
func normalize(path string) (string, error) {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "assets/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/')", path)
	}
	return path, nil
}

// ReadFile 读取嵌入文件内容
// 路径必须以 "assets/" 开头
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(assetsFS, p)
}

// Exists 检查文件是否存在于嵌入资源中
func Exists(path string) bool {
	if !initialized {
		return false
	}
	p, err := normalize(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(assetsFS, p)
	return err == nil
}

// Glob 在嵌入资源中匹配文件
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	p, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(assetsFS, p)
}

// Loader 从文件系统读取资源字节，实现 resource.Loader
type Loader struct {
	fsys fs.FS
	name string
}

// NewLoader 基于任意 fs.FS 创建加载器（测试中常用 fstest.MapFS）
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, name: "fs"}
}

// DirLoader 从磁盘目录加载资源，dir 是 "assets/" 所在的目录
// 用于开发期直接读取未嵌入的资源
func DirLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), name: dir}
}

// Default 返回基于 Init 注入的嵌入资源的加载器
func Default() *Loader {
	return &Loader{name: "embed"}
}

// Load 读取 path 指向的文件
func (l *Loader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fsys := l.fsys
	if fsys == nil {
		if !initialized {
			return nil, ErrNotInitialized
		}
		fsys = assetsFS
	}
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	return data, nil
}
