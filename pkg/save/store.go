// Package save 持久化玩家进度（已解锁关卡数）
//
// 数据以 YAML 编码存放在 gdata 的 object/property 中。
// gdata 不可用时（Manager 为 nil）进入降级模式：进度只保存在内存里。
package save

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 关卡数范围
const (
	MinUnlockedStages = 1
	MaxUnlockedStages = 13
)

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "record"
)

// Record 存档记录
type Record struct {
	UnlockedStageCount int `yaml:"unlockedStageCount"` // 已解锁关卡数 1 ~ 13
}

// DefaultRecord 返回新玩家的存档：只解锁第一关
func DefaultRecord() Record {
	return Record{UnlockedStageCount: MinUnlockedStages}
}

// clamp 把关卡数限制在合法范围内
func (r Record) clamp() Record {
	switch {
	case r.UnlockedStageCount < MinUnlockedStages:
		r.UnlockedStageCount = MinUnlockedStages
	case r.UnlockedStageCount > MaxUnlockedStages:
		r.UnlockedStageCount = MaxUnlockedStages
	}
	return r
}

// Store 存档管理器
type Store struct {
	manager *gdata.Manager // 可为 nil（降级模式）
	record  Record
}

// Open 打开 appName 对应的 gdata 存储并加载存档
//
// gdata 打开失败时记录警告并返回降级模式的 Store，不返回错误。
func Open(appName string) *Store {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Save] Warning: Failed to open gdata storage: %v (progress will not be persisted)", err)
		m = nil
	}
	s, err := NewStore(m)
	if err != nil {
		log.Printf("[Save] Warning: %v (using defaults)", err)
	}
	return s
}

// NewStore 创建存档管理器并尝试加载已有存档
//
// 参数：
//   - manager: gdata 存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *Store: 总是非 nil
//   - error: 加载失败的原因（此时使用默认存档）
func NewStore(manager *gdata.Manager) (*Store, error) {
	s := &Store{manager: manager, record: DefaultRecord()}
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// Persistent 报告是否真正持久化
func (s *Store) Persistent() bool { return s.manager != nil }

// Record 返回当前存档
func (s *Store) Record() Record { return s.record }

// UnlockedStageCount 返回已解锁关卡数
func (s *Store) UnlockedStageCount() int { return s.record.UnlockedStageCount }

// Load 从 gdata 读取存档，不存在时使用默认值
func (s *Store) Load() error {
	if s.manager == nil {
		s.record = DefaultRecord()
		return nil
	}
	if !s.manager.ObjectPropExists(progressObject, progressProperty) {
		s.record = DefaultRecord()
		return nil
	}

	data, err := s.manager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		s.record = DefaultRecord()
		return fmt.Errorf("failed to load save record: %w", err)
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		s.record = DefaultRecord()
		return fmt.Errorf("failed to unmarshal save record: %w", err)
	}
	s.record = r.clamp()
	log.Printf("[Save] Loaded record: %d stages unlocked", s.record.UnlockedStageCount)
	return nil
}

// Save 写入存档，降级模式下直接返回 nil
func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.record)
	if err != nil {
		return fmt.Errorf("failed to marshal save record: %w", err)
	}
	if err := s.manager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// SetUnlockedStageCount 设置已解锁关卡数（限制在 1 ~ 13）并保存
func (s *Store) SetUnlockedStageCount(n int) error {
	s.record = Record{UnlockedStageCount: n}.clamp()
	return s.Save()
}

// Unlock 确保 stage（从 1 开始）已解锁，返回是否有变化
func (s *Store) Unlock(stage int) (bool, error) {
	if stage <= s.record.UnlockedStageCount {
		return false, nil
	}
	if err := s.SetUnlockedStageCount(stage); err != nil {
		return true, err
	}
	return true, nil
}
