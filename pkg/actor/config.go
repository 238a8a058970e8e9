package actor

import (
	"fmt"
	"log/slog"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// SystemConfig 系统配置
type SystemConfig struct {
	// MailboxSize 全局邮箱大小
	MailboxSize int `koanf:"mailbox_size"`
	// DeadLetterSize 死信队列大小
	DeadLetterSize int `koanf:"dead_letter_size"`
	// DefaultActorMailboxSize 默认 Actor 邮箱大小
	DefaultActorMailboxSize int `koanf:"default_actor_mailbox_size"`
	// EnableDeadLetterLogging 是否记录死信
	EnableDeadLetterLogging bool `koanf:"enable_dead_letter_logging"`
	// TombstoneSize 保留多少个已退出 Actor 的最终状态，0 表示不保留
	TombstoneSize int `koanf:"tombstone_size"`

	// PanicHandler panic 处理函数
	PanicHandler func(actor *PID, msg Message, err any) `koanf:"-"`
	// Logger 自定义日志器
	Logger *slog.Logger `koanf:"-"`
	// Metrics 指标收集器，为空时使用 NopMetrics
	Metrics Metrics `koanf:"-"`
}

// DefaultSystemConfig 默认系统配置
func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		MailboxSize:             10000,
		DeadLetterSize:          1000,
		DefaultActorMailboxSize: 100,
		EnableDeadLetterLogging: true,
		TombstoneSize:           1024,
	}
}

// LoadSystemConfig 从 YAML 文件加载系统配置
//
// 文件中未出现的键保持 [DefaultSystemConfig] 的值；path 为空时直接返回默认配置。
// Logger、PanicHandler、Metrics 不能通过文件配置，需要在返回后自行设置。
//
//	mailbox_size: 20000
//	default_actor_mailbox_size: 256
//	enable_dead_letter_logging: false
func LoadSystemConfig(path string) (*SystemConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSystemConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg := DefaultSystemConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置是否合法
func (c *SystemConfig) Validate() error {
	if c.MailboxSize <= 0 {
		return fmt.Errorf("mailbox_size must be positive, got %d", c.MailboxSize)
	}
	if c.DeadLetterSize < 0 {
		return fmt.Errorf("dead_letter_size must not be negative, got %d", c.DeadLetterSize)
	}
	if c.DefaultActorMailboxSize <= 0 {
		return fmt.Errorf("default_actor_mailbox_size must be positive, got %d", c.DefaultActorMailboxSize)
	}
	if c.TombstoneSize < 0 {
		return fmt.Errorf("tombstone_size must not be negative, got %d", c.TombstoneSize)
	}
	return nil
}
