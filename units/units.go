// Package units 负责计量单位的单复数归一与显示。
//
// 内置单位（pc/set/length）按数量决定是否加复数后缀 s；
// 自定义单位永不变形，原样返回。
package units

import (
	"fmt"
	"strings"
)

// defaultUnits 为内置单位的单数基形。
var defaultUnits = []string{"pc", "set", "length"}

// ConfigError 表示单位配置在构建期不合法（空白或重复的自定义单位）。
type ConfigError struct {
	Unit   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("单位配置无效: %s（%q）", e.Reason, e.Unit)
}

// Config 保存自定义单位与复数开关。零值等价于只含内置单位、开启复数。
type Config struct {
	custom    []string
	customSet map[string]struct{}
	// DisablePlural 关闭内置单位的复数变形（自定义单位本就不变形）。
	DisablePlural bool
}

// NewConfig 构建单位配置。自定义单位不允许为空白，也不允许重复；
// 校验在构建期完成，渲染热路径不再检查。
func NewConfig(custom ...string) (Config, error) {
	cfg := Config{customSet: map[string]struct{}{}}
	for _, u := range custom {
		if strings.TrimSpace(u) == "" {
			return Config{}, &ConfigError{Unit: u, Reason: "自定义单位不能为空"}
		}
		if _, dup := cfg.customSet[u]; dup {
			return Config{}, &ConfigError{Unit: u, Reason: "自定义单位重复"}
		}
		cfg.customSet[u] = struct{}{}
		cfg.custom = append(cfg.custom, u)
	}
	return cfg, nil
}

// Custom 返回插入顺序的自定义单位列表（副本）。
func (c Config) Custom() []string {
	out := make([]string, len(c.custom))
	copy(out, c.custom)
	return out
}

// Normalize 将单位剥离末尾复数后缀，得到单数基形。
// "pcs" → "pc"；"set" → "set"；自定义单位同样按此规则比较。
func Normalize(unit string) string {
	u := strings.TrimSpace(unit)
	if len(u) > 1 && strings.HasSuffix(u, "s") {
		return strings.TrimSuffix(u, "s")
	}
	return u
}

// IsDefault 判断单位（按单数基形比较）是否为内置单位。
func IsDefault(unit string) bool {
	base := Normalize(unit)
	for _, d := range defaultUnits {
		if base == d {
			return true
		}
	}
	return false
}

// IsValid 判断单位是否属于内置 ∪ 自定义集合。空白输入无效。
func (c Config) IsValid(unit string) bool {
	if strings.TrimSpace(unit) == "" {
		return false
	}
	if _, ok := c.customSet[unit]; ok {
		return true
	}
	if _, ok := c.customSet[Normalize(unit)]; ok {
		return true
	}
	return IsDefault(unit)
}

// Display 解析单位在给定数量下的显示形式。
//
// 内置单位：数量 0/1 用单数，≥2 加 s（复数开关关闭时恒为单数）；
// 自定义单位：无论数量原样返回；
// 未收录单位：不做变形，原样返回。
func (c Config) Display(unit string, quantity int) string {
	if _, ok := c.customSet[unit]; ok {
		return unit
	}
	if _, ok := c.customSet[Normalize(unit)]; ok {
		// 自定义单位按基形登记、以复数形式传入时同样不变形
		return unit
	}
	if !IsDefault(unit) {
		return unit
	}
	base := Normalize(unit)
	if c.DisablePlural {
		return base
	}
	if quantity >= 2 {
		return base + "s"
	}
	return base
}
