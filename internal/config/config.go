package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultProvider 是 metadata provider 的最终默认值。
	DefaultProvider = "exiftool"
	// DefaultPattern 是未给任何模式时的默认 glob（当前目录，非递归）。
	DefaultPattern = "*"
)

// ConfigFileName 是工作目录下可选配置文件的固定名字。
const ConfigFileName = "shotstamp.json"

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息，
// 保证覆盖优先级可实现（CLI > 配置文件 > 内置默认）。
type CLIArgs struct {
	Patterns []string

	Force  bool
	DryRun bool

	Provider    string
	ProviderSet bool

	Report    string
	ReportSet bool
}

// FileConfig 对应 shotstamp.json 的解析结构。
// force/dry-run 刻意不进配置文件：破坏性开关必须每次显式给出。
type FileConfig struct {
	Provider string `json:"provider"`
	Report   string `json:"report"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
//（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Patterns []string

	Force  bool
	DryRun bool

	Provider string
	Report   string // 为空表示不落盘 report
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/shotstamp.json（可选）并与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：
// - provider：CLI > config > 默认 exiftool
// - report：CLI > config > 空（不落盘）
// - patterns/force/dry-run：仅由 CLI 控制
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cfgPath := filepath.Join(cwd, ConfigFileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	provider := DefaultProvider
	if cli.ProviderSet {
		provider = cli.Provider
	} else if strings.TrimSpace(fc.Provider) != "" {
		provider = fc.Provider
	}
	if err := validateProvider(provider); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	report := ""
	if cli.ReportSet {
		report = strings.TrimSpace(cli.Report)
	} else {
		report = strings.TrimSpace(fc.Report)
	}

	patterns := append([]string(nil), cli.Patterns...)
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	return EffectiveConfig{
		Patterns: patterns,
		Force:    cli.Force,
		DryRun:   cli.DryRun,
		Provider: provider,
		Report:   report,
	}, nil
}

func validateProvider(p string) error {
	switch p {
	case "exiftool", "native":
		return nil
	case "":
		return fmt.Errorf("provider 不能为空")
	default:
		return fmt.Errorf("provider 只能是 exiftool 或 native，实际是 %q", p)
	}
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
