package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Provider != DefaultProvider {
		t.Fatalf("期望 provider=%q，实际=%q", DefaultProvider, eff.Provider)
	}
	if len(eff.Patterns) != 1 || eff.Patterns[0] != DefaultPattern {
		t.Fatalf("期望默认模式 [%q]，实际=%v", DefaultPattern, eff.Patterns)
	}
	if eff.Report != "" {
		t.Fatalf("期望不落盘 report，实际=%q", eff.Report)
	}
}

func TestLoadEffective_ProviderMergeOrder(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ConfigFileName), []byte(`{"provider":"native"}`))

	// CLI 未指定 provider：应使用配置文件中的 native。
	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Provider != "native" {
		t.Fatalf("期望 provider=native，实际=%q", eff.Provider)
	}

	// CLI 显式指定：覆盖配置文件。
	eff2, err := LoadEffective(cwd, CLIArgs{Provider: "exiftool", ProviderSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.Provider != "exiftool" {
		t.Fatalf("期望 provider=exiftool，实际=%q", eff2.Provider)
	}
}

func TestLoadEffective_ReportMergeOrder(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ConfigFileName), []byte(`{"report":"from-file.json"}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Report != "from-file.json" {
		t.Fatalf("期望 report 来自配置文件，实际=%q", eff.Report)
	}

	// CLI 显式给空值也要能覆盖配置文件（关闭落盘）。
	eff2, err := LoadEffective(cwd, CLIArgs{Report: "", ReportSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.Report != "" {
		t.Fatalf("期望 report 被 CLI 覆盖为空，实际=%q", eff2.Report)
	}
}

func TestLoadEffective_InvalidProvider(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ConfigFileName), []byte(`{"provider":"nope"}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ConfigFileName), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
