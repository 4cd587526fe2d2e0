package exiftool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shotstamp/shotstamp/internal/domain"
	"github.com/shotstamp/shotstamp/internal/infra/httpx"
)

const defaultTool = "exiftool"

// Provider 通过一次批量的 `exiftool -j` 调用提取元数据。
//
// 约束：
// - 整个批次只允许一次子进程调用（由调用方传入全部路径）
// - 调用失败（退出码非零、输出不可解析、数量不匹配）都是致命错误
// - Windows 下工具缺失时触发一次性下载，用完即清（见 fetch.go）
type Provider struct {
	// Tool 允许测试替换可执行文件名；为空时使用 PATH 中的 exiftool。
	Tool string
	// FetchBaseURL 允许测试替换下载源；为空时使用 exiftool.org。
	FetchBaseURL string
}

func (Provider) Name() string { return "exiftool" }

func (p Provider) Metadata(ctx context.Context, paths []string) ([]domain.Record, error) {
	tool := p.Tool
	if tool == "" {
		tool = defaultTool
	}

	cleanup, err := p.ensureTool(ctx, tool)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := append([]string{
		"-j", "-G",
		"-" + domain.KeyDateTimeOriginal,
		"-" + domain.KeyQuickTimeCreation,
	}, paths...)

	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("调用 %s 失败：%w（stderr：%s）", tool, err, strings.TrimSpace(stderr.String()))
	}

	recs, err := decodeRecords(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	if len(recs) != len(paths) {
		return nil, fmt.Errorf("exiftool 返回 %d 条记录，期望 %d 条（必须与输入一一对应）", len(recs), len(paths))
	}
	return recs, nil
}

// ensureTool 确认外部工具可用；Windows 下缺失时下载并临时前置 PATH。
// 返回的 cleanup 恢复全部进程级改动（总是非 nil，可直接 defer）。
func (p Provider) ensureTool(ctx context.Context, tool string) (func(), error) {
	if _, err := exec.LookPath(tool); err == nil {
		return func() {}, nil
	}
	if runtime.GOOS != "windows" {
		return func() {}, fmt.Errorf("未在 PATH 中找到 %s；请安装 exiftool 后重试", tool)
	}

	base := p.FetchBaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	dir, rm, err := Fetch(ctx, httpx.NewDownloadClient(), base)
	if err != nil {
		return func() {}, fmt.Errorf("下载 exiftool 失败：%w", err)
	}
	guard := prependPath(dir)
	return func() {
		guard.Restore()
		rm()
	}, nil
}

// decodeRecords 把 exiftool 的 JSON 数组输出解码为记录列表。
// 只保留字符串值：时间戳字段都是字符串，数值/嵌套字段对本工具无意义。
func decodeRecords(b []byte) ([]domain.Record, error) {
	var raw []map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("解析 exiftool JSON 输出失败：%w", err)
	}
	recs := make([]domain.Record, 0, len(raw))
	for _, m := range raw {
		rec := make(domain.Record, len(m))
		for k, v := range m {
			if s, ok := v.(string); ok {
				rec[k] = s
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
