package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shotstamp/shotstamp/internal/app/run"
	"github.com/shotstamp/shotstamp/internal/config"
	"github.com/shotstamp/shotstamp/internal/domain"
)

var _ run.Observer = (*linePrinter)(nil)

// linePrinter 把 run 事件逐行打印到 stderr。
//
// 约束：
// - 只写 w（stderr），不污染 stdout 的 JSON 输出契约
// - 逐文件输出顺序即事件顺序：规划行先于任何执行行，
//   dry-run 与确认执行看到的前半段完全一致
type linePrinter struct {
	w io.Writer
}

func newLinePrinter(w io.Writer) *linePrinter {
	return &linePrinter{w: w}
}

func (p *linePrinter) OnStart(eff config.EffectiveConfig) {
	mode := "apply"
	if eff.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(p.w, "[%s] shotstamp (%s)\n", time.Now().Format("15:04:05"), mode)
	fmt.Fprintf(p.w, "  patterns: %s\n", strings.Join(eff.Patterns, " "))
	fmt.Fprintf(p.w, "  provider: %s\n", eff.Provider)
	if eff.Report != "" {
		fmt.Fprintf(p.w, "  report: %s\n", eff.Report)
	}
}

func (p *linePrinter) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	fmt.Fprintf(p.w, "%s:%s (%s)\n", name, b.String(), dur.Round(time.Millisecond))
}

func (p *linePrinter) OnFile(res domain.FileResult) {
	switch res.Status {
	case domain.FileStatusSkipped:
		fmt.Fprintf(p.w, "  skip %s: %s\n", res.Src, res.Reason)
	case domain.FileStatusPlanned:
		fmt.Fprintf(p.w, "  plan %s -> %s\n", res.Src, res.Dst)
	case domain.FileStatusRenamed:
		fmt.Fprintf(p.w, "  mv   %s -> %s\n", res.Src, res.Dst)
	case domain.FileStatusDuplicate:
		fmt.Fprintf(p.w, "  dup  %s（目标已存在，删除源文件）\n", res.Src)
	}
}
