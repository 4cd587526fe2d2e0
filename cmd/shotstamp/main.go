package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shotstamp/shotstamp/internal/app/run"
	"github.com/shotstamp/shotstamp/internal/config"
	"github.com/shotstamp/shotstamp/internal/domain"
	"github.com/shotstamp/shotstamp/internal/infra/fsx"
	"github.com/shotstamp/shotstamp/internal/provider"
	"github.com/shotstamp/shotstamp/internal/provider/exiftool"
	"github.com/shotstamp/shotstamp/internal/provider/native"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage()
			return 0
		}
	}

	ca, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, ca)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	reg, e := provider.NewRegistry(
		exiftool.Provider{},
		native.Provider{},
	)
	if e != nil {
		fmt.Fprintf(os.Stderr, "初始化 provider registry 失败：%v\n", e)
		return 1
	}

	var obs run.Observer = newLinePrinter(os.Stderr)

	// 确认门槛：-f/-n 任一给出则跳过；否则只有输入 y/Y 才继续。
	var confirm func() bool
	if !eff.Force && !eff.DryRun {
		confirm = func() bool { return promptConfirm(os.Stdin, os.Stderr) }
	}

	rr, runErr := run.Execute(context.Background(), eff, reg, obs, confirm)

	if eff.Report != "" {
		if err := writeReportFile(eff.Report, rr); err != nil {
			fmt.Fprintf(os.Stderr, "写入 report 失败：%v\n", err)
			emitReport(rr)
			return 1
		}
	}

	emitReport(rr)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		return 1
	}
	return 0
}

func parseArgs(args []string) (config.CLIArgs, error) {
	ca := config.CLIArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-f" || a == "--force":
			ca.Force = true
		case a == "-n" || a == "--dry-run":
			ca.DryRun = true
		case a == "--provider":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("--provider 需要一个值")
			}
			i++
			ca.Provider = args[i]
			ca.ProviderSet = true
		case strings.HasPrefix(a, "--provider="):
			ca.Provider = strings.TrimPrefix(a, "--provider=")
			ca.ProviderSet = true
		case a == "--report":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("--report 需要一个值")
			}
			i++
			ca.Report = args[i]
			ca.ReportSet = true
		case strings.HasPrefix(a, "--report="):
			ca.Report = strings.TrimPrefix(a, "--report=")
			ca.ReportSet = true
		case strings.HasPrefix(a, "-") && a != "-":
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			ca.Patterns = append(ca.Patterns, a)
		}
	}

	if ca.ProviderSet {
		switch ca.Provider {
		case "exiftool", "native":
			// ok
		case "":
			return config.CLIArgs{}, fmt.Errorf("--provider 不能为空")
		default:
			return config.CLIArgs{}, fmt.Errorf("--provider 只能是 exiftool 或 native，实际是 %q", ca.Provider)
		}
	}
	if ca.ReportSet && strings.TrimSpace(ca.Report) == "" {
		return config.CLIArgs{}, fmt.Errorf("--report 不能为空")
	}

	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  shotstamp [pattern...] [-f|--force] [-n|--dry-run] [--provider exiftool|native] [--report <file>]

参数：
  pattern     glob 模式（支持 **；默认 *，仅当前目录）
  -f, --force    跳过确认直接执行
  -n, --dry-run  只打印计划，不做任何修改
  --provider  元数据来源：exiftool|native（未指定则读配置文件；最终默认 exiftool）
  --report    把 RunReport JSON 原子写入指定文件（dry-run 也会写）
  -h, --help  显示帮助
`)
}

// promptConfirm 在 w 上打印确认提示并从 r 读一行；只有 y/Y 返回 true。
// 读取失败（例如 stdin 已关闭）按拒绝处理，绝不默认放行。
func promptConfirm(r io.Reader, w io.Writer) bool {
	fmt.Fprint(w, "继续执行重命名 [y/n]? ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stderr, "完成：planned=%d renamed=%d duplicates=%d skipped=%d\n",
			rr.Summary.Planned, rr.Summary.Renamed, rr.Summary.Duplicates, rr.Summary.Skipped,
		)
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（摘要与日志走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：planned=%d renamed=%d duplicates=%d skipped=%d\n",
		rr.Summary.Planned, rr.Summary.Renamed, rr.Summary.Duplicates, rr.Summary.Skipped,
	)
}

func writeReportFile(path string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(filepath.Dir(path), filepath.Base(path), b)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
