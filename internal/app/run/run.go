package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shotstamp/shotstamp/internal/config"
	"github.com/shotstamp/shotstamp/internal/domain"
	"github.com/shotstamp/shotstamp/internal/infra/fsx"
	"github.com/shotstamp/shotstamp/internal/planner"
	"github.com/shotstamp/shotstamp/internal/provider"
	"github.com/shotstamp/shotstamp/internal/scan"
)

// ErrNoMatches 表示所有 glob 模式都没有命中任何媒体文件（输入错误，致命）。
var ErrNoMatches = errors.New("没有文件匹配给定的 glob 模式")

// Execute 跑一个完整的 run：收集 -> 批量取元数据 -> 规划 ->（确认后）执行。
//
// 约束：
// - 全部跳过原因与计划条目先于任何破坏性动作上报
//  （dry-run 与确认执行共用同一条上报路径）
// - confirm 为 nil 表示无需确认；返回 false 则不做任何修改直接结束
// - 致命错误通过 error 返回（退出码由 cmd 层决定），不降级为 item；
//   执行中途失败不回滚已完成的重命名
func Execute(ctx context.Context, eff config.EffectiveConfig, reg provider.Registry, obs Observer, confirm func() bool) (domain.RunReport, error) {
	started := time.Now().UTC()
	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		DryRun:    eff.DryRun,
		StartedAt: started,
		Items:     []domain.FileResult{},
	}
	finish := func() {
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
	}

	collectStarted := time.Now()
	files, err := scan.CollectMediaPaths(eff.Patterns)
	if err != nil {
		finish()
		return rr, err
	}
	if len(files) == 0 {
		finish()
		return rr, ErrNoMatches
	}
	if obs != nil {
		obs.OnPhaseDone("collect", map[string]any{"files": len(files)}, time.Since(collectStarted))
	}

	p, ok := reg.Get(eff.Provider)
	if !ok {
		finish()
		return rr, fmt.Errorf("provider 未注册：%q", eff.Provider)
	}

	paths := make([]string, len(files))
	for i := range files {
		paths[i] = files[i].Path
	}

	metaStarted := time.Now()
	records, err := p.Metadata(ctx, paths)
	if err != nil {
		finish()
		return rr, fmt.Errorf("获取元数据失败：%w", err)
	}
	if obs != nil {
		obs.OnPhaseDone("metadata", map[string]any{
			"provider": p.Name(),
			"records":  len(records),
		}, time.Since(metaStarted))
	}

	planStarted := time.Now()
	plan, items, err := planner.BuildPlan(files, records)
	if err != nil {
		finish()
		return rr, err
	}
	rr.Items = items

	// 规划结果先全部上报，再考虑任何执行动作。
	if obs != nil {
		for _, it := range items {
			obs.OnFile(it)
		}
		skipped := 0
		for _, it := range items {
			if it.Status == domain.FileStatusSkipped {
				skipped++
			}
		}
		obs.OnPhaseDone("plan", map[string]any{
			"entries": plan.Len(),
			"skipped": skipped,
		}, time.Since(planStarted))
	}

	if plan.Len() == 0 || eff.DryRun {
		finish()
		return rr, nil
	}
	if confirm != nil && !confirm() {
		finish()
		return rr, nil
	}

	execStarted := time.Now()
	if err := executePlan(plan, rr.Items, obs); err != nil {
		finish()
		return rr, err
	}
	if obs != nil {
		obs.OnPhaseDone("exec", map[string]any{"entries": plan.Len()}, time.Since(execStarted))
	}

	finish()
	return rr, nil
}

// executePlan 按计划顺序执行重命名；目标已存在时按重复内容删除源文件。
// 任一文件系统错误立即终止（不重试、不回滚）。
func executePlan(plan domain.RenamePlan, items []domain.FileResult, obs Observer) error {
	idx := make(map[string]int, len(items))
	for i, it := range items {
		if it.Status == domain.FileStatusPlanned {
			idx[it.Src] = i
		}
	}

	for _, e := range plan.Entries() {
		status := domain.FileStatusRenamed
		if fi, err := os.Stat(e.Dst); err == nil && fi.Mode().IsRegular() {
			// 目标已存在：目标名包含内容哈希，视为字节级相等的证明；
			// 现存目标为准，源文件按重复删除，绝不覆盖。
			if err := fsx.RemoveFile(e.Src); err != nil {
				return err
			}
			status = domain.FileStatusDuplicate
		} else if err != nil && !os.IsNotExist(err) {
			return err
		} else {
			if err := fsx.Rename(e.Src, e.Dst); err != nil {
				return err
			}
		}

		res := domain.FileResult{Src: e.Src, Dst: e.Dst, Status: status}
		if i, ok := idx[e.Src]; ok {
			items[i] = res
		}
		if obs != nil {
			obs.OnFile(res)
		}
	}
	return nil
}
