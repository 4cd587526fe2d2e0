package run

import (
	"time"

	"github.com/shotstamp/shotstamp/internal/config"
	"github.com/shotstamp/shotstamp/internal/domain"
)

// Observer 用于把“运行进度/阶段/逐文件结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（保持 stdout 的 JSON 契约干净）
// - 事件顺序即确定性输出顺序：全部规划事件先于任何执行事件，
//   因此 dry-run 与确认执行看到的前半段输出完全一致
type Observer interface {
	// OnStart 在 Execute 开始时调用（应尽量早，保证用户第一时间看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnFile 逐文件回调：规划阶段产出 skipped/planned，执行阶段产出 renamed/duplicate。
	OnFile(res domain.FileResult)
}
