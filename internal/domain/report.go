package domain

import "time"

const (
	// FileStatusSkipped 表示提取不到拍摄时间、被排除在计划外的文件。
	FileStatusSkipped = "skipped"
	// FileStatusPlanned 表示已进入计划但尚未执行（dry-run 停留在该状态）。
	FileStatusPlanned = "planned"
	// FileStatusRenamed 表示源文件已被移动到目标路径。
	FileStatusRenamed = "renamed"
	// FileStatusDuplicate 表示目标路径已存在、源文件按重复内容删除。
	FileStatusDuplicate = "duplicate"
)

// RunReport 是对外稳定输出（--report JSON / 非 TTY stdout）的结构。
type RunReport struct {
	DryRun bool `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []FileResult  `json:"items"`
}

type ReportSummary struct {
	Planned    int `json:"planned"`
	Renamed    int `json:"renamed"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// FileResult 是单个输入文件的处理结果。
// skipped 时 Dst 为空、Reason 给出原因；其余状态 Reason 为空。
type FileResult struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 由 items 计算得出
//
// 注意：items 不重排——顺序契约是“保持输入文件顺序”，排序反而破坏确定性语义。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case FileStatusPlanned:
			s.Planned++
		case FileStatusRenamed:
			s.Planned++
			s.Renamed++
		case FileStatusDuplicate:
			s.Planned++
			s.Duplicates++
		case FileStatusSkipped:
			s.Skipped++
		}
	}
	r.Summary = s
}
