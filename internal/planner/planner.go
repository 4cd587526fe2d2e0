package planner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shotstamp/shotstamp/internal/domain"
)

// hashPrefixLen 是文件名中保留的内容哈希长度（hex 字符数，即前 4 字节）。
const hashPrefixLen = 8

// 通过可替换的函数指针，让测试能观测“哈希是否被计算”并注入失败。
var hashFile = sha256File

// BuildPlan 依次处理 (file, record) 对，产出确定性的重命名计划。
//
// 约束（硬性）：
// - 提取不到拍摄时间：跳过该文件并给出原因，且不读文件内容（不计算哈希）
// - 目标路径 == 源路径：跳过且不产生条目（幂等：已命名正确的集合产出空计划）
// - 日历值非法或哈希 I/O 失败：致命，终止整个 run
// - items 顺序与输入文件顺序一致（skipped 与 planned 交错出现在原位置）
func BuildPlan(files []domain.MediaFile, records []domain.Record) (domain.RenamePlan, []domain.FileResult, error) {
	if len(files) != len(records) {
		return domain.RenamePlan{}, nil, fmt.Errorf("文件与元数据记录数量不一致：%d vs %d", len(files), len(records))
	}

	var plan domain.RenamePlan
	items := make([]domain.FileResult, 0, len(files))

	for i, f := range files {
		ct, reason, err := ExtractCaptureTime(records[i])
		if err != nil {
			return domain.RenamePlan{}, nil, fmt.Errorf("%s：%w", f.Path, err)
		}
		if reason != "" {
			items = append(items, domain.FileResult{
				Src:    f.Path,
				Status: domain.FileStatusSkipped,
				Reason: reason,
			})
			continue
		}

		digest, err := hashFile(f.Path)
		if err != nil {
			return domain.RenamePlan{}, nil, fmt.Errorf("计算 %s 的内容哈希失败：%w", f.Path, err)
		}

		dst := targetPath(f, ct, digest)
		if dst == f.Path {
			// 已是规范名：不产生条目，也不上报。
			continue
		}

		plan.Add(f.Path, dst)
		items = append(items, domain.FileResult{
			Src:    f.Path,
			Dst:    dst,
			Status: domain.FileStatusPlanned,
		})
	}
	return plan, items, nil
}

// targetPath 生成规范目标路径：同目录、小写扩展名，
// stem 为 `<YYYY-MM-DDTHH-MM-SS>_<哈希前 8 个 hex 字符>`。
func targetPath(f domain.MediaFile, ct domain.CaptureTime, digest string) string {
	name := ct.Stamp() + "_" + digest[:hashPrefixLen] + strings.ToLower(f.Ext)
	return filepath.Join(f.Dir, name)
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
