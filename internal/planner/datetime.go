package planner

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shotstamp/shotstamp/internal/domain"
)

// timestampFields 是提取拍摄时间的固定字段优先级：照片字段优先于视频字段。
var timestampFields = []string{
	domain.KeyDateTimeOriginal,
	domain.KeyQuickTimeCreation,
}

// captureTimeRE 匹配 exiftool 的时间戳文本：`YYYY:MM:DD HH:MM:SS`，
// 可选 `±HH:MM` 时区后缀。Go 正则的 \d 本身只匹配 ASCII 数字。
var captureTimeRE = regexp.MustCompile(
	`^(\d+):(\d+):(\d+) (\d+):(\d+):(\d+)(?:[+-](\d+):(\d+))?$`,
)

// ExtractCaptureTime 按固定字段优先级从一条记录提取拍摄时间。
//
// 返回值约定（两类失败刻意不同级，保持与历史行为一致）：
// - (ct, "", nil)：成功；时区后缀参与匹配但被丢弃，数值按字面取用
// - (zero, reason, nil)：可恢复跳过——字段缺失或整体不匹配模式
// - (zero, "", err)：致命——模式匹配成功但日历值非法（如 13 月）
func ExtractCaptureTime(rec domain.Record) (domain.CaptureTime, string, error) {
	var value string
	found := false
	for _, key := range timestampFields {
		if v, ok := rec[key]; ok {
			value = v
			found = true
			break
		}
	}
	if !found {
		return domain.CaptureTime{}, "元数据中没有拍摄时间字段", nil
	}

	m := captureTimeRE.FindStringSubmatch(value)
	if m == nil {
		return domain.CaptureTime{}, fmt.Sprintf("无法解析拍摄时间 %q", value), nil
	}

	nums := make([]int, 6)
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			// \d+ 已保证纯数字；只可能是超出 int 范围的极端输入。
			return domain.CaptureTime{}, "", fmt.Errorf("拍摄时间数值非法：%q：%w", value, err)
		}
		nums[i] = n
	}

	ct := domain.NewCaptureTime(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
	// time.Date 会把越界分量归一化（13 月 -> 次年 1 月）。这里做构造后回读比对，
	// 把“语法匹配但日历非法”的值显式升级为致命错误。
	t := ct.Time()
	if t.Year() != nums[0] || int(t.Month()) != nums[1] || t.Day() != nums[2] ||
		t.Hour() != nums[3] || t.Minute() != nums[4] || t.Second() != nums[5] {
		return domain.CaptureTime{}, "", fmt.Errorf("拍摄时间 %q 不是合法日历时间", value)
	}
	return ct, "", nil
}
