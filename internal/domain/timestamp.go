package domain

import "time"

// CaptureTime 是按元数据字面值构造的拍摄时间（秒精度，时区已剥离）。
//
// 语义上这是一个 naive 本地时间；内部用 UTC 承载，避免 time.Local
// 在 DST 间隙中把合法的字面值归一化成另一个时刻。
type CaptureTime struct {
	t time.Time
}

// NewCaptureTime 按字面数值构造拍摄时间（不做日历校验，由调用方负责）。
func NewCaptureTime(year, month, day, hour, minute, second int) CaptureTime {
	return CaptureTime{t: time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)}
}

// IsZero 报告是否为零值（表示“没有拍摄时间”）。
func (c CaptureTime) IsZero() bool { return c.t.IsZero() }

// Stamp 返回文件名中使用的时间戳形态：YYYY-MM-DDTHH-MM-SS。
func (c CaptureTime) Stamp() string { return c.t.Format("2006-01-02T15-04-05") }

// Time 返回承载的 time.Time（位置固定为 UTC，仅取数值含义）。
func (c CaptureTime) Time() time.Time { return c.t }
