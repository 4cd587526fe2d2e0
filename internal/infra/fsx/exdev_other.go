//go:build !unix

package fsx

// Windows 的跨卷 rename 错误码不稳定，这里不做 EXDEV 识别：
// 失败会以原始错误向上传播，错误信息仍然可解释。
func isEXDEV(error) bool { return false }
