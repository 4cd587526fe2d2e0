package domain

import (
	"path/filepath"
	"strings"
)

// MediaFile 描述一次收集得到的媒体文件（收集阶段只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - Path 必须是 Clean 后的平台原生路径（保留调用方给出的相对/绝对形态，不强制转绝对）
// - Ext 保留原始大小写（目标名的小写化由 planner 负责）
// - 收集时 Path 指向一个存在的普通文件，且扩展名（小写）属于受支持集合
type MediaFile struct {
	Path string
	Dir  string
	Stem string // 不含扩展名的文件名
	Ext  string // 含点，如 ".JPG"
}

// NewMediaFile 由路径构造 MediaFile（只做路径拆分，不访问文件系统）。
func NewMediaFile(path string) MediaFile {
	path = filepath.Clean(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return MediaFile{
		Path: path,
		Dir:  filepath.Dir(path),
		Stem: strings.TrimSuffix(base, ext),
		Ext:  ext,
	}
}
