package domain

// Record 是 metadata provider 为单个文件返回的键值元数据。
// 与输入路径按“批次内位置”一一对应；key 采用 exiftool 的分组命名。
//
// 约束：只保留字符串值；缺失字段直接不出现在 map 中（没有空串占位）。
type Record map[string]string

const (
	// KeySourceFile 是每条记录必含的源文件标识字段。
	KeySourceFile = "SourceFile"
	// KeyDateTimeOriginal 是照片拍摄时间字段（优先级最高）。
	KeyDateTimeOriginal = "EXIF:DateTimeOriginal"
	// KeyQuickTimeCreation 是视频创建时间字段（次优先）。
	KeyQuickTimeCreation = "QuickTime:CreationDate"
)
