package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/shotstamp/shotstamp/internal/domain"
)

// CollectMediaPaths 把一组 glob 模式展开为候选媒体文件列表（支持 **）。
//
// 规则（硬约束）：
// - 每个模式的匹配结果各自按路径字典序排序，再按模式的输入顺序拼接
// - 不做跨模式去重：同一路径被多个模式命中时保留多次
// - 只保留普通文件，且小写扩展名属于 {.jpg, .mov, .png}
//
// 注意：结果为空不在这里报错——“没有任何匹配”属于调用方的输入错误语义。
func CollectMediaPaths(patterns []string) ([]domain.MediaFile, error) {
	files := make([]domain.MediaFile, 0, 64)
	for _, pattern := range patterns {
		matched, err := expandOne(pattern)
		if err != nil {
			return nil, err
		}
		files = append(files, matched...)
	}
	return files, nil
}

func expandOne(pattern string) ([]domain.MediaFile, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob 模式 %q 无效：%w", pattern, err)
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !isMediaExt(strings.ToLower(filepath.Ext(p))) {
			continue
		}
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		kept = append(kept, filepath.Clean(p))
	}
	sort.Strings(kept)

	out := make([]domain.MediaFile, 0, len(kept))
	for _, p := range kept {
		out = append(out, domain.NewMediaFile(p))
	}
	return out, nil
}

func isMediaExt(ext string) bool {
	switch ext {
	case ".jpg", ".mov", ".png":
		return true
	default:
		return false
	}
}
