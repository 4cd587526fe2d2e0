package native

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/shotstamp/shotstamp/internal/domain"
)

// Provider 不依赖外部进程，直接用 goexif 读取 JPEG 内嵌的 EXIF。
//
// 约束：
// - 只有 .jpg 能携带可读 EXIF；.mov/.png 一律返回只含 SourceFile 的记录
//   （下游按“没有拍摄时间”跳过，不是错误）
// - 文件打不开是 I/O 错误（致命）；EXIF 缺失/损坏只是“没有字段”
type Provider struct{}

func (Provider) Name() string { return "native" }

func (Provider) Metadata(ctx context.Context, paths []string) ([]domain.Record, error) {
	recs := make([]domain.Record, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := domain.Record{domain.KeySourceFile: p}
		if strings.EqualFold(filepath.Ext(p), ".jpg") {
			v, err := readDateTimeOriginal(p)
			if err != nil {
				return nil, err
			}
			if v != "" {
				rec[domain.KeyDateTimeOriginal] = v
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// readDateTimeOriginal 返回 EXIF DateTimeOriginal 的原始字符串值；
// 没有 EXIF 或没有该 tag 时返回空串（非错误）。
func readDateTimeOriginal(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", nil
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", nil
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", nil
	}
	return v, nil
}
