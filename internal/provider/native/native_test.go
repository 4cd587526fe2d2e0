package native

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shotstamp/shotstamp/internal/domain"
)

func TestMetadata_NoExifYieldsRecordWithoutTimestamp(t *testing.T) {
	root := t.TempDir()
	jpg := filepath.Join(root, "a.jpg")
	mov := filepath.Join(root, "b.mov")
	write(t, jpg, []byte("not a real jpeg"))
	write(t, mov, []byte("not a real movie"))

	recs, err := Provider{}.Metadata(context.Background(), []string{jpg, mov})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(recs))
	}
	for i, rec := range recs {
		if rec[domain.KeySourceFile] == "" {
			t.Fatalf("记录 %d 缺少 SourceFile：%+v", i, rec)
		}
		// EXIF 解析失败不是错误，只是没有拍摄时间字段。
		if _, ok := rec[domain.KeyDateTimeOriginal]; ok {
			t.Fatalf("记录 %d 不应有拍摄时间字段：%+v", i, rec)
		}
	}
}

func TestMetadata_MissingFileIsFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.jpg")
	if _, err := (Provider{}).Metadata(context.Background(), []string{missing}); err == nil {
		t.Fatalf("期望错误（文件不存在），但得到 nil")
	}
}

func TestMetadata_PreservesInputOrder(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		filepath.Join(root, "z.mov"),
		filepath.Join(root, "a.png"),
	}
	for _, p := range paths {
		write(t, p, []byte("x"))
	}

	recs, err := Provider{}.Metadata(context.Background(), paths)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	for i := range paths {
		if recs[i][domain.KeySourceFile] != paths[i] {
			t.Fatalf("记录 %d 与输入路径不对应：%+v", i, recs[i])
		}
	}
}

func write(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
