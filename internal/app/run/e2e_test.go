package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shotstamp/shotstamp/internal/config"
	"github.com/shotstamp/shotstamp/internal/domain"
	"github.com/shotstamp/shotstamp/internal/provider"
)

// stubProvider 按路径返回预置记录；不预置的路径只返回 SourceFile。
type stubProvider struct {
	byPath map[string]domain.Record
}

func (stubProvider) Name() string { return "exiftool" }

func (p stubProvider) Metadata(ctx context.Context, paths []string) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(paths))
	for _, path := range paths {
		if rec, ok := p.byPath[path]; ok {
			out = append(out, rec)
			continue
		}
		out = append(out, domain.Record{domain.KeySourceFile: path})
	}
	return out, nil
}

func newRegistry(t *testing.T, p provider.Provider) provider.Registry {
	t.Helper()
	reg, err := provider.NewRegistry(p)
	if err != nil {
		t.Fatalf("构造 registry 失败：%v", err)
	}
	return reg
}

func eff(root string) config.EffectiveConfig {
	return config.EffectiveConfig{
		Patterns: []string{filepath.Join(root, "*")},
		Provider: "exiftool",
	}
}

func TestExecute_DryRun_NoWrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "IMG_0001.JPG")
	write(t, src, []byte("hello"))

	cfg := eff(root)
	cfg.DryRun = true

	rr, err := Execute(context.Background(), cfg, newRegistry(t, stubProvider{
		byPath: map[string]domain.Record{
			src: {domain.KeyDateTimeOriginal: "2023:05:01 14:30:00"},
		},
	}), nil, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	// dry-run 不得触碰文件系统。
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("dry-run 不应移动文件：%v", err)
	}
	if rr.Summary.Planned != 1 || rr.Summary.Renamed != 0 {
		t.Fatalf("summary 不符合预期：%+v", rr.Summary)
	}
	want := filepath.Join(root, "2023-05-01T14-30-00_2cf24dba.jpg")
	if len(rr.Items) != 1 || rr.Items[0].Dst != want || rr.Items[0].Status != domain.FileStatusPlanned {
		t.Fatalf("items 不符合预期：%+v", rr.Items)
	}
}

func TestExecute_RenamesAndDeletesDuplicates(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.jpg")
	b := filepath.Join(root, "b.jpg")
	c := filepath.Join(root, "c.jpg")
	write(t, a, []byte("identical"))
	write(t, b, []byte("identical"))
	write(t, c, []byte("unique"))

	rec := domain.Record{domain.KeyDateTimeOriginal: "2023:05:01 14:30:00"}
	rr, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{
		byPath: map[string]domain.Record{a: rec, b: rec, c: rec},
	}), nil, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	// 两个同内容文件收敛为一个目标，第三个独立重命名：共 2 个文件。
	if len(entries) != 2 {
		t.Fatalf("期望 2 个文件，实际 %d：%v", len(entries), entries)
	}
	if rr.Summary.Renamed != 2 || rr.Summary.Duplicates != 1 {
		t.Fatalf("summary 不符合预期：%+v", rr.Summary)
	}
	for _, p := range []string{a, b, c} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("源文件 %q 应已消失，Stat err=%v", p, err)
		}
	}
}

func TestExecute_NoMatchesIsFatal(t *testing.T) {
	root := t.TempDir()

	_, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{}), nil, nil)
	if err != ErrNoMatches {
		t.Fatalf("期望 ErrNoMatches，实际 %v", err)
	}
}

func TestExecute_MissingTimestampSkippedNotFatal(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "no-meta.png")
	write(t, src, []byte("x"))

	rr, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{}), nil, nil)
	if err != nil {
		t.Fatalf("缺少时间戳应是可恢复跳过：%v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("被跳过的文件不应被触碰：%v", err)
	}
	if rr.Summary.Skipped != 1 || rr.Summary.Planned != 0 {
		t.Fatalf("summary 不符合预期：%+v", rr.Summary)
	}
	if rr.Items[0].Reason == "" {
		t.Fatalf("期望给出跳过原因：%+v", rr.Items[0])
	}
}

func TestExecute_ConfirmDeclinedMakesNoChanges(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.jpg")
	write(t, src, []byte("hello"))

	rr, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{
		byPath: map[string]domain.Record{
			src: {domain.KeyDateTimeOriginal: "2023:05:01 14:30:00"},
		},
	}), nil, func() bool { return false })
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("拒绝确认后不应移动文件：%v", err)
	}
	if rr.Summary.Renamed != 0 || rr.Summary.Planned != 1 {
		t.Fatalf("summary 不符合预期：%+v", rr.Summary)
	}
}

func TestExecute_PreexistingTargetDeletesSource(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.jpg")
	write(t, src, []byte("hello"))
	// 目标已以规范名存在（往次 run 的产物）。
	dst := filepath.Join(root, "2023-05-01T14-30-00_2cf24dba.jpg")
	write(t, dst, []byte("hello"))

	rr, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{
		byPath: map[string]domain.Record{
			src: {domain.KeyDateTimeOriginal: "2023:05:01 14:30:00"},
			dst: {domain.KeyDateTimeOriginal: "2023:05:01 14:30:00"},
		},
	}), nil, nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("源文件应按重复删除，Stat err=%v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("现存目标必须保留：%v", err)
	}
	// 已规范命名的目标自身是 no-op，不应出现在 items 中。
	if len(rr.Items) != 1 || rr.Items[0].Status != domain.FileStatusDuplicate {
		t.Fatalf("items 不符合预期：%+v", rr.Items)
	}
}

func TestExecute_InvalidCalendarAborts(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.jpg")
	write(t, src, []byte("x"))

	_, err := Execute(context.Background(), eff(root), newRegistry(t, stubProvider{
		byPath: map[string]domain.Record{
			src: {domain.KeyDateTimeOriginal: "2023:13:01 14:30:00"},
		},
	}), nil, nil)
	if err == nil {
		t.Fatalf("期望致命错误（13 月），但得到 nil")
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Fatalf("致命错误前不应有任何改名：%v", statErr)
	}
}

func write(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
