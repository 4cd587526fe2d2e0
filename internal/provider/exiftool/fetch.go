package exiftool

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultBaseURL 是官方下载站点（必须以 '/' 结尾）。
	DefaultBaseURL = "https://exiftool.org/"

	// pinnedArchive 是回退使用的 pin 住的版本。
	pinnedArchive = "exiftool-12.67.zip"

	exeInArchive = "exiftool(-k).exe"
	exeName      = "exiftool.exe"
)

var archiveLinkRE = regexp.MustCompile(`^exiftool-\d+\.\d+(_64)?\.zip$`)

// Fetch 在私有临时目录中下载并解包 exiftool，返回可执行文件所在目录与清理函数。
//
// 约束：
// - 优先使用下载页上解析到的当前版本链接；解析不到就用 pin 住的版本
// - 任何出错路径都必须清掉临时目录（对系统不留任何永久改动）
// - 下载失败是致命错误，由调用方向上传播并终止整个 run
func Fetch(ctx context.Context, c *http.Client, base string) (string, func(), error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	dir, err := os.MkdirTemp("", "shotstamp-exiftool-")
	if err != nil {
		return "", nil, err
	}
	rm := func() { _ = os.RemoveAll(dir) }

	archivePath := filepath.Join(dir, "exiftool.zip")
	if err := download(ctx, c, resolveArchiveURL(ctx, c, base), archivePath); err != nil {
		rm()
		return "", nil, err
	}
	if err := extractExecutable(archivePath, dir); err != nil {
		rm()
		return "", nil, err
	}
	_ = os.Remove(archivePath)
	return dir, rm, nil
}

// resolveArchiveURL 尝试从下载页解析当前 Windows 压缩包链接；
// 任一步失败都回退到 pin 住的版本（下载本身的失败仍会在后续暴露）。
func resolveArchiveURL(ctx context.Context, c *http.Client, base string) string {
	fallback := base + pinnedArchive

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return fallback
	}
	resp, err := c.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	name, ok := findArchiveLink(resp.Body)
	if !ok {
		return fallback
	}
	return base + name
}

// findArchiveLink 在下载页 HTML 中查找形如 exiftool-NN.NN(_64)?.zip 的相对链接。
func findArchiveLink(r io.Reader) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		// 只接受站内相对链接（页面上的文件名即链接本身）。
		if href != "" && href == path.Base(href) && archiveLinkRE.MatchString(href) {
			found = href
			return false
		}
		return true
	})
	return found, found != ""
}

func download(ctx context.Context, c *http.Client, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("下载 %q 失败：HTTP %d", url, resp.StatusCode)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// extractExecutable 从压缩包中取出 exiftool(-k).exe，落地为 exiftool.exe。
func extractExecutable(archivePath, dir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if path.Base(f.Name) != exeInArchive {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		dst, err := os.OpenFile(filepath.Join(dir, exeName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
		if err != nil {
			_ = rc.Close()
			return err
		}
		_, err = io.Copy(dst, rc)
		_ = rc.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return fmt.Errorf("压缩包中未找到 %q", exeInArchive)
}

// pathGuard 把一个目录前置到 PATH，并保证恢复先前状态（包括“先前未设置”）。
// 这是进程级环境突变，必须成对使用：prependPath -> Restore。
type pathGuard struct {
	prev string
	had  bool
}

func prependPath(dir string) *pathGuard {
	prev, had := os.LookupEnv("PATH")
	_ = os.Setenv("PATH", dir+string(os.PathListSeparator)+prev)
	return &pathGuard{prev: prev, had: had}
}

func (g *pathGuard) Restore() {
	if g.had {
		_ = os.Setenv("PATH", g.prev)
		return
	}
	_ = os.Unsetenv("PATH")
}
