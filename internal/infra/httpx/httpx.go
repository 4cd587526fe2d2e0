package httpx

import (
	"errors"
	"net/http"
	"time"
)

const (
	// downloadTimeout 覆盖整个归档下载（包含 body 读取）。
	downloadTimeout = 3 * time.Minute
	defaultRetryMax = 2
)

// Transport 把“有界重试”固化为统一策略。
//
// 设计目标：下载方只负责“定位 URL + 落盘”，不关心网络策略细节。
type Transport struct {
	Base http.RoundTripper

	// RetryMax 表示最大重试次数（不含首次尝试）。例如 2 表示最多 3 次尝试。
	RetryMax int
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// 只对“可重放”的请求做重试：GET/HEAD 且无 body。
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		resp, err := t.Base.RoundTrip(req.Clone(req.Context()))
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			// ctx 已取消：不再重试，直接返回最后错误（更可解释）。
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// NewDownloadClient 构造用于一次性归档下载的 HTTP client。
//
// 规则：
// - 系统证书池 + 默认 TLS 校验（下载必须走可验证的 HTTPS）
// - 有界重试 + 覆盖全程的总超时
func NewDownloadClient() *http.Client {
	return &http.Client{
		Transport: &Transport{
			Base: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
			},
			RetryMax: defaultRetryMax,
		},
		Timeout: downloadTimeout,
	}
}
