// pkg/extract/download.go
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrFetchTimeout 下载超时，常见于交易所服务器在盘后高峰限流
	ErrFetchTimeout = errors.New("附件下载超时")
	// ErrNotFound 附件不存在，公告链接可能已被交易所撤回
	ErrNotFound = errors.New("附件不存在")
)

// Downloader 附件下载器
type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// NewDownloader 创建下载器
func NewDownloader(timeout time.Duration) *Downloader {
	return &Downloader{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Download 下载附件到临时文件，返回文件路径
// 调用方负责删除临时文件
func (d *Downloader) Download(ctx context.Context, url, symbol string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("构造下载请求失败: %w", err)
	}
	// BSE对默认UA返回403
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("下载%s附件: %w", symbol, ErrFetchTimeout)
		}
		return "", fmt.Errorf("下载%s附件失败: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("下载%s附件: %w", symbol, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("下载%s附件失败: 状态码%d", symbol, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "announcement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}

	n, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("下载%s附件: %w", symbol, ErrFetchTimeout)
		}
		return "", fmt.Errorf("保存%s附件失败: %w", symbol, err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("保存%s附件失败: %w", symbol, closeErr)
	}

	if !isPDF(tmp.Name()) {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("下载%s附件失败: 响应不是PDF", symbol)
	}

	log.Printf("已下载%s附件: %d字节", symbol, n)
	return tmp.Name(), nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return strings.Contains(err.Error(), "timeout")
}

// isPDF 校验文件魔数，防止把交易所的HTML错误页喂给解析器
func isPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 5)
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return string(head) == "%PDF-"
}
