// pkg/extract/extractor.go
package extract

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText 所有提取策略都未能得到足够文本
// 调用方必须把它与"有文本但没解析出指标"区分开，前者走降级提醒，后者正常低置信度处理
var ErrNoText = errors.New("无法从文件中提取文本")

// strategy 单个提取策略
type strategy struct {
	name string
	fn   func(path string) (string, error)
}

// Extractor 多策略PDF文本提取器
// 按顺序尝试，第一个产出足够文本的策略获胜
type Extractor struct {
	strategies []strategy
	minText    int // 低于该长度视为失败（很可能是纯图片或损坏的文件）
}

// NewExtractor 创建提取器
func NewExtractor(minText int) *Extractor {
	e := &Extractor{minText: minText}
	e.strategies = []strategy{
		{name: "text_layer", fn: extractTextLayer},
		{name: "row_scan", fn: extractRowScan},
	}
	return e
}

// Extract 提取文本，返回文本和成功的策略名
// 全部策略失败时返回ErrNoText
func (e *Extractor) Extract(path, symbol string) (string, string, error) {
	for _, s := range e.strategies {
		text, err := s.fn(path)
		if err != nil {
			log.Printf("策略%s对%s提取失败: %v", s.name, symbol, err)
			continue
		}

		if len(text) > e.minText {
			log.Printf("策略%s成功提取%s: %d字符", s.name, symbol, len(text))
			return text, s.name, nil
		}
	}

	log.Printf("所有提取策略对%s均失败", symbol)
	return "", "", ErrNoText
}

// extractTextLayer 快速路径，只读文本层
func extractTextLayer(path string) (text string, err error) {
	// 损坏的PDF可能触发库内部panic（如zlib invalid header）
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("PDF提取panic: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return "", fmt.Errorf("打开PDF失败: %w", openErr)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// extractRowScan 慢速路径，按行重建文本并把表格行展平为竖线分隔
// 正文后追加行扫描结果，财报里的数字大多在表格里
func extractRowScan(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("PDF行扫描panic: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return "", fmt.Errorf("打开PDF失败: %w", openErr)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}

		for _, row := range rows {
			cells := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				s := strings.TrimSpace(t.S)
				if s != "" {
					cells = append(cells, s)
				}
			}
			if len(cells) == 0 {
				continue
			}
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
