// pkg/dedup/key.go
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"ResultRadar/pkg/model"
)

const (
	feedKeyPrefix = "processed:rss:"
	feedHashLen   = 16
	descHashLen   = 12
)

// BuildKey 为公告派生稳定的去重键
// RSS来源按规范化后的文章链接识别（标题重发时会漂移，链接不会）；
// 交易所公告同一天可能有多条，对描述文本取哈希比按日期更有区分度
func BuildKey(ann *model.Announcement) string {
	if ann.Source.IsFeed() && ann.AttachmentURL != "" {
		return feedKeyPrefix + hashHex(NormalizeURL(ann.AttachmentURL), feedHashLen)
	}

	return fmt.Sprintf("processed:%s:%s", ann.Symbol, hashHex(ann.Description, descHashLen))
}

// NormalizeURL 规范化文章链接：统一https，去掉query、fragment和路径尾部斜杠
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = "https"
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

func hashHex(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	h := hex.EncodeToString(sum[:])
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
