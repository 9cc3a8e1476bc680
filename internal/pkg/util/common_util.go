package util

import (
	"strings"

	"github.com/goccy/go-json"
)

const (
	MaxTags      = 20
	MaxTagLength = 32
)

// ParseTags 解析标签，支持 JSON 数组或逗号分隔，去重并保留顺序
func ParseTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, err
		}
	} else {
		items = strings.Split(raw, ",")
	}
	return NormalizeTags(items), nil
}

// NormalizeTags 去除空白、#前缀并去重，数量与长度受限
func NormalizeTags(items []string) []string {
	tagSet := make(map[string]struct{}, len(items))
	tags := make([]string, 0, len(items))

	for _, item := range items {
		tagName := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "#"))
		tagName = strings.Trim(tagName, ".,，。!?！？")
		if tagName == "" {
			continue
		}
		if r := []rune(tagName); len(r) > MaxTagLength {
			tagName = string(r[:MaxTagLength])
		}
		if _, exists := tagSet[tagName]; exists {
			continue
		}
		tagSet[tagName] = struct{}{}
		tags = append(tags, tagName)
		if len(tags) >= MaxTags {
			break
		}
	}
	return tags
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}
