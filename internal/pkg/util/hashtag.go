package util

import (
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`#(\S+)`)

// NormalizeTag 规范化标签：去掉多余前缀后保留一个 #，统一小写
// 内容为空或仅剩 # 时返回空串
func NormalizeTag(raw string) string {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimLeft(tag, "#")
	tag = strings.Trim(tag, ".,，。!?！？")
	if tag == "" {
		return ""
	}
	return "#" + strings.ToLower(tag)
}

// ExtractTags 提取正文中去重、规范化后的标签列表
func ExtractTags(rawContent string) []string {
	matches := tagRegex.FindAllStringSubmatch(rawContent, -1)

	tagSet := make(map[string]struct{})
	var tags []string

	for _, m := range matches {
		if len(m) > 1 {
			tagName := NormalizeTag(m[1])

			if tagName != "" {
				if _, exists := tagSet[tagName]; !exists {
					tagSet[tagName] = struct{}{}
					tags = append(tags, tagName)
				}
			}
		}
	}

	return tags
}
