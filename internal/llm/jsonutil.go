package llm

import (
	"strings"
)

// ExtractJSON 从模型回复中提取JSON文本。
// 模型常把JSON包在```json代码围栏里，或者在前后附带解释文字，
// 这里先剥围栏，再按括号配平截取首个完整的对象或数组。
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}

	// 对象或数组以先出现者为准：数组里嵌着对象时应整体取数组
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')
	pairs := [][2]byte{{'{', '}'}, {'[', ']'}}
	if arrIdx >= 0 && (objIdx < 0 || arrIdx < objIdx) {
		pairs[0], pairs[1] = pairs[1], pairs[0]
	}
	for _, pair := range pairs {
		if s := balancedSlice(text, pair[0], pair[1]); s != "" {
			return s
		}
	}
	return ""
}

// balancedSlice 从首个open字符起做括号配平，返回配平的完整片段。
// 跳过字符串字面量内部的括号与转义字符。
func balancedSlice(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
