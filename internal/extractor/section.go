package extractor

import (
	"strings"

	"resume-extractor/internal/patterns"
)

// 章节定位与条目边界状态机，教育/工作/项目三个域共用。

// 判定为章节标题的行长上限（按字符数）
const maxHeadingLen = 24

var sectionDomains = []string{"basic_info", "education", "experience", "projects", "skills", "summary"}

// classifyHeading 判断一行是否为章节标题，是则返回所属域
func classifyHeading(lib *patterns.Library, line string) (string, bool) {
	// 列表项行不可能是标题
	if isBulletLine(line) {
		return "", false
	}
	trimmed := strings.Trim(line, " 【】[]=#*·-—:：")
	if trimmed == "" || runeLen(trimmed) > maxHeadingLen {
		return "", false
	}
	for _, domain := range sectionDomains {
		re := lib.SectionRegex(domain)
		if re != nil && re.MatchString(trimmed) {
			return domain, true
		}
	}
	return "", false
}

// findSection 按标题关键词定位指定域的章节，返回其内容行。
// 未找到标题时返回nil，调用方据此回退到全文扫描。
func findSection(lib *patterns.Library, lines []string, domain string) []string {
	start := -1
	for i, line := range lines {
		if d, ok := classifyHeading(lib, line); ok && d == domain {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	var content []string
	// 标题行中冒号后可能直接跟内容，例如"专业技能：Java、Go"
	heading := lines[start]
	for _, colon := range []string{"：", ":"} {
		if idx := strings.Index(heading, colon); idx >= 0 {
			if rest := strings.TrimSpace(heading[idx+len(colon):]); rest != "" {
				content = append(content, rest)
			}
			break
		}
	}
	for _, line := range lines[start+1:] {
		if _, ok := classifyHeading(lib, line); ok {
			break
		}
		content = append(content, line)
	}
	return content
}

// splitEntries 条目边界状态机：
// 扫描行序列，isStart命中即关闭前一个累加器、开启新条目；
// 扫描结束后冲洗最后一个累加器。首个条目之前的行作为前导返回。
func splitEntries(lines []string, isStart func(string) bool) (prelude []string, entries [][]string) {
	var current []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isStart(line) {
			if current != nil {
				entries = append(entries, current)
			}
			current = []string{line}
			continue
		}
		if current == nil {
			prelude = append(prelude, line)
		} else {
			current = append(current, line)
		}
	}
	if current != nil {
		entries = append(entries, current)
	}
	return prelude, entries
}

// stripBullet 去掉行首的列表符号
func stripBullet(line string) string {
	return strings.TrimLeft(strings.TrimSpace(line), "-•·*►>○●◆ 	")
}

// isBulletLine 判断是否为列表项行
func isBulletLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '-', '*', '>':
		return true
	}
	return strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "·") ||
		strings.HasPrefix(trimmed, "►") || strings.HasPrefix(trimmed, "●") ||
		strings.HasPrefix(trimmed, "○")
}
