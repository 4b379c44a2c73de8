package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"resume-extractor/internal/patterns"
)

// parseDateRange 从一行文本解析日期区间，归一为 "YYYY-MM" / "YYYY"。
// 区间终点为"至今"等字样时current为true且end为空。
func parseDateRange(lib *patterns.Library, line string) (start, end string, current bool) {
	m := lib.DateRange.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	start = normalizeDate(m[1], m[2])
	if m[3] != "" {
		end = normalizeDate(m[3], m[4])
	} else if lib.Current.MatchString(m[0]) {
		current = true
	}
	return start, end, current
}

func normalizeDate(year, month string) string {
	if year == "" {
		return ""
	}
	if month == "" {
		return year
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return year
	}
	return fmt.Sprintf("%s-%02d", year, m)
}

// stripDates 去掉行内的日期区间与年月标记，用于清理名称字段
func stripDates(lib *patterns.Library, line string) string {
	line = lib.DateRange.ReplaceAllString(line, " ")
	line = lib.YearMonth.ReplaceAllString(line, " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
}
