package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extractor/internal/patterns"
)

func TestFindSection(t *testing.T) {
	lib := patterns.MustLoad()
	lines := []string{
		"张三",
		"教育经历",
		"2018年9月-2022年6月 清华大学 计算机科学与技术 本科",
		"工作经历",
		"2022年7月-至今 某某科技有限公司 后端工程师",
	}

	edu := findSection(lib, lines, "education")
	require.Len(t, edu, 1)
	assert.Contains(t, edu[0], "清华大学")

	exp := findSection(lib, lines, "experience")
	require.Len(t, exp, 1)
	assert.Contains(t, exp[0], "某某科技有限公司")

	// 不存在的章节返回nil，调用方回退全文扫描
	assert.Nil(t, findSection(lib, lines, "projects"))
}

func TestFindSectionInlineContent(t *testing.T) {
	lib := patterns.MustLoad()
	lines := []string{"专业技能：Java、Go、MySQL"}

	skills := findSection(lib, lines, "skills")
	require.NotEmpty(t, skills)
	assert.Equal(t, "Java、Go、MySQL", skills[0])
}

func TestSplitEntries(t *testing.T) {
	isStart := func(line string) bool { return strings.HasPrefix(line, "@") }

	prelude, entries := splitEntries([]string{
		"前导行",
		"@条目一",
		"内容A",
		"",
		"内容B",
		"@条目二",
		"内容C",
	}, isStart)

	assert.Equal(t, []string{"前导行"}, prelude)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"@条目一", "内容A", "内容B"}, entries[0])
	assert.Equal(t, []string{"@条目二", "内容C"}, entries[1])
}

func TestSplitEntriesNoStart(t *testing.T) {
	prelude, entries := splitEntries([]string{"行1", "行2"}, func(string) bool { return false })
	assert.Equal(t, []string{"行1", "行2"}, prelude)
	assert.Empty(t, entries)
}

func TestStripBullet(t *testing.T) {
	assert.Equal(t, "负责服务端开发", stripBullet("- 负责服务端开发"))
	assert.Equal(t, "负责服务端开发", stripBullet("• 负责服务端开发"))
	assert.Equal(t, "负责服务端开发", stripBullet("负责服务端开发"))
}

func TestIsBulletLine(t *testing.T) {
	assert.True(t, isBulletLine("- 内容"))
	assert.True(t, isBulletLine("• 内容"))
	assert.False(t, isBulletLine("内容"))
	assert.False(t, isBulletLine(""))
}
