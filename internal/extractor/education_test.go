package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

func newEducationExtractor(t *testing.T) *EducationExtractor {
	t.Helper()
	return NewEducationExtractor(patterns.MustLoad(), 5*time.Second)
}

func TestEducationExtract(t *testing.T) {
	e := newEducationExtractor(t)

	text := "教育经历\n2018年9月-2022年6月 清华大学 计算机科学与技术 本科"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	rec := res.Data[0]
	assert.Equal(t, "清华大学", rec.School)
	assert.Equal(t, "计算机科学与技术", rec.Major)
	assert.Equal(t, types.DegreeBachelor, rec.Degree)
	assert.Equal(t, "2018-09", rec.StartDate)
	assert.Equal(t, "2022-06", rec.EndDate)
	assert.True(t, rec.IsKeyUniversity)
	assert.Greater(t, res.Confidence, 0.0)
}

func TestEducationMultipleRecords(t *testing.T) {
	e := newEducationExtractor(t)

	text := "教育经历\n" +
		"2022年9月-2025年6月 北京大学 软件工程 硕士\n" +
		"2018年9月-2022年6月 武汉大学 计算机科学与技术 本科"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 2)
	assert.Equal(t, "北京大学", res.Data[0].School)
	assert.Equal(t, types.DegreeMaster, res.Data[0].Degree)
	assert.Equal(t, "武汉大学", res.Data[1].School)
	assert.Equal(t, types.DegreeBachelor, res.Data[1].Degree)
}

func TestEducationSupplementLines(t *testing.T) {
	e := newEducationExtractor(t)

	text := "教育经历\n" +
		"2018年9月-2022年6月 浙江大学 软件工程 本科\n" +
		"GPA：3.8/4.0\n" +
		"获得国家奖学金"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "3.8/4.0", res.Data[0].GPA)
	require.Len(t, res.Data[0].Honors, 1)
	assert.Contains(t, res.Data[0].Honors[0], "奖学金")
}

func TestEducationNoSectionFallback(t *testing.T) {
	e := newEducationExtractor(t)

	// 没有章节标题时全文扫描
	text := "2018年9月-2022年6月 复旦大学 金融学 本科"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "复旦大学", res.Data[0].School)
	assert.Contains(t, res.Warnings[0], "回退全文扫描")
}

func TestEducationInvalidDiscarded(t *testing.T) {
	e := newEducationExtractor(t)

	// 只有学校没有专业的条目被丢弃
	text := "教育经历\n2018年-2022年 某大学"
	res := e.Extract(context.Background(), text)
	assert.Empty(t, res.Data)
	assert.False(t, e.ValidateResult(res.Data))
}

func TestEducationEmptyInput(t *testing.T) {
	e := newEducationExtractor(t)

	res := e.Extract(context.Background(), "")
	require.NotNil(t, res)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0.0, res.Confidence)
}
