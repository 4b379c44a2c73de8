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

func newExperienceExtractor(t *testing.T) *ExperienceExtractor {
	t.Helper()
	return NewExperienceExtractor(patterns.MustLoad(), 5*time.Second)
}

func TestExperienceExtract(t *testing.T) {
	e := newExperienceExtractor(t)

	text := "工作经历\n2022年7月-至今 北京字节跳动科技有限公司 Java开发工程师"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	rec := res.Data[0]
	assert.Equal(t, "北京字节跳动科技有限公司", rec.Company)
	assert.Equal(t, "Java开发工程师", rec.Position)
	assert.Equal(t, "2022-07", rec.StartDate)
	assert.Empty(t, rec.EndDate)
	assert.True(t, rec.IsCurrent)
	assert.Equal(t, types.CompanyPrivate, rec.CompanyType)
}

func TestExperienceBulletClassification(t *testing.T) {
	e := newExperienceExtractor(t)

	text := "工作经历\n" +
		"2020年3月-2022年6月 上海某某网络科技有限公司 后端工程师\n" +
		"- 负责订单系统的设计与开发\n" +
		"- 参与服务拆分与治理\n" +
		"- 接口平均耗时降低40%，荣获年度优秀员工"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	rec := res.Data[0]
	assert.Len(t, rec.Responsibilities, 2)
	require.Len(t, rec.Achievements, 1)
	assert.Contains(t, rec.Achievements[0], "40%")
}

func TestExperienceTeamSize(t *testing.T) {
	e := newExperienceExtractor(t)

	text := "工作经历\n" +
		"2019年1月-2021年12月 深圳某某科技有限公司 技术经理\n" +
		"- 带领12人团队完成核心系统重构"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, 12, res.Data[0].TeamSize)
}

func TestExperienceSchoolNotCompany(t *testing.T) {
	e := newExperienceExtractor(t)

	// 院校行不应被识别为工作经历
	text := "2018年9月-2022年6月 清华大学 计算机科学与技术 本科"
	res := e.Extract(context.Background(), text)
	assert.Empty(t, res.Data)
}

func TestExperienceCompanyWithoutDate(t *testing.T) {
	e := newExperienceExtractor(t)

	// 无日期但公司+职位共现也算条目起始
	text := "工作经历\n杭州某某信息技术有限公司 资深开发工程师\n- 负责支付网关维护"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "杭州某某信息技术有限公司", res.Data[0].Company)
	assert.Equal(t, "资深开发工程师", res.Data[0].Position)
	assert.False(t, res.Data[0].IsCurrent)
}

func TestExperienceSuffixPrecedence(t *testing.T) {
	e := newExperienceExtractor(t)

	// 名称中间出现"科技"、"集团"等短后缀词时仍取完整公司名，
	// 职位同理不在"开发"处截断
	text := "工作经历\n2019年5月-2021年4月 北京某某科技集团股份有限公司 资深Java开发工程师"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "北京某某科技集团股份有限公司", res.Data[0].Company)
	assert.Equal(t, "资深Java开发工程师", res.Data[0].Position)
}

func TestExperiencePositionRequired(t *testing.T) {
	e := newExperienceExtractor(t)

	// 找不到职位的条目整条丢弃，不输出只有公司的记录
	text := "工作经历\n2020年3月-2022年6月 北京某某网络科技有限公司\n- 订单系统相关工作"
	res := e.Extract(context.Background(), text)

	assert.Empty(t, res.Data)
	assert.False(t, e.ValidateResult(res.Data))
}

func TestExperienceEmptyInput(t *testing.T) {
	e := newExperienceExtractor(t)

	res := e.Extract(context.Background(), "")
	require.NotNil(t, res)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0.0, res.Confidence)
}
