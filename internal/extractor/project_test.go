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

func newProjectExtractor(t *testing.T) *ProjectExtractor {
	t.Helper()
	return NewProjectExtractor(patterns.MustLoad(), 5*time.Second)
}

func TestProjectExtract(t *testing.T) {
	e := newProjectExtractor(t)

	text := "项目经历\n" +
		"电商订单管理系统 2021年3月-2021年12月\n" +
		"- 使用Go和MySQL实现订单的创建、支付与售后流程\n" +
		"- 引入Redis缓存热点数据，接口耗时降低50%"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	rec := res.Data[0]
	assert.Equal(t, "电商订单管理系统", rec.Name)
	assert.Equal(t, "2021-03", rec.StartDate)
	assert.Contains(t, rec.Technologies, "Go")
	assert.Contains(t, rec.Technologies, "MySQL")
	assert.Contains(t, rec.Technologies, "Redis")
	assert.NotEmpty(t, rec.Description)
}

func TestProjectRole(t *testing.T) {
	e := newProjectExtractor(t)

	text := "项目经历\n" +
		"校园二手交易平台\n" +
		"担任：后端负责人\n" +
		"- 使用Java开发商品与订单模块"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "后端负责人", res.Data[0].Role)
}

func TestProjectSTAR(t *testing.T) {
	e := newProjectExtractor(t)

	text := "项目经历\n" +
		"日志采集平台\n" +
		"- 背景：原有采集链路延迟高，运维排障困难\n" +
		"- 采用Kafka与Flink重建实时采集链路\n" +
		"- 最终端到端延迟降低到秒级，支撑日均10亿条日志"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	star := res.Data[0].STAR
	require.NotNil(t, star)
	assert.NotEmpty(t, star.Situation)
	assert.NotEmpty(t, star.Action)
	assert.NotEmpty(t, star.Result)
}

func TestProjectSTARInsufficient(t *testing.T) {
	e := newProjectExtractor(t)

	// 只有行动没有其他要素时不给出STAR结构
	text := "项目经历\n内部运营工具\n- 使用Python编写数据导出脚本供运营使用"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Nil(t, res.Data[0].STAR)
}

func TestProjectTypeInference(t *testing.T) {
	e := newProjectExtractor(t)

	text := "项目经历\n开源配置中心项目\n- 在GitHub维护，使用Go实现配置热更新"
	res := e.Extract(context.Background(), text)

	require.Len(t, res.Data, 1)
	assert.Equal(t, types.ProjectOpenSource, res.Data[0].Type)
}

func TestProjectShortDescriptionDiscarded(t *testing.T) {
	e := newProjectExtractor(t)

	// 描述过短的条目被丢弃
	text := "项目经历\n某某系统\n- 开发"
	res := e.Extract(context.Background(), text)
	assert.Empty(t, res.Data)
}

func TestProjectEmptyInput(t *testing.T) {
	e := newProjectExtractor(t)

	res := e.Extract(context.Background(), "")
	require.NotNil(t, res)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0.0, res.Confidence)
}
