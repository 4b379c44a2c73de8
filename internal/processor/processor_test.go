package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extractor/internal/config"
	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

const sampleResume = `张三
手机：13812345678
邮箱：zhangsan@example.com

教育经历
2018年9月-2022年6月 清华大学 计算机科学与技术 本科

工作经历
2022年7月-至今 北京字节跳动科技有限公司 Java开发工程师
- 负责推荐服务的开发与维护
- 接口平均耗时降低40%

项目经历
电商订单管理系统
- 使用Go和MySQL实现订单全流程管理

专业技能
- 精通Java，熟悉Go和MySQL`

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	return NewOrchestrator(config.DefaultConfig(), patterns.MustLoad(), opts...)
}

// nilAssist 模拟AI全部失败的辅助提取器
type nilAssist struct{}

func (nilAssist) ExtractBasicInfo(context.Context, string) *types.BasicInfo    { return nil }
func (nilAssist) ExtractEducation(context.Context, string) []types.Education   { return nil }
func (nilAssist) ExtractExperience(context.Context, string) []types.Experience { return nil }
func (nilAssist) ExtractProjects(context.Context, string) []types.Project      { return nil }
func (nilAssist) ExtractSkills(context.Context, string) *types.SkillSet        { return nil }
func (nilAssist) Model() string                                                { return "mock-model" }

// fixedAssist 固定返回基本信息补充的辅助提取器
type fixedAssist struct {
	nilAssist
	info *types.BasicInfo
}

func (f fixedAssist) ExtractBasicInfo(context.Context, string) *types.BasicInfo { return f.info }

type failingRepo struct{}

func (failingRepo) Update(context.Context, string, *types.BatchExtractionResult) error {
	return errors.New("数据库不可用")
}

type recordingRepo struct {
	id     string
	result *types.BatchExtractionResult
}

func (r *recordingRepo) Update(_ context.Context, id string, result *types.BatchExtractionResult) error {
	r.id = id
	r.result = result
	return nil
}

func TestExtractAll(t *testing.T) {
	o := newTestOrchestrator(t)

	result, err := o.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)

	assert.Equal(t, "张三", result.BasicInfo.Data.Name)
	require.Len(t, result.Education.Data, 1)
	assert.Equal(t, "清华大学", result.Education.Data[0].School)
	require.Len(t, result.Experience.Data, 1)
	assert.True(t, result.Experience.Data[0].IsCurrent)
	require.NotEmpty(t, result.Projects.Data)
	assert.NotEmpty(t, result.Skills.Data.TechnicalSkills)

	assert.Equal(t, types.MethodRuleBased, result.Metadata.Method)
	assert.NotEmpty(t, result.Metadata.RequestID)
	assert.Contains(t, result.Metadata.FieldsExtracted, "basic_info")
	assert.GreaterOrEqual(t, result.Metadata.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, result.Metadata.ConfidenceScore, 1.0)
}

func TestExtractAllDeterministic(t *testing.T) {
	o := newTestOrchestrator(t)

	first, err := o.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)
	second, err := o.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)

	// 同一输入的提取数据完全一致（元信息中的耗时与请求ID除外）
	firstJSON, err := json.Marshal([]interface{}{first.BasicInfo, first.Education, first.Experience, first.Projects, first.Skills})
	require.NoError(t, err)
	secondJSON, err := json.Marshal([]interface{}{second.BasicInfo, second.Education, second.Experience, second.Projects, second.Skills})
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestExtractAllNeverErrorsOnBadInput(t *testing.T) {
	o := newTestOrchestrator(t)

	for _, text := range []string{"", "乱七八糟的内容!!!", "12345"} {
		result, err := o.ExtractAll(context.Background(), text, "")
		require.NoError(t, err, "text=%s", text)
		require.NotNil(t, result)
		assert.GreaterOrEqual(t, result.Metadata.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, result.Metadata.ConfidenceScore, 1.0)
	}
}

func TestExtractAllAssistNilPassthrough(t *testing.T) {
	// AI全部失败时结果与纯规则完全一致，方法保持rule_based
	ruleOnly := newTestOrchestrator(t)
	baseline, err := ruleOnly.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Extraction.EnableAIAssistance = true
	withAI := NewOrchestrator(cfg, patterns.MustLoad(), WithAssist(nilAssist{}))
	result, err := withAI.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)

	assert.Equal(t, types.MethodRuleBased, result.Metadata.Method)
	assert.Equal(t, baseline.BasicInfo.Data, result.BasicInfo.Data)
	assert.Equal(t, baseline.BasicInfo.Confidence, result.BasicInfo.Confidence)
	assert.Equal(t, baseline.Education.Data, result.Education.Data)
	assert.Empty(t, result.Metadata.ModelName)
}

func TestExtractAllHybrid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Extraction.EnableAIAssistance = true
	assist := fixedAssist{info: &types.BasicInfo{Wechat: "zhangsan_wx"}}
	o := NewOrchestrator(cfg, patterns.MustLoad(), WithAssist(assist))

	result, err := o.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)

	assert.Equal(t, types.MethodHybrid, result.Metadata.Method)
	assert.Equal(t, "mock-model", result.Metadata.ModelName)
	assert.Positive(t, result.Metadata.EstimatedTokens)
	// 规则字段保留，AI补缺
	assert.Equal(t, "张三", result.BasicInfo.Data.Name)
	assert.Equal(t, "zhangsan_wx", result.BasicInfo.Data.Wechat)
}

func TestExtractAllPersist(t *testing.T) {
	repo := &recordingRepo{}
	o := newTestOrchestrator(t, WithRepository(repo))

	_, err := o.ExtractAll(context.Background(), sampleResume, "resume-001")
	require.NoError(t, err)
	assert.Equal(t, "resume-001", repo.id)
	require.NotNil(t, repo.result)
}

func TestExtractAllPersistFailure(t *testing.T) {
	o := newTestOrchestrator(t, WithRepository(failingRepo{}))

	// 持久化失败是唯一的错误路径，但结果仍然返回
	result, err := o.ExtractAll(context.Background(), sampleResume, "resume-001")
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "张三", result.BasicInfo.Data.Name)
}

func TestExtractAllNoPersistWithoutID(t *testing.T) {
	o := newTestOrchestrator(t, WithRepository(failingRepo{}))

	// 未给简历ID时不触发持久化
	_, err := o.ExtractAll(context.Background(), sampleResume, "")
	require.NoError(t, err)
}

func TestSingleDomainEntryPoints(t *testing.T) {
	o := newTestOrchestrator(t)
	ctx := context.Background()

	assert.Equal(t, "张三", o.ExtractBasicInfo(ctx, sampleResume).Data.Name)
	assert.NotEmpty(t, o.ExtractEducation(ctx, sampleResume).Data)
	assert.NotEmpty(t, o.ExtractExperience(ctx, sampleResume).Data)
	assert.NotEmpty(t, o.ExtractSkills(ctx, sampleResume).Data.TechnicalSkills)
}
