package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extractor/internal/types"
)

func TestMergeBasicInfoRuleWins(t *testing.T) {
	rule := &types.BasicInfo{Name: "张三", Phone: "13812345678"}
	ai := &types.BasicInfo{Name: "张叁", Phone: "13900000000", Email: "zhangsan@example.com"}

	out := MergeBasicInfo(rule, ai)
	// 规则侧非空字段不被AI覆盖
	assert.Equal(t, "张三", out.Name)
	assert.Equal(t, "13812345678", out.Phone)
	// AI只补缺
	assert.Equal(t, "zhangsan@example.com", out.Email)
}

func TestMergeBasicInfoNilAIPassthrough(t *testing.T) {
	rule := &types.BasicInfo{Name: "张三"}
	out := MergeBasicInfo(rule, nil)
	assert.Same(t, rule, out)
}

func TestMergeEducation(t *testing.T) {
	rule := []types.Education{{School: "清华大学", Major: "计算机科学与技术", Degree: types.DegreeBachelor}}
	ai := []types.Education{
		{School: "清华大学", Major: "计算机科学与技术", GPA: "3.8"},
		{School: "某某中学", Major: "理科"},
	}

	out := MergeEducation(rule, ai)
	require.Len(t, out, 2)
	// 同条目补缺
	assert.Equal(t, types.DegreeBachelor, out[0].Degree)
	assert.Equal(t, "3.8", out[0].GPA)
	// AI独有条目追加
	assert.Equal(t, "某某中学", out[1].School)
}

func TestMergeEducationNilAIPassthrough(t *testing.T) {
	rule := []types.Education{{School: "清华大学", Major: "软件工程"}}
	out := MergeEducation(rule, nil)
	assert.Equal(t, rule, out)
}

func TestMergeExperience(t *testing.T) {
	rule := []types.Experience{{Company: "某某有限公司", Position: "", StartDate: "2020-01"}}
	ai := []types.Experience{{Company: "某某有限公司", Position: "后端工程师", IsCurrent: true, TeamSize: 8}}

	out := MergeExperience(rule, ai)
	require.Len(t, out, 1)
	assert.Equal(t, "后端工程师", out[0].Position)
	assert.Equal(t, "2020-01", out[0].StartDate)
	assert.True(t, out[0].IsCurrent)
	assert.Equal(t, 8, out[0].TeamSize)
}

func TestMergeExperienceSkipsPositionlessAIEntry(t *testing.T) {
	rule := []types.Experience{{Company: "某某有限公司", Position: "后端工程师"}}
	ai := []types.Experience{{Company: "另一网络科技有限公司"}}

	// AI独有但缺职位的条目不追加
	out := MergeExperience(rule, ai)
	require.Len(t, out, 1)
	assert.Equal(t, "某某有限公司", out[0].Company)
}

func TestMergeProjectsSimilarName(t *testing.T) {
	rule := []types.Project{{Name: "电商订单管理系统", Description: "订单全流程", Technologies: []string{"Go"}}}
	ai := []types.Project{
		{Name: "电商订单系统", Technologies: []string{"Go", "MySQL"}, Role: "后端负责人"},
		{Name: "日志采集平台", Description: "实时采集"},
	}

	out := MergeProjects(rule, ai, 0.7)
	require.Len(t, out, 2)
	// 名称相似的条目合并而不是追加
	assert.Equal(t, "电商订单管理系统", out[0].Name)
	assert.Equal(t, "后端负责人", out[0].Role)
	assert.ElementsMatch(t, []string{"Go", "MySQL"}, out[0].Technologies)
	assert.Equal(t, "日志采集平台", out[1].Name)
}

func TestMergeSkills(t *testing.T) {
	rule := &types.SkillSet{
		TechnicalSkills: []types.SkillCategory{
			{Category: "编程语言", Items: []types.SkillItem{{Name: "Go", Proficiency: "精通"}}},
		},
		SoftSkills: []string{"沟通能力"},
	}
	ai := &types.SkillSet{
		TechnicalSkills: []types.SkillCategory{
			{Category: "编程语言", Items: []types.SkillItem{
				{Name: "Go", Proficiency: "熟悉"},
				{Name: "Python", Proficiency: "熟练"},
			}},
			{Category: "数据库", Items: []types.SkillItem{{Name: "MySQL"}}},
		},
		SoftSkills: []string{"沟通能力", "团队协作"},
	}

	out := MergeSkills(rule, ai)
	require.Len(t, out.TechnicalSkills, 2)
	// 规则侧熟练度优先
	assert.Equal(t, "精通", out.TechnicalSkills[0].Items[0].Proficiency)
	// AI新增技能与类别并入
	assert.Equal(t, "Python", out.TechnicalSkills[0].Items[1].Name)
	assert.Equal(t, "数据库", out.TechnicalSkills[1].Category)
	assert.Equal(t, []string{"沟通能力", "团队协作"}, out.SoftSkills)
}

func TestMergeSkillsLeavesInputsUntouched(t *testing.T) {
	rule := &types.SkillSet{
		TechnicalSkills: []types.SkillCategory{
			{Category: "编程语言", Items: []types.SkillItem{{Name: "Go"}}},
		},
	}
	ai := &types.SkillSet{
		TechnicalSkills: []types.SkillCategory{
			{Category: "编程语言", Items: []types.SkillItem{{Name: "Go", Proficiency: "熟练", Years: 3}}},
		},
	}

	out := MergeSkills(rule, ai)
	// 补缺写入只落在返回值上，规则侧输入保持原样
	assert.Equal(t, "熟练", out.TechnicalSkills[0].Items[0].Proficiency)
	assert.Equal(t, float64(3), out.TechnicalSkills[0].Items[0].Years)
	assert.Empty(t, rule.TechnicalSkills[0].Items[0].Proficiency)
	assert.Zero(t, rule.TechnicalSkills[0].Items[0].Years)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("相同", "相同"), 1e-9)
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	// 一字之差的长名称相似度高
	s := Similarity("电商订单管理系统", "电商订单管理平台")
	assert.Greater(t, s, 0.7)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("abc"), []rune("abc")))
	assert.Equal(t, 1, levenshtein([]rune("abc"), []rune("abd")))
	assert.Equal(t, 3, levenshtein([]rune(""), []rune("abc")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
}
