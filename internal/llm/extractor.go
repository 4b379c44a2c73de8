package llm

import (
	"context"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"resume-extractor/internal/logger"
	"resume-extractor/internal/types"
)

// AssistExtractor AI辅助提取器。所有Extract方法都不返回错误：
// 调用失败、回复不是合法JSON、或JSON不符合结构约定时一律返回nil，
// 由融合层退回纯规则结果。
type AssistExtractor struct {
	client *Client
}

// NewAssistExtractor 创建AI辅助提取器
func NewAssistExtractor(client *Client) *AssistExtractor {
	return &AssistExtractor{client: client}
}

// Model 返回底层模型名
func (a *AssistExtractor) Model() string {
	return a.client.Model()
}

// 各域回复的结构校验schema。只约束类型与枚举，字段全部可选，
// 模型少给字段不算失败，给错类型才算。
const basicInfoSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"email": {"type": "string"},
		"phone": {"type": "string"},
		"wechat": {"type": "string"},
		"qq": {"type": "string"},
		"address": {"type": "string"},
		"expected_position": {"type": "string"},
		"current_status": {"type": "string"},
		"summary": {"type": "string"},
		"github": {"type": "string"},
		"linkedin": {"type": "string"}
	}
}`

const educationSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"school": {"type": "string"},
			"degree": {"type": "string", "enum": ["博士", "硕士", "学士", "大专", "高中", "其他", ""]},
			"major": {"type": "string"},
			"start_date": {"type": "string"},
			"end_date": {"type": "string"},
			"gpa": {"type": "string"},
			"honors": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["school"]
	}
}`

const experienceSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"company": {"type": "string"},
			"position": {"type": "string"},
			"industry": {"type": "string"},
			"start_date": {"type": "string"},
			"end_date": {"type": "string"},
			"is_current": {"type": "boolean"},
			"responsibilities": {"type": "array", "items": {"type": "string"}},
			"achievements": {"type": "array", "items": {"type": "string"}},
			"team_size": {"type": "integer"}
		},
		"required": ["company"]
	}
}`

const projectSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"description": {"type": "string"},
			"type": {"type": "string"},
			"technologies": {"type": "array", "items": {"type": "string"}},
			"role": {"type": "string"},
			"start_date": {"type": "string"},
			"end_date": {"type": "string"},
			"url": {"type": "string"}
		},
		"required": ["name"]
	}
}`

const skillsSchema = `{
	"type": "object",
	"properties": {
		"technical_skills": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"category": {"type": "string"},
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"name": {"type": "string"},
								"proficiency": {"type": "string"},
								"years": {"type": "number"}
							},
							"required": ["name"]
						}
					}
				}
			}
		},
		"soft_skills": {"type": "array", "items": {"type": "string"}},
		"languages": {"type": "array"},
		"certifications": {"type": "array"}
	}
}`

// requestAndParse 发起提取调用并把回复解析为目标类型，任何一步失败返回false
func requestAndParse[T any](ctx context.Context, a *AssistExtractor, domain, template, schema, text string, out *T) bool {
	reply, err := a.client.ChatCompletion(ctx, buildPrompt(template, text))
	if err != nil {
		logger.Warn().Err(err).Str("domain", domain).Msg("AI辅助提取调用失败")
		return false
	}

	raw := ExtractJSON(reply)
	if raw == "" {
		logger.Warn().Str("domain", domain).Msg("模型回复中没有可解析的JSON")
		return false
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		logger.Warn().Err(err).Str("domain", domain).Msg("校验模型回复失败")
		return false
	}
	if !result.Valid() {
		logger.Warn().Str("domain", domain).Interface("errors", result.Errors()).Msg("模型回复不符合结构约定")
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Warn().Err(err).Str("domain", domain).Msg("反序列化模型回复失败")
		return false
	}
	return true
}

// ExtractBasicInfo AI提取基本信息，失败返回nil
func (a *AssistExtractor) ExtractBasicInfo(ctx context.Context, text string) *types.BasicInfo {
	var info types.BasicInfo
	if !requestAndParse(ctx, a, "basic_info", basicInfoPromptTemplate, basicInfoSchema, text, &info) {
		return nil
	}
	return &info
}

// ExtractEducation AI提取教育经历，失败返回nil
func (a *AssistExtractor) ExtractEducation(ctx context.Context, text string) []types.Education {
	var records []types.Education
	if !requestAndParse(ctx, a, "education", educationPromptTemplate, educationSchema, text, &records) {
		return nil
	}
	return records
}

// ExtractExperience AI提取工作经历，失败返回nil
func (a *AssistExtractor) ExtractExperience(ctx context.Context, text string) []types.Experience {
	var records []types.Experience
	if !requestAndParse(ctx, a, "experience", experiencePromptTemplate, experienceSchema, text, &records) {
		return nil
	}
	return records
}

// ExtractProjects AI提取项目经历，失败返回nil
func (a *AssistExtractor) ExtractProjects(ctx context.Context, text string) []types.Project {
	var records []types.Project
	if !requestAndParse(ctx, a, "projects", projectPromptTemplate, projectSchema, text, &records) {
		return nil
	}
	return records
}

// ExtractSkills AI提取技能，失败返回nil
func (a *AssistExtractor) ExtractSkills(ctx context.Context, text string) *types.SkillSet {
	var set types.SkillSet
	if !requestAndParse(ctx, a, "skills", skillsPromptTemplate, skillsSchema, text, &set) {
		return nil
	}
	return &set
}

// EstimateCost 估算一次五域AI提取的token消耗：
// 中文按每字符约1.5个token估算，五个域各调用一次
func EstimateCost(text string) int {
	chars := len([]rune(text))
	return int(float64(chars)*1.5) * 5
}
