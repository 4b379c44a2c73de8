package processor

import (
	"context"

	"resume-extractor/internal/types"
)

// Repository 提取结果持久化协作方。
// 整条提取流水线里只有持久化这一步允许返回错误。
type Repository interface {
	Update(ctx context.Context, resumeID string, result *types.BatchExtractionResult) error
}

// ResultCache 整批提取结果缓存
type ResultCache interface {
	Get(ctx context.Context, text string) (*types.BatchExtractionResult, error)
	Set(ctx context.Context, text string, result *types.BatchExtractionResult) error
}

// AssistProvider AI辅助提取协作方。所有方法失败时返回nil，不返回错误
type AssistProvider interface {
	ExtractBasicInfo(ctx context.Context, text string) *types.BasicInfo
	ExtractEducation(ctx context.Context, text string) []types.Education
	ExtractExperience(ctx context.Context, text string) []types.Experience
	ExtractProjects(ctx context.Context, text string) []types.Project
	ExtractSkills(ctx context.Context, text string) *types.SkillSet
	Model() string
}
