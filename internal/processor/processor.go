package processor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-extractor/internal/config"
	"resume-extractor/internal/extractor"
	"resume-extractor/internal/llm"
	"resume-extractor/internal/logger"
	"resume-extractor/internal/merge"
	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// Orchestrator 提取编排器：五个域并发提取，可选AI辅助融合，
// 可选缓存与持久化。提取本身保证不返回错误，失败降级为低置信度结果；
// 唯一的错误路径是持久化。
type Orchestrator struct {
	cfg *config.Config
	lib *patterns.Library

	basicInfo  *extractor.BasicInfoExtractor
	education  *extractor.EducationExtractor
	experience *extractor.ExperienceExtractor
	projects   *extractor.ProjectExtractor
	skills     *extractor.SkillsExtractor

	assist AssistProvider
	repo   Repository
	cache  ResultCache
}

// Option 编排器可选协作方
type Option func(*Orchestrator)

// WithAssist 注入AI辅助提取器
func WithAssist(assist AssistProvider) Option {
	return func(o *Orchestrator) { o.assist = assist }
}

// WithRepository 注入持久化实现
func WithRepository(repo Repository) Option {
	return func(o *Orchestrator) { o.repo = repo }
}

// WithCache 注入结果缓存
func WithCache(cache ResultCache) Option {
	return func(o *Orchestrator) { o.cache = cache }
}

// NewOrchestrator 创建编排器
func NewOrchestrator(cfg *config.Config, lib *patterns.Library, opts ...Option) *Orchestrator {
	timeout := cfg.ExtractionTimeout()
	o := &Orchestrator{
		cfg:        cfg,
		lib:        lib,
		basicInfo:  extractor.NewBasicInfoExtractor(lib, timeout),
		education:  extractor.NewEducationExtractor(lib, timeout),
		experience: extractor.NewExperienceExtractor(lib, timeout),
		projects:   extractor.NewProjectExtractor(lib, timeout),
		skills:     extractor.NewSkillsExtractor(lib, timeout),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ExtractAll 对整份简历文本做五域提取。
// resumeID非空且注入了持久化实现时落库，落库失败是唯一的错误出口。
func (o *Orchestrator) ExtractAll(ctx context.Context, text, resumeID string) (*types.BatchExtractionResult, error) {
	started := time.Now()

	if o.cache != nil {
		if cached, err := o.cache.Get(ctx, text); err != nil {
			logger.Warn().Err(err).Msg("查询结果缓存失败，继续执行提取")
		} else if cached != nil {
			logger.Info().Str("resume_id", resumeID).Msg("提取结果缓存命中")
			if err := o.persist(ctx, resumeID, cached); err != nil {
				return cached, err
			}
			return cached, nil
		}
	}

	result := &types.BatchExtractionResult{}

	// 五域并发提取。提取器内部已做超时与异常防护，goroutine不返回错误
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { result.BasicInfo = *o.basicInfo.Extract(gctx, text); return nil })
	g.Go(func() error { result.Education = *o.education.Extract(gctx, text); return nil })
	g.Go(func() error { result.Experience = *o.experience.Extract(gctx, text); return nil })
	g.Go(func() error { result.Projects = *o.projects.Extract(gctx, text); return nil })
	g.Go(func() error { result.Skills = *o.skills.Extract(gctx, text); return nil })
	_ = g.Wait()

	method := types.MethodRuleBased
	if o.cfg.Extraction.EnableAIAssistance && o.assist != nil {
		if o.applyAssist(ctx, text, result) {
			method = types.MethodHybrid
		}
	}

	o.buildMetadata(result, method, text, started)

	if o.cache != nil {
		if err := o.cache.Set(ctx, text, result); err != nil {
			logger.Warn().Err(err).Msg("写入结果缓存失败")
		}
	}

	if err := o.persist(ctx, resumeID, result); err != nil {
		return result, err
	}
	return result, nil
}

// applyAssist 并发执行五域AI提取并与规则结果融合。
// 任一域的AI结果为nil时该域保持规则结果原样不动。
// 返回是否至少有一个域吸收了AI结果。
func (o *Orchestrator) applyAssist(ctx context.Context, text string, result *types.BatchExtractionResult) bool {
	var (
		aiBasic      *types.BasicInfo
		aiEducation  []types.Education
		aiExperience []types.Experience
		aiProjects   []types.Project
		aiSkills     *types.SkillSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { aiBasic = o.assist.ExtractBasicInfo(gctx, text); return nil })
	g.Go(func() error { aiEducation = o.assist.ExtractEducation(gctx, text); return nil })
	g.Go(func() error { aiExperience = o.assist.ExtractExperience(gctx, text); return nil })
	g.Go(func() error { aiProjects = o.assist.ExtractProjects(gctx, text); return nil })
	g.Go(func() error { aiSkills = o.assist.ExtractSkills(gctx, text); return nil })
	_ = g.Wait()

	contributed := false
	if aiBasic != nil {
		result.BasicInfo.Data = merge.MergeBasicInfo(result.BasicInfo.Data, aiBasic)
		result.BasicInfo.Confidence = extractor.CombineAISignal(result.BasicInfo.Confidence, 1)
		contributed = true
	}
	if aiEducation != nil {
		result.Education.Data = merge.MergeEducation(result.Education.Data, aiEducation)
		result.Education.Confidence = extractor.CombineAISignal(result.Education.Confidence, 1)
		contributed = true
	}
	if aiExperience != nil {
		result.Experience.Data = merge.MergeExperience(result.Experience.Data, aiExperience)
		result.Experience.Confidence = extractor.CombineAISignal(result.Experience.Confidence, 1)
		contributed = true
	}
	if aiProjects != nil {
		result.Projects.Data = merge.MergeProjects(result.Projects.Data, aiProjects, o.cfg.Extraction.SimilarityThreshold)
		result.Projects.Confidence = extractor.CombineAISignal(result.Projects.Confidence, 1)
		contributed = true
	}
	if aiSkills != nil {
		result.Skills.Data = merge.MergeSkills(result.Skills.Data, aiSkills)
		result.Skills.Confidence = extractor.CombineAISignal(result.Skills.Confidence, 1)
		contributed = true
	}
	return contributed
}

// buildMetadata 聚合五域结果的元信息
func (o *Orchestrator) buildMetadata(result *types.BatchExtractionResult, method types.ExtractionMethod, text string, started time.Time) {
	meta := types.ExtractionMetadata{
		Method:    method,
		ElapsedMS: time.Since(started).Milliseconds(),
		RequestID: uuid.NewString(),
	}

	type domainState struct {
		name       string
		confidence float64
		warnings   []string
		extracted  bool
	}
	states := []domainState{
		{"basic_info", result.BasicInfo.Confidence, result.BasicInfo.Warnings, o.basicInfo.ValidateResult(result.BasicInfo.Data)},
		{"education", result.Education.Confidence, result.Education.Warnings, o.education.ValidateResult(result.Education.Data)},
		{"work_experience", result.Experience.Confidence, result.Experience.Warnings, o.experience.ValidateResult(result.Experience.Data)},
		{"projects", result.Projects.Confidence, result.Projects.Warnings, o.projects.ValidateResult(result.Projects.Data)},
		{"skills", result.Skills.Confidence, result.Skills.Warnings, o.skills.ValidateResult(result.Skills.Data)},
	}

	var sum float64
	for _, s := range states {
		sum += s.confidence
		meta.Warnings = append(meta.Warnings, s.warnings...)
		if s.extracted {
			meta.FieldsExtracted = append(meta.FieldsExtracted, s.name)
		} else {
			meta.FieldsMissing = append(meta.FieldsMissing, s.name)
		}
	}
	meta.ConfidenceScore = sum / float64(len(states))
	sort.Strings(meta.FieldsExtracted)
	sort.Strings(meta.FieldsMissing)

	if method == types.MethodHybrid && o.assist != nil {
		meta.ModelName = o.assist.Model()
		meta.EstimatedTokens = llm.EstimateCost(text)
	}

	if meta.ConfidenceScore < o.cfg.Extraction.ConfidenceThreshold {
		meta.Warnings = append(meta.Warnings,
			fmt.Sprintf("整体置信度%.2f低于阈值%.2f，建议人工复核", meta.ConfidenceScore, o.cfg.Extraction.ConfidenceThreshold))
	}

	result.Metadata = meta
}

func (o *Orchestrator) persist(ctx context.Context, resumeID string, result *types.BatchExtractionResult) error {
	if resumeID == "" || o.repo == nil {
		return nil
	}
	if err := o.repo.Update(ctx, resumeID, result); err != nil {
		return fmt.Errorf("持久化提取结果失败: %w", err)
	}
	logger.Info().Str("resume_id", resumeID).Msg("提取结果已落库")
	return nil
}

// ExtractBasicInfo 单域提取入口
func (o *Orchestrator) ExtractBasicInfo(ctx context.Context, text string) *types.ExtractionResult[*types.BasicInfo] {
	return o.basicInfo.Extract(ctx, text)
}

// ExtractEducation 单域提取入口
func (o *Orchestrator) ExtractEducation(ctx context.Context, text string) *types.ExtractionResult[[]types.Education] {
	return o.education.Extract(ctx, text)
}

// ExtractExperience 单域提取入口
func (o *Orchestrator) ExtractExperience(ctx context.Context, text string) *types.ExtractionResult[[]types.Experience] {
	return o.experience.Extract(ctx, text)
}

// ExtractProjects 单域提取入口
func (o *Orchestrator) ExtractProjects(ctx context.Context, text string) *types.ExtractionResult[[]types.Project] {
	return o.projects.Extract(ctx, text)
}

// ExtractSkills 单域提取入口
func (o *Orchestrator) ExtractSkills(ctx context.Context, text string) *types.ExtractionResult[*types.SkillSet] {
	return o.skills.Extract(ctx, text)
}
