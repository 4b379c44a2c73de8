package extractor

import (
	"context"
	"regexp"
	"strings"
	"time"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// ProjectExtractor 项目经历提取器
type ProjectExtractor struct {
	lib     *patterns.Library
	timeout time.Duration

	nameSuffixRe *regexp.Regexp
	roleRe       *regexp.Regexp
	urlRe        *regexp.Regexp

	situationRe *regexp.Regexp
	taskRe      *regexp.Regexp
	actionRe    *regexp.Regexp
	resultRe    *regexp.Regexp
}

// NewProjectExtractor 创建项目经历提取器
func NewProjectExtractor(lib *patterns.Library, timeout time.Duration) *ProjectExtractor {
	return &ProjectExtractor{
		lib:          lib,
		timeout:      timeout,
		nameSuffixRe: regexp.MustCompile(`[\p{Han}A-Za-z0-9（）() \-]{1,30}(?:系统|平台|项目|网站|APP|App|小程序|工具|引擎|服务|插件|SDK)`),
		roleRe:       regexp.MustCompile(`(?:担任|职责|角色|Role)\s*[:：]?\s*([^\s,，。、|]{2,16})`),
		urlRe:        regexp.MustCompile(`https?://[\w.\-/%?=&#]+`),
		situationRe:  regexp.MustCompile(`背景|现状|痛点|面临|原有`),
		taskRe:       regexp.MustCompile(`目标|任务|需求|要求`),
		actionRe:     regexp.MustCompile(`采用|使用|实现|设计|开发|引入|重构|搭建`),
		resultRe:     regexp.MustCompile(`最终|结果|上线|达到|提升|降低|支撑`),
	}
}

// Extract 提取项目经历
func (e *ProjectExtractor) Extract(ctx context.Context, text string) *types.ExtractionResult[[]types.Project] {
	return runGuarded(ctx, e.timeout, "projects", []types.Project{}, func() *types.ExtractionResult[[]types.Project] {
		return e.extract(text)
	})
}

func (e *ProjectExtractor) extract(text string) *types.ExtractionResult[[]types.Project] {
	pre := Preprocess(text)
	lines := strings.Split(pre, "\n")
	var warnings []string

	scanned := findSection(e.lib, lines, "projects")
	if scanned == nil {
		warnings = append(warnings, "未找到项目经历章节，已回退全文扫描")
		scanned = lines
	}

	_, blocks := splitEntries(scanned, e.isEntryStart)
	var records []types.Project
	for _, block := range blocks {
		if rec := e.buildRecord(block); rec != nil && !containsProject(records, rec) {
			records = append(records, *rec)
		}
	}

	if len(records) == 0 {
		warnings = append(warnings, "未提取到有效的项目经历")
	}

	return newResult(records, e.confidence(records), warnings)
}

// isEntryStart 条目起始判定：短行含项目名后缀，或日期与技术栈词共现。
// 公司后缀行归工作经历处理，这里排除。
func (e *ProjectExtractor) isEntryStart(line string) bool {
	if isBulletLine(line) || e.lib.HasCompanySuffix(line) {
		return false
	}
	if e.nameSuffixRe.MatchString(line) && runeLen(line) <= 40 {
		return true
	}
	if e.lib.HasDate.MatchString(line) {
		for i := range e.lib.SkillMatchers {
			if e.lib.SkillMatchers[i].MatchString(line) {
				return true
			}
		}
	}
	return false
}

func (e *ProjectExtractor) buildRecord(block []string) *types.Project {
	head := block[0]
	rec := &types.Project{}

	name := e.nameSuffixRe.FindString(head)
	if name == "" {
		name = stripDates(e.lib, head)
	}
	rec.Name = strings.Trim(stripDates(e.lib, name), " 【】[]（）()·|")
	rec.StartDate, rec.EndDate, _ = parseDateRange(e.lib, head)

	var descLines []string
	for _, line := range block[1:] {
		clean := stripBullet(line)
		if clean == "" {
			continue
		}
		if m := e.roleRe.FindStringSubmatch(line); m != nil && rec.Role == "" {
			rec.Role = m[1]
			continue
		}
		if e.lib.Metric.MatchString(clean) {
			rec.Achievements = append(rec.Achievements, clean)
		}
		descLines = append(descLines, clean)
	}
	rec.Description = truncateRunes(strings.Join(descLines, " "), 300)

	blockText := strings.Join(block, "\n")
	for i := range e.lib.SkillMatchers {
		m := &e.lib.SkillMatchers[i]
		if m.MatchString(blockText) {
			rec.Technologies = append(rec.Technologies, m.Name)
		}
	}
	rec.Technologies = dedupeStrings(rec.Technologies)

	rec.URL = e.urlRe.FindString(blockText)
	rec.Type = e.projectType(blockText)
	rec.STAR = e.extractSTAR(block[1:])

	if !e.validRecord(rec) {
		return nil
	}
	return rec
}

var projectTypeKeywords = []struct {
	keywords []string
	ptype    types.ProjectType
}{
	{[]string{"开源", "GitHub", "github"}, types.ProjectOpenSource},
	{[]string{"课程设计", "毕业设计", "毕设", "论文", "科研"}, types.ProjectAcademic},
	{[]string{"个人项目", "独立开发", "业余"}, types.ProjectPersonal},
	{[]string{"商业", "客户", "营收", "交付"}, types.ProjectCommercial},
	{[]string{"团队", "协作", "合作开发"}, types.ProjectTeam},
}

func (e *ProjectExtractor) projectType(text string) types.ProjectType {
	for _, entry := range projectTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.ptype
			}
		}
	}
	return types.ProjectOther
}

// extractSTAR 按触发词把描述行分入情境/任务/行动/结果四桶，
// 命中不足两桶时认为STAR结构不成立，返回nil
func (e *ProjectExtractor) extractSTAR(lines []string) *types.STARElements {
	star := &types.STARElements{}
	for _, line := range lines {
		clean := stripBullet(line)
		if clean == "" {
			continue
		}
		switch {
		case e.situationRe.MatchString(clean):
			star.Situation = append(star.Situation, clean)
		case e.taskRe.MatchString(clean):
			star.Task = append(star.Task, clean)
		case e.resultRe.MatchString(clean):
			star.Result = append(star.Result, clean)
		case e.actionRe.MatchString(clean):
			star.Action = append(star.Action, clean)
		}
	}
	buckets := 0
	for _, b := range [][]string{star.Situation, star.Task, star.Action, star.Result} {
		if len(b) > 0 {
			buckets++
		}
	}
	if buckets < 2 {
		return nil
	}
	return star
}

func (e *ProjectExtractor) validRecord(rec *types.Project) bool {
	n := runeLen(rec.Name)
	if n < 2 || n > 40 {
		return false
	}
	if e.lib.ContainsExclusionWord(rec.Name) && !strings.Contains(rec.Name, "项目") {
		return false
	}
	return runeLen(rec.Description) >= 6
}

func containsProject(records []types.Project, rec *types.Project) bool {
	for _, r := range records {
		if r.Name == rec.Name {
			return true
		}
	}
	return false
}

func (e *ProjectExtractor) confidence(records []types.Project) float64 {
	if len(records) == 0 {
		return 0
	}
	var teched, starred, fill float64
	for _, r := range records {
		if len(r.Technologies) > 0 {
			teched++
		}
		if r.STAR != nil {
			starred++
		}
		fill += completeness(
			r.Name != "", r.Description != "", len(r.Technologies) > 0,
			r.Role != "", r.StartDate != "", r.Type != types.ProjectOther,
			r.STAR != nil, r.URL != "",
		)
	}
	n := float64(len(records))
	return scoreConfidence(
		sig(weightPattern, teched/n),
		sig(weightContext, starred/n),
		sig(weightCompleteness, fill/n),
		sig(weightFormat, boolScore(e.ValidateResult(records))),
	)
}

// ValidateResult 每条记录须有合规的名称与不少于最短长度的描述
func (e *ProjectExtractor) ValidateResult(records []types.Project) bool {
	if len(records) == 0 {
		return false
	}
	for i := range records {
		if !e.validRecord(&records[i]) {
			return false
		}
	}
	return true
}
