package extractor

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// ExperienceExtractor 工作经历提取器
type ExperienceExtractor struct {
	lib     *patterns.Library
	timeout time.Duration

	companyRe  *regexp.Regexp
	positionRe *regexp.Regexp
	teamRe     *regexp.Regexp
	salaryRe   *regexp.Regexp
	achieveRe  *regexp.Regexp
	dutyRe     *regexp.Regexp
	locationRe *regexp.Regexp
}

// NewExperienceExtractor 创建工作经历提取器
func NewExperienceExtractor(lib *patterns.Library, timeout time.Duration) *ExperienceExtractor {
	// 公司后缀按长度降序拼接，保证"股份有限公司"先于"有限公司"命中
	suffixes := make([]string, len(lib.CompanySuffixes))
	copy(suffixes, lib.CompanySuffixes)
	for i := range suffixes {
		suffixes[i] = regexp.QuoteMeta(suffixes[i])
	}
	sortByLenDesc(suffixes)

	positions := make([]string, len(lib.PositionSuffixes))
	copy(positions, lib.PositionSuffixes)
	for i := range positions {
		positions[i] = regexp.QuoteMeta(positions[i])
	}
	sortByLenDesc(positions)

	return &ExperienceExtractor{
		lib:     lib,
		timeout: timeout,
		// 前缀贪婪匹配保证回溯到最靠右的后缀："北京字节跳动科技有限公司"
		// 取整名而不是在行内更早出现的"科技"处截断
		companyRe:  regexp.MustCompile(`[\p{Han}A-Za-z0-9（）()]{2,20}(?:` + strings.Join(suffixes, "|") + `)`),
		positionRe: regexp.MustCompile(`[\p{Han}A-Za-z0-9+#/]{1,16}(?:` + strings.Join(positions, "|") + `)`),
		teamRe:     regexp.MustCompile(`(?:团队|带领|管理)\s*(\d{1,4})\s*(?:人|名)`),
		salaryRe:   regexp.MustCompile(`(\d{1,3}[kK]\s*[-~]\s*\d{1,3}[kK]|\d{1,3}\s*[-~]\s*\d{1,3}\s*[万wW]|月薪\s*\d+)`),
		achieveRe:  regexp.MustCompile(`荣获|获得|达成|完成率|晋升|评为|突破`),
		dutyRe:     regexp.MustCompile(`负责|参与|主导|承担|协助|推动|搭建|维护`),
		locationRe: regexp.MustCompile(`(?:工作地点|地点|Base)\s*[:：]\s*([^\s,，。|]{2,20})`),
	}
}

func sortByLenDesc(items []string) {
	sort.Slice(items, func(i, j int) bool { return len(items[i]) > len(items[j]) })
}

// Extract 提取工作经历
func (e *ExperienceExtractor) Extract(ctx context.Context, text string) *types.ExtractionResult[[]types.Experience] {
	return runGuarded(ctx, e.timeout, "experience", []types.Experience{}, func() *types.ExtractionResult[[]types.Experience] {
		return e.extract(text)
	})
}

func (e *ExperienceExtractor) extract(text string) *types.ExtractionResult[[]types.Experience] {
	pre := Preprocess(text)
	lines := strings.Split(pre, "\n")
	var warnings []string

	scanned := findSection(e.lib, lines, "experience")
	if scanned == nil {
		warnings = append(warnings, "未找到工作经历章节，已回退全文扫描")
		scanned = lines
	}

	_, blocks := splitEntries(scanned, e.isEntryStart)
	var records []types.Experience
	for _, block := range blocks {
		if rec := e.buildRecord(block); rec != nil && !containsExperience(records, rec) {
			records = append(records, *rec)
		}
	}

	if len(records) == 0 {
		warnings = append(warnings, "未提取到有效的工作经历")
	}

	return newResult(records, e.confidence(records), warnings)
}

// isEntryStart 条目起始判定：日期+公司后缀共现，或公司+职位后缀共现
func (e *ExperienceExtractor) isEntryStart(line string) bool {
	if isBulletLine(line) {
		return false
	}
	hasCompany := e.lib.HasCompanySuffix(line)
	if !hasCompany {
		return false
	}
	return e.lib.HasDate.MatchString(line) || e.lib.HasPositionSuffix(line)
}

func (e *ExperienceExtractor) buildRecord(block []string) *types.Experience {
	head := block[0]
	rec := &types.Experience{}

	company := e.companyRe.FindString(head)
	// 命中院校后缀或排除词的候选不是公司
	if company == "" || e.lib.HasInstitutionSuffix(company) || e.lib.ContainsExclusionWord(company) {
		return nil
	}
	rec.Company = company

	rec.StartDate, rec.EndDate, rec.IsCurrent = parseDateRange(e.lib, head)

	rec.Position = e.findPosition(head, company)
	for _, line := range block[1:] {
		if rec.Position != "" {
			break
		}
		if !isBulletLine(line) {
			rec.Position = e.findPosition(line, company)
		}
	}

	// 列表项分流：含量化指标或成果动词的进成果，其余进职责
	for _, line := range block[1:] {
		clean := stripBullet(line)
		if clean == "" {
			continue
		}
		if m := e.teamRe.FindStringSubmatch(line); m != nil && rec.TeamSize == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				rec.TeamSize = n
			}
		}
		if m := e.salaryRe.FindStringSubmatch(line); m != nil && rec.SalaryRange == "" {
			rec.SalaryRange = strings.TrimSpace(m[1])
		}
		if m := e.locationRe.FindStringSubmatch(line); m != nil && rec.Location == "" {
			rec.Location = m[1]
		}
		if !isBulletLine(line) {
			continue
		}
		if e.lib.Metric.MatchString(clean) || e.achieveRe.MatchString(clean) {
			rec.Achievements = append(rec.Achievements, clean)
		} else if e.dutyRe.MatchString(clean) {
			rec.Responsibilities = append(rec.Responsibilities, clean)
		} else {
			rec.Responsibilities = append(rec.Responsibilities, clean)
		}
	}
	rec.Responsibilities = dedupeStrings(rec.Responsibilities)
	rec.Achievements = dedupeStrings(rec.Achievements)

	blockText := strings.Join(block, "\n")
	rec.CompanyType = types.CompanyType(e.lib.CompanyTypeOf(blockText))
	if rec.CompanyType == "" {
		rec.CompanyType = types.CompanyOther
	}
	rec.Industry = e.lib.IndustryOf(blockText)
	if rec.Location == "" {
		if _, city := e.lib.ResolveRegion(head); city != "" {
			rec.Location = city
		}
	}

	if !e.validRecord(rec) {
		return nil
	}
	return rec
}

// findPosition 在行内查找职位词，须不与公司名重叠
func (e *ExperienceExtractor) findPosition(line, company string) string {
	rest := strings.ReplaceAll(line, company, " ")
	rest = stripDates(e.lib, rest)
	pos := e.positionRe.FindString(rest)
	if pos == "" || e.lib.ContainsExclusionWord(pos) {
		return ""
	}
	return pos
}

// validRecord 公司与职位都须非空，公司名还须通过长度形状检查。
// 找不到职位的条目整条丢弃，不降级输出。
func (e *ExperienceExtractor) validRecord(rec *types.Experience) bool {
	if rec.Company == "" || rec.Position == "" {
		return false
	}
	n := runeLen(rec.Company)
	if n < 4 || n > 30 {
		return false
	}
	return runeLen(rec.Position) <= 20
}

func containsExperience(records []types.Experience, rec *types.Experience) bool {
	for _, r := range records {
		if r.Company == rec.Company && r.Position == rec.Position {
			return true
		}
	}
	return false
}

func (e *ExperienceExtractor) confidence(records []types.Experience) float64 {
	if len(records) == 0 {
		return 0
	}
	var dated, positioned, fill float64
	for _, r := range records {
		if r.StartDate != "" || r.EndDate != "" || r.IsCurrent {
			dated++
		}
		if r.Position != "" {
			positioned++
		}
		fill += completeness(
			r.Company != "", r.Position != "", r.StartDate != "",
			r.EndDate != "" || r.IsCurrent, len(r.Responsibilities) > 0,
			len(r.Achievements) > 0, r.Industry != "", r.Location != "",
		)
	}
	n := float64(len(records))
	return scoreConfidence(
		sig(weightPattern, dated/n),
		sig(weightContext, positioned/n),
		sig(weightCompleteness, fill/n),
		sig(weightFormat, boolScore(e.ValidateResult(records))),
	)
}

// ValidateResult 每条记录的公司与职位都须非空、通过形状检查且不含排除词
func (e *ExperienceExtractor) ValidateResult(records []types.Experience) bool {
	if len(records) == 0 {
		return false
	}
	for i := range records {
		if !e.validRecord(&records[i]) || e.lib.ContainsExclusionWord(records[i].Company) {
			return false
		}
	}
	return true
}
