package extractor

import (
	"context"
	"regexp"
	"strings"
	"time"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// EducationExtractor 教育经历提取器
type EducationExtractor struct {
	lib     *patterns.Library
	timeout time.Duration

	schoolRe *regexp.Regexp
	pairRe   *regexp.Regexp
	gpaRe    *regexp.Regexp
	majorLbl *regexp.Regexp
	honorRe  *regexp.Regexp
}

// NewEducationExtractor 创建教育经历提取器
func NewEducationExtractor(lib *patterns.Library, timeout time.Duration) *EducationExtractor {
	return &EducationExtractor{
		lib:      lib,
		timeout:  timeout,
		schoolRe: regexp.MustCompile(`[\p{Han}]{1,15}(?:大学|学院|学校|中学)`),
		// 行内"学校+专业(+学历)"共现配对
		pairRe:   regexp.MustCompile(`([\p{Han}]{1,15}(?:大学|学院))[\s,，·|/]+([\p{Han}A-Za-z]{2,20}?)(?:专业)?[\s,，·|/]*(本科|硕士|博士|研究生|学士|大专|专科)`),
		gpaRe:    regexp.MustCompile(`(?:GPA|绩点|平均分)\s*[:：]?\s*([0-9]\.?[0-9]{0,2}(?:\s*/\s*[0-9.]+)?)`),
		majorLbl: regexp.MustCompile(`(?:专业|Major)\s*[:：]\s*([^\s,，。、|]{2,30})`),
		honorRe:  regexp.MustCompile(`奖学金|三好学生|优秀毕业生|优秀学生干部|荣誉|排名前|专业前`),
	}
}

// Extract 提取教育经历
func (e *EducationExtractor) Extract(ctx context.Context, text string) *types.ExtractionResult[[]types.Education] {
	return runGuarded(ctx, e.timeout, "education", []types.Education{}, func() *types.ExtractionResult[[]types.Education] {
		return e.extract(text)
	})
}

func (e *EducationExtractor) extract(text string) *types.ExtractionResult[[]types.Education] {
	pre := Preprocess(text)
	lines := strings.Split(pre, "\n")
	var warnings []string

	scanned := findSection(e.lib, lines, "education")
	if scanned == nil {
		// 二次全文扫描兜底
		warnings = append(warnings, "未找到教育经历章节，已回退全文扫描")
		scanned = lines
	}

	_, blocks := splitEntries(scanned, e.isEntryStart)
	var records []types.Education
	for _, block := range blocks {
		if rec := e.buildRecord(block); rec != nil {
			records = append(records, *rec)
		}
	}

	// 辅助遍历：行内配对正则独立于状态机运行，按学校+专业去重合并
	for _, line := range lines {
		if m := e.pairRe.FindStringSubmatch(line); m != nil {
			rec := types.Education{
				School: m[1],
				Major:  strings.TrimSpace(m[2]),
				Degree: types.Degree(e.lib.NormalizeDegree(m[3])),
			}
			start, end, _ := parseDateRange(e.lib, line)
			rec.StartDate, rec.EndDate = start, end
			if e.validRecord(&rec) && !containsEducation(records, &rec) {
				e.enhance(&rec, lines)
				records = append(records, rec)
			}
		}
	}

	for i := range records {
		e.enhance(&records[i], lines)
	}

	if len(records) == 0 {
		warnings = append(warnings, "未提取到有效的教育经历")
	}

	confidence := e.confidence(records)
	return newResult(records, confidence, warnings)
}

// isEntryStart 条目起始判定：同一行同时含日期模式与院校后缀
func (e *EducationExtractor) isEntryStart(line string) bool {
	return e.lib.HasDate.MatchString(line) && e.lib.HasInstitutionSuffix(line)
}

var schoolPrefixTrim = []string{"毕业于", "就读于", "在读于"}

// buildRecord 从一个条目行块构造教育记录，最少字段不满足时丢弃
func (e *EducationExtractor) buildRecord(block []string) *types.Education {
	start := block[0]
	rec := &types.Education{}

	school := e.schoolRe.FindString(start)
	for _, p := range schoolPrefixTrim {
		school = strings.TrimPrefix(school, p)
	}
	rec.School = school
	rec.StartDate, rec.EndDate, _ = parseDateRange(e.lib, start)
	rec.Degree = types.Degree(e.lib.NormalizeDegree(start))
	rec.Major = e.majorFromStartLine(start, school)

	// 补充行解析：GPA、荣誉、专业标签、学历关键词
	for _, line := range block[1:] {
		if m := e.gpaRe.FindStringSubmatch(line); m != nil && rec.GPA == "" {
			rec.GPA = strings.TrimSpace(m[1])
		}
		if e.honorRe.MatchString(line) {
			rec.Honors = append(rec.Honors, stripBullet(line))
		}
		if rec.Major == "" {
			if m := e.majorLbl.FindStringSubmatch(line); m != nil {
				rec.Major = m[1]
			}
		}
		if rec.Degree == "" {
			rec.Degree = types.Degree(e.lib.NormalizeDegree(line))
		}
	}
	rec.Honors = dedupeStrings(rec.Honors)

	if !e.validRecord(rec) {
		return nil
	}
	return rec
}

// majorFromStartLine 取起始行中学校之后、学历关键词之外的首个词串作为专业
func (e *EducationExtractor) majorFromStartLine(line, school string) string {
	if school == "" {
		return ""
	}
	idx := strings.Index(line, school)
	if idx < 0 {
		return ""
	}
	rest := stripDates(e.lib, line[idx+len(school):])
	for _, token := range strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == ',' || r == '，' || r == '、' || r == '|' || r == '/' || r == '·'
	}) {
		token = strings.TrimSuffix(strings.TrimSpace(token), "专业")
		if token == "" || runeLen(token) < 2 || runeLen(token) > 20 {
			continue
		}
		// 纯学历关键词不是专业
		if e.lib.NormalizeDegree(token) != "" && runeLen(token) <= 3 {
			continue
		}
		if e.lib.HasInstitutionSuffix(token) {
			continue
		}
		return token
	}
	return ""
}

// enhance 后置增强：学历后缀推断、重点院校标记、日期回填
func (e *EducationExtractor) enhance(rec *types.Education, lines []string) {
	if rec.Degree == "" {
		if strings.HasSuffix(rec.School, "中学") || strings.HasSuffix(rec.School, "高中") {
			rec.Degree = types.DegreeHighSchool
		} else if strings.HasSuffix(rec.School, "职业技术学院") {
			rec.Degree = types.DegreeAssociate
		}
	}
	rec.IsKeyUniversity = e.lib.IsKeyUniversity(rec.School)

	// 日期缺失时重扫提到同一学校的行回填
	if rec.StartDate == "" && rec.EndDate == "" {
		for _, line := range lines {
			if strings.Contains(line, rec.School) {
				if start, end, _ := parseDateRange(e.lib, line); start != "" {
					rec.StartDate, rec.EndDate = start, end
					break
				}
			}
		}
	}
}

func (e *EducationExtractor) validRecord(rec *types.Education) bool {
	if rec.School == "" || rec.Major == "" {
		return false
	}
	if !e.lib.HasInstitutionSuffix(rec.School) {
		return false
	}
	n := runeLen(rec.School)
	if n < 3 || n > 30 {
		return false
	}
	m := runeLen(rec.Major)
	if m < 2 || m > 30 {
		return false
	}
	return !e.lib.HasInstitutionSuffix(rec.Major)
}

func containsEducation(records []types.Education, rec *types.Education) bool {
	for _, r := range records {
		if r.School == rec.School && r.Major == rec.Major {
			return true
		}
	}
	return false
}

func (e *EducationExtractor) confidence(records []types.Education) float64 {
	if len(records) == 0 {
		return 0
	}
	var dated, degreed, fill float64
	for _, r := range records {
		if r.StartDate != "" || r.EndDate != "" {
			dated++
		}
		if r.Degree != "" {
			degreed++
		}
		fill += completeness(
			r.School != "", r.Major != "", r.Degree != "",
			r.StartDate != "", r.EndDate != "", r.GPA != "", len(r.Honors) > 0,
		)
	}
	n := float64(len(records))
	return scoreConfidence(
		sig(weightPattern, dated/n),
		sig(weightContext, degreed/n),
		sig(weightCompleteness, fill/n),
		sig(weightFormat, boolScore(e.ValidateResult(records))),
	)
}

// ValidateResult 每条记录的学校与专业都须非空且通过形状检查
func (e *EducationExtractor) ValidateResult(records []types.Education) bool {
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
