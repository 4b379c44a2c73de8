package extractor

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// SkillsExtractor 技能提取器。不同于经历类域的条目状态机，
// 技能是平铺扫描：词典匹配器逐行命中，再补熟练度与年限。
type SkillsExtractor struct {
	lib     *patterns.Library
	timeout time.Duration
}

// NewSkillsExtractor 创建技能提取器
func NewSkillsExtractor(lib *patterns.Library, timeout time.Duration) *SkillsExtractor {
	return &SkillsExtractor{lib: lib, timeout: timeout}
}

// Extract 提取技能全集
func (e *SkillsExtractor) Extract(ctx context.Context, text string) *types.ExtractionResult[*types.SkillSet] {
	return runGuarded(ctx, e.timeout, "skills", &types.SkillSet{}, func() *types.ExtractionResult[*types.SkillSet] {
		return e.extract(text)
	})
}

func (e *SkillsExtractor) extract(text string) *types.ExtractionResult[*types.SkillSet] {
	pre := Preprocess(text)
	lines := strings.Split(pre, "\n")
	var warnings []string

	// 技能优先在专属章节内扫描，降低其他章节提到的技术词造成的噪声；
	// 无章节时全文扫描
	scanned := findSection(e.lib, lines, "skills")
	scoped := scanned != nil
	if !scoped {
		warnings = append(warnings, "未找到技能章节，已回退全文扫描")
		scanned = lines
	}

	set := &types.SkillSet{}
	set.TechnicalSkills = e.technicalSkills(scanned)
	// 章节内没扫到任何技术技能时再放宽到全文
	if scoped && len(set.TechnicalSkills) == 0 {
		set.TechnicalSkills = e.technicalSkills(lines)
	}

	fullText := strings.Join(lines, "\n")
	set.SoftSkills = e.softSkills(fullText)
	set.Languages = e.languages(lines)
	set.Certifications = e.certifications(lines)

	if len(set.TechnicalSkills) == 0 {
		warnings = append(warnings, "未提取到技术技能")
	}

	return newResult(set, e.confidence(set), warnings)
}

// technicalSkills 逐行跑词典匹配器，同一技能取首个命中行的熟练度与年限
func (e *SkillsExtractor) technicalSkills(lines []string) []types.SkillCategory {
	type hit struct {
		category    string
		proficiency string
		years       float64
	}
	hits := make(map[string]*hit)
	var order []string

	for _, line := range lines {
		for i := range e.lib.SkillMatchers {
			m := &e.lib.SkillMatchers[i]
			if !m.MatchString(line) {
				continue
			}
			h, seen := hits[m.Name]
			if !seen {
				h = &hit{category: m.Category}
				hits[m.Name] = h
				order = append(order, m.Name)
			}
			if h.proficiency == "" {
				h.proficiency = e.proficiencyOf(line)
			}
			if h.years == 0 {
				if ym := e.lib.SkillYears.FindStringSubmatch(line); ym != nil {
					if y, err := strconv.ParseFloat(ym[1], 64); err == nil && y <= 40 {
						h.years = y
					}
				}
			}
		}
	}

	// 按命中顺序分组到类别
	var categories []types.SkillCategory
	index := make(map[string]int)
	for _, name := range order {
		h := hits[name]
		item := types.SkillItem{Name: name, Proficiency: h.proficiency, Years: h.years}
		if i, ok := index[h.category]; ok {
			categories[i].Items = append(categories[i].Items, item)
		} else {
			index[h.category] = len(categories)
			categories = append(categories, types.SkillCategory{
				Category: h.category,
				Items:    []types.SkillItem{item},
			})
		}
	}
	return categories
}

// proficiencyOf 熟练度触发词优先，没有时按行内动词弱推断
func (e *SkillsExtractor) proficiencyOf(line string) string {
	if level := e.lib.FindProficiency(line); level != "" {
		return level
	}
	if strings.Contains(line, "项目") || strings.Contains(line, "实现") || strings.Contains(line, "开发") {
		return "熟练"
	}
	if strings.Contains(line, "学习") {
		return "熟悉"
	}
	return ""
}

func (e *SkillsExtractor) softSkills(text string) []string {
	var out []string
	for _, s := range e.lib.SoftSkills {
		if strings.Contains(text, s) {
			out = append(out, s)
		}
	}
	return out
}

// languages 语言能力：语言名或其关联证书出现即算命中，
// 同行的证书与程度描述一并带出
func (e *SkillsExtractor) languages(lines []string) []types.LanguageSkill {
	var out []types.LanguageSkill
	seen := make(map[string]bool)
	for _, lang := range e.lib.Languages {
		for _, line := range lines {
			matched := strings.Contains(line, lang.Name)
			cert := ""
			for _, c := range lang.Certificates {
				if strings.Contains(line, c) {
					matched = true
					cert = c
					break
				}
			}
			if !matched || seen[lang.Name] {
				continue
			}
			seen[lang.Name] = true
			skill := types.LanguageSkill{Language: lang.Name, Certificate: cert}
			for _, p := range e.lib.LanguageProficiency {
				if strings.Contains(line, p) {
					skill.Proficiency = p
					break
				}
			}
			out = append(out, skill)
			break
		}
	}
	return out
}

func (e *SkillsExtractor) certifications(lines []string) []types.Certification {
	var out []types.Certification
	seen := make(map[string]bool)
	for _, line := range lines {
		for cert, issuer := range e.lib.Certifications {
			if !strings.Contains(line, cert) || seen[cert] {
				continue
			}
			seen[cert] = true
			c := types.Certification{Name: cert, Issuer: issuer}
			if m := e.lib.YearMonth.FindStringSubmatch(line); m != nil {
				c.IssueDate = normalizeDate(m[1], m[2])
			}
			out = append(out, c)
		}
	}
	// map遍历无序，按名称恢复稳定顺序
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (e *SkillsExtractor) confidence(set *types.SkillSet) float64 {
	var items, leveled int
	for _, cat := range set.TechnicalSkills {
		for _, item := range cat.Items {
			items++
			if item.Proficiency != "" {
				leveled++
			}
		}
	}
	if items == 0 && len(set.SoftSkills) == 0 && len(set.Languages) == 0 && len(set.Certifications) == 0 {
		return 0
	}

	patternScore := clamp01(float64(items) / 5)
	contextScore := 0.0
	if items > 0 {
		contextScore = float64(leveled) / float64(items)
	}
	return scoreConfidence(
		sig(weightPattern, patternScore),
		sig(weightContext, contextScore),
		sig(weightCompleteness, completeness(
			items > 0, len(set.SoftSkills) > 0,
			len(set.Languages) > 0, len(set.Certifications) > 0,
		)),
		sig(weightFormat, boolScore(e.ValidateResult(set))),
	)
}

// ValidateResult 技能集非空即有效：四个子域至少一个有内容
func (e *SkillsExtractor) ValidateResult(set *types.SkillSet) bool {
	if set == nil {
		return false
	}
	return len(set.TechnicalSkills) > 0 || len(set.SoftSkills) > 0 ||
		len(set.Languages) > 0 || len(set.Certifications) > 0
}
