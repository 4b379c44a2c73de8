package patterns

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Library 模式库：姓氏表、高校白名单、公司/行业关键词、技能词典、
// 日期正则族等静态参考数据，进程内加载一次后只读共享
type Library struct {
	// 姓氏
	CompoundSurnames []string
	SingleSurnames   []string
	surnameSet       map[string]bool

	// 高校
	KeyUniversities     []string
	InstitutionSuffixes []string
	degreeKeywords      []degreeKeyword

	// 公司
	CompanySuffixes  []string
	PositionSuffixes []string
	CompanyTypes     map[string][]string
	Industries       map[string][]string
	ExclusionWords   []string

	// 技能
	SkillMatchers       []SkillMatcher
	ProficiencyLevels   []ProficiencyLevel
	SoftSkills          []string
	Languages           []LanguageEntry
	LanguageProficiency []string
	Certifications      map[string]string

	// 地区
	Provinces []ProvinceEntry

	// 章节标题别名
	SectionAliases map[string][]string
	sectionRegex   map[string]*regexp.Regexp

	// 日期正则族
	DateRange *regexp.Regexp
	HasDate   *regexp.Regexp
	YearMonth *regexp.Regexp
	Current   *regexp.Regexp

	// 联系方式正则族
	Email    *regexp.Regexp
	Mobile   *regexp.Regexp
	Github   *regexp.Regexp
	Linkedin *regexp.Regexp

	// 数值指标（用于成果识别）
	Metric *regexp.Regexp
	// 技能年限
	SkillYears *regexp.Regexp
}

// SkillMatcher 单个技能的匹配器，规范名加编译好的别名正则
type SkillMatcher struct {
	Category string
	Name     string
	re       *regexp.Regexp
}

// MatchString 判断文本中是否出现该技能
func (m *SkillMatcher) MatchString(s string) bool {
	return m.re.MatchString(s)
}

// ProficiencyLevel 熟练度级别与对应触发词
type ProficiencyLevel struct {
	Level string
	Words []string
}

// LanguageEntry 语言与其关联证书关键词
type LanguageEntry struct {
	Name         string   `yaml:"name"`
	Certificates []string `yaml:"certificates"`
}

// ProvinceEntry 省份与下辖城市
type ProvinceEntry struct {
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

type degreeKeyword struct {
	keyword string
	degree  string
}

type surnamesFile struct {
	Compound []string `yaml:"compound"`
	Single   []string `yaml:"single"`
}

type universitiesFile struct {
	KeyUniversities     []string          `yaml:"key_universities"`
	InstitutionSuffixes []string          `yaml:"institution_suffixes"`
	DegreeKeywords      map[string]string `yaml:"degree_keywords"`
}

type companiesFile struct {
	CompanySuffixes  []string            `yaml:"company_suffixes"`
	PositionSuffixes []string            `yaml:"position_suffixes"`
	CompanyTypes     map[string][]string `yaml:"company_types"`
	Industries       map[string][]string `yaml:"industries"`
	ExclusionWords   []string            `yaml:"exclusion_words"`
}

type skillsFile struct {
	TechnicalCategories []struct {
		Category string `yaml:"category"`
		Skills   []struct {
			Name    string   `yaml:"name"`
			Aliases []string `yaml:"aliases"`
		} `yaml:"skills"`
	} `yaml:"technical_categories"`
	ProficiencyLevels   map[string][]string `yaml:"proficiency_levels"`
	SoftSkills          []string            `yaml:"soft_skills"`
	Languages           []LanguageEntry     `yaml:"languages"`
	LanguageProficiency []string            `yaml:"language_proficiency"`
	Certifications      map[string]string   `yaml:"certifications"`
}

type regionsFile struct {
	Provinces []ProvinceEntry `yaml:"provinces"`
}

type sectionsFile struct {
	Sections map[string][]string `yaml:"sections"`
}

// Load 加载内嵌的模式数据并编译全部正则
func Load() (*Library, error) {
	lib := &Library{}

	var sn surnamesFile
	if err := readYAML("data/surnames.yaml", &sn); err != nil {
		return nil, err
	}
	lib.CompoundSurnames = sn.Compound
	lib.SingleSurnames = sn.Single
	lib.surnameSet = make(map[string]bool, len(sn.Compound)+len(sn.Single))
	for _, s := range sn.Compound {
		lib.surnameSet[s] = true
	}
	for _, s := range sn.Single {
		lib.surnameSet[s] = true
	}

	var uni universitiesFile
	if err := readYAML("data/universities.yaml", &uni); err != nil {
		return nil, err
	}
	lib.KeyUniversities = uni.KeyUniversities
	lib.InstitutionSuffixes = uni.InstitutionSuffixes
	for k, v := range uni.DegreeKeywords {
		lib.degreeKeywords = append(lib.degreeKeywords, degreeKeyword{keyword: k, degree: v})
	}
	// 长关键词优先匹配，保证"博士后"先于"博士"、"硕士研究生"先于"硕士"
	sort.Slice(lib.degreeKeywords, func(i, j int) bool {
		return len(lib.degreeKeywords[i].keyword) > len(lib.degreeKeywords[j].keyword)
	})

	var comp companiesFile
	if err := readYAML("data/companies.yaml", &comp); err != nil {
		return nil, err
	}
	lib.CompanySuffixes = comp.CompanySuffixes
	lib.PositionSuffixes = comp.PositionSuffixes
	lib.CompanyTypes = comp.CompanyTypes
	lib.Industries = comp.Industries
	lib.ExclusionWords = comp.ExclusionWords

	var sk skillsFile
	if err := readYAML("data/skills.yaml", &sk); err != nil {
		return nil, err
	}
	for _, cat := range sk.TechnicalCategories {
		for _, s := range cat.Skills {
			re, err := compileSkillRegex(s.Name, s.Aliases)
			if err != nil {
				return nil, fmt.Errorf("编译技能正则失败 %s: %w", s.Name, err)
			}
			lib.SkillMatchers = append(lib.SkillMatchers, SkillMatcher{
				Category: cat.Category,
				Name:     s.Name,
				re:       re,
			})
		}
	}
	// 熟练度按从高到低的固定顺序检查
	for _, level := range []string{"精通", "熟练", "熟悉", "了解"} {
		if words, ok := sk.ProficiencyLevels[level]; ok {
			lib.ProficiencyLevels = append(lib.ProficiencyLevels, ProficiencyLevel{Level: level, Words: words})
		}
	}
	lib.SoftSkills = sk.SoftSkills
	lib.Languages = sk.Languages
	lib.LanguageProficiency = sk.LanguageProficiency
	lib.Certifications = sk.Certifications

	var reg regionsFile
	if err := readYAML("data/regions.yaml", &reg); err != nil {
		return nil, err
	}
	lib.Provinces = reg.Provinces

	var sec sectionsFile
	if err := readYAML("data/sections.yaml", &sec); err != nil {
		return nil, err
	}
	lib.SectionAliases = sec.Sections
	lib.sectionRegex = make(map[string]*regexp.Regexp, len(sec.Sections))
	for domain, aliases := range sec.Sections {
		quoted := make([]string, 0, len(aliases))
		for _, a := range aliases {
			quoted = append(quoted, regexp.QuoteMeta(a))
		}
		re, err := regexp.Compile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
		if err != nil {
			return nil, fmt.Errorf("编译章节正则失败 %s: %w", domain, err)
		}
		lib.sectionRegex[domain] = re
	}

	lib.compileShared()
	return lib, nil
}

// MustLoad 加载失败即panic，仅供初始化路径使用
func MustLoad() *Library {
	lib, err := Load()
	if err != nil {
		panic(fmt.Sprintf("加载模式库失败: %v", err))
	}
	return lib
}

func readYAML(path string, out interface{}) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取模式数据失败 %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析模式数据失败 %s: %w", path, err)
	}
	return nil
}

func (lib *Library) compileShared() {
	lib.DateRange = regexp.MustCompile(
		`((?:19|20)\d{2})\s*[年./\-]?\s*(\d{1,2})?\s*月?\s*[-~～—–至到]+\s*(?:((?:19|20)\d{2})\s*[年./\-]?\s*(\d{1,2})?\s*月?|至今|现在|目前|(?i:present|now))`)
	lib.HasDate = regexp.MustCompile(`(?:19|20)\d{2}\s*[年./\-~～—–]`)
	lib.YearMonth = regexp.MustCompile(`((?:19|20)\d{2})\s*[年./\-]\s*(\d{1,2})\s*月?`)
	lib.Current = regexp.MustCompile(`至今|现在|目前|(?i:present|now)`)

	lib.Email = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	lib.Mobile = regexp.MustCompile(`(?:\+?86[\s\-]?)?(1[3-9]\d{9})`)
	lib.Github = regexp.MustCompile(`(?i)(?:https?://)?github\.com/[\w.\-]+`)
	lib.Linkedin = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[\w.\-]+`)

	lib.Metric = regexp.MustCompile(`\d+(?:\.\d+)?\s*[%％倍万亿]|百分之[一二三四五六七八九十\d]+`)
	lib.SkillYears = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*年(?:以上)?(?:经验|使用经验|开发经验)?`)
}

// compileSkillRegex 为技能名及别名构造匹配正则。
// 纯ASCII别名要求单词边界，含中文的别名做子串匹配。
func compileSkillRegex(name string, aliases []string) (*regexp.Regexp, error) {
	all := append([]string{name}, aliases...)
	var parts []string
	for _, a := range all {
		q := regexp.QuoteMeta(a)
		if isASCII(a) {
			parts = append(parts, `(?:^|[^A-Za-z0-9+#.\-])`+q+`(?:[^A-Za-z0-9+#.\-]|$)`)
		} else {
			parts = append(parts, q)
		}
	}
	return regexp.Compile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// SurnamePrefix 返回字符串开头命中的姓氏（优先复姓），未命中返回空串
func (lib *Library) SurnamePrefix(s string) string {
	runes := []rune(s)
	if len(runes) >= 2 && lib.surnameSet[string(runes[:2])] {
		return string(runes[:2])
	}
	if len(runes) >= 1 && lib.surnameSet[string(runes[:1])] {
		return string(runes[:1])
	}
	return ""
}

// IsKeyUniversity 判断学校名是否命中重点高校白名单
func (lib *Library) IsKeyUniversity(school string) bool {
	for _, u := range lib.KeyUniversities {
		if strings.Contains(school, u) {
			return true
		}
	}
	return false
}

// NormalizeDegree 在文本中查找学历关键词并归一到固定词表，未命中返回空串
func (lib *Library) NormalizeDegree(text string) string {
	for _, dk := range lib.degreeKeywords {
		if strings.Contains(text, dk.keyword) {
			return dk.degree
		}
	}
	return ""
}

// HasInstitutionSuffix 判断文本是否含院校后缀
func (lib *Library) HasInstitutionSuffix(s string) bool {
	for _, suf := range lib.InstitutionSuffixes {
		if strings.Contains(s, suf) {
			return true
		}
	}
	return false
}

// HasCompanySuffix 判断文本是否含公司后缀
func (lib *Library) HasCompanySuffix(s string) bool {
	for _, suf := range lib.CompanySuffixes {
		if strings.Contains(s, suf) {
			return true
		}
	}
	return false
}

// HasPositionSuffix 判断文本是否含职位后缀
func (lib *Library) HasPositionSuffix(s string) bool {
	for _, suf := range lib.PositionSuffixes {
		if strings.Contains(s, suf) {
			return true
		}
	}
	return false
}

// ContainsExclusionWord 公司/职位候选的排除词检查
func (lib *Library) ContainsExclusionWord(s string) bool {
	for _, w := range lib.ExclusionWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// CompanyTypeOf 根据关键词表推断公司类型，未命中返回空串
func (lib *Library) CompanyTypeOf(text string) string {
	// 先查更具体的类别，"民企"关键词多为公司专名放最后兜底
	order := []string{"国企", "外企", "创业公司", "民企"}
	for _, t := range order {
		for _, kw := range lib.CompanyTypes[t] {
			if strings.Contains(text, kw) {
				return t
			}
		}
	}
	return ""
}

// IndustryOf 根据关键词表推断行业，未命中返回空串
func (lib *Library) IndustryOf(text string) string {
	best := ""
	bestHits := 0
	for industry, kws := range lib.Industries {
		hits := 0
		for _, kw := range kws {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && industry < best) {
			best = industry
			bestHits = hits
		}
	}
	return best
}

// ResolveRegion 从文本解析省/市，城市命中优先
func (lib *Library) ResolveRegion(text string) (province, city string) {
	for _, p := range lib.Provinces {
		for _, c := range p.Cities {
			if strings.Contains(text, c) {
				return p.Name, c
			}
		}
	}
	for _, p := range lib.Provinces {
		if strings.Contains(text, p.Name) {
			return p.Name, ""
		}
	}
	return "", ""
}

// FindProficiency 在一行文本中查找熟练度触发词，从高到低返回首个命中级别
func (lib *Library) FindProficiency(line string) string {
	for _, level := range lib.ProficiencyLevels {
		for _, w := range level.Words {
			if strings.Contains(line, w) {
				return level.Level
			}
		}
	}
	return ""
}

// SectionRegex 返回指定域的章节标题正则，不存在时返回nil
func (lib *Library) SectionRegex(domain string) *regexp.Regexp {
	return lib.sectionRegex[domain]
}

// CertIssuer 证书名到颁发机构的查表，未命中返回空串
func (lib *Library) CertIssuer(name string) string {
	for cert, issuer := range lib.Certifications {
		if strings.Contains(name, cert) {
			return issuer
		}
	}
	return ""
}

// ValidMobile 严格校验手机号运营商号段
func (lib *Library) ValidMobile(num string) bool {
	if len(num) != 11 || num[0] != '1' {
		return false
	}
	// 现行号段：13x、145-149、150-153/155-159、166、170-178、18x、19x
	switch num[1] {
	case '3', '8', '9':
		return true
	case '4':
		return num[2] >= '5' && num[2] <= '9'
	case '5':
		return num[2] != '4'
	case '6':
		return num[2] == '6'
	case '7':
		return num[2] >= '0' && num[2] <= '8'
	}
	return false
}
