package merge

import (
	"strings"

	"resume-extractor/internal/types"
)

// 规则结果与AI结果的融合策略：规则侧是确定性来源，非空字段一律保留；
// AI侧只用于补缺字段和补充规则漏掉的条目。AI结果为nil时原样返回规则结果。

// MergeBasicInfo 逐字段融合基本信息，规则侧非空字段优先
func MergeBasicInfo(rule, ai *types.BasicInfo) *types.BasicInfo {
	if rule == nil {
		return ai
	}
	if ai == nil {
		return rule
	}

	out := *rule
	fillString(&out.Name, ai.Name)
	fillString(&out.Email, ai.Email)
	fillString(&out.Phone, ai.Phone)
	fillString(&out.Wechat, ai.Wechat)
	fillString(&out.QQ, ai.QQ)
	fillString(&out.Address, ai.Address)
	fillString(&out.Province, ai.Province)
	fillString(&out.City, ai.City)
	fillString(&out.ExpectedPosition, ai.ExpectedPosition)
	fillString(&out.CurrentStatus, ai.CurrentStatus)
	fillString(&out.Summary, ai.Summary)
	fillString(&out.Github, ai.Github)
	fillString(&out.Linkedin, ai.Linkedin)
	return &out
}

// MergeEducation 按学校+专业对齐条目：同条目字段级融合，AI独有条目追加
func MergeEducation(rule, ai []types.Education) []types.Education {
	if ai == nil {
		return rule
	}

	out := make([]types.Education, len(rule))
	copy(out, rule)
	for _, a := range ai {
		matched := false
		for i := range out {
			if out[i].School == a.School && out[i].Major == a.Major {
				fillString((*string)(&out[i].Degree), string(a.Degree))
				fillString(&out[i].StartDate, a.StartDate)
				fillString(&out[i].EndDate, a.EndDate)
				fillString(&out[i].GPA, a.GPA)
				if len(out[i].Honors) == 0 {
					out[i].Honors = a.Honors
				}
				matched = true
				break
			}
		}
		if !matched && a.School != "" {
			out = append(out, a)
		}
	}
	return out
}

// MergeExperience 按公司+职位对齐条目：同条目字段级融合，AI独有条目追加
func MergeExperience(rule, ai []types.Experience) []types.Experience {
	if ai == nil {
		return rule
	}

	out := make([]types.Experience, len(rule))
	copy(out, rule)
	for _, a := range ai {
		matched := false
		for i := range out {
			// 任一侧职位缺失时按公司对齐到已有条目
			if out[i].Company == a.Company && (out[i].Position == a.Position || out[i].Position == "" || a.Position == "") {
				fillString(&out[i].Position, a.Position)
				fillString(&out[i].Industry, a.Industry)
				fillString(&out[i].StartDate, a.StartDate)
				fillString(&out[i].EndDate, a.EndDate)
				fillString(&out[i].Location, a.Location)
				if !out[i].IsCurrent && a.IsCurrent {
					out[i].IsCurrent = true
				}
				if len(out[i].Responsibilities) == 0 {
					out[i].Responsibilities = a.Responsibilities
				}
				if len(out[i].Achievements) == 0 {
					out[i].Achievements = a.Achievements
				}
				if out[i].TeamSize == 0 {
					out[i].TeamSize = a.TeamSize
				}
				matched = true
				break
			}
		}
		// 追加的AI独有条目同样要满足公司与职位非空
		if !matched && a.Company != "" && a.Position != "" {
			out = append(out, a)
		}
	}
	return out
}

// MergeProjects 项目名没有稳定的书写形式，用相似度对齐：
// 名称相等、互为子串、或归一化编辑距离相似度达到阈值视为同一项目
func MergeProjects(rule, ai []types.Project, similarityThreshold float64) []types.Project {
	if ai == nil {
		return rule
	}

	out := make([]types.Project, len(rule))
	copy(out, rule)
	for _, a := range ai {
		matched := false
		for i := range out {
			if !sameProject(out[i].Name, a.Name, similarityThreshold) {
				continue
			}
			fillString(&out[i].Description, a.Description)
			fillString((*string)(&out[i].Type), string(a.Type))
			fillString(&out[i].Role, a.Role)
			fillString(&out[i].StartDate, a.StartDate)
			fillString(&out[i].EndDate, a.EndDate)
			fillString(&out[i].URL, a.URL)
			out[i].Technologies = unionStrings(out[i].Technologies, a.Technologies)
			if len(out[i].Achievements) == 0 {
				out[i].Achievements = a.Achievements
			}
			matched = true
			break
		}
		if !matched && a.Name != "" {
			out = append(out, a)
		}
	}
	return out
}

func sameProject(a, b string, threshold float64) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return Similarity(a, b) >= threshold
}

// MergeSkills 技能集按类别与名称做并集，规则侧条目的熟练度与年限优先
func MergeSkills(rule, ai *types.SkillSet) *types.SkillSet {
	if rule == nil {
		return ai
	}
	if ai == nil {
		return rule
	}

	out := &types.SkillSet{
		SoftSkills:     unionStrings(rule.SoftSkills, ai.SoftSkills),
		Languages:      append([]types.LanguageSkill(nil), rule.Languages...),
		Certifications: append([]types.Certification(nil), rule.Certifications...),
	}

	// 技术技能：以规则侧分类为基础，并入AI侧的新增技能与新增分类。
	// 条目切片逐个深拷贝，后面的补缺写入不得穿透到规则侧输入
	out.TechnicalSkills = make([]types.SkillCategory, len(rule.TechnicalSkills))
	for i, cat := range rule.TechnicalSkills {
		items := make([]types.SkillItem, len(cat.Items))
		copy(items, cat.Items)
		out.TechnicalSkills[i] = types.SkillCategory{Category: cat.Category, Items: items}
	}
	for _, aiCat := range ai.TechnicalSkills {
		idx := -1
		for i := range out.TechnicalSkills {
			if out.TechnicalSkills[i].Category == aiCat.Category {
				idx = i
				break
			}
		}
		if idx == -1 {
			if len(aiCat.Items) > 0 {
				items := make([]types.SkillItem, len(aiCat.Items))
				copy(items, aiCat.Items)
				out.TechnicalSkills = append(out.TechnicalSkills, types.SkillCategory{Category: aiCat.Category, Items: items})
			}
			continue
		}
		for _, item := range aiCat.Items {
			exists := false
			for j := range out.TechnicalSkills[idx].Items {
				if out.TechnicalSkills[idx].Items[j].Name == item.Name {
					if out.TechnicalSkills[idx].Items[j].Proficiency == "" {
						out.TechnicalSkills[idx].Items[j].Proficiency = item.Proficiency
					}
					if out.TechnicalSkills[idx].Items[j].Years == 0 {
						out.TechnicalSkills[idx].Items[j].Years = item.Years
					}
					exists = true
					break
				}
			}
			if !exists {
				out.TechnicalSkills[idx].Items = append(out.TechnicalSkills[idx].Items, item)
			}
		}
	}

	for _, lang := range ai.Languages {
		exists := false
		for _, l := range out.Languages {
			if l.Language == lang.Language {
				exists = true
				break
			}
		}
		if !exists {
			out.Languages = append(out.Languages, lang)
		}
	}
	for _, cert := range ai.Certifications {
		exists := false
		for _, c := range out.Certifications {
			if c.Name == cert.Name {
				exists = true
				break
			}
		}
		if !exists {
			out.Certifications = append(out.Certifications, cert)
		}
	}
	return out
}

// Similarity 归一化编辑距离相似度，范围[0,1]
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein 单行滚动数组实现的编辑距离
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(prev[j]+1, cur+1, prev[j-1]+cost)
			prev[j-1] = cur
			cur = next
		}
		prev[len(b)] = cur
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// unionStrings 保序并集
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
