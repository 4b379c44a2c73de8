package extractor

import (
	"context"
	"regexp"
	"strings"
	"time"

	"resume-extractor/internal/patterns"
	"resume-extractor/internal/types"
)

// BasicInfoExtractor 基本信息提取器：姓名按优先级策略逐级尝试，
// 联系方式各走独立正则族并做严格格式校验。
type BasicInfoExtractor struct {
	lib     *patterns.Library
	timeout time.Duration

	nameLabel   *regexp.Regexp
	latinName   *regexp.Regexp
	hanToken    *regexp.Regexp
	wechat      *regexp.Regexp
	qq          *regexp.Regexp
	addressLbl  *regexp.Regexp
	positionLbl *regexp.Regexp
	statusLbl   *regexp.Regexp
	statusWords *regexp.Regexp
}

// NewBasicInfoExtractor 创建基本信息提取器
func NewBasicInfoExtractor(lib *patterns.Library, timeout time.Duration) *BasicInfoExtractor {
	return &BasicInfoExtractor{
		lib:         lib,
		timeout:     timeout,
		nameLabel:   regexp.MustCompile(`(?:姓名|Name)\s*[:：]\s*([^\s,，。|、]{1,20})`),
		latinName:   regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)\b`),
		hanToken:    regexp.MustCompile(`[\p{Han}]{2,4}`),
		wechat:      regexp.MustCompile(`(?:微信号|微信|WeChat)\s*[:：]?\s*([A-Za-z][-_A-Za-z0-9]{5,19})`),
		qq:          regexp.MustCompile(`(?:QQ|qq)\s*[:：]?\s*([1-9]\d{4,10})`),
		addressLbl:  regexp.MustCompile(`(?:现居住地|现居|居住地|所在地|地址|城市)\s*[:：]\s*([^\n]{2,40})`),
		positionLbl: regexp.MustCompile(`(?:意向职位|求职意向|应聘职位|期望职位|目标职位)\s*[:：]\s*([^\n]{2,30})`),
		statusLbl:   regexp.MustCompile(`(?:求职状态|目前状态|工作状态)\s*[:：]\s*([^\n]{2,20})`),
		statusWords: regexp.MustCompile(`在职-暂不考虑|在职-考虑机会|离职-随时到岗|应届毕业生|随时到岗|在职|离职`),
	}
}

// Extract 提取基本信息
func (e *BasicInfoExtractor) Extract(ctx context.Context, text string) *types.ExtractionResult[*types.BasicInfo] {
	return runGuarded(ctx, e.timeout, "basic_info", &types.BasicInfo{}, func() *types.ExtractionResult[*types.BasicInfo] {
		return e.extract(text)
	})
}

func (e *BasicInfoExtractor) extract(text string) *types.ExtractionResult[*types.BasicInfo] {
	pre := Preprocess(text)
	lines := strings.Split(pre, "\n")
	info := &types.BasicInfo{}
	var warnings []string

	info.Name = e.extractName(pre, lines)
	if info.Name == "" {
		warnings = append(warnings, "未能识别姓名")
	}

	// 联系方式：各字段独立正则族，候选先过严格校验再采纳
	for _, m := range e.lib.Mobile.FindAllStringSubmatch(pre, -1) {
		if e.lib.ValidMobile(m[1]) {
			info.Phone = m[1]
			break
		}
	}
	if info.Phone == "" {
		warnings = append(warnings, "未能识别联系电话")
	}
	info.Email = e.lib.Email.FindString(pre)
	if m := e.wechat.FindStringSubmatch(pre); m != nil {
		info.Wechat = m[1]
	}
	if m := e.qq.FindStringSubmatch(pre); m != nil {
		info.QQ = m[1]
	}
	info.Github = e.lib.Github.FindString(pre)
	info.Linkedin = e.lib.Linkedin.FindString(pre)

	// 地址解析到省/市
	if m := e.addressLbl.FindStringSubmatch(pre); m != nil {
		info.Address = strings.TrimSpace(m[1])
	}
	regionSource := info.Address
	if regionSource == "" {
		regionSource = truncateRunes(pre, 200)
	}
	info.Province, info.City = e.lib.ResolveRegion(regionSource)

	if m := e.positionLbl.FindStringSubmatch(pre); m != nil {
		info.ExpectedPosition = strings.TrimSpace(m[1])
	}
	if m := e.statusLbl.FindStringSubmatch(pre); m != nil {
		info.CurrentStatus = strings.TrimSpace(m[1])
	} else if m := e.statusWords.FindString(truncateRunes(pre, 300)); m != "" {
		info.CurrentStatus = m
	}

	// 自我评价章节作为个人总结
	if summaryLines := findSection(e.lib, lines, "summary"); summaryLines != nil {
		info.Summary = truncateRunes(strings.TrimSpace(strings.Join(summaryLines, " ")), 200)
	}

	valid := e.ValidateResult(info)
	if !valid {
		warnings = append(warnings, "基本信息缺少有效的身份联系字段")
	}

	confidence := scoreConfidence(
		sig(weightPattern, completeness(info.Name != "", info.Phone != "", info.Email != "")),
		sig(weightContext, e.contextScore(info)),
		sig(weightCompleteness, completeness(
			info.Name != "", info.Phone != "", info.Email != "",
			info.Wechat != "" || info.QQ != "", info.Address != "" || info.City != "",
			info.ExpectedPosition != "", info.CurrentStatus != "", info.Summary != "",
			info.Github != "" || info.Linkedin != "",
		)),
		sig(weightFormat, boolScore(valid)),
	)

	return newResult(info, confidence, warnings)
}

// extractName 姓名策略按优先级依次尝试，首个命中即返回：
// 1) 标签锚定 2) 前200字符姓氏表扫描 3) 拉丁姓名 4) 首行启发式
func (e *BasicInfoExtractor) extractName(text string, lines []string) string {
	if m := e.nameLabel.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	head := truncateRunes(text, 200)
	for _, token := range e.hanToken.FindAllString(head, -1) {
		if e.isLikelyName(token) {
			return token
		}
	}

	if m := e.latinName.FindStringSubmatch(head); m != nil {
		return m[1]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := runeLen(line)
		if n >= 2 && n <= 4 && e.hanToken.FindString(line) == line && e.lib.SurnamePrefix(line) != "" {
			return line
		}
		break
	}
	return ""
}

// 姓名误报屏蔽词：含这些词的字词串不可能是人名
var nameStopwords = []string{
	"大学", "学院", "学校", "公司", "科技", "经历", "简历", "电话",
	"邮箱", "工程", "专业", "技能", "项目", "教育", "工作", "实习",
}

func (e *BasicInfoExtractor) isLikelyName(token string) bool {
	if e.lib.SurnamePrefix(token) == "" {
		return false
	}
	if e.lib.NormalizeDegree(token) != "" {
		return false
	}
	for _, w := range nameStopwords {
		if strings.Contains(token, w) {
			return false
		}
	}
	return true
}

// contextScore 必要伴随字段的共现程度
func (e *BasicInfoExtractor) contextScore(info *types.BasicInfo) float64 {
	hasContact := info.Phone != "" || info.Email != ""
	switch {
	case info.Name != "" && hasContact:
		return 1
	case info.Name != "" || hasContact:
		return 0.5
	}
	return 0
}

// ValidateResult 姓名、电话、邮箱至少一项非空
func (e *BasicInfoExtractor) ValidateResult(info *types.BasicInfo) bool {
	return info != nil && (info.Name != "" || info.Phone != "" || info.Email != "")
}
