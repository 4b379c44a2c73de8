package types

// ExtractionMethod 表示结果的提取方式
type ExtractionMethod string

const (
	// MethodRuleBased 纯规则提取
	MethodRuleBased ExtractionMethod = "rule_based"
	// MethodAIAssisted 纯AI提取
	MethodAIAssisted ExtractionMethod = "ai_assisted"
	// MethodHybrid 规则与AI融合提取
	MethodHybrid ExtractionMethod = "hybrid"
)

// Degree 学历枚举，统一到固定词表
type Degree string

const (
	DegreeDoctor     Degree = "博士"
	DegreeMaster     Degree = "硕士"
	DegreeBachelor   Degree = "学士"
	DegreeAssociate  Degree = "大专"
	DegreeHighSchool Degree = "高中"
	DegreeOther      Degree = "其他"
)

// CompanyType 公司类型枚举
type CompanyType string

const (
	CompanyStateOwned CompanyType = "国企"
	CompanyPrivate    CompanyType = "民企"
	CompanyForeign    CompanyType = "外企"
	CompanyStartup    CompanyType = "创业公司"
	CompanyOther      CompanyType = "其他"
)

// ProjectType 项目类型枚举
type ProjectType string

const (
	ProjectPersonal   ProjectType = "个人项目"
	ProjectTeam       ProjectType = "团队项目"
	ProjectCommercial ProjectType = "商业项目"
	ProjectAcademic   ProjectType = "学术项目"
	ProjectOpenSource ProjectType = "开源项目"
	ProjectOther      ProjectType = "其他"
)

// ExtractionResult 置信度信封：每次提取调用返回的统一包装
// 一经构造不再修改
type ExtractionResult[T any] struct {
	Data       T                      `json:"data"`
	Confidence float64                `json:"confidence"`
	Warnings   []string               `json:"warnings"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// BasicInfo 基本信息，全部字段可选
// 有效性标准：姓名、电话、邮箱至少存在一项
type BasicInfo struct {
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Wechat           string `json:"wechat,omitempty"`
	QQ               string `json:"qq,omitempty"`
	Address          string `json:"address,omitempty"`
	Province         string `json:"province,omitempty"`
	City             string `json:"city,omitempty"`
	ExpectedPosition string `json:"expected_position,omitempty"`
	CurrentStatus    string `json:"current_status,omitempty"`
	Summary          string `json:"summary,omitempty"`
	Github           string `json:"github,omitempty"`
	Linkedin         string `json:"linkedin,omitempty"`
}

// Education 一条教育经历
type Education struct {
	School          string   `json:"school"`
	Degree          Degree   `json:"degree,omitempty"`
	Major           string   `json:"major"`
	StartDate       string   `json:"start_date,omitempty"`
	EndDate         string   `json:"end_date,omitempty"`
	GPA             string   `json:"gpa,omitempty"`
	Honors          []string `json:"honors,omitempty"`
	IsKeyUniversity bool     `json:"is_key_university"`
}

// Experience 一条工作经历
type Experience struct {
	Company          string      `json:"company"`
	Position         string      `json:"position"`
	Industry         string      `json:"industry,omitempty"`
	StartDate        string      `json:"start_date,omitempty"`
	EndDate          string      `json:"end_date,omitempty"`
	Location         string      `json:"location,omitempty"`
	IsCurrent        bool        `json:"is_current"`
	Responsibilities []string    `json:"responsibilities,omitempty"`
	Achievements     []string    `json:"achievements,omitempty"`
	TeamSize         int         `json:"team_size,omitempty"`
	SalaryRange      string      `json:"salary_range,omitempty"`
	CompanyType      CompanyType `json:"company_type,omitempty"`
}

// STARElements 项目描述的STAR拆解
type STARElements struct {
	Situation []string `json:"situation,omitempty"`
	Task      []string `json:"task,omitempty"`
	Action    []string `json:"action,omitempty"`
	Result    []string `json:"result,omitempty"`
}

// Project 一条项目经历
type Project struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Type         ProjectType   `json:"type,omitempty"`
	Technologies []string      `json:"technologies,omitempty"`
	Role         string        `json:"role,omitempty"`
	StartDate    string        `json:"start_date,omitempty"`
	EndDate      string        `json:"end_date,omitempty"`
	Achievements []string      `json:"achievements,omitempty"`
	URL          string        `json:"url,omitempty"`
	STAR         *STARElements `json:"star,omitempty"`
}

// SkillItem 单项技术技能
type SkillItem struct {
	Name        string  `json:"name"`
	Proficiency string  `json:"proficiency,omitempty"`
	Years       float64 `json:"years,omitempty"`
}

// SkillCategory 按类别组织的技术技能
type SkillCategory struct {
	Category string      `json:"category"`
	Items    []SkillItem `json:"items"`
}

// LanguageSkill 语言能力
type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
	Certificate string `json:"certificate,omitempty"`
}

// Certification 证书
type Certification struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	ID         string `json:"id,omitempty"`
}

// SkillSet 技能全集
type SkillSet struct {
	TechnicalSkills []SkillCategory `json:"technical_skills,omitempty"`
	SoftSkills      []string        `json:"soft_skills,omitempty"`
	Languages       []LanguageSkill `json:"languages,omitempty"`
	Certifications  []Certification `json:"certifications,omitempty"`
}

// ExtractionMetadata 整批提取的聚合元信息
type ExtractionMetadata struct {
	Method          ExtractionMethod `json:"method"`
	ModelName       string           `json:"model_name,omitempty"`
	ConfidenceScore float64          `json:"confidence_score"`
	ElapsedMS       int64            `json:"elapsed_ms"`
	Warnings        []string         `json:"warnings,omitempty"`
	Errors          []string         `json:"errors,omitempty"`
	FieldsExtracted []string         `json:"fields_extracted,omitempty"`
	FieldsMissing   []string         `json:"fields_missing,omitempty"`
	EstimatedTokens int              `json:"estimated_tokens,omitempty"`
	RequestID       string           `json:"request_id,omitempty"`
}

// BatchExtractionResult 一次完整文档提取的全部结果
type BatchExtractionResult struct {
	BasicInfo  ExtractionResult[*BasicInfo]   `json:"basic_info"`
	Education  ExtractionResult[[]Education]  `json:"education"`
	Experience ExtractionResult[[]Experience] `json:"work_experience"`
	Projects   ExtractionResult[[]Project]    `json:"projects"`
	Skills     ExtractionResult[*SkillSet]    `json:"skills"`
	Metadata   ExtractionMetadata             `json:"metadata"`
}
