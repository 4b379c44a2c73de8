package llm

import "fmt"

// 各域提取提示词模板。统一要求只输出JSON，字段名与规则提取侧完全一致，
// 未识别的字段输出空值而不是编造。

const basicInfoPromptTemplate = `你是一个专业的简历信息提取助手。请从下面的简历文本中提取候选人的基本信息。

要求：
1. 只输出一个JSON对象，不要输出任何解释性文字，不要使用Markdown代码块
2. 字段包括：name(姓名)、email(邮箱)、phone(手机号)、wechat(微信号)、qq(QQ号)、address(地址)、expected_position(期望职位)、current_status(求职状态)、summary(个人总结)、github、linkedin
3. 未出现的字段输出空字符串，不要猜测或编造
4. 手机号只保留11位数字

简历文本：
%s`

const educationPromptTemplate = `你是一个专业的简历信息提取助手。请从下面的简历文本中提取全部教育经历。

要求：
1. 只输出一个JSON数组，不要输出任何解释性文字，不要使用Markdown代码块
2. 每条记录的字段：school(学校)、degree(学历，只能是 博士/硕士/学士/大专/高中/其他 之一)、major(专业)、start_date(开始时间，格式YYYY-MM)、end_date(结束时间，格式YYYY-MM)、gpa、honors(荣誉数组)
3. "本科"归一为"学士"，"专科"归一为"大专"
4. 未出现的字段输出空字符串或空数组，不要编造

简历文本：
%s`

const experiencePromptTemplate = `你是一个专业的简历信息提取助手。请从下面的简历文本中提取全部工作经历。

要求：
1. 只输出一个JSON数组，不要输出任何解释性文字，不要使用Markdown代码块
2. 每条记录的字段：company(公司全称)、position(职位)、industry(行业)、start_date(开始时间，格式YYYY-MM)、end_date(结束时间，格式YYYY-MM，在职填空字符串)、is_current(是否在职，布尔值)、responsibilities(职责数组)、achievements(成果数组)、team_size(团队人数，数字，未知填0)
3. 结束时间为"至今"时is_current为true且end_date为空字符串
4. 职责与成果区分开：带量化指标或奖项的进achievements
5. 未出现的字段输出空字符串或空数组，不要编造

简历文本：
%s`

const projectPromptTemplate = `你是一个专业的简历信息提取助手。请从下面的简历文本中提取全部项目经历。

要求：
1. 只输出一个JSON数组，不要输出任何解释性文字，不要使用Markdown代码块
2. 每条记录的字段：name(项目名称)、description(项目描述)、type(项目类型，只能是 个人项目/团队项目/商业项目/学术项目/开源项目/其他 之一)、technologies(技术栈数组)、role(担任角色)、start_date(开始时间)、end_date(结束时间)、url(项目链接)
3. 技术栈使用规范名称，如"Go"、"MySQL"、"Kubernetes"
4. 未出现的字段输出空字符串或空数组，不要编造

简历文本：
%s`

const skillsPromptTemplate = `你是一个专业的简历信息提取助手。请从下面的简历文本中提取候选人的技能信息。

要求：
1. 只输出一个JSON对象，不要输出任何解释性文字，不要使用Markdown代码块
2. 字段结构：
   technical_skills: [{"category": "类别", "items": [{"name": "技能名", "proficiency": "精通/熟练/熟悉/了解或空", "years": 年限数字}]}]
   soft_skills: ["软技能"]
   languages: [{"language": "语言", "proficiency": "程度", "certificate": "证书"}]
   certifications: [{"name": "证书名", "issuer": "颁发机构", "issue_date": "YYYY-MM"}]
3. 技能名使用规范名称，熟练度只能是 精通/熟练/熟悉/了解 或空字符串
4. 未出现的字段输出空字符串、0或空数组，不要编造

简历文本：
%s`

func buildPrompt(template, text string) string {
	return fmt.Sprintf(template, text)
}
