package models

import (
	"time"

	"gorm.io/datatypes"
)

// Resume 简历提取结果表。五个域的结构化结果以JSON列存储，
// 原文与聚合元信息一并落库，便于复核与重放。
type Resume struct {
	ID             string         `gorm:"column:id;primaryKey;type:varchar(64)"`
	RawText        string         `gorm:"column:raw_text;type:mediumtext"`
	BasicInfo      datatypes.JSON `gorm:"column:basic_info;type:json"`
	Education      datatypes.JSON `gorm:"column:education;type:json"`
	WorkExperience datatypes.JSON `gorm:"column:work_experience;type:json"`
	Projects       datatypes.JSON `gorm:"column:projects;type:json"`
	Skills         datatypes.JSON `gorm:"column:skills;type:json"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:json"`
	Confidence     float64        `gorm:"column:confidence"`
	Method         string         `gorm:"column:method;type:varchar(32)"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName 指定表名
func (Resume) TableName() string {
	return "resumes"
}
