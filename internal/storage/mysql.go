package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"resume-extractor/internal/config"
	"resume-extractor/internal/logger"
	"resume-extractor/internal/storage/models"
	"resume-extractor/internal/types"
)

// MySQLStore 基于MySQL的提取结果持久化
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore 建立MySQL连接并初始化连接池
func NewMySQLStore(cfg config.MySQLConfig) (*MySQLStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.ConnectTimeoutSeconds)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	logger.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("MySQL连接已建立")
	return &MySQLStore{db: db}, nil
}

// AutoMigrate 建表
func (s *MySQLStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.Resume{})
}

// Update 将整批提取结果写入指定简历记录，存在即更新
func (s *MySQLStore) Update(ctx context.Context, resumeID string, result *types.BatchExtractionResult) error {
	if resumeID == "" {
		return fmt.Errorf("简历ID不能为空")
	}
	if result == nil {
		return fmt.Errorf("提取结果不能为空")
	}

	record := &models.Resume{
		ID:         resumeID,
		Confidence: result.Metadata.ConfidenceScore,
		Method:     string(result.Metadata.Method),
	}

	var err error
	if record.BasicInfo, err = marshalColumn(result.BasicInfo); err != nil {
		return err
	}
	if record.Education, err = marshalColumn(result.Education); err != nil {
		return err
	}
	if record.WorkExperience, err = marshalColumn(result.Experience); err != nil {
		return err
	}
	if record.Projects, err = marshalColumn(result.Projects); err != nil {
		return err
	}
	if record.Skills, err = marshalColumn(result.Skills); err != nil {
		return err
	}
	if record.Metadata, err = marshalColumn(result.Metadata); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"basic_info", "education", "work_experience", "projects",
			"skills", "metadata", "confidence", "method", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("写入提取结果失败: %w", err)
	}
	return nil
}

// Get 按ID读取简历记录
func (s *MySQLStore) Get(ctx context.Context, resumeID string) (*models.Resume, error) {
	var record models.Resume
	if err := s.db.WithContext(ctx).First(&record, "id = ?", resumeID).Error; err != nil {
		return nil, fmt.Errorf("读取简历记录失败: %w", err)
	}
	return &record, nil
}

func marshalColumn(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("序列化结果列失败: %w", err)
	}
	return datatypes.JSON(data), nil
}
