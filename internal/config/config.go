package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"resume-extractor/internal/logger"
)

// Config 应用程序配置
type Config struct {
	// LLM接口配置
	LLM LLMConfig `yaml:"llm"`

	// 提取行为配置
	Extraction ExtractionConfig `yaml:"extraction"`

	// MySQL配置
	MySQL MySQLConfig `yaml:"mysql"`

	// Redis配置
	Redis RedisConfig `yaml:"redis"`

	// 日志配置
	Logger logger.Config `yaml:"logger"`
}

// LLMConfig LLM聊天补全接口配置
type LLMConfig struct {
	APIKey           string `yaml:"api_key"`
	APIURL           string `yaml:"api_url"`
	Model            string `yaml:"model"`
	QPM              int    `yaml:"qpm"`                // 每分钟请求数限制
	MaxRetries       int    `yaml:"max_retries"`        // 最大重试次数
	RetryWaitSeconds int    `yaml:"retry_wait_seconds"` // 重试等待时间(秒)
	TimeoutSeconds   int    `yaml:"timeout_seconds"`    // 单次调用超时(秒)
}

// ExtractionConfig 提取行为配置
type ExtractionConfig struct {
	EnableAIAssistance  bool    `yaml:"enable_ai_assistance"` // 是否启用AI辅助提取
	ConfidenceThreshold float64 `yaml:"confidence_threshold"` // 低于该置信度建议人工复核
	MaxRetries          int     `yaml:"max_retries"`
	TimeoutMS           int     `yaml:"timeout_ms"` // 单域提取超时(毫秒)
	Language            string  `yaml:"language"`   // zh-CN 或 en-US
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	CacheTTLHours       int     `yaml:"cache_ttl_hours"` // 提取结果缓存过期时间(小时)
}

// MySQLConfig MySQL配置
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns           int `yaml:"max_idle_conns"`
	MaxOpenConns           int `yaml:"max_open_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
	ConnectTimeoutSeconds  int `yaml:"connect_timeout_seconds"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Address      string `yaml:"address"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool_size"`
	MinIdleConns int    `yaml:"min_idle_conns"`
}

// LoadConfig 从文件加载配置；路径为空时在常见位置查找，找不到则退回默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-extractor", "config.yaml"),
		}
		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
		}
		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
		if configPath == "" {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// 从环境变量覆盖配置（如果存在）
func applyEnvOverrides(cfg *Config) {
	if envKey := os.Getenv("LLM_API_KEY"); envKey != "" {
		cfg.LLM.APIKey = envKey
	}
	if envURL := os.Getenv("LLM_API_URL"); envURL != "" {
		cfg.LLM.APIURL = envURL
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
}

// DefaultConfig 默认预设：均衡的通用配置
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIURL:           "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions",
			Model:            "qwen-plus",
			QPM:              600,
			MaxRetries:       2,
			RetryWaitSeconds: 2,
			TimeoutSeconds:   60,
		},
		Extraction: ExtractionConfig{
			EnableAIAssistance:  false,
			ConfidenceThreshold: 0.6,
			MaxRetries:          2,
			TimeoutMS:           5000,
			Language:            "zh-CN",
			SimilarityThreshold: 0.7,
			CacheTTLHours:       72,
		},
		MySQL: MySQLConfig{
			Host:                   "localhost",
			Port:                   3306,
			Username:               "root",
			Database:               "resume_extractor",
			MaxIdleConns:           10,
			MaxOpenConns:           100,
			ConnMaxLifetimeMinutes: 60,
			ConnectTimeoutSeconds:  10,
		},
		Redis: RedisConfig{
			Address:      "localhost:6379",
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 2,
		},
		Logger: logger.Config{
			Level:      "info",
			Format:     "json",
			TimeFormat: "2006-01-02 15:04:05",
		},
	}
}

// HighAccuracyConfig 高精度预设：启用AI辅助，放宽超时，提高复核门槛
func HighAccuracyConfig() *Config {
	cfg := DefaultConfig()
	cfg.Extraction.EnableAIAssistance = true
	cfg.Extraction.ConfidenceThreshold = 0.75
	cfg.Extraction.TimeoutMS = 15000
	cfg.Extraction.MaxRetries = 3
	cfg.LLM.Model = "qwen-max"
	return cfg
}

// FastConfig 快速预设：纯规则提取，收紧超时
func FastConfig() *Config {
	cfg := DefaultConfig()
	cfg.Extraction.EnableAIAssistance = false
	cfg.Extraction.ConfidenceThreshold = 0.5
	cfg.Extraction.TimeoutMS = 1500
	cfg.Extraction.MaxRetries = 0
	return cfg
}

// EnglishConfig 英文简历预设
func EnglishConfig() *Config {
	cfg := DefaultConfig()
	cfg.Extraction.Language = "en-US"
	return cfg
}

// PresetConfig 按名称返回预设配置
func PresetConfig(name string) (*Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "high_accuracy":
		return HighAccuracyConfig(), nil
	case "fast":
		return FastConfig(), nil
	case "english":
		return EnglishConfig(), nil
	}
	return nil, fmt.Errorf("未知的配置预设: %s", name)
}

// ExtractionTimeout 单域提取超时时间
func (c *Config) ExtractionTimeout() time.Duration {
	if c.Extraction.TimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Extraction.TimeoutMS) * time.Millisecond
}

// GetDuration 解析时长字符串，失败时返回默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
