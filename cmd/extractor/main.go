package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"resume-extractor/internal/config"
	"resume-extractor/internal/llm"
	"resume-extractor/internal/logger"
	"resume-extractor/internal/patterns"
	"resume-extractor/internal/processor"
	"resume-extractor/internal/storage"
)

func main() {
	var (
		filePath   string
		domain     string
		configPath string
		preset     string
		enableAI   bool
		resumeID   string
	)
	pflag.StringVarP(&filePath, "file", "f", "", "简历文本文件路径，为空时从标准输入读取")
	pflag.StringVarP(&domain, "domain", "d", "all", "提取域: all/basic_info/education/experience/projects/skills")
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.StringVarP(&preset, "preset", "p", "", "配置预设: default/high_accuracy/fast/english")
	pflag.BoolVar(&enableAI, "ai", false, "启用AI辅助提取")
	pflag.StringVar(&resumeID, "resume-id", "", "简历ID，非空时结果落库")
	pflag.Parse()

	// .env中的LLM_API_KEY等会被配置层读取
	_ = godotenv.Load()

	if err := run(filePath, domain, configPath, preset, enableAI, resumeID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(filePath, domain, configPath, preset string, enableAI bool, resumeID string) error {
	cfg, err := loadConfig(configPath, preset)
	if err != nil {
		return err
	}
	if enableAI {
		cfg.Extraction.EnableAIAssistance = true
	}
	logger.Init(cfg.Logger)

	text, err := readInput(filePath)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("输入文本为空")
	}

	lib, err := patterns.Load()
	if err != nil {
		return fmt.Errorf("加载模式库失败: %w", err)
	}

	var opts []processor.Option
	if cfg.Extraction.EnableAIAssistance {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("初始化模型客户端失败: %w", err)
		}
		opts = append(opts, processor.WithAssist(llm.NewAssistExtractor(client)))
	}
	if resumeID != "" {
		store, err := storage.NewMySQLStore(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("初始化存储失败: %w", err)
		}
		if err := store.AutoMigrate(); err != nil {
			return fmt.Errorf("初始化表结构失败: %w", err)
		}
		opts = append(opts, processor.WithRepository(store))
	}

	orch := processor.NewOrchestrator(cfg, lib, opts...)
	ctx := context.Background()

	var output interface{}
	switch domain {
	case "all":
		result, err := orch.ExtractAll(ctx, text, resumeID)
		if err != nil {
			return err
		}
		output = result
	case "basic_info":
		output = orch.ExtractBasicInfo(ctx, text)
	case "education":
		output = orch.ExtractEducation(ctx, text)
	case "experience":
		output = orch.ExtractExperience(ctx, text)
	case "projects":
		output = orch.ExtractProjects(ctx, text)
	case "skills":
		output = orch.ExtractSkills(ctx, text)
	default:
		return fmt.Errorf("未知的提取域: %s", domain)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("输出结果失败: %w", err)
	}
	return nil
}

func loadConfig(configPath, preset string) (*config.Config, error) {
	if preset != "" {
		return config.PresetConfig(preset)
	}
	return config.LoadConfig(configPath)
}

func readInput(filePath string) (string, error) {
	if filePath == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("读取简历文件失败: %w", err)
	}
	return string(data), nil
}
