package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-extractor/internal/config"
	"resume-extractor/internal/logger"
	"resume-extractor/pkg/ratelimit"
)

// Client OpenAI兼容的聊天补全客户端，内置限流与重试
type Client struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
	limiter    *ratelimit.TokenBucket
}

// NewClient 创建聊天补全客户端
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API地址不能为空")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limiter := ratelimit.NewTokenBucket(cfg.QPM, 0).
		WithRetryPolicy(time.Duration(cfg.RetryWaitSeconds)*time.Second, cfg.MaxRetries)

	return &Client{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// Model 返回当前使用的模型名
func (c *Client) Model() string {
	return c.model
}

// chatCompletionRequest 聊天补全请求结构 (OpenAI compatible)
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse 聊天补全响应结构 (OpenAI compatible)
type chatCompletionResponse struct {
	ID      string       `json:"id,omitempty"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// apiError 接口以200返回的应用层错误
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// ChatCompletion 发送单轮用户消息，返回模型回复文本。
// 低温度采样保证输出稳定，限流器内做瞬时错误退避重试。
func (c *Client) ChatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
		MaxTokens:   4000,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	var content string
	err = c.limiter.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("构造请求失败: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("请求模型服务失败: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("读取响应失败: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("模型服务返回状态码 %d: %.200s", resp.StatusCode, string(body))
		}

		var parsed chatCompletionResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("解析响应失败: %w", err)
		}
		if parsed.Error != nil {
			return fmt.Errorf("模型服务错误 %s: %s", parsed.Error.Code, parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("响应中没有choices")
		}

		content = parsed.Choices[0].Message.Content
		if parsed.Usage != nil {
			logger.Debug().
				Str("model", c.model).
				Int("prompt_tokens", parsed.Usage.PromptTokens).
				Int("completion_tokens", parsed.Usage.CompletionTokens).
				Msg("聊天补全调用完成")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
