package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resume-extractor/internal/logger"
	"resume-extractor/internal/types"
)

// Extractor 提取契约：所有域提取器实现该接口。
// Extract 保证不抛出任何错误：超时与内部异常都转化为降级结果。
type Extractor[T any] interface {
	Extract(ctx context.Context, text string) *types.ExtractionResult[T]
	ValidateResult(data T) bool
}

// 置信度信号权重。缺失的信号从归一化分母中剔除，而不是按零分计入。
const (
	weightPattern      = 0.30 // 正则/模式匹配质量
	weightContext      = 0.20 // 上下文相关性
	weightCompleteness = 0.25 // 数据完整度
	weightFormat       = 0.25 // 格式有效性
	weightAI           = 0.15 // AI辅助信号，仅在启用AI时参与
)

// signal 单个置信度信号；ok为false表示信号缺失
type signal struct {
	score  float64
	weight float64
	ok     bool
}

func sig(weight, score float64) signal {
	return signal{score: clamp01(score), weight: weight, ok: true}
}

func missingSignal(weight float64) signal {
	return signal{weight: weight, ok: false}
}

// scoreConfidence 加权求和并按实际参与的权重归一化
func scoreConfidence(signals ...signal) float64 {
	var sum, weights float64
	for _, s := range signals {
		if !s.ok {
			continue
		}
		sum += s.score * s.weight
		weights += s.weight
	}
	if weights == 0 {
		return 0
	}
	return clamp01(sum / weights)
}

// CombineAISignal 在融合阶段为参与了AI辅助的域补入第五个信号
func CombineAISignal(confidence, aiScore float64) float64 {
	total := weightPattern + weightContext + weightCompleteness + weightFormat
	return clamp01((confidence*total + clamp01(aiScore)*weightAI) / (total + weightAI))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	spaceRun = regexp.MustCompile("[ \t 　]+")
)

// Preprocess 预处理：统一换行符，压缩行内空白（保留换行），去除首尾空白
func Preprocess(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// runGuarded 超时与异常防护：提取逻辑与截止时间赛跑，
// 超时或panic时返回降级结果而不是向上抛出。
// done通道带缓冲，超时后落败的goroutine写入即退出，不会泄漏。
func runGuarded[T any](ctx context.Context, timeout time.Duration, domain string, empty T, fn func() *types.ExtractionResult[T]) *types.ExtractionResult[T] {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	done := make(chan *types.ExtractionResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Str("domain", domain).Interface("panic", r).Msg("提取过程发生内部异常")
				done <- degraded(empty, fmt.Sprintf("提取内部异常: %v", r))
			}
		}()
		done <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res
	case <-timer.C:
		logger.Warn().Str("domain", domain).Dur("timeout", timeout).Msg("提取超时，返回降级结果")
		return degraded(empty, fmt.Sprintf("提取超时(%s)", timeout))
	case <-ctx.Done():
		return degraded(empty, fmt.Sprintf("上下文已取消: %v", ctx.Err()))
	}
}

// degraded 降级结果：空数据、零置信度、带警告
func degraded[T any](empty T, warning string) *types.ExtractionResult[T] {
	return &types.ExtractionResult[T]{
		Data:       empty,
		Confidence: 0,
		Warnings:   []string{warning},
	}
}

func newResult[T any](data T, confidence float64, warnings []string) *types.ExtractionResult[T] {
	if warnings == nil {
		warnings = []string{}
	}
	return &types.ExtractionResult[T]{
		Data:       data,
		Confidence: clamp01(confidence),
		Warnings:   warnings,
	}
}

// completeness 给定一组字段是否非空的判定，返回非空占比
func completeness(filled ...bool) float64 {
	if len(filled) == 0 {
		return 0
	}
	n := 0
	for _, f := range filled {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(filled))
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// dedupeStrings 保序去重
func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
