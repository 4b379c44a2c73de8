package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extractor/internal/types"
)

func TestScoreConfidence(t *testing.T) {
	// 全信号满分
	score := scoreConfidence(
		sig(weightPattern, 1),
		sig(weightContext, 1),
		sig(weightCompleteness, 1),
		sig(weightFormat, 1),
	)
	assert.InDelta(t, 1.0, score, 1e-9)

	// 缺失信号从分母剔除：剩余两个信号都是0.5时结果仍是0.5
	score = scoreConfidence(
		sig(weightPattern, 0.5),
		missingSignal(weightContext),
		sig(weightCompleteness, 0.5),
		missingSignal(weightFormat),
	)
	assert.InDelta(t, 0.5, score, 1e-9)

	// 全部缺失
	assert.Equal(t, 0.0, scoreConfidence(missingSignal(weightPattern)))
}

func TestScoreConfidenceBounds(t *testing.T) {
	score := scoreConfidence(sig(weightPattern, 5), sig(weightFormat, -3))
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestCombineAISignal(t *testing.T) {
	// 规则侧满分加上AI满分仍是满分
	assert.InDelta(t, 1.0, CombineAISignal(1, 1), 1e-9)

	// AI信号为0时拉低整体
	combined := CombineAISignal(1, 0)
	assert.Less(t, combined, 1.0)
	assert.Greater(t, combined, 0.8)
}

func TestPreprocess(t *testing.T) {
	in := "第一行\r\n第二行\t带制表符\r第三行\n\n\n\n第四行"
	out := Preprocess(in)
	assert.Equal(t, "第一行\n第二行 带制表符\n第三行\n\n第四行", out)
}

func TestRunGuardedTimeout(t *testing.T) {
	started := time.Now()
	res := runGuarded(context.Background(), 50*time.Millisecond, "test", "", func() *types.ExtractionResult[string] {
		time.Sleep(2 * time.Second)
		return newResult("完成", 1, nil)
	})
	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, "", res.Data)
	assert.Equal(t, 0.0, res.Confidence)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "超时")
}

func TestRunGuardedPanic(t *testing.T) {
	res := runGuarded(context.Background(), time.Second, "test", 0, func() *types.ExtractionResult[int] {
		panic("人为异常")
	})
	assert.Equal(t, 0, res.Data)
	assert.Equal(t, 0.0, res.Confidence)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "异常")
}

func TestRunGuardedSuccess(t *testing.T) {
	res := runGuarded(context.Background(), time.Second, "test", "", func() *types.ExtractionResult[string] {
		return newResult("数据", 0.8, nil)
	})
	assert.Equal(t, "数据", res.Data)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0.0, completeness())
	assert.InDelta(t, 0.5, completeness(true, false), 1e-9)
	assert.InDelta(t, 1.0, completeness(true, true, true), 1e-9)
}

func TestDedupeStrings(t *testing.T) {
	out := dedupeStrings([]string{"a", "b", "a", "", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}
