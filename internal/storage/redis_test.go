package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	key := CacheKey("张三的简历全文")
	assert.Contains(t, key, extractCachePrefix)
	// 同一原文的键稳定，不同原文的键不同
	assert.Equal(t, key, CacheKey("张三的简历全文"))
	assert.NotEqual(t, key, CacheKey("李四的简历全文"))
}
