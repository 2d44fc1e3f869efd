// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供上下文辅助与分块读取工具
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	r := testutil.NewChunkReader(testutil.SplitAt(data, 3, 17))
// =============================================================================
package testutil

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestContextWithTimeout 返回带自定义超时的测试上下文
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 📦 分块读取
// =============================================================================

// SplitAt 按给定字节偏移切分数据，越界或重复的偏移会被忽略
func SplitAt(data []byte, cuts ...int) [][]byte {
	sorted := append([]int(nil), cuts...)
	sort.Ints(sorted)

	var out [][]byte
	prev := 0
	for _, c := range sorted {
		if c <= prev || c >= len(data) {
			continue
		}
		out = append(out, data[prev:c])
		prev = c
	}
	return append(out, data[prev:])
}

// ChunkReader 每次 Read 最多返回一个预设分块，用于模拟网络分包
type ChunkReader struct {
	chunks [][]byte
	cur    []byte
}

// NewChunkReader 创建 ChunkReader
func NewChunkReader(chunks [][]byte) *ChunkReader {
	return &ChunkReader{chunks: chunks}
}

// Read 实现 io.Reader
func (r *ChunkReader) Read(p []byte) (int, error) {
	for len(r.cur) == 0 {
		if len(r.chunks) == 0 {
			return 0, io.EOF
		}
		r.cur, r.chunks = r.chunks[0], r.chunks[1:]
	}
	n := copy(p, r.cur)
	r.cur = r.cur[n:]
	return n, nil
}

// CloseTracker 包装 io.Reader 并记录 Close 调用
type CloseTracker struct {
	io.Reader
	Closed bool
}

// Close 实现 io.Closer
func (c *CloseTracker) Close() error {
	c.Closed = true
	return nil
}
