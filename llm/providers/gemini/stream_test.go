package gemini

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/BaSui01/solvegate/testutil"
	"github.com/BaSui01/solvegate/testutil/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateStream(t *testing.T) {
	tests := []struct {
		name      string
		stream    string
		wantText  string
		wantErr   error
		malformed int
	}{
		{
			name:     "single frame",
			stream:   fixtures.SSE(fixtures.TextFrame("hello")),
			wantText: "hello",
		},
		{
			name:     "frames concatenate in order",
			stream:   fixtures.SSE(fixtures.TextFrame("**문제 번호:** "), fixtures.TextFrame("1")),
			wantText: "**문제 번호:** 1",
		},
		{
			name:     "crlf framing",
			stream:   fixtures.SSECRLF(fixtures.TextFrame("a"), fixtures.TextFrame("b")),
			wantText: "ab",
		},
		{
			name:     "non data lines ignored",
			stream:   ": keep-alive\nevent: message\n" + fixtures.SSE(fixtures.TextFrame("x")) + "id: 7\n",
			wantText: "x",
		},
		{
			name:     "trailing fragment without newline is flushed",
			stream:   fixtures.SSE(fixtures.TextFrame("a")) + "data: " + fixtures.TextFrame("b"),
			wantText: "ab",
		},
		{
			name:      "malformed frame skipped",
			stream:    fixtures.SSE(fixtures.TextFrame("a"), `{"candidates":[`, fixtures.TextFrame("b")),
			wantText:  "ab",
			malformed: 1,
		},
		{
			name:     "empty text frames contribute nothing",
			stream:   fixtures.SSE(fixtures.TextFrame(""), `{"candidates":[]}`, `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`),
			wantText: "",
			wantErr:  ErrEmptyResult,
		},
		{
			name:    "empty body",
			stream:  "",
			wantErr: ErrEmptyResult,
		},
		{
			name:     "terminal done",
			stream:   fixtures.SSE(fixtures.TextFrame("a"), fixtures.Done),
			wantText: "a",
		},
		{
			name:     "data prefix requires space",
			stream:   "data:" + fixtures.TextFrame("no") + "\n" + fixtures.SSE(fixtures.TextFrame("yes")),
			wantText: "yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := AggregateStream(strings.NewReader(tt.stream))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, res)
			assert.Equal(t, tt.wantText, res.Text)
			assert.True(t, res.Complete)
			assert.Equal(t, tt.malformed, res.MalformedFrames)
		})
	}
}

func TestStreamAggregator_DoneStopsCurrentBatchOnly(t *testing.T) {
	agg := NewStreamAggregator()
	agg.Feed([]byte(fixtures.SSE(fixtures.TextFrame("A"), fixtures.Done, fixtures.TextFrame("B"))))
	agg.Feed([]byte(fixtures.SSE(fixtures.TextFrame("C"))))

	res, err := agg.Finish()
	require.NoError(t, err)
	assert.Equal(t, "AC", res.Text)
}

func TestStreamAggregator_CarriesPartialLine(t *testing.T) {
	line := []byte("data: " + fixtures.TextFrame("수학") + "\n")
	agg := NewStreamAggregator()
	for _, b := range line {
		agg.Feed([]byte{b})
	}

	res, err := agg.Finish()
	require.NoError(t, err)
	assert.Equal(t, "수학", res.Text)
	assert.Equal(t, 1, res.Frames)
	assert.Zero(t, res.MalformedFrames)
}

func TestAggregateStream_SplitInsideMultibyteRune(t *testing.T) {
	data := []byte(fixtures.SSE(fixtures.TextFrame("정답: $x=2$")))
	idx := bytes.Index(data, []byte("정"))
	require.Positive(t, idx)

	// 在 "정" 的三个字节之间切开
	chunks := testutil.SplitAt(data, idx+1, idx+2)
	res, err := AggregateStream(testutil.NewChunkReader(chunks))
	require.NoError(t, err)
	assert.Equal(t, "정답: $x=2$", res.Text)
}

func TestAggregateStream_InvalidUTF8Replaced(t *testing.T) {
	stream := []byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"a\xffb\"}]}}]}\n")
	res, err := AggregateStream(bytes.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "a�b", res.Text)
}

func TestAggregateStream_UsageAndFinishReason(t *testing.T) {
	stream := fixtures.SSE(fixtures.TextFrame("a"), fixtures.FinalFrame("b", "STOP", 258, 40))
	res, err := AggregateStream(strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "ab", res.Text)
	assert.Equal(t, "STOP", res.FinishReason)
	assert.Equal(t, Usage{PromptTokens: 258, CandidatesTokens: 40, TotalTokens: 298}, res.Usage)
	assert.Equal(t, 2, res.Frames)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestAggregateStream_ReadError(t *testing.T) {
	_, err := AggregateStream(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestParseUnary(t *testing.T) {
	t.Run("extracts first part text", func(t *testing.T) {
		res, err := ParseUnary([]byte(`{"candidates":[{"content":{"parts":[{"text":"**문제 번호:** 1"}]}}]}`))
		require.NoError(t, err)
		assert.Equal(t, "**문제 번호:** 1", res.Text)
		assert.True(t, res.Complete)
	})

	t.Run("missing text", func(t *testing.T) {
		_, err := ParseUnary([]byte(`{"candidates":[{"finishReason":"SAFETY"}]}`))
		assert.ErrorIs(t, err, ErrEmptyResult)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseUnary([]byte(`<html>oops</html>`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
