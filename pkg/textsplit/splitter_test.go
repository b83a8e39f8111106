package textsplit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	s := NewSplitter(1024, 50)

	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\n  \t"))
}

func TestSplitShortTextSingleSegment(t *testing.T) {
	s := NewSplitter(1024, 50)

	segments := s.Split("hello world")
	require.Len(t, segments, 1)
	assert.Equal(t, "hello world", segments[0].Text)
	assert.Equal(t, 0, segments[0].StartIndex)
}

func TestSplitNeverExceedsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
	segments := s.Split(text)
	require.NotEmpty(t, segments)
	for i, seg := range segments {
		assert.LessOrEqual(t, len(seg.Text), 100, "segment %d too long", i)
		assert.NotEmpty(t, seg.Text)
	}
}

func TestSplitOffsetsStrictlyIncreasing(t *testing.T) {
	s := NewSplitter(80, 10)

	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 30)
	segments := s.Split(text)
	require.Greater(t, len(segments), 1)
	for i := 1; i < len(segments); i++ {
		assert.Greater(t, segments[i].StartIndex, segments[i-1].StartIndex)
	}
}

func TestSplitOffsetsMatchOriginal(t *testing.T) {
	s := NewSplitter(60, 10)

	text := strings.Repeat("one two three four five six seven eight nine ten ", 10)
	for _, seg := range s.Split(text) {
		assert.Equal(t, seg.Text, text[seg.StartIndex:seg.StartIndex+len(seg.Text)])
	}
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter(128, 32)

	text := strings.Repeat("Paragraph one.\n\nParagraph two with more words in it.\n\n", 20)
	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	s := NewSplitter(64, 0)

	text := "first paragraph body text here.\n\nsecond paragraph body text here, which continues for a while longer."
	segments := s.Split(text)
	require.Greater(t, len(segments), 1)
	assert.True(t, strings.HasSuffix(segments[0].Text, "\n\n"),
		"first cut should land on the paragraph separator, got %q", segments[0].Text)
}

func TestSplitOverlapCarriesTailForward(t *testing.T) {
	s := NewSplitter(50, 20)

	text := strings.Repeat("abcdefghi ", 30)
	segments := s.Split(text)
	require.Greater(t, len(segments), 1)
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		// next segment starts at or before the previous segment's end
		assert.LessOrEqual(t, segments[i].StartIndex, prev.StartIndex+len(prev.Text))
	}
}

func TestSplitThaiTextKeepsRunesIntact(t *testing.T) {
	s := NewSplitter(64, 8)

	// Thai has no word spaces, forcing hard cuts; they must not split a rune.
	text := strings.Repeat("สัตว์เลี้ยงลูกด้วยนมเป็นสัตว์เลือดอุ่น", 10)
	segments := s.Split(text)
	require.Greater(t, len(segments), 1)
	for i, seg := range segments {
		assert.True(t, utf8.ValidString(seg.Text), "segment %d splits a rune", i)
	}
}

func TestNewSplitterClampsBadParams(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, defaultChunkSize, s.ChunkSize)
	assert.Equal(t, defaultChunkOverlap, s.ChunkOverlap)

	s = NewSplitter(100, 200)
	assert.Less(t, s.ChunkOverlap, s.ChunkSize)
}
