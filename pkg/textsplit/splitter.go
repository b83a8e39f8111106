package textsplit

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1024
	defaultChunkOverlap = 50
)

// Segment is one bounded slice of the input text with its byte offset in the
// original. Offsets are what the vector index stores as start_index.
type Segment struct {
	Text       string
	StartIndex int
}

// Splitter cuts long text into segments no longer than ChunkSize bytes,
// preferring paragraph, then line, then sentence, then word boundaries, and
// falling back to a hard cut at a rune boundary. Consecutive segments overlap
// by up to ChunkOverlap bytes so context spanning a cut point is not lost.
//
// Splitting is deterministic: identical input and parameters always produce
// the identical segment sequence.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int

	separators []string
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = defaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   []string{"\n\n", "\n", ". ", " "},
	}
}

// Split returns the ordered segments of text. Empty or whitespace-only input
// yields no segments.
func (s *Splitter) Split(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var segments []Segment
	start := 0
	for start < len(text) {
		if len(text)-start <= s.ChunkSize {
			segments = append(segments, Segment{Text: text[start:], StartIndex: start})
			break
		}

		end := alignRuneStart(text, start+s.ChunkSize)
		if end <= start {
			end = start + s.ChunkSize
		}
		cut := s.findCut(text, start, end)

		segments = append(segments, Segment{Text: text[start:cut], StartIndex: start})

		next := alignRuneStart(text, cut-s.ChunkOverlap)
		if next <= start {
			// overlap would stall the scan, restart at the cut instead
			next = cut
		}
		start = next
	}
	return segments
}

// findCut picks the rightmost boundary within (start, end] on the highest
// priority separator that yields progress; end itself is the hard fallback.
func (s *Splitter) findCut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range s.separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}

// alignRuneStart moves i back to the start of the rune it points into.
func alignRuneStart(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
