package ingestion_engine

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunker_ShortTextUnchanged(t *testing.T) {
	c := NewChunker(100, 10)
	got := c.Split("  short text\n")
	if len(got) != 1 || got[0] != "  short text\n" {
		t.Errorf("Split = %q", got)
	}

	var nilChunker *Chunker
	long := strings.Repeat("abcd ", 1000)
	if got := nilChunker.Split(long); len(got) != 1 || got[0] != long {
		t.Error("nil chunker must pass text through")
	}
	if got := NewChunker(0, 0).Split(long); len(got) != 1 {
		t.Errorf("zero target gave %d chunks", len(got))
	}
}

func TestChunker_SplitsByLines(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("line %02d %s", i, strings.Repeat("x", 30)))
	}
	c := NewChunker(40, 0)
	chunks := c.Split(strings.Join(lines, "\n\n"))

	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	seen := 0
	for i, ch := range chunks {
		if tok := approxTokens(ch); tok > 40+approxTokens(lines[0]) {
			t.Errorf("chunk %d has %d tokens", i, tok)
		}
		for _, l := range strings.Split(ch, "\n") {
			if l == "" {
				t.Errorf("chunk %d kept a blank line", i)
			}
			seen++
		}
	}
	if seen != len(lines) {
		t.Errorf("chunks carry %d lines, want %d with no overlap", seen, len(lines))
	}
	if !strings.HasPrefix(chunks[0], lines[0]) || !strings.HasSuffix(chunks[len(chunks)-1], lines[29]) {
		t.Error("chunks out of order")
	}
}

func TestChunker_OverlapCarriesTail(t *testing.T) {
	// Each line is 8 tokens; target 20 flushes every 3 lines.
	var lines []string
	for i := 0; i < 9; i++ {
		lines = append(lines, fmt.Sprintf("row%d %s", i, strings.Repeat("y", 26)))
	}
	c := NewChunker(20, 10)
	chunks := c.Split(strings.Join(lines, "\n"))
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	first := strings.Split(chunks[0], "\n")
	second := strings.Split(chunks[1], "\n")
	if second[0] != first[len(first)-1] {
		t.Errorf("second chunk starts with %q, want overlap %q", second[0], first[len(first)-1])
	}
}

func TestChunker_OverlapClamped(t *testing.T) {
	c := NewChunker(40, 40)
	if c.OverlapTokens != 10 {
		t.Errorf("overlap = %d, want target/4", c.OverlapTokens)
	}
	if c := NewChunker(40, -3); c.OverlapTokens != 0 {
		t.Errorf("overlap = %d, want 0", c.OverlapTokens)
	}
}

func TestChunker_LongLineSplitsByWords(t *testing.T) {
	line := strings.TrimSpace(strings.Repeat("token ", 200))
	c := NewChunker(30, 0)
	chunks := c.Split(line)
	if len(chunks) < 5 {
		t.Fatalf("got %d chunks from one long line", len(chunks))
	}
	words := 0
	for i, ch := range chunks {
		if tok := approxTokens(ch); tok > 40 {
			t.Errorf("chunk %d has %d tokens", i, tok)
		}
		words += len(strings.Fields(ch))
	}
	if words != 200 {
		t.Errorf("chunks carry %d words, want 200", words)
	}
}
