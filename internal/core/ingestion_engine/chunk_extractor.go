package ingestion_engine

import "strings"

// Chunker groups lines of a text into token-bounded chunks with optional overlap.
//
// TargetTokens:  approximate tokens per chunk; texts at or under it are kept whole.
// OverlapTokens: tokens retained from the end of the previous chunk as seed of the next.
type Chunker struct {
	TargetTokens  int
	OverlapTokens int
}

func NewChunker(targetTokens, overlapTokens int) *Chunker {
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	// An overlap as large as the target would never make progress.
	if targetTokens > 0 && overlapTokens >= targetTokens {
		overlapTokens = targetTokens / 4
	}
	return &Chunker{TargetTokens: targetTokens, OverlapTokens: overlapTokens}
}

// Split returns the chunks of text in order. A nil Chunker or a non-positive
// target returns the text unchanged.
func (c *Chunker) Split(text string) []string {
	if c == nil || c.TargetTokens <= 0 || approxTokens(text) <= c.TargetTokens {
		return []string{text}
	}

	var (
		out    []string
		buf    []string
		tokSum int
		fresh  int // fragments added since the last flush
	)

	// flush emits the current buffer and keeps a tail of about OverlapTokens
	// as the seed of the next chunk.
	flush := func() {
		out = append(out, strings.Join(buf, "\n"))
		fresh = 0

		if c.OverlapTokens <= 0 {
			buf, tokSum = buf[:0], 0
			return
		}
		var keep []string
		remain := c.OverlapTokens
		for j := len(buf) - 1; j >= 0 && remain > 0; j-- {
			t := approxTokens(buf[j])
			if t > remain && len(keep) > 0 {
				break
			}
			keep = append([]string{buf[j]}, keep...)
			remain -= t
		}
		// A single kept fragment larger than the overlap would dominate the next chunk.
		if len(keep) == 1 && approxTokens(keep[0]) > c.OverlapTokens {
			keep = nil
		}
		buf = keep
		tokSum = 0
		for _, s := range buf {
			tokSum += approxTokens(s)
		}
	}

	for _, frag := range c.fragments(text) {
		buf = append(buf, frag)
		tokSum += approxTokens(frag)
		fresh++
		if tokSum >= c.TargetTokens {
			flush()
		}
	}
	if fresh > 0 {
		flush()
	}
	return out
}

// fragments splits text into non-blank lines, breaking any line longer than
// the target into runs of words.
func (c *Chunker) fragments(text string) []string {
	var frags []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if approxTokens(line) <= c.TargetTokens {
			frags = append(frags, line)
			continue
		}

		var run []string
		runTok := 0
		for _, w := range strings.Fields(line) {
			t := approxTokens(w) + 1
			if runTok+t > c.TargetTokens && len(run) > 0 {
				frags = append(frags, strings.Join(run, " "))
				run, runTok = nil, 0
			}
			run = append(run, w)
			runTok += t
		}
		if len(run) > 0 {
			frags = append(frags, strings.Join(run, " "))
		}
	}
	return frags
}

// approxTokens is a cheap token estimator (~4 chars ≈ 1 token).
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
