package ingestion_engine

import "strings"

// Postgres rejects NUL in text and jsonb, so it is stripped rather than refused.
const nul = "\x00"

func Scrub(text string) string {
	if !strings.Contains(text, nul) {
		return text
	}
	return strings.ReplaceAll(text, nul, "")
}

// ScrubMetadata returns a copy of meta with NUL removed from keys and values.
func ScrubMetadata(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[Scrub(k)] = Scrub(v)
	}
	return out
}
