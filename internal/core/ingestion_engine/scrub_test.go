package ingestion_engine

import (
	"strings"
	"testing"
)

func TestScrub(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"a\x00b", "ab"},
		{"\x00\x00lead", "lead"},
		{"trail\x00", "trail"},
		{"\x00", ""},
	}
	for _, c := range cases {
		got := Scrub(c.in)
		if got != c.want {
			t.Errorf("Scrub(%q) = %q, want %q", c.in, got, c.want)
		}
		if strings.Contains(got, "\x00") {
			t.Errorf("Scrub(%q) still contains NUL", c.in)
		}
		if Scrub(got) != got {
			t.Errorf("Scrub not idempotent on %q", c.in)
		}
	}
}

func TestScrubMetadata(t *testing.T) {
	in := map[string]string{"file\x00_name": "re\x00port.docx", "kind": "image_caption"}
	out := ScrubMetadata(in)

	if out["file_name"] != "report.docx" || out["kind"] != "image_caption" {
		t.Fatalf("ScrubMetadata = %v", out)
	}
	if _, ok := in["file_name"]; ok {
		t.Error("input map was modified")
	}
}
