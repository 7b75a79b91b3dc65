package ingestion_engine

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]FileKind{
		"report.docx":     KindDocx,
		"notes.pdf":       KindPDF,
		"photo.png":       KindImage,
		"photo.jpeg":      KindImage,
		"photo.jpg":       KindImage,
		"REPORT.DOCX":     KindOther,
		"scan.PDF":        KindOther,
		"photo.PNG":       KindOther,
		"readme.txt":      KindOther,
		"archive.pdf.png": KindImage,
		"image.png.pdf":   KindPDF,
		"slides.pptx":     KindOther,
		"docx":            KindOther,
	}
	for name, want := range cases {
		if got := Classify(name); got != want {
			t.Errorf("Classify(%q) = %s, want %s", name, got, want)
		}
	}
}
