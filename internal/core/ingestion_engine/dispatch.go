package ingestion_engine

import "strings"

type FileKind int

const (
	KindOther FileKind = iota
	KindDocx
	KindPDF
	KindImage
)

func (k FileKind) String() string {
	switch k {
	case KindDocx:
		return "docx"
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

var imageSuffixes = []string{".png", ".jpeg", ".jpg"}

// Classify picks the custom handler for a file name. Suffix checks are
// case-sensitive and run in a fixed order: docx, pdf, then images.
func Classify(name string) FileKind {
	switch {
	case strings.HasSuffix(name, ".docx"):
		return KindDocx
	case strings.HasSuffix(name, ".pdf"):
		return KindPDF
	}
	for _, s := range imageSuffixes {
		if strings.HasSuffix(name, s) {
			return KindImage
		}
	}
	return KindOther
}
