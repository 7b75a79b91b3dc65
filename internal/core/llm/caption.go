package llm

import (
	"fmt"

	"github.com/Halcy0nic/Uplest/internal/models"
)

// CaptionPrompt is the fixed instruction sent with every image.
const CaptionPrompt = "Provide a detailed description of the image by identifying the key elements present, such as any subjects, objects, or significant aspects of the environment. Describe any actions, interactions, or dynamics you observe, and detail the setting and context, noting the location, time of day, and any environmental conditions. Interpret any emotional tone, mood, or themes conveyed through expressions, atmosphere, or composition. Highlight any unique, unusual, or particularly striking features or details. Aim to give a comprehensive overview that encapsulates the essence of the image."

// captionRecord wraps a model description in the record layout the index expects.
func captionRecord(label, description string) models.Record {
	return models.Record{
		Text:       fmt.Sprintf("\nImage Name: %s\nDescription: %s\n\n", label, description),
		SourceName: label,
		Metadata: map[string]string{
			models.MetaFileName: label,
			models.MetaKind:     "image_caption",
		},
	}
}
