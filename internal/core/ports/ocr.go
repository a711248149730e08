package ports

import (
	"context"

	"pharmaflow/internal/core/domain/model/prescription"
)

// OCRClient extracts drug mentions from a prescription image via the
// external recognition service.
type OCRClient interface {
	// ExtractMentions uploads the image and returns the raw recognized text
	// together with the drug mentions found in it, in reading order.
	ExtractMentions(ctx context.Context, image []byte, filename string) (
		extractedText string, mentions []prescription.Mention, err error)
}
