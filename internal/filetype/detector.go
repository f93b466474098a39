package filetype

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// FileTypeInfo contains detected file type information
type FileTypeInfo struct {
	MIMEType    string
	Extension   string
	IsPDF       bool
	Supported   bool
	Description string
}

// Detector handles file type detection using magic bytes
type Detector struct{}

// New creates a new file type detector
func New() *Detector {
	return &Detector{}
}

// Detect inspects the uploaded bytes, not the filename. Only PDF is
// accepted for translation.
func (d *Detector) Detect(data []byte) (*FileTypeInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}

	mtype := mimetype.Detect(data)
	info := &FileTypeInfo{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}

	log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Msg("detected file type")

	switch {
	case mtype.Is("application/pdf"):
		info.IsPDF = true
		info.Supported = true
		info.Description = "PDF document"
	default:
		info.Description = fmt.Sprintf("Unsupported file type: %s", info.MIMEType)
	}
	return info, nil
}
