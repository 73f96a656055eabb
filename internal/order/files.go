package order

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileBytes   = 6 << 20
	MaxAttachments = 6
	MaxProofs      = 10
)

// FileInput é o arquivo como chega na requisição; Data em base64, com ou
// sem prefixo data URL.
type FileInput struct {
	Name     string
	MimeType string
	Data     string
}

// AllowedMime aceita image/* (inclui image/svg+xml) e application/pdf.
func AllowedMime(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "application/pdf" {
		return true
	}
	return strings.HasPrefix(mime, "image/") && len(mime) > len("image/")
}

// buildFile decodifica e valida um arquivo.
func buildFile(in FileInput, uploader string, now time.Time) (FilePayload, error) {
	mime := strings.ToLower(strings.TrimSpace(in.MimeType))
	data := strings.TrimSpace(in.Data)
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return FilePayload{}, fmt.Errorf("%w: malformed data URL", ErrInvalidInput)
		}
		if mime == "" {
			mime = strings.TrimSuffix(strings.TrimPrefix(data[:comma], "data:"), ";base64")
		}
		data = data[comma+1:]
	}
	if !AllowedMime(mime) {
		return FilePayload{}, fmt.Errorf("%w: file type %q is not allowed", ErrInvalidInput, mime)
	}
	if data == "" {
		return FilePayload{}, fmt.Errorf("%w: file %q is empty", ErrInvalidInput, in.Name)
	}
	if base64.StdEncoding.DecodedLen(len(data)) > MaxFileBytes+3 {
		return FilePayload{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, MaxFileBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return FilePayload{}, fmt.Errorf("%w: file is not valid base64", ErrInvalidInput)
	}
	if len(raw) > MaxFileBytes {
		return FilePayload{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, MaxFileBytes)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "file"
	}
	return FilePayload{
		ID:         uuid.New(),
		Name:       name,
		MimeType:   mime,
		Size:       len(raw),
		Data:       data,
		UploadedBy: uploader,
		UploadedAt: now,
	}, nil
}

func buildFiles(in []FileInput, uploader string, now time.Time) ([]FilePayload, error) {
	out := make([]FilePayload, 0, len(in))
	for _, f := range in {
		p, err := buildFile(f, uploader, now)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
