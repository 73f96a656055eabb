package order

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(n int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, n))
}

func TestBuildFileSizeBoundary(t *testing.T) {
	now := time.Now()

	f, err := buildFile(FileInput{Name: "art.png", MimeType: "image/png", Data: encoded(MaxFileBytes)}, "ana@acme.io", now)
	require.NoError(t, err)
	assert.Equal(t, MaxFileBytes, f.Size)
	assert.Equal(t, "ana@acme.io", f.UploadedBy)

	_, err = buildFile(FileInput{Name: "art.png", MimeType: "image/png", Data: encoded(MaxFileBytes + 1)}, "ana@acme.io", now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildFileDataURL(t *testing.T) {
	f, err := buildFile(FileInput{Name: "logo", Data: "data:image/svg+xml;base64," + encoded(10)}, "ana@acme.io", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.MimeType)
	assert.Equal(t, 10, f.Size)
	assert.Equal(t, encoded(10), f.Data)
}

func TestBuildFileRejects(t *testing.T) {
	cases := map[string]FileInput{
		"mime":    {Name: "a.zip", MimeType: "application/zip", Data: encoded(4)},
		"empty":   {Name: "a.png", MimeType: "image/png"},
		"base64":  {Name: "a.png", MimeType: "image/png", Data: "not base64!"},
		"dataurl": {Name: "a.png", Data: "data:image/png;base64"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildFile(in, "ana@acme.io", time.Now())
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAllowedMime(t *testing.T) {
	assert.True(t, AllowedMime("application/pdf"))
	assert.True(t, AllowedMime("IMAGE/JPEG"))
	assert.True(t, AllowedMime("image/png; charset=binary"))
	assert.False(t, AllowedMime("image/"))
	assert.False(t, AllowedMime("text/html"))
}
