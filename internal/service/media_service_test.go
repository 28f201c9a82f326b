package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postmux/postmux/internal/platform"
)

func TestVideoExtensionsMatchPlatformClassification(t *testing.T) {
	// An asset stored as FileType "video" must also publish down the
	// video branch, and vice versa.
	for ext := range allowedExtensions {
		_, storedAsVideo := videoExtensions[ext]
		assert.Equal(t, storedAsVideo, platform.IsVideo("file."+ext), ext)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "abc123.png", objectKey("https://cdn.example.com/abc123.png"))
	assert.Equal(t, "bare-key", objectKey("bare-key"))
}
