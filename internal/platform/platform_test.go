package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	for _, input := range []string{"youtube", "YOUTUBE", "YouTube"} {
		p, ok := ParsePlatform(input)
		assert.True(t, ok, input)
		assert.Equal(t, YouTube, p, input)
	}

	_, ok := ParsePlatform("myspace")
	assert.False(t, ok)

	_, ok = ParsePlatform("")
	assert.False(t, ok)
}

func TestIsVideo(t *testing.T) {
	assert.True(t, IsVideo("clip.mp4"))
	assert.True(t, IsVideo("holiday.MOV"))
	assert.True(t, IsVideo("/tmp/old.avi"))
	assert.False(t, IsVideo("photo.png"))
	assert.False(t, IsVideo("animation.gif"))
	assert.False(t, IsVideo("noextension"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "YouTube", DisplayName(YouTube))
	assert.Equal(t, "TikTok", DisplayName(TikTok))
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	assert.Len(t, catalog, 4)

	fb := catalog["facebook"]
	assert.True(t, fb.SupportsScheduling)

	yt := catalog["youtube"]
	assert.True(t, yt.SupportsVideo)
	assert.False(t, yt.SupportsImage)
	assert.False(t, yt.SupportsScheduling)
}
