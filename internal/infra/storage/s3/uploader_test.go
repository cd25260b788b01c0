package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyConventions(t *testing.T) {
	avatar := AvatarKey("u1", "Photo.JPG")
	assert.True(t, strings.HasPrefix(avatar, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(avatar, ".jpg"))

	photo := PropertyPhotoKey("p9", "room.webp")
	assert.True(t, strings.HasPrefix(photo, "properties/p9/"))
	assert.True(t, strings.HasSuffix(photo, ".webp"))

	// Unknown or missing extensions normalise to .jpg.
	assert.True(t, strings.HasSuffix(AvatarKey("u1", "payload.exe"), ".jpg"))
	assert.True(t, strings.HasSuffix(AvatarKey("u1", ""), ".jpg"))

	// Keys never collide across uploads of the same filename.
	assert.NotEqual(t, AvatarKey("u1", "a.png"), AvatarKey("u1", "a.png"))
}

func TestObjectContentType(t *testing.T) {
	assert.Equal(t, "image/png", objectContentType("avatars/u1/x.jpg", "image/png"))
	assert.Equal(t, "image/jpeg", objectContentType("avatars/u1/x.jpg", ""))
	assert.Equal(t, "image/webp", objectContentType("properties/p9/x.webp", "text/html"))
	assert.Equal(t, "application/octet-stream", objectContentType("no-extension", ""))
}

func TestDisabledUploaderFailsWithSentinel(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), "avatars/u1/x.jpg", strings.NewReader("img"), "image/jpeg")
	assert.ErrorIs(t, err, ErrDisabled)
}
