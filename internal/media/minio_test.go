package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "video/abc.mp4", objectName(KindVideo, "abc", ".mp4"))
	assert.Equal(t, "image/abc", objectName(KindImage, "abc", ""))
}

func TestContentType(t *testing.T) {
	assert.True(t, strings.HasPrefix(contentType(KindImage, ".png"), "image/png"))
	assert.Equal(t, "video/mp4", contentType(KindVideo, ".unknownext"))
	assert.Equal(t, "application/octet-stream", contentType(KindImage, ""))
}

func TestObjectURL(t *testing.T) {
	p := &MinioProvider{bucket: "videotube", publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/videotube/image/x.png", p.objectURL("image/x.png"))
}
