package cellkind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		value string
		want  Kind
	}{
		{"https://example.com/pic.png", Image},
		{"http://example.com/a/b/photo.JPEG", Image},
		{"https://cdn.example.com/x.webp?size=200&v=2", Image},
		{"https://example.com/icon.svg", Image},
		{"https://example.com/favicon.ico", Image},
		{"https://example.com/scan.tif", Image},
		{"https://example.com/scan.tiff", Image},
		{"https://example.com/anim.gif", Image},
		{"https://example.com/old.bmp", Image},
		{"https://example.com/page", Link},
		{"https://example.com/page?x=1", Link},
		{"https://example.com", Link},
		{"http://example.com/pic.png#frag", Link},
		{"https://example.com/pic.pngx", Link},
		{"https://example.com/png", Link},
		{"HTTPS://example.com/a.png", Image},
		{"HTTPS://example.com/page", Link},
		{"Http://example.com", Link},
		{"NULL", Plain},
		{"", Plain},
		{"ftp://example.com/pic.png", Plain},
		{"see https://example.com", Plain},
		{"https://", Plain},
		{"https://example.com/a b", Plain},
		{"pic.png", Plain},
		{`{"url":"https://example.com"}`, Plain},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestClassifyIsPositionIndependent(t *testing.T) {
	v := "https://example.com/pic.png"
	first := Classify(v)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Classify(v))
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "link", Link.String())
	assert.Equal(t, "image", Image.String())
	assert.False(t, Plain.IsActivatable())
	assert.True(t, Link.IsActivatable())
	assert.True(t, Image.IsActivatable())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "▣ pic.png", Label("https://example.com/a/pic.png?w=10", Image))
	assert.Equal(t, "https://example.com/page", Label("https://example.com/page", Link))
	assert.Equal(t, "NULL", Label("NULL", Plain))
}
