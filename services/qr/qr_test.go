package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinLinkEscapesCode(t *testing.T) {
	tests := []struct {
		origin, code, want string
	}{
		{"https://canchas.example", "ABC123", "https://canchas.example/unirse-reserva?code=ABC123"},
		{"https://canchas.example/", "a b&c=d", "https://canchas.example/unirse-reserva?code=a+b%26c%3Dd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinLink(tt.origin, tt.code))
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG("https://canchas.example/unirse-reserva?code=X", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestRenderPNGRejectsEmpty(t *testing.T) {
	_, err := RenderPNG("", 128)
	assert.ErrorIs(t, err, ErrEmptyCode)
}
