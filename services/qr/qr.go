package qr

import (
	"errors"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MaxSize     = 1024
	joinPath    = "/unirse-reserva"
)

var ErrEmptyCode = errors.New("qr code is empty")

// JoinLink builds the shareable link a guest opens to join a reservation.
func JoinLink(origin, code string) string {
	return strings.TrimRight(origin, "/") + joinPath + "?code=" + url.QueryEscape(code)
}

// RenderPNG encodes content as a PNG QR image of size x size pixels.
func RenderPNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyCode
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
