package service

import (
	"github.com/bytedance/sonic"
	qrcode "github.com/skip2/go-qrcode"
)

const DefaultQRSize = 320

// QRPayload adalah isi QR yang di-scan siswa lalu dikirim apa adanya ke /attendance/scan.
type QRPayload struct {
	ScopeKey string `json:"scope_key"`
	Token    string `json:"token"`
}

func (p QRPayload) Encode() (string, error) {
	b, err := sonic.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RenderQR menghasilkan PNG. Level Medium cukup untuk layar proyektor.
func RenderQR(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	if size > 1024 {
		size = 1024
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
