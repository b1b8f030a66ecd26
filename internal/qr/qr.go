package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Generator renders the payment-confirmation QR artifact for a confirmed
// booking. The encoded URL points back at the supplier confirm-payment
// endpoint; scanning it is how a supplier confirms payment in person.
type Generator struct {
	baseURL string
	dir     string
}

func New(baseURL, dir string) *Generator {
	return &Generator{baseURL: baseURL, dir: dir}
}

func (g *Generator) PaymentURL(kind string, bookingID uint) string {
	return fmt.Sprintf("%s/supplier/%s-bookings/%d/confirm-payment/", g.baseURL, kind, bookingID)
}

// Generate writes the PNG and returns its path.
func (g *Generator) Generate(kind string, bookingID uint) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(g.dir, fmt.Sprintf("qr_code_%s_%d.png", kind, bookingID))
	if err := qrcode.WriteFile(g.PaymentURL(kind, bookingID), qrcode.Low, 256, path); err != nil {
		return "", err
	}
	return path, nil
}
