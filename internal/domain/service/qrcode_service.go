package service

// QRCodeService generates QR code images.
type QRCodeService interface {
	// GeneratePNG renders the content as a PNG QR code.
	GeneratePNG(content string) ([]byte, error)
}
