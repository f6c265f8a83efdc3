package service

import (
	"github.com/google/uuid"
)

// QRCodeService renders order receipt QR codes.
type QRCodeService interface {
	// GenerateOrderReceiptQR returns a PNG QR code pointing at the order receipt.
	GenerateOrderReceiptQR(orderID uuid.UUID) ([]byte, error)

	// ParseOrderReceiptQR extracts the order ID from scanned QR code content.
	ParseOrderReceiptQR(qrData string) (uuid.UUID, error)
}
