// Package qrcode renders and reads the QR code printed on order receipts.
package qrcode

import (
	"encoding/json"
	"strings"

	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	receiptType = "order_receipt"
	defaultSize = 256
)

var recoveryLevels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

// ReceiptData is the JSON carried by a receipt code. URL is set only when the
// storefront has a public base URL configured.
type ReceiptData struct {
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
}

type receiptCodec struct {
	size    int
	level   qrcode.RecoveryLevel
	baseURL string
}

// NewReceiptCodec accepts the L/M/Q/H recovery levels and falls back to M.
func NewReceiptCodec(size int, level, baseURL string) service.QRCodeService {
	recovery, ok := recoveryLevels[strings.ToUpper(level)]
	if !ok {
		recovery = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}

	return &receiptCodec{
		size:    size,
		level:   recovery,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *receiptCodec) GenerateOrderReceiptQR(orderID uuid.UUID) ([]byte, error) {
	data := ReceiptData{OrderID: orderID.String(), Type: receiptType}
	if c.baseURL != "" {
		data.URL = c.baseURL + "/orders/" + data.OrderID
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode receipt")
	}

	png, err := qrcode.Encode(string(payload), c.level, c.size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render receipt code for order %s", orderID)
	}

	return png, nil
}

func (c *receiptCodec) ParseOrderReceiptQR(content string) (uuid.UUID, error) {
	var data ReceiptData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to decode receipt")
	}
	if data.Type != receiptType {
		return uuid.Nil, errors.Errorf("not a receipt code: type %q", data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "receipt carries a malformed order id")
	}

	return orderID, nil
}
