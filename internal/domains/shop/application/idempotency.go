package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	shoptypes "github.com/Apurer/go-gin-shop/internal/domains/shop/application/types"
)

type normalizedCheckoutInput struct {
	MemberID int64                    `json:"memberId"`
	Lines    []normalizedCheckoutLine `json:"lines"`
	ShipTo   *normalizedAddress       `json:"shipTo"`
}

type normalizedCheckoutLine struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type normalizedAddress struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

// FingerprintCheckout builds a deterministic hash of the checkout payload (excluding the idempotency key).
// Line order is significant since it is the order lines are stored in.
func FingerprintCheckout(input shoptypes.CheckoutInput) (string, error) {
	normalized := normalizedCheckoutInput{
		MemberID: input.MemberID,
		Lines:    make([]normalizedCheckoutLine, 0, len(input.Lines)),
	}
	for _, line := range input.Lines {
		normalized.Lines = append(normalized.Lines, normalizedCheckoutLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	if input.ShipTo != nil {
		normalized.ShipTo = &normalizedAddress{City: input.ShipTo.City, Street: input.ShipTo.Street, Zipcode: input.ShipTo.Zipcode}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
