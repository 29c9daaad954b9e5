package types

// AddressInput carries an optional postal address from adapters.
type AddressInput struct {
	City    string
	Street  string
	Zipcode string
}

// IsZero reports whether no address field was supplied.
func (a AddressInput) IsZero() bool {
	return a.City == "" && a.Street == "" && a.Zipcode == ""
}

// CheckoutLineInput requests quantity units of one item.
type CheckoutLineInput struct {
	ItemID   int64
	Quantity int
}

// CheckoutInput places one order for a member. When ShipTo is nil the order
// ships to the member's address.
type CheckoutInput struct {
	MemberID       int64
	Lines          []CheckoutLineInput
	ShipTo         *AddressInput
	IdempotencyKey string
}

// JoinMemberInput registers a new member.
type JoinMemberInput struct {
	Name    string
	Address AddressInput
}

// RegisterItemInput adds an item to the catalog with its opening stock.
type RegisterItemInput struct {
	Name          string
	Price         int64
	StockQuantity int
}

// UpdateItemInput changes catalog details. Stock is adjusted through restock and orders only.
type UpdateItemInput struct {
	ID    int64
	Name  string
	Price int64
}
