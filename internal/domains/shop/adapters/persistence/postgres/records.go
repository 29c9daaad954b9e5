package postgres

import (
	"time"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

type addressColumns struct {
	City    string `gorm:"column:city;size:128"`
	Street  string `gorm:"column:street;size:255"`
	Zipcode string `gorm:"column:zipcode;size:32"`
}

func toAddressColumns(a domain.Address) addressColumns {
	return addressColumns{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

func (c addressColumns) toDomain() (domain.Address, error) {
	return domain.NewAddress(c.City, c.Street, c.Zipcode)
}

type memberRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Name      string         `gorm:"column:name;size:255;index"`
	Address   addressColumns `gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (memberRecord) TableName() string { return "members" }

type itemRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	Name          string    `gorm:"column:name;size:255"`
	Price         int64     `gorm:"column:price"`
	StockQuantity int       `gorm:"column:stock_quantity"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "items" }

type shipmentRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Address   addressColumns `gorm:"embedded;embeddedPrefix:address_"`
	Status    string         `gorm:"column:status;type:varchar(32)"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (shipmentRecord) TableName() string { return "shipments" }

type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	MemberID   int64     `gorm:"column:member_id;index"`
	ShipmentID int64     `gorm:"column:shipment_id;uniqueIndex"`
	OrderedAt  time.Time `gorm:"column:ordered_at"`
	Status     string    `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	OrderID    int64     `gorm:"column:order_id;index:idx_order_lines_order_position"`
	ItemID     int64     `gorm:"column:item_id;index"`
	Position   int       `gorm:"column:position;index:idx_order_lines_order_position"`
	OrderPrice int64     `gorm:"column:order_price"`
	Quantity   int       `gorm:"column:quantity"`
	Restocked  bool      `gorm:"column:restocked"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderLineRecord) TableName() string { return "order_lines" }
