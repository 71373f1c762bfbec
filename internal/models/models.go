package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// All monetary values are euro cents.

type Addon struct {
	Name        string `bson:"name"         json:"name"`
	Price       int64  `bson:"price"        json:"price"`
	IsAvailable bool   `bson:"is_available" json:"is_available"`
}

type Food struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	Name        string             `bson:"name"                 json:"name"`
	Description string             `bson:"description"          json:"description"`
	Price       int64              `bson:"price"                json:"price"`
	Category    string             `bson:"category"             json:"category"`
	ImagePath   string             `bson:"image_path"           json:"image_path"`
	IsAvailable bool               `bson:"is_available"         json:"is_available"`
	Addons      []Addon            `bson:"addons"               json:"addons"`
	CreatedAt   time.Time          `bson:"created_at"           json:"created_at"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at"           json:"updated_at"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type OrderItem struct {
	FoodID        string  `bson:"food_id"                 json:"food_id"`
	Name          string  `bson:"name"                    json:"name"`
	UnitPrice     int64   `bson:"unit_price"              json:"unit_price"`
	Quantity      int     `bson:"quantity"                json:"quantity"`
	Addons        []Addon `bson:"addons,omitempty"        json:"addons,omitempty"`
	Customization string  `bson:"customization,omitempty" json:"customization,omitempty"`
}

// Order is a price-frozen snapshot: the monetary fields are fixed at creation
// and never recomputed, no matter how the admin settings change afterwards.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"              json:"id"`
	UserID          string             `bson:"user_id"                    json:"user_id"`
	Items           []OrderItem        `bson:"items"                      json:"items"`
	Status          OrderStatus        `bson:"status"                     json:"status"`
	Subtotal        int64              `bson:"subtotal"                   json:"subtotal"`
	Discount        int64              `bson:"discount"                   json:"discount"`
	DiscountCode    string             `bson:"discount_code,omitempty"    json:"discount_code,omitempty"`
	DiscountPercent float64            `bson:"discount_percent,omitempty" json:"discount_percent,omitempty"`
	DeliveryFee     int64              `bson:"delivery_fee"               json:"delivery_fee"`
	TotalAmount     int64              `bson:"total_amount"               json:"total_amount"`
	City            string             `bson:"city"                       json:"city"`
	TrackingNumber  string             `bson:"tracking_number,omitempty"  json:"tracking_number,omitempty"`
	IsCompleted     bool               `bson:"is_completed"               json:"is_completed"`
	CreatedAt       time.Time          `bson:"created_at"                 json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"                 json:"updated_at"`
}

// DeliverySettings is the admin-owned region fee table. Region membership is
// a case-insensitive substring match on the delivery city; outside-Galway is
// the catch-all for everything that does not match.
type DeliverySettings struct {
	GalwayEnabled       bool  `bson:"is_galway"                    json:"is_galway"`
	GalwayFee           int64 `bson:"galway_fee"                   json:"galway_fee"`
	OutsideEnabled      bool  `bson:"is_outside_galway"            json:"is_outside_galway"`
	OutsideFee          int64 `bson:"outside_galway_fee"           json:"outside_galway_fee"`
	GalwayDeliveryDays  int   `bson:"galway_delivery_time"         json:"galway_delivery_time"`
	OutsideDeliveryDays int   `bson:"outside_galway_delivery_time" json:"outside_galway_delivery_time"`
}

// DiscountSettings holds the two independently toggled discount programs.
// Codes are matched case-insensitively; percents are in [0,100].
type DiscountSettings struct {
	StandardEnabled bool    `bson:"is_discount"                json:"is_discount"`
	StandardCode    string  `bson:"discount_code"              json:"discount_code"`
	StandardPercent float64 `bson:"discount_percentage"        json:"discount_percentage"`
	FamilyEnabled   bool    `bson:"is_family_discount"         json:"is_family_discount"`
	FamilyCode      string  `bson:"family_discount_code"       json:"family_discount_code"`
	FamilyPercent   float64 `bson:"family_discount_percentage" json:"family_discount_percentage"`
}

// Settings is the singleton admin configuration document. Its zero value is
// safe: no regions enabled (delivery unavailable), no discount programs.
type Settings struct {
	ID        string           `bson:"_id,omitempty"        json:"-"`
	Delivery  DeliverySettings `bson:"delivery"             json:"delivery"`
	Discount  DiscountSettings `bson:"discount"             json:"discount"`
	UpdatedAt time.Time        `bson:"updated_at"           json:"updated_at"`
	UpdatedBy string           `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}
