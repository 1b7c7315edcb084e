package model

import "time"

// Coupon is a discount code.
type Coupon struct {
	ID        string    `json:"_id"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	MaxUses   int       `json:"maxUses"`
	UsedCount int       `json:"usedCount"`
	Active    bool      `json:"isActive"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Order is a purchase of courses and/or books by a student.
type Order struct {
	ID        string    `json:"_id"`
	StudentID string    `json:"studentId"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CouponID  string    `json:"couponId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment is a settlement record for an order.
type Payment struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"orderId"`
	StudentID string    `json:"studentId"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	TrxID     string    `json:"trxId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Shipment is a physical delivery of books for an order. StudentID,
// CourseID and BookIDs are foreign keys resolved against other
// collections' snapshots at render time.
type Shipment struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"orderId"`
	StudentID string    `json:"studentId"`
	CourseID  string    `json:"courseId"`
	BookIDs   []string  `json:"bookIds"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// Status/type values used by the backend for commerce entities.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"

	PaymentStatusPending  = "PENDING"
	PaymentStatusComplete = "COMPLETE"
	PaymentStatusFailed   = "FAILED"

	ShipmentStatusPending   = "PENDING"
	ShipmentStatusShipped   = "SHIPPED"
	ShipmentStatusDelivered = "DELIVERED"

	ShipmentTypeBooks  = "BOOKS"
	ShipmentTypeMerch  = "MERCH"
	OrderTypeCourse    = "COURSE"
	OrderTypeBookOrder = "BOOK"
)
