package domain

import (
	"context"
	"time"
)

type ServiceType string

const (
	ServiceSale             ServiceType = "sale"
	ServiceSendAfterRepair  ServiceType = "send_after_repair"
	ServiceReceiveForRepair ServiceType = "receive_for_repair"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceSale, ServiceSendAfterRepair, ServiceReceiveForRepair:
		return true
	}
	return false
}

type Status string

const (
	StatusPreparing      Status = "preparing"
	StatusAssigned       Status = "assigned"
	StatusInDelivery     Status = "in_delivery"
	StatusDelivered      Status = "delivered"
	StatusDeviceReceived Status = "device_received"
	StatusCancelled      Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPreparing, StatusAssigned, StatusInDelivery,
		StatusDelivered, StatusDeviceReceived, StatusCancelled:
		return true
	}
	return false
}

type ImageType string

const (
	ImageBeforeSend      ImageType = "before_send"
	ImageAfterReceive    ImageType = "after_receive"
	ImageDeviceCondition ImageType = "device_condition"
)

func (t ImageType) Valid() bool {
	switch t {
	case ImageBeforeSend, ImageAfterReceive, ImageDeviceCondition:
		return true
	}
	return false
}

type Order struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	CustomerName  string      `gorm:"size:128;not null" json:"customer_name"`
	CustomerPhone string      `gorm:"size:32;not null" json:"customer_phone"`
	Address       string      `gorm:"size:255;not null" json:"address"`
	ServiceType   ServiceType `gorm:"size:32;not null" json:"service_type"`
	Status        Status      `gorm:"size:32;not null;default:preparing" json:"status"`
	AssignedTo    *string     `gorm:"size:36;index" json:"assigned_to"`
	CreatedBy     string      `gorm:"size:36;not null" json:"created_by"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderDetail is one sparse key/value attribute of an order; the set of keys
// varies by service type. Last write per key wins.
type OrderDetail struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string `gorm:"size:36;not null;uniqueIndex:idx_order_field" json:"order_id"`
	FieldName  string `gorm:"size:64;not null;uniqueIndex:idx_order_field" json:"field_name"`
	FieldValue string `gorm:"size:1024" json:"field_value"`
}

func (OrderDetail) TableName() string { return "order_details" }

type OrderImage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	OrderID    string    `gorm:"size:36;not null;index" json:"order_id"`
	ImagePath  string    `gorm:"size:255;not null" json:"image_path"`
	ImageType  ImageType `gorm:"size:32;not null" json:"image_type"`
	UploadedBy string    `gorm:"size:36" json:"uploaded_by"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (OrderImage) TableName() string { return "order_images" }

type OrderSignature struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	OrderID       string    `gorm:"size:36;not null;index" json:"order_id"`
	SignatureData string    `gorm:"type:text;not null" json:"signature_data"`
	SignedAt      time.Time `gorm:"autoCreateTime" json:"signed_at"`
}

func (OrderSignature) TableName() string { return "order_signatures" }

type OrderPayment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OrderID     string    `gorm:"size:36;not null;index" json:"order_id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	RecordedBy  string    `gorm:"size:36" json:"recorded_by"`
	PaymentDate time.Time `gorm:"autoCreateTime" json:"payment_date"`
}

func (OrderPayment) TableName() string { return "order_payments" }

type OrderFilter struct {
	Status      Status
	ServiceType ServiceType
	AssignedTo  string
	Search      string // substring match on customer_name / customer_phone
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order, details map[string]string) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, error)
	Update(ctx context.Context, id string, fields map[string]any) error

	UpsertDetails(ctx context.Context, orderID string, details map[string]string) error
	// DetailsFor flattens detail rows into per-order maps.
	DetailsFor(ctx context.Context, orderIDs ...string) (map[string]map[string]string, error)

	AddImage(ctx context.Context, img *OrderImage) error
	ImagesFor(ctx context.Context, orderID string) ([]OrderImage, error)

	AddSignature(ctx context.Context, sig *OrderSignature) error
	LatestSignature(ctx context.Context, orderID string) (*OrderSignature, error)

	AddPayment(ctx context.Context, p *OrderPayment) error
	PaymentsFor(ctx context.Context, orderID string) ([]OrderPayment, error)
}
