package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"delivery-manager/internal/domain"
	"delivery-manager/pkg/utils"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order, details map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return upsertDetails(tx, o.ID, details)
	})
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ServiceType != "" {
		q = q.Where("service_type = ?", f.ServiceType)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("customer_name LIKE ? OR customer_phone LIKE ?", like, like)
	}
	var orders []domain.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *OrderRepo) UpsertDetails(ctx context.Context, orderID string, details map[string]string) error {
	return upsertDetails(r.db.WithContext(ctx), orderID, details)
}

// 逐 key upsert：已有的覆盖，没提交的不动
func upsertDetails(tx *gorm.DB, orderID string, details map[string]string) error {
	for name, value := range details {
		row := domain.OrderDetail{
			ID:         utils.NewID(),
			OrderID:    orderID,
			FieldName:  name,
			FieldValue: value,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "field_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"field_value"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) DetailsFor(ctx context.Context, orderIDs ...string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var rows []domain.OrderDetail
	if err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, d := range rows {
		m, ok := out[d.OrderID]
		if !ok {
			m = map[string]string{}
			out[d.OrderID] = m
		}
		m[d.FieldName] = d.FieldValue
	}
	return out, nil
}

func (r *OrderRepo) AddImage(ctx context.Context, img *domain.OrderImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *OrderRepo) ImagesFor(ctx context.Context, orderID string) ([]domain.OrderImage, error) {
	var imgs []domain.OrderImage
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("uploaded_at DESC").
		Find(&imgs).Error
	return imgs, err
}

func (r *OrderRepo) AddSignature(ctx context.Context, sig *domain.OrderSignature) error {
	return r.db.WithContext(ctx).Create(sig).Error
}

func (r *OrderRepo) LatestSignature(ctx context.Context, orderID string) (*domain.OrderSignature, error) {
	var sig domain.OrderSignature
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("signed_at DESC").
		First(&sig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sig, err
}

func (r *OrderRepo) AddPayment(ctx context.Context, p *domain.OrderPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *OrderRepo) PaymentsFor(ctx context.Context, orderID string) ([]domain.OrderPayment, error) {
	var ps []domain.OrderPayment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("payment_date DESC").
		Find(&ps).Error
	return ps, err
}
