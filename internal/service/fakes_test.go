package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"delivery-manager/internal/domain"
)

// In-memory repositories for service tests.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		cp := *u
		f.users[u.ID] = &cp
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id string, fields map[string]any) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	if name, ok := fields["username"]; ok {
		for uid, other := range f.users {
			if uid != id && other.Username == asString(name) {
				return domain.ErrDuplicate
			}
		}
		u.Username = asString(name)
	}
	if v, ok := fields["full_name"]; ok {
		u.FullName = asString(v)
	}
	if v, ok := fields["role"]; ok {
		u.Role = domain.Role(asString(v))
	}
	if v, ok := fields["phone"]; ok {
		u.Phone = asString(v)
	}
	if v, ok := fields["password_hash"]; ok {
		u.PasswordHash = asString(v)
	}
	if v, ok := fields["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) (bool, error) {
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = active
	return true, nil
}

type fakeOrderRepo struct {
	orders     map[string]*domain.Order
	details    map[string]map[string]string
	images     []domain.OrderImage
	signatures []domain.OrderSignature
	payments   []domain.OrderPayment
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	f := &fakeOrderRepo{
		orders:  map[string]*domain.Order{},
		details: map[string]map[string]string{},
	}
	for _, o := range orders {
		cp := *o
		f.orders[o.ID] = &cp
	}
	return f
}

func (f *fakeOrderRepo) Create(_ context.Context, o *domain.Order, details map[string]string) error {
	cp := *o
	f.orders[o.ID] = &cp
	if len(details) > 0 {
		m := map[string]string{}
		for k, v := range details {
			m[k] = v
		}
		f.details[o.ID] = m
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.ServiceType != "" && o.ServiceType != filter.ServiceType {
			continue
		}
		if filter.AssignedTo != "" && (o.AssignedTo == nil || *o.AssignedTo != filter.AssignedTo) {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(o.CustomerName), s) &&
				!strings.Contains(strings.ToLower(o.CustomerPhone), s) {
				continue
			}
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, id string, fields map[string]any) error {
	o, ok := f.orders[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "customer_name":
			o.CustomerName = asString(v)
		case "customer_phone":
			o.CustomerPhone = asString(v)
		case "address":
			o.Address = asString(v)
		case "status":
			o.Status = domain.Status(asString(v))
		case "assigned_to":
			if v == nil {
				o.AssignedTo = nil
			} else {
				s := asString(v)
				o.AssignedTo = &s
			}
		case "updated_at":
			o.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (f *fakeOrderRepo) UpsertDetails(_ context.Context, orderID string, details map[string]string) error {
	m, ok := f.details[orderID]
	if !ok {
		m = map[string]string{}
		f.details[orderID] = m
	}
	for k, v := range details {
		m[k] = v
	}
	return nil
}

func (f *fakeOrderRepo) DetailsFor(_ context.Context, orderIDs ...string) (map[string]map[string]string, error) {
	out := map[string]map[string]string{}
	for _, id := range orderIDs {
		if m, ok := f.details[id]; ok {
			cp := map[string]string{}
			for k, v := range m {
				cp[k] = v
			}
			out[id] = cp
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) AddImage(_ context.Context, img *domain.OrderImage) error {
	f.images = append(f.images, *img)
	return nil
}

func (f *fakeOrderRepo) ImagesFor(_ context.Context, orderID string) ([]domain.OrderImage, error) {
	var out []domain.OrderImage
	for _, img := range f.images {
		if img.OrderID == orderID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) AddSignature(_ context.Context, sig *domain.OrderSignature) error {
	f.signatures = append(f.signatures, *sig)
	return nil
}

func (f *fakeOrderRepo) LatestSignature(_ context.Context, orderID string) (*domain.OrderSignature, error) {
	for i := len(f.signatures) - 1; i >= 0; i-- {
		if f.signatures[i].OrderID == orderID {
			cp := f.signatures[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) AddPayment(_ context.Context, p *domain.OrderPayment) error {
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeOrderRepo) PaymentsFor(_ context.Context, orderID string) ([]domain.OrderPayment, error) {
	var out []domain.OrderPayment
	for _, p := range f.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeBlobStore struct {
	saved []string
	err   error
}

func (f *fakeBlobStore) SaveImage(orderID, filename, contentType string, _ io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := "/uploads/" + filename
	f.saved = append(f.saved, path)
	return path, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case domain.Status:
		return string(s)
	case domain.Role:
		return string(s)
	}
	return fmt.Sprint(v)
}
