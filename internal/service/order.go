package service

import (
	"context"
	"errors"
	"io"
	"time"

	"delivery-manager/internal/core/apperr"
	"delivery-manager/internal/core/cache"
	"delivery-manager/internal/domain"
	"delivery-manager/pkg/utils"
)

const orderCacheTTL = 5 * time.Minute

// OrderService owns the order lifecycle: who may see an order, which fields a
// caller may change, and how status moves between states.
type OrderService struct {
	orders domain.OrderRepository
	users  domain.UserRepository
	blobs  domain.BlobStore
	cache  *cache.Cache // nil = caching disabled
}

func NewOrderService(orders domain.OrderRepository, users domain.UserRepository, blobs domain.BlobStore, c *cache.Cache) *OrderService {
	return &OrderService{orders: orders, users: users, blobs: blobs, cache: c}
}

type OrderView struct {
	domain.Order
	AssignedToName *string           `json:"assigned_to_name"`
	CreatedByName  *string           `json:"created_by_name"`
	Details        map[string]string `json:"details"`
}

type OrderFull struct {
	OrderView
	Images    []domain.OrderImage    `json:"images"`
	Signature *domain.OrderSignature `json:"signature"`
	Payments  []domain.OrderPayment  `json:"payments"`
}

type ListQuery struct {
	Status      string `form:"status"`
	ServiceType string `form:"service_type"`
	AssignedTo  string `form:"assigned_to"`
	CourierID   string `form:"courier_id"`
	Search      string `form:"search"`
}

// List applies courier ownership scoping before any caller-supplied filter:
// a courier only ever sees orders assigned to them.
func (s *OrderService) List(ctx context.Context, caller domain.Caller, q ListQuery) ([]OrderView, error) {
	f := domain.OrderFilter{
		Status:      domain.Status(q.Status),
		ServiceType: domain.ServiceType(q.ServiceType),
		Search:      q.Search,
	}
	if caller.Role == domain.RoleCourier {
		f.AssignedTo = caller.ID
	} else {
		if q.AssignedTo != "" {
			f.AssignedTo = q.AssignedTo
		}
		if q.CourierID != "" && caller.Role == domain.RoleAdmin {
			f.AssignedTo = q.CourierID
		}
	}

	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list orders failed", err)
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	details, err := s.orders.DetailsFor(ctx, ids...)
	if err != nil {
		return nil, apperr.Internal("load order details failed", err)
	}

	names := newNameResolver(s.users)
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		d := details[o.ID]
		if d == nil {
			d = map[string]string{}
		}
		views = append(views, OrderView{
			Order:          o,
			AssignedToName: names.resolve(ctx, o.AssignedTo),
			CreatedByName:  names.resolve(ctx, &o.CreatedBy),
			Details:        d,
		})
	}
	return views, nil
}

func (s *OrderService) Get(ctx context.Context, caller domain.Caller, id string) (*OrderFull, error) {
	var view *OrderFull
	var err error
	if s.cache != nil {
		view, err = cache.GetOrLoadJSON[OrderFull](s.cache, ctx, orderKey(id), orderCacheTTL, func(ctx context.Context) (*OrderFull, error) {
			return s.loadFull(ctx, id)
		})
	} else {
		view, err = s.loadFull(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperr.NotFound("order not found")
	}
	// Scope after load so the cached view stays caller-independent.
	if caller.Role == domain.RoleCourier && (view.AssignedTo == nil || *view.AssignedTo != caller.ID) {
		return nil, apperr.Forbidden("you may not access this order")
	}
	return view, nil
}

func (s *OrderService) loadFull(ctx context.Context, id string) (*OrderFull, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load order failed", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}
	details, err := s.orders.DetailsFor(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load order details failed", err)
	}
	images, err := s.orders.ImagesFor(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load order images failed", err)
	}
	sig, err := s.orders.LatestSignature(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load signature failed", err)
	}
	payments, err := s.orders.PaymentsFor(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load payments failed", err)
	}

	d := details[id]
	if d == nil {
		d = map[string]string{}
	}
	if images == nil {
		images = []domain.OrderImage{}
	}
	if payments == nil {
		payments = []domain.OrderPayment{}
	}
	names := newNameResolver(s.users)
	return &OrderFull{
		OrderView: OrderView{
			Order:          *o,
			AssignedToName: names.resolve(ctx, o.AssignedTo),
			CreatedByName:  names.resolve(ctx, &o.CreatedBy),
			Details:        d,
		},
		Images:    images,
		Signature: sig,
		Payments:  payments,
	}, nil
}

type CreateOrderInput struct {
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Address       string            `json:"address"`
	ServiceType   string            `json:"service_type"`
	AssignedTo    string            `json:"assigned_to"`
	Details       map[string]string `json:"details"`
}

// Create derives the initial status: supplying an assignee forces "assigned",
// otherwise the order starts as "preparing".
func (s *OrderService) Create(ctx context.Context, caller domain.Caller, in CreateOrderInput) (*domain.Order, error) {
	if in.CustomerName == "" || in.CustomerPhone == "" || in.Address == "" || in.ServiceType == "" {
		return nil, apperr.BadRequest("customer name, phone, address and service type are required")
	}
	st := domain.ServiceType(in.ServiceType)
	if !st.Valid() {
		return nil, apperr.BadRequest("invalid service type")
	}

	status := domain.StatusPreparing
	var assignedTo *string
	if in.AssignedTo != "" {
		if err := s.checkAssignee(ctx, in.AssignedTo); err != nil {
			return nil, err
		}
		status = domain.StatusAssigned
		assignedTo = &in.AssignedTo
	}

	o := &domain.Order{
		ID:            utils.NewID(),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Address:       in.Address,
		ServiceType:   st,
		Status:        status,
		AssignedTo:    assignedTo,
		CreatedBy:     caller.ID,
	}
	if err := s.orders.Create(ctx, o, in.Details); err != nil {
		return nil, apperr.Internal("create order failed", err)
	}
	return o, nil
}

type UpdateOrderInput struct {
	CustomerName  *string           `json:"customer_name"`
	CustomerPhone *string           `json:"customer_phone"`
	Address       *string           `json:"address"`
	ServiceType   *string           `json:"service_type"`
	Status        *string           `json:"status"`
	AssignedTo    *string           `json:"assigned_to"`
	Details       map[string]string `json:"details"`
}

func (in *UpdateOrderInput) touchesIdentity() bool {
	return in.CustomerName != nil || in.CustomerPhone != nil || in.Address != nil ||
		in.ServiceType != nil || in.AssignedTo != nil
}

// Update lets admin/employee change the customer-facing fields; a courier is
// limited to status and details on their own order, and the whole request is
// rejected when it also touches an identity field.
func (s *OrderService) Update(ctx context.Context, caller domain.Caller, id string, in UpdateOrderInput) error {
	if _, err := s.fetchScoped(ctx, caller, id); err != nil {
		return err
	}
	if caller.Role == domain.RoleCourier && in.touchesIdentity() {
		return apperr.Forbidden("you may not change these fields")
	}

	fields := map[string]any{}
	if in.CustomerName != nil {
		fields["customer_name"] = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		fields["customer_phone"] = *in.CustomerPhone
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}
	if in.Status != nil {
		if !domain.Status(*in.Status).Valid() {
			return apperr.BadRequest("invalid status")
		}
		fields["status"] = *in.Status
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo != "" {
			if err := s.checkAssignee(ctx, *in.AssignedTo); err != nil {
				return err
			}
		}
		fields["assigned_to"] = emptyToNil(*in.AssignedTo)
	}
	// service_type is gated above but deliberately never written back.

	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		if err := s.orders.Update(ctx, id, fields); err != nil {
			return apperr.Internal("update order failed", err)
		}
	}
	if len(in.Details) > 0 {
		if err := s.orders.UpsertDetails(ctx, id, in.Details); err != nil {
			return apperr.Internal("update order details failed", err)
		}
	}
	s.invalidate(ctx, id)
	return nil
}

// Assign always lands the order in "assigned", no matter its current status.
func (s *OrderService) Assign(ctx context.Context, id, assignedTo string) error {
	if assignedTo == "" {
		return apperr.BadRequest("assigned_to is required")
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("load order failed", err)
	}
	if o == nil {
		return apperr.NotFound("order not found")
	}
	if err := s.checkAssignee(ctx, assignedTo); err != nil {
		return err
	}
	err = s.orders.Update(ctx, id, map[string]any{
		"assigned_to": assignedTo,
		"status":      domain.StatusAssigned,
		"updated_at":  time.Now(),
	})
	if err != nil {
		return apperr.Internal("assign order failed", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// SetStatus validates the enum but imposes no transition ordering; callers
// are trusted to submit a forward-consistent value.
func (s *OrderService) SetStatus(ctx context.Context, caller domain.Caller, id, status string) error {
	if !domain.Status(status).Valid() {
		return apperr.BadRequest("invalid status")
	}
	if _, err := s.fetchScoped(ctx, caller, id); err != nil {
		return err
	}
	err := s.orders.Update(ctx, id, map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	})
	if err != nil {
		return apperr.Internal("update status failed", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Receive is the courier picking the order up.
func (s *OrderService) Receive(ctx context.Context, caller domain.Caller, id string) error {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("load order failed", err)
	}
	if o == nil {
		return apperr.NotFound("order not found")
	}
	if o.AssignedTo == nil || *o.AssignedTo != caller.ID {
		return apperr.Forbidden("this order is not assigned to you")
	}

	newStatus := domain.StatusInDelivery
	if o.ServiceType == domain.ServiceReceiveForRepair {
		// Repair pickups also start as in_delivery; device_received is set
		// on completion, not here.
		newStatus = domain.StatusInDelivery
	}
	err = s.orders.Update(ctx, id, map[string]any{
		"status":     newStatus,
		"updated_at": time.Now(),
	})
	if err != nil {
		return apperr.Internal("update status failed", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// AddPayment appends an immutable payment row; totals are computed by
// callers, never materialized.
func (s *OrderService) AddPayment(ctx context.Context, caller domain.Caller, id string, amount float64) (*domain.OrderPayment, error) {
	if amount <= 0 {
		return nil, apperr.BadRequest("invalid amount")
	}
	if _, err := s.fetchScoped(ctx, caller, id); err != nil {
		return nil, err
	}
	p := &domain.OrderPayment{
		ID:         utils.NewID(),
		OrderID:    id,
		Amount:     amount,
		RecordedBy: caller.ID,
	}
	if err := s.orders.AddPayment(ctx, p); err != nil {
		return nil, apperr.Internal("record payment failed", err)
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *OrderService) AttachImage(ctx context.Context, caller domain.Caller, orderID, imageType, filename, contentType string, r io.Reader, size int64) (*domain.OrderImage, error) {
	if !domain.ImageType(imageType).Valid() {
		return nil, apperr.BadRequest("invalid image type")
	}
	if _, err := s.fetchScoped(ctx, caller, orderID); err != nil {
		return nil, err
	}
	path, err := s.blobs.SaveImage(orderID, filename, contentType, r, size)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedImage):
			return nil, apperr.Unsupported("unsupported image type")
		case errors.Is(err, domain.ErrImageTooLarge):
			return nil, apperr.TooLarge("image exceeds the size limit")
		default:
			return nil, apperr.Internal("store image failed", err)
		}
	}
	img := &domain.OrderImage{
		ID:         utils.NewID(),
		OrderID:    orderID,
		ImagePath:  path,
		ImageType:  domain.ImageType(imageType),
		UploadedBy: caller.ID,
	}
	if err := s.orders.AddImage(ctx, img); err != nil {
		return nil, apperr.Internal("save image failed", err)
	}
	s.invalidate(ctx, orderID)
	return img, nil
}

func (s *OrderService) AttachSignature(ctx context.Context, caller domain.Caller, orderID, data string) (*domain.OrderSignature, error) {
	if data == "" {
		return nil, apperr.BadRequest("signature data is required")
	}
	if _, err := s.fetchScoped(ctx, caller, orderID); err != nil {
		return nil, err
	}
	sig := &domain.OrderSignature{
		ID:            utils.NewID(),
		OrderID:       orderID,
		SignatureData: data,
	}
	if err := s.orders.AddSignature(ctx, sig); err != nil {
		return nil, apperr.Internal("save signature failed", err)
	}
	s.invalidate(ctx, orderID)
	return sig, nil
}

// fetchScoped loads the order and enforces courier ownership.
func (s *OrderService) fetchScoped(ctx context.Context, caller domain.Caller, id string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load order failed", err)
	}
	if o == nil {
		return nil, apperr.NotFound("order not found")
	}
	if caller.Role == domain.RoleCourier && (o.AssignedTo == nil || *o.AssignedTo != caller.ID) {
		return nil, apperr.Forbidden("you may not access this order")
	}
	return o, nil
}

// checkAssignee enforces that assigned_to references an existing courier.
func (s *OrderService) checkAssignee(ctx context.Context, id string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal("load assignee failed", err)
	}
	if u == nil || u.Role != domain.RoleCourier {
		return apperr.BadRequest("assignee must be a courier")
	}
	return nil
}

func (s *OrderService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, orderKey(id))
	}
}

func orderKey(id string) string { return "order:" + id }

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nameResolver resolves user display names best-effort; a missing user
// degrades to null instead of failing the request.
type nameResolver struct {
	users domain.UserRepository
	seen  map[string]*string
}

func newNameResolver(users domain.UserRepository) *nameResolver {
	return &nameResolver{users: users, seen: map[string]*string{}}
}

func (n *nameResolver) resolve(ctx context.Context, id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	if name, ok := n.seen[*id]; ok {
		return name
	}
	var name *string
	if u, err := n.users.FindByID(ctx, *id); err == nil && u != nil {
		name = &u.FullName
	}
	n.seen[*id] = name
	return name
}
