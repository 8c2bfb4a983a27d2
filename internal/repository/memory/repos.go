package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/pkg/errors"
)

func notFound(resource string, id uuid.UUID) error {
	return &errors.ErrNotFound{Resource: resource, ID: id.String()}
}

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	p, ok := r.s.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	cp := p
	cp.Variants = append([]domain.Variant(nil), p.Variants...)
	return &cp, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Product, 0)
	for _, p := range r.s.products {
		if p.IsDeleted {
			continue
		}
		cp := p
		cp.Variants = append([]domain.Variant(nil), p.Variants...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	cp := *product
	cp.Variants = append([]domain.Variant(nil), product.Variants...)
	r.s.products[product.ID] = cp
	return nil
}

func (r *productRepo) AdjustStock(ctx context.Context, productID uuid.UUID, size string, delta int) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	p, ok := r.s.products[productID]
	if !ok {
		return notFound("product", productID)
	}
	for i := range p.Variants {
		if p.Variants[i].Size == size {
			p.Variants[i].Stock += delta
			r.s.products[productID] = p
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "variant", ID: size}
}

type categoryRepo struct{ s *Store }

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	c, ok := r.s.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	cp := c
	return &cp, nil
}

func (r *categoryRepo) ListActive(ctx context.Context) ([]*domain.Category, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Category, 0)
	for _, c := range r.s.categories {
		if c.IsActive {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.s.categories[category.ID] = *category
	return nil
}

type offerRepo struct{ s *Store }

var _ repository.OfferRepository = (*offerRepo)(nil)

func (r *offerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	o, ok := r.s.offers[id]
	if !ok {
		return nil, notFound("offer", id)
	}
	cp := o
	return &cp, nil
}

func (r *offerRepo) FindActiveForTarget(ctx context.Context, scope domain.OfferScope, targetID uuid.UUID, now time.Time) (*domain.Offer, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	for _, o := range r.s.offers {
		if o.ApplicableTo == scope && o.TargetID == targetID && o.ActiveAt(now) {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

// Create rejects offers whose window overlaps an existing offer for the
// same target; one active offer per target at any time.
func (r *offerRepo) Create(ctx context.Context, offer *domain.Offer) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	for _, o := range r.s.offers {
		if o.TargetID == offer.TargetID && o.Overlaps(offer.StartDate, offer.EndDate) {
			return &errors.ErrConflict{Message: "an offer already exists for this target during the specified date range"}
		}
	}
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	r.s.offers[offer.ID] = *offer
	return nil
}

func (r *offerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if _, ok := r.s.offers[id]; !ok {
		return notFound("offer", id)
	}
	delete(r.s.offers, id)
	return nil
}

type couponRepo struct{ s *Store }

var _ repository.CouponRepository = (*couponRepo)(nil)

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	for _, c := range r.s.coupons {
		if c.Code == code {
			cp := c
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "coupon", ID: code}
}

func (r *couponRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, notFound("coupon", id)
	}
	cp := c
	return &cp, nil
}

func (r *couponRepo) ListApplicable(ctx context.Context, orderAmount float64, now time.Time) ([]*domain.Coupon, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Coupon, 0)
	for _, c := range r.s.coupons {
		if now.Before(c.StartDate) || now.After(c.ExpiryDate) {
			continue
		}
		if c.Exhausted() || orderAmount < c.MinimumPurchaseAmount {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *couponRepo) Create(ctx context.Context, coupon *domain.Coupon) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	coupon.Code = strings.ToUpper(coupon.Code)
	for _, c := range r.s.coupons {
		if c.Code == coupon.Code {
			return &errors.ErrConflict{Message: "coupon code already exists"}
		}
	}
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	r.s.coupons[coupon.ID] = *coupon
	return nil
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	c, ok := r.s.coupons[id]
	if !ok {
		return notFound("coupon", id)
	}
	c.UsageCount++
	r.s.coupons[id] = c
	return nil
}

type orderRepo struct{ s *Store }

var _ repository.OrderRepository = (*orderRepo)(nil)

func copyOrder(o domain.Order) *domain.Order {
	cp := o
	cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return &cp
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.s.orders[order.ID] = *copyOrder(*order)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	o, ok := r.s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	return copyOrder(o), nil
}

func (r *orderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID && !o.IsDeleted {
			out = append(out, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range r.s.orders {
		if !o.IsDeleted {
			out = append(out, copyOrder(o))
		}
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *orderRepo) ListReturnRequested(ctx context.Context) ([]*domain.Order, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range r.s.orders {
		if o.IsDeleted {
			continue
		}
		for _, l := range o.Lines {
			if l.ReturnStatus.IsReturned {
				out = append(out, copyOrder(o))
				break
			}
		}
	}
	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if _, ok := r.s.orders[order.ID]; !ok {
		return notFound("order", order.ID)
	}
	order.UpdatedAt = time.Now()
	r.s.orders[order.ID] = *copyOrder(*order)
	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, cancellationReason *string) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	o, ok := r.s.orders[id]
	if !ok {
		return notFound("order", id)
	}
	o.PaymentInfo.Status = status
	if cancellationReason != nil {
		o.CancellationReason = cancellationReason
	}
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	o, ok := r.s.orders[id]
	if !ok {
		return notFound("order", id)
	}
	o.IsDeleted = true
	r.s.orders[id] = o
	return nil
}

func sortOrdersNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

type walletRepo struct{ s *Store }

var _ repository.WalletRepository = (*walletRepo)(nil)

func (r *walletRepo) LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletEntry, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	// entries are appended in order; scan from the tail
	for i := len(r.s.wallet) - 1; i >= 0; i-- {
		if r.s.wallet[i].UserID == userID {
			cp := r.s.wallet[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *walletRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.WalletEntry, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.WalletEntry, 0)
	for i := len(r.s.wallet) - 1; i >= 0; i-- {
		if r.s.wallet[i].UserID == userID {
			cp := r.s.wallet[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *walletRepo) Append(ctx context.Context, entry *domain.WalletEntry) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.s.wallet = append(r.s.wallet, *entry)
	return nil
}

type cartRepo struct{ s *Store }

var _ repository.CartRepository = (*cartRepo)(nil)

func (r *cartRepo) Create(ctx context.Context, item *domain.CartItem) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	r.s.cart[item.ID] = *item
	return nil
}

func (r *cartRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	out := make([]*domain.CartItem, 0)
	for _, it := range r.s.cart {
		if it.UserID == userID {
			cp := it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *cartRepo) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	r.s.wlock(ctx)
	defer r.s.wunlock(ctx)
	for _, id := range ids {
		if it, ok := r.s.cart[id]; ok && it.UserID == userID {
			delete(r.s.cart, id)
		}
	}
	return nil
}

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := u
	return &cp, nil
}

// AddUser seeds an account; tests and fixtures only.
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return u
}

// AddAddress seeds an address; tests and fixtures only.
func (s *Store) AddAddress(a domain.Address) domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.addresses[a.ID] = a
	return a
}

type addressRepo struct{ s *Store }

var _ repository.AddressRepository = (*addressRepo)(nil)

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	r.s.rlock(ctx)
	defer r.s.runlock(ctx)
	a, ok := r.s.addresses[id]
	if !ok {
		return nil, notFound("address", id)
	}
	cp := a
	return &cp, nil
}
