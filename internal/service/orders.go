package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/pkg/errors"
	"github.com/trovashop/storeapi/pkg/money"
)

const (
	minCancellationReasonLen = 10
	deliveryLeadDays         = 7
	returnWindowDays         = 30
)

type OrderService struct {
	repos   *repository.Repositories
	pricing *PricingService
	offers  *OfferResolver
	wallet  *WalletService
	logger  *zap.Logger
}

// NewOrderService creates the order settlement service
func NewOrderService(repos *repository.Repositories, pricing *PricingService, offers *OfferResolver, wallet *WalletService, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:   repos,
		pricing: pricing,
		offers:  offers,
		wallet:  wallet,
		logger:  logger,
	}
}

// PlaceOrder prices the requested lines and persists the result as an
// immutable order. Pricing, order creation, stock decrement, coupon
// consumption and cart cleanup all commit or roll back together.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	user, err := s.repos.User.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, &errors.ErrValidation{Message: "account is blocked"}
	}

	address, err := s.repos.Address.GetByID(ctx, req.AddressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != req.UserID {
		return nil, &errors.ErrValidation{Message: "address does not belong to user"}
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, &errors.ErrValidation{
			Message: "unsupported payment method",
			Fields:  map[string]string{"paymentMethod": req.PaymentMethod},
		}
	}

	status := domain.OrderStatusPending
	if req.PaymentStatus != "" {
		status = domain.OrderStatus(req.PaymentStatus)
		if status != domain.OrderStatusPending && status != domain.OrderStatusConfirmed {
			return nil, &errors.ErrValidation{
				Message: "payment status must be PENDING or CONFIRMED at checkout",
				Fields:  map[string]string{"paymentStatus": req.PaymentStatus},
			}
		}
	}

	var result *PlaceOrderResult
	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		priced, err := s.pricing.price(ctx, req.Lines, req.CouponCode, true)
		if err != nil {
			return err
		}

		now := time.Now()
		order := &domain.Order{
			ID:             uuid.New(),
			UserID:         req.UserID,
			AddressID:      req.AddressID,
			Lines:          make([]domain.OrderLine, 0, len(priced.ProductDetails)),
			TotalPrice:     money.Round2(priced.Subtotal - priced.DiscountAmount),
			ShippingFee:    priced.ShippingFee,
			DiscountAmount: priced.DiscountAmount,
			PaymentInfo: domain.PaymentInfo{
				Method:        method,
				TransactionID: req.TransactionID,
				Status:        status,
			},
			ExpectedDelivery: now.AddDate(0, 0, deliveryLeadDays),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if priced.CouponDetails != nil {
			couponID := priced.CouponDetails.CouponID
			order.CouponID = &couponID
		}
		for _, line := range priced.ProductDetails {
			order.Lines = append(order.Lines, domain.OrderLine{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Size:      line.Size,
				Quantity:  line.Quantity,
				Price:     line.FinalPrice,
			})
		}

		if err := s.repos.Order.Create(ctx, order); err != nil {
			return err
		}
		for _, line := range order.Lines {
			if err := s.repos.Product.AdjustStock(ctx, line.ProductID, line.Size, -line.Quantity); err != nil {
				return err
			}
		}

		var cartIDs []uuid.UUID
		for _, line := range req.Lines {
			if line.CartItemID != nil {
				cartIDs = append(cartIDs, *line.CartItemID)
			}
		}
		if len(cartIDs) > 0 {
			if err := s.repos.Cart.DeleteByIDs(ctx, req.UserID, cartIDs); err != nil {
				return err
			}
		}

		result = &PlaceOrderResult{
			OrderID:     order.ID,
			TotalAmount: money.Round2(order.TotalPrice + order.ShippingFee),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", result.OrderID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.Float64("total_amount", result.TotalAmount),
	)
	return result, nil
}

// CancelOrder restores stock for every line, marks the order canceled and,
// for prepaid orders, credits the paid amount back to the wallet. Cash on
// delivery orders get no credit since nothing was charged.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minCancellationReasonLen {
		return nil, &errors.ErrValidation{
			Message: "cancellation reason must be at least 10 characters",
			Fields:  map[string]string{"reason": reason},
		}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.PaymentInfo.Status.CanTransitionTo(domain.OrderStatusCanceled) {
		return nil, &errors.ErrInvalidStateTransition{
			From: order.PaymentInfo.Status,
			To:   domain.OrderStatusCanceled,
		}
	}

	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, line := range order.Lines {
			if err := s.repos.Product.AdjustStock(ctx, line.ProductID, line.Size, line.Quantity); err != nil {
				return &errors.ErrInconsistentState{
					Message: "cannot restore stock for product " + line.ProductID.String() + ": " + err.Error(),
				}
			}
		}

		if err := s.repos.Order.UpdateStatus(ctx, orderID, domain.OrderStatusCanceled, &reason); err != nil {
			return err
		}

		if order.PaymentInfo.Method != domain.PaymentMethodCOD {
			amount := money.Round2(order.TotalPrice + order.ShippingFee)
			if _, err := s.wallet.Credit(ctx, order.UserID, &orderID, domain.WalletEntryCancelled, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.PaymentInfo.Status = domain.OrderStatusCanceled
	order.CancellationReason = &reason

	s.logger.Info("Order canceled",
		zap.String("order_id", orderID.String()),
		zap.String("reason", reason),
	)
	return order, nil
}

// RequestReturn records a customer return request on a delivered order's
// line. Requests are accepted within 30 days of delivery and a line can
// only be requested once.
func (s *OrderService) RequestReturn(ctx context.Context, orderID, productID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return &errors.ErrValidation{Message: "return reason is required"}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PaymentInfo.Status != domain.OrderStatusDelivered {
		return &errors.ErrConflict{Message: "only delivered orders can be returned"}
	}
	if time.Since(order.UpdatedAt) > returnWindowDays*24*time.Hour {
		return &errors.ErrConflict{Message: "return window has closed"}
	}

	line := order.LineForProduct(productID)
	if line == nil {
		return &errors.ErrNotFound{Resource: "order line", ID: productID.String()}
	}
	if line.ReturnStatus.IsReturned {
		return &errors.ErrConflict{Message: "return already requested for this item"}
	}

	now := time.Now()
	line.ReturnStatus = domain.ReturnStatus{
		IsReturned:   true,
		ReturnReason: reason,
		ReturnDate:   &now,
	}
	return s.repos.Order.Update(ctx, order)
}

// ApproveReturn approves a requested return and credits the refund. The
// refund re-applies the product's current offer to its current price and
// subtracts the line's proportional share of the order's coupon discount,
// then floors to a whole currency unit.
func (s *OrderService) ApproveReturn(ctx context.Context, orderID, productID uuid.UUID) (*RefundResult, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	line := order.LineForProduct(productID)
	if line == nil {
		return nil, &errors.ErrNotFound{Resource: "order line", ID: productID.String()}
	}
	if !line.ReturnStatus.IsReturned {
		return nil, &errors.ErrConflict{Message: "no return requested for this item"}
	}
	if line.ReturnStatus.AdminApproval {
		return nil, &errors.ErrConflict{Message: "return already approved"}
	}

	var result *RefundResult
	err = s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		refund, err := s.computeRefund(ctx, order, line)
		if err != nil {
			return err
		}

		line.ReturnStatus.AdminApproval = true
		if err := s.repos.Order.Update(ctx, order); err != nil {
			return err
		}

		entry, err := s.wallet.Credit(ctx, order.UserID, &orderID, domain.WalletEntryReturned, refund)
		if err != nil {
			return err
		}

		result = &RefundResult{
			OrderID:      orderID,
			ProductID:    productID,
			RefundAmount: refund,
			Balance:      entry.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Return approved",
		zap.String("order_id", orderID.String()),
		zap.String("product_id", productID.String()),
		zap.Float64("refund_amount", result.RefundAmount),
	)
	return result, nil
}

// computeRefund reprices the returned line against the current catalog.
// A refund needs a real price, so a missing product or variant is a hard
// failure here even though read paths degrade gracefully.
func (s *OrderService) computeRefund(ctx context.Context, order *domain.Order, line *domain.OrderLine) (float64, error) {
	product, err := s.repos.Product.GetByID(ctx, line.ProductID)
	if err != nil {
		return 0, &errors.ErrInconsistentState{
			Message: "product " + line.ProductID.String() + " no longer exists",
		}
	}
	variant := product.VariantBySize(line.Size)
	if variant == nil {
		return 0, &errors.ErrInconsistentState{
			Message: "variant " + line.Size + " no longer exists on product " + product.Name,
		}
	}

	offer, err := s.offers.Resolve(ctx, product, time.Now())
	if err != nil {
		return 0, err
	}
	unitNet := variant.Price
	if offer != nil {
		unitNet -= offer.Discount().Apply(variant.Price)
	}
	lineNet := unitNet * float64(line.Quantity)

	var couponShare float64
	if order.CouponID != nil && order.DiscountAmount > 0 {
		capped := order.DiscountAmount
		coupon, err := s.repos.Coupon.GetByID(ctx, *order.CouponID)
		if err == nil && coupon.MaximumDiscountAmount < capped {
			capped = coupon.MaximumDiscountAmount
		}
		if subtotal := order.Subtotal(); subtotal > 0 {
			couponShare = lineNet / subtotal * capped
		}
	}

	refund := money.FloorUnit(lineNet - couponShare)
	if refund < 0 {
		refund = 0
	}
	return refund, nil
}

// ChangeStatus advances an order along its delivery lifecycle. Cancellation
// goes through CancelOrder so stock restoration and the wallet credit are
// never skipped.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if !status.IsValid() {
		return &errors.ErrValidation{
			Message: "unknown order status",
			Fields:  map[string]string{"status": string(status)},
		}
	}
	if status == domain.OrderStatusCanceled {
		return &errors.ErrValidation{Message: "cancellation requires a reason"}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.PaymentInfo.Status.CanTransitionTo(status) {
		return &errors.ErrInvalidStateTransition{From: order.PaymentInfo.Status, To: status}
	}
	return s.repos.Order.UpdateStatus(ctx, orderID, status, nil)
}

// Rate records a 1-5 rating on a delivered order.
func (s *OrderService) Rate(ctx context.Context, orderID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return &errors.ErrValidation{Message: "rating must be between 1 and 5"}
	}
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.PaymentInfo.Status != domain.OrderStatusDelivered {
		return &errors.ErrConflict{Message: "only delivered orders can be rated"}
	}
	order.Rating = &rating
	return s.repos.Order.Update(ctx, order)
}

// Detail returns the read model for a single order. Catalog data that has
// gone missing degrades to placeholder values instead of failing the read.
func (s *OrderService) Detail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, order), nil
}

// UserOrders lists the user's orders newest first as read models.
func (s *OrderService) UserOrders(ctx context.Context, userID uuid.UUID) ([]*OrderDetail, error) {
	orders, err := s.repos.Order.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderDetail, 0, len(orders))
	for _, order := range orders {
		out = append(out, s.toDetail(ctx, order))
	}
	return out, nil
}

// AllOrders lists every non-deleted order for the admin view.
func (s *OrderService) AllOrders(ctx context.Context) ([]*OrderDetail, error) {
	orders, err := s.repos.Order.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderDetail, 0, len(orders))
	for _, order := range orders {
		out = append(out, s.toDetail(ctx, order))
	}
	return out, nil
}

// ListReturnRequests flattens all pending return requests for the admin
// review queue.
func (s *OrderService) ListReturnRequests(ctx context.Context) ([]ReturnRequestView, error) {
	orders, err := s.repos.Order.ListReturnRequested(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ReturnRequestView, 0)
	for _, order := range orders {
		for _, line := range order.Lines {
			if !line.ReturnStatus.IsReturned {
				continue
			}
			view := ReturnRequestView{
				OrderID:       order.ID,
				ProductID:     line.ProductID,
				UserID:        order.UserID,
				ReturnReason:  line.ReturnStatus.ReturnReason,
				AdminApproval: line.ReturnStatus.AdminApproval,
			}
			if line.ReturnStatus.ReturnDate != nil {
				view.ReturnDate = line.ReturnStatus.ReturnDate.Format(time.RFC3339)
			}
			views = append(views, view)
		}
	}
	return views, nil
}

// SoftDelete hides an order from listings without destroying the record.
func (s *OrderService) SoftDelete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.repos.Order.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.repos.Order.SoftDelete(ctx, orderID)
}

func (s *OrderService) toDetail(ctx context.Context, order *domain.Order) *OrderDetail {
	detail := &OrderDetail{
		OrderID:          order.ID,
		Status:           string(order.PaymentInfo.Status),
		Lines:            make([]OrderLineDetail, 0, len(order.Lines)),
		TotalPrice:       order.TotalPrice,
		ShippingFee:      order.ShippingFee,
		DiscountAmount:   order.DiscountAmount,
		PaymentMethod:    string(order.PaymentInfo.Method),
		ExpectedDelivery: order.ExpectedDelivery.Format(time.RFC3339),
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
	}
	for _, line := range order.Lines {
		name := "Product Unavailable"
		if product, err := s.repos.Product.GetByID(ctx, line.ProductID); err == nil {
			name = product.Name
		}
		detail.Lines = append(detail.Lines, OrderLineDetail{
			ProductID:   line.ProductID,
			ProductName: name,
			Size:        line.Size,
			Quantity:    line.Quantity,
			Price:       line.Price,
			IsReturned:  line.ReturnStatus.IsReturned,
		})
	}
	return detail
}
