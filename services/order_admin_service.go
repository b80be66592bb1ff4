package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
)

// AuditRecorder stores admin audit entries
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error
}

// AuditMeta describes who performed an admin action
type AuditMeta struct {
	AdminID   uint
	IPAddress string
	UserAgent string
}

// OrderAdminService serves the admin order list and status changes
type OrderAdminService struct {
	store database.OrderStore
	audit AuditRecorder
}

// NewOrderAdminService creates an admin order service; audit may be nil
func NewOrderAdminService(store database.OrderStore, audit AuditRecorder) *OrderAdminService {
	return &OrderAdminService{store: store, audit: audit}
}

// ListGroupedOrders returns one page of checkouts. Filters apply to order
// rows before grouping, so a group only lists its rows that match.
func (s *OrderAdminService) ListGroupedOrders(ctx context.Context, filter database.OrderFilter, page, limit int) ([]OrderGroup, int64, error) {
	rows, err := s.store.ListOrderRows(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	groups := GroupOrders(rows)
	total := int64(len(groups))

	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(groups) {
		return []OrderGroup{}, total, nil
	}
	end := start + limit
	if end > len(groups) {
		end = len(groups)
	}
	return groups[start:end], total, nil
}

// GroupOf returns the checkout an order row belongs to
func (s *OrderAdminService) GroupOf(ctx context.Context, orderID uint) (*OrderGroup, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}

	filter := database.OrderFilter{OrderIDs: []uint{order.ID}}
	if order.GroupTag != "" {
		filter = database.OrderFilter{GroupTag: order.GroupTag}
	}
	rows, err := s.store.ListOrderRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list order rows: %w", err)
	}

	groups := GroupOrders(rows)
	if len(groups) == 0 {
		return nil, ErrOrderNotFound
	}
	return &groups[0], nil
}

// Statuses lists the configured order statuses
func (s *OrderAdminService) Statuses(ctx context.Context) ([]model.OrderStatus, error) {
	statuses, err := s.store.ListOrderStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list order statuses: %w", err)
	}
	return statuses, nil
}

// DeliveryMethods lists the configured delivery methods
func (s *OrderAdminService) DeliveryMethods(ctx context.Context) ([]model.DeliveryMethod, error) {
	methods, err := s.store.ListDeliveryMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery methods: %w", err)
	}
	return methods, nil
}

// UpdateStatus moves a single order row to a configured status. Other rows of
// the same checkout keep their status.
func (s *OrderAdminService) UpdateStatus(ctx context.Context, orderID, statusID uint, meta AuditMeta) (*model.Order, error) {
	statuses, err := s.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	if !hasStatus(statuses, statusID) {
		return nil, ErrUnknownStatus
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}

	oldStatus := order.StatusID
	if err := s.store.UpdateOrderStatus(ctx, orderID, statusID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	order.StatusID = statusID

	s.recordStatusChange(ctx, meta, orderID, oldStatus, statusID)
	return order, nil
}

func hasStatus(statuses []model.OrderStatus, id uint) bool {
	for _, st := range statuses {
		if st.ID == id {
			return true
		}
	}
	return false
}

func (s *OrderAdminService) recordStatusChange(ctx context.Context, meta AuditMeta, orderID, from, to uint) {
	if s.audit == nil {
		return
	}

	oldValue, _ := json.Marshal(map[string]uint{"status_id": from})
	newValue, _ := json.Marshal(map[string]uint{"status_id": to})
	entry := &model.AdminAuditLog{
		AdminID:     meta.AdminID,
		Action:      "order_status_update",
		Resource:    "orders",
		ResourceID:  orderID,
		OldValue:    datatypes.JSON(oldValue),
		NewValue:    datatypes.JSON(newValue),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Description: fmt.Sprintf("order #%d status %d -> %d", orderID, from, to),
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		log.Warnf("audit: failed to record status change of order #%d: %v", orderID, err)
	}
}
