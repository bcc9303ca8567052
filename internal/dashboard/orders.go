package dashboard

import (
	"context"

	"go.uber.org/zap"

	"storefront-web/internal/domain"
)

const ordersFallbackError = "Failed to load orders"

// OrdersStatus is the load state of the orders panel.
type OrdersStatus string

const (
	OrdersIdle    OrdersStatus = "idle"
	OrdersLoading OrdersStatus = "loading"
	OrdersEmpty   OrdersStatus = "empty"
	OrdersLoaded  OrdersStatus = "loaded"
	OrdersFailed  OrdersStatus = "error"
)

// OrdersView is what the orders panel renders.
type OrdersView struct {
	Status OrdersStatus   `json:"status"`
	Orders []domain.Order `json:"orders"`
	Error  string         `json:"error,omitempty"`
}

type ordersState struct {
	status OrdersStatus
	orders []domain.Order
	err    string
}

func (s ordersState) view() OrdersView {
	status := s.status
	if status == "" {
		status = OrdersIdle
	}
	orders := make([]domain.Order, len(s.orders))
	copy(orders, s.orders)
	return OrdersView{Status: status, Orders: orders, Error: s.err}
}

func (d *Dashboard) startOrdersLoadLocked(ctx context.Context) {
	d.orders.status = OrdersLoading
	d.orders.err = ""
	d.launchLocked(ctx, "orders", d.loadOrders)
}

func (d *Dashboard) loadOrders(ctx context.Context) {
	orders, err := d.api.ListMyOrders(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.logger.Warn("load orders failed", zap.Error(err))
		d.noteRejectedLocked(err)
		d.orders.status = OrdersFailed
		d.orders.err = errorMessage(err, ordersFallbackError).Text
		return
	}
	d.orders.orders = orders
	d.orders.err = ""
	if len(orders) == 0 {
		d.orders.status = OrdersEmpty
	} else {
		d.orders.status = OrdersLoaded
	}
}
