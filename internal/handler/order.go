package handler

import (
	"net/http"
	"strconv"
	"strings"

	"orderdesk/internal/model"
	"orderdesk/internal/mw"
	"orderdesk/internal/service"
)

func PendingOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return listOrders(orderSvc, model.StatusPending, page{
		Title:        "Pending orders",
		ActiveButton: "pending",
	})
}

func ProcessedOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return listOrders(orderSvc, model.StatusProcessed, page{
		Title:        "Processed orders",
		ActiveButton: "processed",
		DeleteButton: true,
	})
}

func listOrders(orderSvc *service.OrderService, status model.OrderStatus, p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := mw.UserEmail(r.Context())
		if !ok {
			writeError(w, r, service.ErrUnauthenticated)
			return
		}

		orders, err := orderSvc.ListByOwnerAndStatus(r.Context(), email, status)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, orders)
			return
		}

		p.Email = email
		p.Orders = orders
		render(w, "my_orders.html", p)
	}
}

// PerformOrderHandler marks the order from ?order_id= as processed.
func PerformOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
		if err != nil || id <= 0 {
			renderError(w, r, http.StatusBadRequest, "invalid order id")
			return
		}

		if _, err := orderSvc.SetStatus(r.Context(), id, model.StatusProcessed); err != nil {
			writeError(w, r, err)
			return
		}

		redirect(w, r, "/pending_orders")
	}
}

func DeleteProcessedHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := mw.UserEmail(r.Context())
		if !ok {
			writeError(w, r, service.ErrUnauthenticated)
			return
		}

		n, err := orderSvc.DeleteAllProcessedForOwner(r.Context(), email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if n == 0 {
			writeError(w, r, service.ErrNothingToDelete)
			return
		}

		redirect(w, r, "/processed_orders")
	}
}

func CreateOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, _ := mw.UserEmail(r.Context())
		render(w, "create_order.html", page{Title: "New order", Email: email})
	}
}

// CreateOrderHandler stores a Pending order for the form's email, falling
// back to the signed-in user when the field is left empty.
func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid form")
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		if email == "" {
			email, _ = mw.UserEmail(r.Context())
		}

		if _, err := orderSvc.Create(r.Context(), email, r.PostFormValue("description")); err != nil {
			writeError(w, r, err)
			return
		}

		redirect(w, r, "/create_order")
	}
}
