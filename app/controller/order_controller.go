package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"pedidos-mostrador/models"
	"pedidos-mostrador/service"
	"pedidos-mostrador/utils"
)

// quantityFieldPrefix prefixes the form fields carrying one quantity per product, e.g. qty_4=2
const quantityFieldPrefix = "qty_"

// OrderController handles HTTP requests for counter orders
type OrderController struct {
	orders *service.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *service.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// NewForm handles GET /orders/new
// Example response:
// {
//   "products": [{"id": 1, "name": "Empanada", "price": "2.5"}]
// }
// With an empty catalog the response is 422 with "redirect": "/products".
func (oc *OrderController) NewForm(c echo.Context) error {
	form, err := oc.orders.NewForm(c.Request().Context())
	if err != nil {
		return respondError(c, "NewOrderForm", err)
	}
	return c.JSON(http.StatusOK, form)
}

// Place handles POST /orders
// Example request:
// POST /orders
// {"selections": {"1": 3, "4": 1}}
// or form fields qty_1=3&qty_4=1
// Example response:
// {
//   "order": {"id": 3, "status": "pending", "total": "8.5", "lines": [...]},
//   "notice": "Order #3 placed, total $8.50."
// }
func (oc *OrderController) Place(c echo.Context) error {
	selections, err := bindSelections(c)
	if err != nil {
		return badRequest(c, "PlaceOrder", "invalid selections", err)
	}

	order, err := oc.orders.Place(c.Request().Context(), selections)
	if err != nil {
		return respondError(c, "PlaceOrder", err)
	}
	return c.JSON(http.StatusCreated, models.OrderActionResponse{
		Order:  order,
		Notice: fmt.Sprintf("Order #%d placed, total %s.", order.ID, utils.FormatMoney(order.Total)),
	})
}

// ListPending handles GET /orders/pending
func (oc *OrderController) ListPending(c echo.Context) error {
	orders, err := oc.orders.ListPending(c.Request().Context())
	if err != nil {
		return respondError(c, "ListPendingOrders", err)
	}
	return c.JSON(http.StatusOK, models.OrderListResponse{Orders: orders})
}

// ListCompleted handles GET /orders/completed.
// Orders already settled by a shift close are not listed.
func (oc *OrderController) ListCompleted(c echo.Context) error {
	orders, err := oc.orders.ListCompletedActive(c.Request().Context())
	if err != nil {
		return respondError(c, "ListCompletedOrders", err)
	}
	return c.JSON(http.StatusOK, models.OrderListResponse{Orders: orders})
}

// Get handles GET /orders/:id
func (oc *OrderController) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "GetOrder", "invalid order id", err)
	}
	order, err := oc.orders.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "GetOrder", err)
	}
	return c.JSON(http.StatusOK, order)
}

// EditForm handles GET /orders/:id/edit
// Example response:
// {
//   "order": {"id": 3, ...},
//   "products": [{"id": 1, "name": "Empanada", "price": "2.5"}],
//   "quantities": {"1": 3},
//   "hasOrphanedProducts": false
// }
func (oc *OrderController) EditForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "EditOrderForm", "invalid order id", err)
	}
	form, err := oc.orders.EditForm(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "EditOrderForm", err)
	}
	return c.JSON(http.StatusOK, form)
}

// Edit handles PUT /orders/:id, replacing every line of a pending order
// Example request:
// PUT /orders/3
// {"selections": {"1": 1, "2": 2}}
func (oc *OrderController) Edit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "EditOrder", "invalid order id", err)
	}
	selections, err := bindSelections(c)
	if err != nil {
		return badRequest(c, "EditOrder", "invalid selections", err)
	}

	order, err := oc.orders.Edit(c.Request().Context(), id, selections)
	if err != nil {
		return respondError(c, "EditOrder", err)
	}
	return c.JSON(http.StatusOK, models.OrderActionResponse{
		Order:  order,
		Notice: fmt.Sprintf("Order #%d updated, total %s.", order.ID, utils.FormatMoney(order.Total)),
	})
}

// Complete handles POST /orders/:id/complete
// Example response:
// {"notice": "Order #3 marked completed."}
func (oc *OrderController) Complete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "CompleteOrder", "invalid order id", err)
	}
	if err := oc.orders.Complete(c.Request().Context(), id); err != nil {
		return respondError(c, "CompleteOrder", err)
	}
	return c.JSON(http.StatusOK, models.OrderActionResponse{Notice: fmt.Sprintf("Order #%d marked completed.", id)})
}

// bindSelections reads the requested quantities from a JSON body or from qty_<id> form fields.
// Form fields whose id or quantity is not an integer are skipped.
func bindSelections(c echo.Context) (models.Selections, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body models.SelectionsRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, err
		}
		return body.Selections, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	selections := models.Selections{}
	for field, values := range form {
		rawID, ok := strings.CutPrefix(field, quantityFieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		selections[id] = qty
	}
	return selections, nil
}
