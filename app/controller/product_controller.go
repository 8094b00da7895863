package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
	"pedidos-mostrador/service"
	"pedidos-mostrador/utils"
)

// ProductController handles HTTP requests for catalog maintenance
type ProductController struct {
	catalog *service.CatalogService
}

// NewProductController creates a new ProductController
func NewProductController(catalog *service.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List handles GET /products
// Example response:
// {
//   "products": [
//     {"id": 1, "name": "Empanada", "price": "2.5"}
//   ]
// }
func (pc *ProductController) List(c echo.Context) error {
	products, err := pc.catalog.List(c.Request().Context())
	if err != nil {
		return respondError(c, "ListProducts", err)
	}
	return c.JSON(http.StatusOK, models.ProductListResponse{Products: products})
}

// Get handles GET /products/:id
func (pc *ProductController) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "GetProduct", "invalid product id", err)
	}
	product, err := pc.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, "GetProduct", err)
	}
	return c.JSON(http.StatusOK, product)
}

// Create handles POST /products
// Example request:
// POST /products
// {"name": "Empanada", "price": "2.50"}
// Example response:
// {
//   "product": {"id": 1, "name": "Empanada", "price": "2.5"},
//   "notice": "Product Empanada added at $2.50."
// }
func (pc *ProductController) Create(c echo.Context) error {
	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "CreateProduct", "invalid request body", err)
	}

	product, err := pc.catalog.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, "CreateProduct", err)
	}

	logger.FromContext(c.Request().Context()).Info("✅ CreateProduct: Product created", zap.Int64("product_id", product.ID))
	return c.JSON(http.StatusCreated, models.ProductActionResponse{
		Product: product,
		Notice:  fmt.Sprintf("Product %s added at %s.", product.Name, utils.FormatMoney(product.Price)),
	})
}

// Update handles PUT /products/:id
// Example request:
// PUT /products/1
// {"name": "Empanada de pollo", "price": "3.00"}
func (pc *ProductController) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "UpdateProduct", "invalid product id", err)
	}
	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "UpdateProduct", "invalid request body", err)
	}

	product, err := pc.catalog.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, "UpdateProduct", err)
	}

	logger.FromContext(c.Request().Context()).Info("✅ UpdateProduct: Product updated", zap.Int64("product_id", product.ID))
	return c.JSON(http.StatusOK, models.ProductActionResponse{
		Product: product,
		Notice:  fmt.Sprintf("Product %s updated.", product.Name),
	})
}

// Delete handles DELETE /products/:id.
// Orders that used the product keep their lines and get flagged.
func (pc *ProductController) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "DeleteProduct", "invalid product id", err)
	}
	if err := pc.catalog.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, "DeleteProduct", err)
	}
	return c.JSON(http.StatusOK, models.ProductActionResponse{Notice: fmt.Sprintf("Product #%d deleted.", id)})
}
