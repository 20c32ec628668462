package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcline/storefront/store"
	"github.com/sirupsen/logrus"
)

// ProductsController exposes the catalog over HTTP. The store handle
// is injected by the composition root so tests can substitute their
// own implementation.
type ProductsController struct {
	Store store.ProductStore
	Log   *logrus.Logger

	// ExposeErrors switches 500 bodies to include the underlying
	// error, for local development only.
	ExposeErrors bool
}

func NewProductsController(s store.ProductStore, log *logrus.Logger, exposeErrors bool) *ProductsController {
	return &ProductsController{Store: s, Log: log, ExposeErrors: exposeErrors}
}

func (pc *ProductsController) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/products", pc.GetProducts())
	r.GET("/api/products/:id", pc.GetProduct())
}

func (pc *ProductsController) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := pc.Store.List(c.Request.Context())
		if err != nil {
			pc.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func (pc *ProductsController) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		product, err := pc.Store.GetByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, product)
		case errors.Is(err, store.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		default:
			pc.internalError(c, err)
		}
	}
}

// internalError logs the failure and answers with a generic body. The
// underlying error never reaches the response in production.
func (pc *ProductsController) internalError(c *gin.Context, err error) {
	pc.Log.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("request failed")

	body := gin.H{"message": "Internal server error"}
	if pc.ExposeErrors {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
