package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/customer-service/internal/core/domain"
	logicv1 "github.com/duynhne/customer-service/internal/logic/v1"
	"github.com/duynhne/customer-service/middleware"
)

// CustomerHandler handles HTTP requests for customer operations.
type CustomerHandler struct {
	service *logicv1.CustomerService
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service *logicv1.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return 0, false
	}
	return id, true
}

// writeCustomerError maps domain errors to status codes. Anything
// uncategorized becomes a generic 500 with details only in the logs.
func writeCustomerError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
	case errors.Is(err, domain.ErrDuplicatePhone):
		c.JSON(http.StatusConflict, gin.H{"error": "Phone number already in use"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
	default:
		logger.Error("Customer operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	var payload domain.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	if fieldErrs := domain.ValidateCustomer(&payload); len(fieldErrs) > 0 {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	customer, err := h.service.Create(ctx, payload)
	if err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	c.JSON(http.StatusOK, customer)
}

// GetAll handles GET /api/customers
func (h *CustomerHandler) GetAll(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	customers, err := h.service.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetByID handles GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer.id", id))

	customer, err := h.service.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Search handles GET /api/customers/search.
//
// Dispatch precedence, first non-blank parameter wins:
// phoneNumber > email > firstName+lastName > firstName > lastName > address.
// Phone and email are exact single lookups and 404 on a miss. The list
// searches return 200 with an empty list on zero matches; only a
// request with no recognized parameter at all is a 400.
func (h *CustomerHandler) Search(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	phone := c.Query("phoneNumber")
	email := c.Query("email")
	firstName := c.Query("firstName")
	lastName := c.Query("lastName")
	address := c.Query("address")

	if !isBlank(phone) {
		customer, err := h.service.GetByPhoneNumber(ctx, phone)
		if err != nil {
			span.RecordError(err)
			writeCustomerError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, customer)
		return
	}

	if !isBlank(email) {
		customer, err := h.service.GetByEmail(ctx, email)
		if err != nil {
			span.RecordError(err)
			writeCustomerError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, customer)
		return
	}

	var (
		result []domain.Customer
		err    error
	)

	switch {
	case !isBlank(firstName) && !isBlank(lastName):
		result, err = h.service.SearchByFullName(ctx, firstName, lastName)
	case !isBlank(firstName):
		result, err = h.service.SearchByFirstName(ctx, firstName)
	case !isBlank(lastName):
		result, err = h.service.SearchByLastName(ctx, lastName)
	case !isBlank(address):
		result, err = h.service.SearchByAddress(ctx, address)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one valid search parameter is required"})
		return
	}

	if err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	span.SetAttributes(attribute.Int("search.matches", len(result)))
	c.JSON(http.StatusOK, result)
}

// Update handles PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer.id", id))

	var payload domain.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeValidationError(err)})
		return
	}

	if fieldErrs := domain.ValidateCustomer(&payload); len(fieldErrs) > 0 {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	customer, err := h.service.Update(ctx, id, payload)
	if err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	logger.Info("Customer updated", zap.Int64("customer_id", id))
	c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := middleware.GetLoggerFromGinContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer.id", id))

	if err := h.service.Delete(ctx, id); err != nil {
		span.RecordError(err)
		writeCustomerError(c, logger, err)
		return
	}

	logger.Info("Customer deleted", zap.Int64("customer_id", id))
	c.Status(http.StatusNoContent)
}
