package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/service"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// Fixed not-found messages per entity type.
const (
	customerNotFound = "customer not found"
	categoryNotFound = "category not found"
	shopItemNotFound = "shop item not found"
	orderNotFound    = "order not found"
)

// RESTHandler handles REST API requests for the shop entities.
type RESTHandler struct {
	svc    *service.Service
	store  store.Store
	logger *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(svc *service.Service, st store.Store, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		svc:    svc,
		store:  st,
		logger: logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Welcome).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)

	router.HandleFunc("/customers", h.CreateCustomer).Methods(http.MethodPost)
	router.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id}", h.GetCustomer).Methods(http.MethodGet)
	router.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods(http.MethodPut)
	router.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods(http.MethodDelete)

	router.HandleFunc("/categories", h.CreateCategory).Methods(http.MethodPost)
	router.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	router.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet)
	router.HandleFunc("/categories/{id}", h.UpdateCategory).Methods(http.MethodPut)
	router.HandleFunc("/categories/{id}", h.DeleteCategory).Methods(http.MethodDelete)

	router.HandleFunc("/shop-items", h.CreateShopItem).Methods(http.MethodPost)
	router.HandleFunc("/shop-items", h.ListShopItems).Methods(http.MethodGet)
	router.HandleFunc("/shop-items/{id}", h.GetShopItem).Methods(http.MethodGet)
	router.HandleFunc("/shop-items/{id}", h.UpdateShopItem).Methods(http.MethodPut)
	router.HandleFunc("/shop-items/{id}", h.DeleteShopItem).Methods(http.MethodDelete)

	router.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	router.HandleFunc("/orders/{id}", h.UpdateOrder).Methods(http.MethodPut)
	router.HandleFunc("/orders/{id}", h.DeleteOrder).Methods(http.MethodDelete)
}

// Welcome handles GET / requests.
func (h *RESTHandler) Welcome(w http.ResponseWriter, _ *http.Request) {
	response := WelcomeResponse{Message: "Welcome to the Shop API"}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(response))
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(response))
}

// ReadyCheck handles GET /ready requests; ready means the store answers
// a ping.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("store ping failed", zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(ReadyResponse{Status: "ready"}))
}

// Customer handlers.

// CreateCustomer handles POST /customers requests.
func (h *RESTHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input model.Customer
	if !h.decodeBody(w, r, &input) {
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), &input)
	if err != nil {
		h.handleServiceError(w, err, "create customer", customerNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(customer))
}

// ListCustomers handles GET /customers requests.
func (h *RESTHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	skip, limit := listWindow(r)

	customers, err := h.svc.ListCustomers(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, err, "list customers", customerNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(customers))
}

// GetCustomer handles GET /customers/{id} requests.
func (h *RESTHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	customer, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get customer", customerNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(customer))
}

// UpdateCustomer handles PUT /customers/{id} requests.
func (h *RESTHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch model.CustomerPatch
	if !h.decodeBody(w, r, &patch) {
		return
	}

	customer, err := h.svc.UpdateCustomer(r.Context(), id, patch)
	if err != nil {
		h.handleServiceError(w, err, "update customer", customerNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(customer))
}

// DeleteCustomer handles DELETE /customers/{id} requests.
func (h *RESTHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	customer, err := h.svc.DeleteCustomer(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete customer", customerNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(customer))
}

// Category handlers.

// CreateCategory handles POST /categories requests.
func (h *RESTHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input model.Category
	if !h.decodeBody(w, r, &input) {
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), &input)
	if err != nil {
		h.handleServiceError(w, err, "create category", categoryNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(category))
}

// ListCategories handles GET /categories requests.
func (h *RESTHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	skip, limit := listWindow(r)

	categories, err := h.svc.ListCategories(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, err, "list categories", categoryNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(categories))
}

// GetCategory handles GET /categories/{id} requests.
func (h *RESTHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	category, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get category", categoryNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(category))
}

// UpdateCategory handles PUT /categories/{id} requests.
func (h *RESTHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch model.CategoryPatch
	if !h.decodeBody(w, r, &patch) {
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		h.handleServiceError(w, err, "update category", categoryNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(category))
}

// DeleteCategory handles DELETE /categories/{id} requests.
func (h *RESTHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	category, err := h.svc.DeleteCategory(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete category", categoryNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(category))
}

// Shop item handlers.

// CreateShopItem handles POST /shop-items requests.
func (h *RESTHandler) CreateShopItem(w http.ResponseWriter, r *http.Request) {
	var input model.ShopItemInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.CreateShopItem(r.Context(), &input)
	if err != nil {
		h.handleServiceError(w, err, "create shop item", shopItemNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// ListShopItems handles GET /shop-items requests.
func (h *RESTHandler) ListShopItems(w http.ResponseWriter, r *http.Request) {
	skip, limit := listWindow(r)

	items, err := h.svc.ListShopItems(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, err, "list shop items", shopItemNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(items))
}

// GetShopItem handles GET /shop-items/{id} requests.
func (h *RESTHandler) GetShopItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetShopItem(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get shop item", shopItemNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// UpdateShopItem handles PUT /shop-items/{id} requests.
func (h *RESTHandler) UpdateShopItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch model.ShopItemPatch
	if !h.decodeBody(w, r, &patch) {
		return
	}

	item, err := h.svc.UpdateShopItem(r.Context(), id, patch)
	if err != nil {
		h.handleServiceError(w, err, "update shop item", shopItemNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// DeleteShopItem handles DELETE /shop-items/{id} requests.
func (h *RESTHandler) DeleteShopItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.DeleteShopItem(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete shop item", shopItemNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// Order handlers.

// CreateOrder handles POST /orders requests.
func (h *RESTHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input model.OrderInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), &input)
	if err != nil {
		h.handleServiceError(w, err, "create order", orderNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(order))
}

// ListOrders handles GET /orders requests.
func (h *RESTHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit := listWindow(r)

	orders, err := h.svc.ListOrders(r.Context(), skip, limit)
	if err != nil {
		h.handleServiceError(w, err, "list orders", orderNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(orders))
}

// GetOrder handles GET /orders/{id} requests.
func (h *RESTHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get order", orderNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(order))
}

// UpdateOrder handles PUT /orders/{id} requests.
func (h *RESTHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var patch model.OrderPatch
	if !h.decodeBody(w, r, &patch) {
		return
	}

	if err := patch.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.svc.UpdateOrder(r.Context(), id, &patch)
	if err != nil {
		h.handleServiceError(w, err, "update order", orderNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(order))
}

// DeleteOrder handles DELETE /orders/{id} requests.
func (h *RESTHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.DeleteOrder(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "delete order", orderNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(order))
}

// Helpers.

// pathID extracts and parses the {id} path variable, writing a 400 on
// failure.
func (h *RESTHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid entity ID")
		return 0, false
	}
	return id, true
}

// decodeBody decodes the JSON request body into dst, writing a 400 on
// failure.
func (h *RESTHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// listWindow parses the skip/limit query parameters, falling back to
// skip 0 and the service default limit.
func listWindow(r *http.Request) (int, int) {
	skip := 0
	limit := service.DefaultListLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	return skip, limit
}

// handleServiceError maps domain outcomes to HTTP responses: not-found
// to 404 with the fixed per-entity message, constraint violations to
// 409, validation failures to 400, everything else to 500.
func (h *RESTHandler) handleServiceError(w http.ResponseWriter, err error, operation, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrConflict):
		h.logger.Warn("constraint violation", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusConflict, "constraint violation")
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid entity ID")
	case model.IsValidation(err):
		h.logger.Warn("validation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	response := model.ErrorResponse{
		Code:    status,
		Message: message,
	}
	h.writeJSON(w, status, response)
}
