package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/service"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// newTestRouter wires a RESTHandler over a fresh database file.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := zap.NewNop()
	svc := service.New(s, logger, nil)

	router := mux.NewRouter()
	NewRESTHandler(svc, s, logger).RegisterRoutes(router)
	return router
}

// doJSON issues a request with an optional JSON body and returns the
// recorded response.
func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSuccess[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var response model.APIResponse[T]
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.Success {
		t.Fatalf("response not successful: %s", response.Error)
	}
	return response.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()

	var response model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return response
}

func TestWelcome(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodGet, "/", "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeSuccess[WelcomeResponse](t, rec)
	if got.Message != "Welcome to the Shop API" {
		t.Errorf("Message = %s", got.Message)
	}
}

func TestHealthCheck(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodGet, "/health", "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeSuccess[HealthResponse](t, rec)
	if got.Status != "healthy" || got.Version != Version {
		t.Errorf("HealthResponse = %+v", got)
	}
}

func TestReadyCheck(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodGet, "/ready", "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeSuccess[ReadyResponse](t, rec)
	if got.Status != "ready" {
		t.Errorf("Status = %s, want ready", got.Status)
	}
}

func TestCreateCustomer(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodPost, "/customers",
		`{"name": "John", "surname": "Doe", "email": "john@example.com"}`)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	got := decodeSuccess[model.Customer](t, rec)
	if got.ID == 0 {
		t.Error("customer was not assigned an ID")
	}
	if got.Name != "John" || got.Surname != "Doe" || got.Email != "john@example.com" {
		t.Errorf("customer = %+v", got)
	}
}

func TestCreateCustomer_ValidationFailure(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodPost, "/customers",
		`{"name": "", "surname": "Doe", "email": "john@example.com"}`)

	// Assert
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateCustomer_InvalidBody(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodPost, "/customers", `{not json`)

	// Assert
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	got := decodeError(t, rec)
	if got.Message != "invalid request body" {
		t.Errorf("message = %q, want invalid request body", got.Message)
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	payload := `{"name": "John", "surname": "Doe", "email": "john@example.com"}`
	if rec := doJSON(t, router, http.MethodPost, "/customers", payload); rec.Code != http.StatusOK {
		t.Fatalf("first create status = %d", rec.Code)
	}

	// Act
	rec := doJSON(t, router, http.MethodPost, "/customers", payload)

	// Assert
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	got := decodeError(t, rec)
	if got.Message != "constraint violation" {
		t.Errorf("message = %q, want constraint violation", got.Message)
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodGet, "/customers/999", "")

	// Assert
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	got := decodeError(t, rec)
	if got.Message != "customer not found" {
		t.Errorf("message = %q, want customer not found", got.Message)
	}
}

func TestGetCustomer_InvalidID(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodGet, "/customers/abc", "")

	// Assert
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	got := decodeError(t, rec)
	if got.Message != "invalid entity ID" {
		t.Errorf("message = %q, want invalid entity ID", got.Message)
	}
}

func TestUpdateCustomer_SparsePatch(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/customers",
		`{"name": "John", "surname": "Doe", "email": "john@example.com"}`)
	created := decodeSuccess[model.Customer](t, rec)

	// Act
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", created.ID),
		`{"name": "Jane"}`)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	got := decodeSuccess[model.Customer](t, rec)
	if got.Name != "Jane" {
		t.Errorf("Name = %s, want Jane", got.Name)
	}
	if got.Surname != "Doe" || got.Email != "john@example.com" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestDeleteCustomer_ReturnsSnapshot(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/customers",
		`{"name": "John", "surname": "Doe", "email": "john@example.com"}`)
	created := decodeSuccess[model.Customer](t, rec)

	// Act
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/customers/%d", created.ID), "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeSuccess[model.Customer](t, rec)
	if got != created {
		t.Errorf("snapshot = %+v, want %+v", got, created)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/customers/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestNotFoundMessagesPerEntity(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	tests := []struct {
		path string
		want string
	}{
		{"/customers/999", "customer not found"},
		{"/categories/999", "category not found"},
		{"/shop-items/999", "shop item not found"},
		{"/orders/999", "order not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// Act
			rec := doJSON(t, router, http.MethodGet, tt.path, "")

			// Assert
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
			if got := decodeError(t, rec); got.Message != tt.want {
				t.Errorf("message = %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestShopItemCategoryFlow(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/categories", `{"title": "Electronics"}`)
	category := decodeSuccess[model.Category](t, rec)

	// Act
	rec = doJSON(t, router, http.MethodPost, "/shop-items",
		fmt.Sprintf(`{"title": "Laptop", "price": 999.99, "category_ids": [%d, 999]}`, category.ID))

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	item := decodeSuccess[model.ShopItem](t, rec)
	if len(item.Categories) != 1 || item.Categories[0].ID != category.ID {
		t.Errorf("categories = %+v, want only the known one", item.Categories)
	}

	// A present empty list clears the set.
	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/shop-items/%d", item.ID),
		`{"category_ids": []}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}
	updated := decodeSuccess[model.ShopItem](t, rec)
	if len(updated.Categories) != 0 {
		t.Errorf("categories = %+v, want empty after clearing", updated.Categories)
	}
}

func TestOrderFlow(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/customers",
		`{"name": "John", "surname": "Doe", "email": "john@example.com"}`)
	customer := decodeSuccess[model.Customer](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/shop-items", `{"title": "Laptop", "price": 999.99}`)
	item := decodeSuccess[model.ShopItem](t, rec)

	// Act
	rec = doJSON(t, router, http.MethodPost, "/orders",
		fmt.Sprintf(`{"customer_id": %d, "items": [{"shop_item_id": %d, "quantity": 2}]}`, customer.ID, item.ID))

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	order := decodeSuccess[model.Order](t, rec)
	if order.Customer.Name != "John" {
		t.Errorf("customer = %+v, want hydrated John", order.Customer)
	}
	if len(order.Items) != 1 || order.Items[0].ShopItem.Title != "Laptop" {
		t.Errorf("lines = %+v, want hydrated Laptop line", order.Items)
	}

	// Deleting the order returns the hydrated snapshot and cascades.
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body)
	}
	snapshot := decodeSuccess[model.Order](t, rec)
	if len(snapshot.Items) != 1 {
		t.Errorf("snapshot lines = %+v, want one", snapshot.Items)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateOrder_UnknownCustomerConflict(t *testing.T) {
	// Arrange
	router := newTestRouter(t)

	// Act
	rec := doJSON(t, router, http.MethodPost, "/orders", `{"customer_id": 999}`)

	// Assert
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body)
	}
}

func TestListWindow_QueryParameters(t *testing.T) {
	// Arrange
	router := newTestRouter(t)
	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/categories",
			fmt.Sprintf(`{"title": "category-%d"}`, i))
		if rec.Code != http.StatusOK {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	// Act
	rec := doJSON(t, router, http.MethodGet, "/categories?skip=1&limit=1", "")

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeSuccess[[]model.Category](t, rec)
	if len(got) != 1 || got[0].Title != "category-1" {
		t.Errorf("window = %+v, want [category-1]", got)
	}
}
