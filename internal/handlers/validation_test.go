package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"medeasy/internal/middleware"
)

// Handlers validate before touching the store, so these run with a nil
// database handle.

func jsonContext(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestCreateUserMissingEmail(t *testing.T) {
	w, c := jsonContext(t, "POST", "/user", `{"name":"A","role":"buyer"}`)

	CreateUser(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	w, c := jsonContext(t, "POST", "/user", `{"name":"A","email":"a@x.com","role":"root"}`)

	CreateUser(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", w.Code)
	}
}

func TestAddCartItemWithoutIdentity(t *testing.T) {
	w, c := jsonContext(t, "POST", "/carts", `{"medicineId":"abc"}`)

	AddCartItem(nil)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestAddCartItemInvalidMedicineID(t *testing.T) {
	w, c := jsonContext(t, "POST", "/carts", `{"medicineId":"not-an-object-id"}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	AddCartItem(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad medicineId, got %d", w.Code)
	}
}

func TestGetCartItemsRejectsForeignEmailQuery(t *testing.T) {
	w, c := jsonContext(t, "GET", "/carts?email=other@x.com", "")
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	GetCartItems(nil)(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign email query, got %d", w.Code)
	}
}

func TestClearCartRejectsForeignEmailQuery(t *testing.T) {
	w, c := jsonContext(t, "DELETE", "/carts?email=Other@X.com", "")
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	ClearCart(nil)(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign email query, got %d", w.Code)
	}
}

func TestUpdateCartItemNegativeQuantity(t *testing.T) {
	w, c := jsonContext(t, "PATCH", "/carts/1", `{"quantity":-1}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")
	c.Params = gin.Params{{Key: "id", Value: "64b0c0c0c0c0c0c0c0c0c0c0"}}

	UpdateCartItem(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", w.Code)
	}
}

func TestUpdateCartItemNoFields(t *testing.T) {
	w, c := jsonContext(t, "PATCH", "/carts/1", `{}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")
	c.Params = gin.Params{{Key: "id", Value: "64b0c0c0c0c0c0c0c0c0c0c0"}}

	UpdateCartItem(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", w.Code)
	}
}

func TestSetMedicineFlagInvalidID(t *testing.T) {
	w, c := jsonContext(t, "PATCH", "/medicines/advertise/xyz", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "xyz"}}

	AdvertiseMedicine(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", w.Code)
	}
}

func TestCreateMedicineWithoutIdentity(t *testing.T) {
	w, c := jsonContext(t, "POST", "/medicines", `{"name":"Aspirin","category":"Pain","price":5}`)

	CreateMedicine(nil)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestCreateCheckoutRejectsZeroTotal(t *testing.T) {
	w, c := jsonContext(t, "POST", "/checkout",
		`{"items":[{"medicineId":"64b0c0c0c0c0c0c0c0c0c0c0","quantity":1}],"grandTotal":0}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	CreateCheckout(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero grandTotal, got %d", w.Code)
	}
}

func TestUpdatePaymentStatusUnknownStatus(t *testing.T) {
	w, c := jsonContext(t, "PATCH", "/payments/1", `{"status":"refunded"}`)
	c.Params = gin.Params{{Key: "id", Value: "64b0c0c0c0c0c0c0c0c0c0c0"}}

	UpdatePaymentStatus(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestCreatePaymentInvalidMedicineID(t *testing.T) {
	w, c := jsonContext(t, "POST", "/payments",
		`{"items":[{"medicineId":"bad","seller":"s@x.com","quantity":1}],"amount":10}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	CreatePayment(nil)(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad medicineId, got %d", w.Code)
	}
}

func TestCreatePaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	w, c := jsonContext(t, "POST", "/create-payment-intent", `{"amount":-5}`)
	c.Set(middleware.ContextEmailKey, "buyer@x.com")

	CreatePaymentIntent()(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", w.Code)
	}
}

func TestAmountToCentsRounds(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{19.99, 1999},
		{10, 1000},
		{0.1, 10},
		{29.35, 2935},
	}
	for _, tc := range cases {
		if got := amountToCents(tc.amount); got != tc.want {
			t.Fatalf("amountToCents(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Fatalf("expected a@x.com, got %q", got)
	}
}

func TestLowerCamel(t *testing.T) {
	if got := lowerCamel("GrandTotal"); got != "grandTotal" {
		t.Fatalf("expected grandTotal, got %q", got)
	}
	if got := lowerCamel(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
