package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"tok-123","user":{"id":"u1","email":"a@b.c","role":"user"}}`))
	})

	sess, err := client.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Token != "tok-123" || sess.User.ID != "u1" {
		t.Errorf("session = %+v", sess)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid email or password"}`))
	})

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "AUTH_ERROR" {
		t.Errorf("error = %v, want AUTH_ERROR", err)
	}
}

func TestRegisterValidationDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"errors":["password too short","password needs a digit"]}`))
	})

	_, err := client.Register(context.Background(), "a@b.c", "x")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Code != "VALIDATION_ERROR" || len(apiErr.Details) != 2 {
		t.Errorf("got code %q with %d details, want VALIDATION_ERROR with 2", apiErr.Code, len(apiErr.Details))
	}
}

func TestNonJSONResponseIsNetworkError(t *testing.T) {
	// A CDN or proxy answering with an HTML error page means the backend
	// never saw the request; that is a connectivity failure, not an API error.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	})

	_, err := client.Me(context.Background(), "tok")
	if !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Login(context.Background(), "a@b.c", "pw")
	if !errors.Is(err, model.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
}

func TestCreatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment/create" {
			t.Errorf("path = %s, want /payment/create", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if got := body["successUrl"]; got != "http://localhost:8080/payment/success" {
			t.Errorf("successUrl = %v", got)
		}
		if got := body["cancelUrl"]; got != "http://localhost:8080/payment/cancel" {
			t.Errorf("cancelUrl = %v", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"paymentLink":"https://pay.example/abc"}`))
	})

	items := []model.CartItem{{ProductID: "jeans-1", Price: 7999, Quantity: 2}}
	link, err := client.CreatePayment(context.Background(), "tok", items, 15998,
		"http://localhost:8080/payment/success", "http://localhost:8080/payment/cancel")
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if link != "https://pay.example/abc" {
		t.Errorf("link = %q", link)
	}
}

func TestCreatePaymentMissingLink(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	})

	_, err := client.CreatePayment(context.Background(), "tok", []model.CartItem{{ProductID: "p", Quantity: 1}}, 100, "", "")
	if !errors.Is(err, model.ErrPaymentInit) {
		t.Fatalf("error = %v, want ErrPaymentInit", err)
	}
}

func TestGetCartDecodesItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/u1" {
			t.Errorf("path = %s, want /cart/u1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"cart":{"items":[{"productId":"jeans-1","name":"Jeans","price":79.99,"quantity":2}]}}`))
	})

	items, err := client.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items length = %d, want 1", len(items))
	}
	// Decimal price decodes into integer cents.
	if items[0].Price != 7999 {
		t.Errorf("price = %d cents, want 7999", items[0].Price)
	}
}

func TestAdminKeyHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Admin-Key"); got != "" {
			t.Errorf("X-Admin-Key sent without configuration: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"users":[]}`))
	})

	if _, err := client.ListUsers(context.Background(), "tok"); err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
}
