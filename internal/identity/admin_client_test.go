package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cacguide/paygate/internal/models"
	"github.com/cacguide/paygate/pkg/logger"
)

func newTestAdminClient(baseURL string) *AdminClient {
	return NewAdminClient(baseURL, "service-key", 5*time.Second, logger.NewNop())
}

func TestFindByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer service-key" {
			t.Errorf("missing service key, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []map[string]interface{}{
				{"id": "u-1", "email": "Known@Example.com", "email_confirmed": true},
			},
		})
	}))
	defer srv.Close()

	client := newTestAdminClient(srv.URL)

	found, err := client.FindByEmail(context.Background(), "known@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.ID != "u-1" {
		t.Fatalf("expected identity u-1, got %+v", found)
	}
	if found.Email != "known@example.com" {
		t.Errorf("expected lower-cased email, got %q", found.Email)
	}

	missing, err := client.FindByEmail(context.Background(), "other@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestFindByEmailNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	found, err := newTestAdminClient(srv.URL).FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil, got %+v", found)
	}
}

func TestCreatePreConfirmsEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email        string `json:"email"`
			EmailConfirm bool   `json:"email_confirm"`
			UserMetadata struct {
				FullName string `json:"full_name"`
				Phone    string `json:"phone"`
			} `json:"user_metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if !body.EmailConfirm {
			t.Error("provisioned identities must be created with the email pre-confirmed")
		}
		if body.UserMetadata.FullName != "Ada Obi" {
			t.Errorf("expected metadata seeded, got %q", body.UserMetadata.FullName)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "u-new", "email": body.Email, "email_confirmed": true,
		})
	}))
	defer srv.Close()

	created, err := newTestAdminClient(srv.URL).Create(context.Background(), &models.Identity{
		Email:    "New@Example.com",
		FullName: "Ada Obi",
		Phone:    "+2348012345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "u-new" {
		t.Errorf("expected id u-new, got %q", created.ID)
	}
	if created.Email != "new@example.com" {
		t.Errorf("expected lower-cased email, got %q", created.Email)
	}
}

func TestCreateRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"email": "x@example.com"})
	}))
	defer srv.Close()

	_, err := newTestAdminClient(srv.URL).Create(context.Background(), &models.Identity{Email: "x@example.com"})
	if err == nil {
		t.Fatal("expected error for response without id")
	}
}
