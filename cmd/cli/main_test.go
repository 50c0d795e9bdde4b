package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.SetArgs(args)

	var err error
	out := captureOutput(t, func() {
		err = cmd.Execute()
	})
	return out, err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("洗车洗车洗车", 5); got != "洗车..." {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestEntriesCreateSendsRequest(t *testing.T) {
	var got dto.CreateEntryRequest
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/entries/", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"e1"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--token", "tok",
		"entries", "create", "--material", "m1", "--action", "outgoing", "--quantity", "3", "--price-type", "original_price")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", authHeader)
	assert.Equal(t, "m1", got.MaterialID)
	assert.Equal(t, "outgoing", got.Action)
	assert.Equal(t, int64(3), got.Quantity)
	assert.Equal(t, "original_price", got.PriceType)
	assert.Contains(t, out, `"id": "e1"`)
}

func TestEntriesListPrintsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m1", r.URL.Query().Get("material_id"))
		assert.Equal(t, "true", r.URL.Query().Get("include_deleted"))
		_, _ = w.Write([]byte(`{"items":[{"id":"e1","material_label":"m1-Wax","action":"incoming","quantity":2,"money":"20","earnings_label":"10","remarks_preview":"note"}],"limit":20,"offset":0}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "entries", "list", "--material", "m1", "--include-deleted")
	require.NoError(t, err)

	assert.Contains(t, out, "MATERIAL")
	assert.Contains(t, out, "m1-Wax")
	assert.Contains(t, out, "incoming")
}

func TestCallSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"failed to create entry","kind":"stock_violation","message":"insufficient stock"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "entries", "create", "--material", "m1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "409"), err.Error())
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--user", "cashier-7", "--role", "cashier")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "cashier-7", claims.UserID)
	assert.Equal(t, domain.RoleCashier, claims.Role)
}

func TestTokenCmdRequiresSecret(t *testing.T) {
	_, err := execute(t, "token", "--secret", "", "--user", "cashier-7")
	require.Error(t, err)
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, sub := range []string{"up", "down"} {
		_, err := execute(t, "migrate", sub)
		require.Error(t, err, sub)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	}
}

func TestCustomersListPrintsMembership(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/customers/", r.URL.Path)
		assert.Equal(t, "member", r.URL.Query().Get("level"))
		_, _ = w.Write([]byte(`{"items":[{"id":"c1","name":"Li","level":"member","visits":10,"member_visits":10,"membership_status":"exhausted"}],"limit":20,"offset":0}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "customers", "list", "--level", "member")
	require.NoError(t, err)

	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "10/10")
	assert.Contains(t, out, "exhausted")
}

func TestChargesCreateSendsMoney(t *testing.T) {
	var got dto.CreateChargeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/extra-charges/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"x1"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "charges", "create", "--type", "et1", "--money", "25.50", "--count", "2")
	require.NoError(t, err)

	assert.Equal(t, "et1", got.EventTypeID)
	assert.Equal(t, int64(2), got.Count)
	assert.Equal(t, "25.5", got.Money.String())
}

func TestChargesCreateRejectsBadMoney(t *testing.T) {
	_, err := execute(t, "charges", "create", "--type", "et1", "--money", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "money")
}
