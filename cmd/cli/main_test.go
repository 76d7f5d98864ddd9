package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
	assert.Equal(t, "lo", truncate("longerstring", 2))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestBoxIDParse(t *testing.T) {
	out, err := execute(t, "boxid", "parse", "general-2024-03-01-C-12")
	require.NoError(t, err)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "general", parsed["service_type"])
	assert.Equal(t, "2024-03-01", parsed["work_date"])
	assert.Equal(t, "C-12", parsed["collector_id"])

	_, err = execute(t, "boxid", "parse", "not-a-box")
	assert.Error(t, err)
}

func TestTokenCmd(t *testing.T) {
	out, err := execute(t, "token", "S1", "--secret", "secret", "--role", "supervisor", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("secret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "S1", Role: domain.RoleSupervisor}, claims.Actor())

	_, err = execute(t, "token", "S1", "--secret", "secret", "--role", "owner")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = execute(t, "token", "S1", "--secret", "")
	assert.Error(t, err)
}

func TestRequestsPending(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/v1/cashbox-requests/pending", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.ListRequestsResponse{
			Requests: []*dto.RequestResponse{{ID: "01HREQ", CollectorID: "C1", WorkDate: "2024-03-01"}},
			Total:    1,
		})
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "requests", "pending")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Contains(t, out, "01HREQ")
	assert.Contains(t, out, "1 pending")
}

func TestRequestsReject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body dto.RejectRequestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "/api/v1/cashbox-requests/01HREQ/reject", r.URL.Path)
		assert.Equal(t, "duplicate", body.Reason)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "request is not pending", Code: "invalid_state"})
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "requests", "reject", "01HREQ", "--reason", "duplicate", "--by", "S1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_state")
}

func TestLedgerConsistency(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     dto.ConsistencyResponse
		wantErr  bool
		wantText string
	}{
		{
			name:     "consistent",
			status:   http.StatusOK,
			body:     dto.ConsistencyResponse{Status: "consistent", Consistent: true, BoxesChecked: 3},
			wantText: "PASSED",
		},
		{
			name:     "inconsistent",
			status:   http.StatusConflict,
			body:     dto.ConsistencyResponse{Status: "inconsistent", OpenWithCounts: 1, BoxesChecked: 3},
			wantErr:  true,
			wantText: "Open boxes with counts: 1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			out, err := execute(t, "--url", srv.URL, "ledger", "consistency")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantText)
		})
	}
}

func TestBoxesHistoryQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(dto.ListCashBoxesResponse{Boxes: []*dto.CashBoxResponse{}, Total: 0})
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "boxes", "history", "--from", "2024-03-01", "--to", "2024-03-07")
	require.NoError(t, err)
	assert.Equal(t, "from=2024-03-01&to=2024-03-07", gotQuery)
	assert.Contains(t, out, "0 boxes")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "migrate", "up", "--database-url", "")
	assert.Error(t, err)
}
