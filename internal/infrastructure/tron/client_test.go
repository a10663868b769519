package tron

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const testHash = "b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90a1"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:        srv.URL,
		OfficialWallet: "TOfficialWalletAddr0000000000000AB",
	}, zerolog.Nop())
}

func TestClient_VerifyTransaction_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("hash"); got != testHash {
			t.Fatalf("unexpected hash in query: %s", got)
		}
		_, _ = w.Write([]byte(`{
			"hash": "` + testHash + `",
			"confirmed": true,
			"contractRet": "SUCCESS",
			"timestamp": 1735689600000,
			"trc20TransferInfo": [{
				"symbol": "USDT",
				"decimals": 6,
				"amount_str": "1500000000",
				"from_address": "TSenderAddress0000000000000000000Q",
				"to_address": "TOfficialWalletAddr0000000000000AB"
			}]
		}`))
	})

	result := client.VerifyTransaction(context.Background(), testHash, 1500)
	if !result.Success {
		t.Fatalf("expected success, got err %q", result.Err)
	}
	tx := result.Tx
	if tx.Amount != 1500 {
		t.Fatalf("expected amount 1500, got %v", tx.Amount)
	}
	if tx.Token != "USDT" || !tx.Confirmed {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !client.PaysOfficialWallet(tx) {
		t.Fatalf("expected official wallet match for %s", tx.To)
	}
}

func TestClient_VerifyTransaction_UnconfirmedOrFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"hash": "` + testHash + `",
			"confirmed": true,
			"contractRet": "REVERT",
			"trc20TransferInfo": [{"symbol": "USDT", "decimals": 6, "amount_str": "1000000"}]
		}`))
	})

	result := client.VerifyTransaction(context.Background(), testHash, 1)
	if !result.Success {
		t.Fatalf("expected lookup success, got err %q", result.Err)
	}
	if result.Tx.Confirmed {
		t.Fatalf("a reverted contract must not count as confirmed")
	}
}

func TestClient_VerifyTransaction_MalformedHash(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	result := client.VerifyTransaction(context.Background(), "nothex", 1)
	if result.Success || result.Err == "" {
		t.Fatalf("expected local rejection, got %+v", result)
	}
	if called {
		t.Fatalf("malformed hash must never reach the explorer")
	}
}

func TestClient_VerifyTransaction_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	result := client.VerifyTransaction(context.Background(), testHash, 1)
	if result.Success {
		t.Fatalf("expected failure for unknown transaction")
	}
	if !strings.Contains(result.Err, "not found") {
		t.Fatalf("unexpected error: %q", result.Err)
	}
}

func TestClient_VerifyTransaction_ExplorerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	result := client.VerifyTransaction(context.Background(), testHash, 1)
	if result.Success || result.Err == "" {
		t.Fatalf("expected gateway error, got %+v", result)
	}
}

func TestClient_ValidWalletAddress(t *testing.T) {
	client := NewClient(Config{OfficialWallet: "x"}, zerolog.Nop())

	cases := []struct {
		address string
		want    bool
	}{
		{"TOfficialWalletAddr0000000000000AB", false}, // contains 0, not Base58
		{"TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL", true},
		{"NPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeLT", false}, // wrong prefix
		{"TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqe", false},  // too short
		{"TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := client.ValidWalletAddress(tc.address); got != tc.want {
			t.Fatalf("ValidWalletAddress(%q) = %v, want %v", tc.address, got, tc.want)
		}
	}
}
