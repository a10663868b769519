package tron

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	walletLen      = 34
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// Config captures the explorer endpoint and the desk's official wallet.
type Config struct {
	BaseURL        string
	OfficialWallet string
	Timeout        time.Duration
}

// Client adapts the Tronscan explorer API into verification results. Remote
// failures never surface as Go errors; they land in VerificationResult.Err so
// the review flow can offer a retry instead of rejecting the deposit.
type Client struct {
	baseURL string
	wallet  string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		wallet:  cfg.OfficialWallet,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// VerifyTransaction looks up a transaction by hash. The hash shape is checked
// locally first; a malformed hash never reaches the explorer.
func (c *Client) VerifyTransaction(ctx context.Context, txHash string, expectedAmount float64) ports.VerificationResult {
	if !domain.ValidTxHash(txHash) {
		return ports.VerificationResult{Err: "malformed transaction hash"}
	}

	endpoint := fmt.Sprintf("%s/transaction-info?hash=%s", c.baseURL, url.QueryEscape(txHash))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.VerificationResult{Err: "explorer request could not be built"}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("hash", txHash).Msg("explorer request failed")
		return ports.VerificationResult{Err: "explorer unavailable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("hash", txHash).Msg("explorer returned non-200")
		return ports.VerificationResult{Err: fmt.Sprintf("explorer returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ports.VerificationResult{Err: "explorer response could not be read"}
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("hash").String() == "" {
		return ports.VerificationResult{Err: "transaction not found"}
	}

	tx := parseTransaction(doc)
	if tx == nil {
		return ports.VerificationResult{Err: "transaction carries no token transfer"}
	}

	if expectedAmount > 0 && math.Abs(tx.Amount-expectedAmount) > 0.01 {
		c.logger.Info().
			Str("hash", txHash).
			Float64("declared", expectedAmount).
			Float64("on_chain", tx.Amount).
			Msg("declared amount differs from on-chain amount")
	}

	return ports.VerificationResult{Success: true, Tx: tx}
}

// parseTransaction extracts the first TRC20 transfer from an explorer
// transaction document.
func parseTransaction(doc gjson.Result) *ports.TronTransaction {
	transfer := doc.Get("trc20TransferInfo.0")
	if !transfer.Exists() {
		return nil
	}

	decimals := transfer.Get("decimals").Int()
	amount := transfer.Get("amount_str").Float() / math.Pow10(int(decimals))

	return &ports.TronTransaction{
		Hash:      doc.Get("hash").String(),
		From:      transfer.Get("from_address").String(),
		To:        transfer.Get("to_address").String(),
		Amount:    amount,
		Token:     transfer.Get("symbol").String(),
		Timestamp: time.UnixMilli(doc.Get("timestamp").Int()).UTC(),
		Confirmed: doc.Get("confirmed").Bool() && doc.Get("contractRet").String() == "SUCCESS",
	}
}

// PaysOfficialWallet compares the transfer destination to the configured
// wallet by strict equality; Tron addresses are case sensitive.
func (c *Client) PaysOfficialWallet(tx *ports.TronTransaction) bool {
	return tx != nil && tx.To == c.wallet
}

// ValidWalletAddress checks the shape of a Tron address offline: the T
// prefix, fixed length, Base58 alphabet.
func (c *Client) ValidWalletAddress(address string) bool {
	if len(address) != walletLen || address[0] != 'T' {
		return false
	}
	for _, r := range address[1:] {
		if !base58Rune(r) {
			return false
		}
	}
	return true
}

// OfficialWallet returns the configured deposit destination.
func (c *Client) OfficialWallet() string {
	return c.wallet
}

func base58Rune(r rune) bool {
	for _, a := range base58Alphabet {
		if r == a {
			return true
		}
	}
	return false
}
