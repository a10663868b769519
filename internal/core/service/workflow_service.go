package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/api/metrics"
	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const (
	depositLines = 3
	tokenUSDT    = "USDT"
	minLabelLen  = 2
)

// WorkflowService is the application lifecycle engine: it runs the
// multi-step capture flows, creates applications with a frozen exchange
// rate, and drives the verification-gated review to a terminal status.
type WorkflowService struct {
	apps     ports.ApplicationRepository
	deposits ports.DepositRepository
	sessions ports.SessionStore
	roles    *RoleService
	rates    *RateService
	gateway  ports.VerificationGateway
	notifier ports.Notifier
	msgr     ports.Messenger
	logger   zerolog.Logger
}

func NewWorkflowService(
	apps ports.ApplicationRepository,
	deposits ports.DepositRepository,
	sessions ports.SessionStore,
	roles *RoleService,
	rates *RateService,
	gateway ports.VerificationGateway,
	notifier ports.Notifier,
	msgr ports.Messenger,
	logger zerolog.Logger,
) *WorkflowService {
	return &WorkflowService{
		apps:     apps,
		deposits: deposits,
		sessions: sessions,
		roles:    roles,
		rates:    rates,
		gateway:  gateway,
		notifier: notifier,
		msgr:     msgr,
		logger:   logger,
	}
}

// ---------------------------------------------------------------------------
// Deposit capture
// ---------------------------------------------------------------------------

// StartDeposit opens the 3-line deposit capture and returns the data the
// transport shows in its prompt.
func (s *WorkflowService) StartDeposit(ctx context.Context, userID int64) (*ports.DepositPrompt, error) {
	if err := s.require(ctx, userID, "submit_deposit", func(p domain.PermissionSet) bool { return p.SubmitApplications }); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, userID, domain.Session{Flow: domain.FlowDepositData}); err != nil {
		return nil, fmt.Errorf("start deposit: %w", err)
	}
	return &ports.DepositPrompt{
		DepositRate:    s.rates.Rates().DepositRate(),
		OfficialWallet: s.gateway.OfficialWallet(),
	}, nil
}

// SubmitDepositData consumes the user's single message containing exactly
// three newline-separated fields: transaction hash, USDT amount, team label.
// On success the effective deposit rate is frozen into the application, a
// ledger row is reserved under the unique hash, the session is cleared and
// reviewer summaries refresh.
func (s *WorkflowService) SubmitDepositData(ctx context.Context, userID int64, text string) (*domain.Application, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("submit deposit: %w", err)
	}
	if sess.Flow != domain.FlowDepositData {
		return nil, domain.ErrNoActiveFlow
	}

	hash, amount, team, err := parseDepositBlock(text)
	if err != nil {
		// Flow stays active: the user resubmits the whole block.
		return nil, err
	}

	rate := s.rates.Rates().DepositRate()
	now := time.Now().UTC()

	// The ledger insert doubles as the uniqueness reservation for the hash.
	rec := &domain.DepositRecord{
		Hash:         hash,
		Date:         now,
		ExchangeRate: rate,
		AmountUsdt:   amount,
		AmountRub:    amount * rate,
		UserID:       userID,
		Status:       domain.DepositPending,
		TeamName:     team,
	}
	if err := s.deposits.Save(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateDeposit) {
			metrics.DuplicateDepositsTotal.Inc()
			s.logger.Info().Int64("user_id", userID).Str("hash", hash).Msg("duplicate deposit hash rejected")
		}
		return nil, fmt.Errorf("submit deposit: %w", err)
	}

	app := &domain.Application{
		ID:            newApplicationID(),
		UserID:        userID,
		Type:          domain.TypeDeposit,
		Status:        domain.StatusPending,
		Title:         fmt.Sprintf("Deposit %s USDT - %s", formatAmount(amount), team),
		Description:   fmt.Sprintf("Deposit application for team %q", team),
		Amount:        amount,
		Currency:      tokenUSDT,
		WalletAddress: s.gateway.OfficialWallet(),
		TxHash:        hash,
		ExchangeRate:  rate,
		AmountRub:     amount * rate,
		TeamName:      team,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("submit deposit: create application: %w", err)
	}

	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to clear session after deposit")
	}

	metrics.ApplicationsCreatedTotal.WithLabelValues(string(domain.TypeDeposit)).Inc()
	s.logger.Info().
		Str("application_id", app.ID).
		Int64("user_id", userID).
		Float64("amount_usdt", amount).
		Float64("rate", rate).
		Msg("deposit application created")

	s.notifier.BroadcastNewDeposit(ctx)
	return app, nil
}

// parseDepositBlock validates the 3-line deposit message and returns its
// fields. Each failure names the offending field so the transport can
// re-prompt precisely.
func parseDepositBlock(text string) (hash string, amount float64, team string, err error) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) < depositLines {
		return "", 0, "", &domain.ValidationError{
			Field:  "lines",
			Reason: fmt.Sprintf("received %d non-empty lines, %d required", len(lines), depositLines),
		}
	}
	if len(lines) > depositLines {
		return "", 0, "", &domain.ValidationError{
			Field:  "lines",
			Reason: fmt.Sprintf("received %d non-empty lines, %d required; make sure the hash is on a single line", len(lines), depositLines),
		}
	}

	hash = lines[0]
	if !domain.ValidTxHash(hash) {
		return "", 0, "", &domain.ValidationError{
			Field:  "hash",
			Reason: fmt.Sprintf("got %d characters, need exactly 64 hexadecimal characters", len(hash)),
		}
	}

	amount, perr := strconv.ParseFloat(lines[1], 64)
	if perr != nil || amount <= 0 {
		return "", 0, "", &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("%q is not a positive number", lines[1]),
		}
	}

	team = lines[2]
	if len([]rune(team)) < minLabelLen {
		return "", 0, "", &domain.ValidationError{
			Field:  "team",
			Reason: fmt.Sprintf("team label must be at least %d characters", minLabelLen),
		}
	}

	return hash, amount, team, nil
}

// ---------------------------------------------------------------------------
// Withdraw capture
// ---------------------------------------------------------------------------

// StartWithdraw opens the two-step withdrawal capture: amount, then wallet.
func (s *WorkflowService) StartWithdraw(ctx context.Context, userID int64) (*ports.WithdrawPrompt, error) {
	if err := s.require(ctx, userID, "submit_withdraw", func(p domain.PermissionSet) bool { return p.SubmitApplications }); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, userID, domain.Session{Flow: domain.FlowWithdrawAmount}); err != nil {
		return nil, fmt.Errorf("start withdraw: %w", err)
	}
	return &ports.WithdrawPrompt{WithdrawalRate: s.rates.Rates().WithdrawalRate()}, nil
}

// SubmitWithdrawAmount captures the USDT amount and advances the flow to the
// wallet step. Returns the parsed amount for the confirmation prompt.
func (s *WorkflowService) SubmitWithdrawAmount(ctx context.Context, userID int64, text string) (float64, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("submit withdraw amount: %w", err)
	}
	if sess.Flow != domain.FlowWithdrawAmount {
		return 0, domain.ErrNoActiveFlow
	}

	amount, perr := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if perr != nil || amount <= 0 {
		return 0, &domain.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a positive number", strings.TrimSpace(text))}
	}

	sess.Flow = domain.FlowWithdrawWallet
	sess.WithdrawAmount = amount
	if err := s.sessions.Set(ctx, userID, sess); err != nil {
		return 0, fmt.Errorf("submit withdraw amount: %w", err)
	}
	return amount, nil
}

// SubmitWithdrawWallet captures the destination address and creates the
// withdrawal application with the withdrawal rate frozen in.
func (s *WorkflowService) SubmitWithdrawWallet(ctx context.Context, userID int64, text string) (*domain.Application, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("submit withdraw wallet: %w", err)
	}
	if sess.Flow != domain.FlowWithdrawWallet {
		return nil, domain.ErrNoActiveFlow
	}

	wallet := strings.TrimSpace(text)
	if !s.gateway.ValidWalletAddress(wallet) {
		return nil, &domain.ValidationError{Field: "wallet", Reason: "address must start with T and contain 34 Base58 characters"}
	}

	rate := s.rates.Rates().WithdrawalRate()
	amount := sess.WithdrawAmount
	now := time.Now().UTC()

	app := &domain.Application{
		ID:            newApplicationID(),
		UserID:        userID,
		Type:          domain.TypeWithdraw,
		Status:        domain.StatusPending,
		Title:         fmt.Sprintf("Withdraw %s USDT", formatAmount(amount)),
		Description:   fmt.Sprintf("Withdrawal to wallet %s", wallet),
		Amount:        amount,
		Currency:      tokenUSDT,
		WalletAddress: wallet,
		ExchangeRate:  rate,
		AmountRub:     amount * rate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("submit withdraw wallet: %w", err)
	}

	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to clear session after withdraw")
	}
	metrics.ApplicationsCreatedTotal.WithLabelValues(string(domain.TypeWithdraw)).Inc()
	s.logger.Info().Str("application_id", app.ID).Int64("user_id", userID).Msg("withdrawal application created")
	return app, nil
}

// ---------------------------------------------------------------------------
// Generic applications
// ---------------------------------------------------------------------------

// StartApplication opens the free-text capture for a non-financial
// application type.
func (s *WorkflowService) StartApplication(ctx context.Context, userID int64, t domain.ApplicationType) error {
	if err := s.require(ctx, userID, "submit_application", func(p domain.PermissionSet) bool { return p.SubmitApplications }); err != nil {
		return err
	}
	return s.sessions.Set(ctx, userID, domain.Session{Flow: domain.FlowApplicationDetails, ApplicationType: t})
}

// SubmitApplicationDetails finishes a generic application with the user's
// free-text description.
func (s *WorkflowService) SubmitApplicationDetails(ctx context.Context, userID int64, text string) (*domain.Application, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("submit application details: %w", err)
	}
	if sess.Flow != domain.FlowApplicationDetails {
		return nil, domain.ErrNoActiveFlow
	}

	desc := strings.TrimSpace(text)
	if desc == "" {
		return nil, &domain.ValidationError{Field: "description", Reason: "description cannot be empty"}
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:          newApplicationID(),
		UserID:      userID,
		Type:        sess.ApplicationType,
		Status:      domain.StatusPending,
		Title:       fmt.Sprintf("%s - %s", sess.ApplicationType.TypeLabel(), now.Format("2006-01-02")),
		Description: desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("submit application details: %w", err)
	}

	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to clear session after application")
	}
	metrics.ApplicationsCreatedTotal.WithLabelValues(string(app.Type)).Inc()
	return app, nil
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func (s *WorkflowService) ListUserApplications(ctx context.Context, userID int64) ([]*domain.Application, error) {
	return s.apps.ListByUser(ctx, userID)
}

// ListPendingApplications is the staff browsing view, newest first.
func (s *WorkflowService) ListPendingApplications(ctx context.Context, reviewerID int64) ([]*domain.Application, error) {
	if err := s.require(ctx, reviewerID, "view_applications", func(p domain.PermissionSet) bool { return p.ViewApplications }); err != nil {
		return nil, err
	}
	return s.apps.ListPending(ctx)
}

// ---------------------------------------------------------------------------
// Review
// ---------------------------------------------------------------------------

// ProcessDeposit runs the external verification gates for a pending deposit.
// When every gate passes the application moves PENDING → IN_PROGRESS via an
// atomic compare-and-swap, so of two reviewers racing on the same entry
// exactly one proceeds to approve/reject. Any failed gate leaves the
// application PENDING and retryable.
func (s *WorkflowService) ProcessDeposit(ctx context.Context, reviewerID int64, appID string) (*ports.ProcessReport, error) {
	if err := s.require(ctx, reviewerID, "process_deposit", func(p domain.PermissionSet) bool { return p.ViewAllData }); err != nil {
		return nil, err
	}

	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("process deposit: %w", err)
	}
	if app.Type != domain.TypeDeposit {
		return nil, fmt.Errorf("process deposit: %w", domain.ErrApplicationNotFound)
	}
	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("process deposit: status %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	result := s.gateway.VerifyTransaction(ctx, app.TxHash, app.Amount)
	if !result.Success {
		// Verification could not complete; the deposit is not invalid and
		// the reviewer may retry.
		metrics.VerificationFailuresTotal.WithLabelValues("gateway").Inc()
		s.logger.Warn().Str("application_id", appID).Str("reason", result.Err).Msg("deposit verification unavailable")
		return &ports.ProcessReport{Application: app, GatewayErr: result.Err}, nil
	}

	checks := ports.ProcessChecks{
		WalletOK:    s.gateway.PaysOfficialWallet(result.Tx),
		TokenOK:     result.Tx.Token == tokenUSDT,
		ConfirmedOK: result.Tx.Confirmed,
	}
	if !checks.WalletOK {
		metrics.VerificationFailuresTotal.WithLabelValues("wallet_mismatch").Inc()
	}
	if !checks.TokenOK {
		metrics.VerificationFailuresTotal.WithLabelValues("wrong_token").Inc()
	}
	if !checks.ConfirmedOK {
		metrics.VerificationFailuresTotal.WithLabelValues("unconfirmed").Inc()
	}

	report := &ports.ProcessReport{Application: app, Tx: result.Tx, Checks: checks}
	if !checks.WalletOK || !checks.TokenOK || !checks.ConfirmedOK {
		return report, nil
	}

	if err := s.apps.UpdateStatus(ctx, appID, domain.StatusPending, domain.StatusInProgress, reviewerID, ""); err != nil {
		// Another reviewer won the race or the application vanished.
		return nil, fmt.Errorf("process deposit: %w", err)
	}
	app.Status = domain.StatusInProgress
	report.Ready = true
	s.logger.Info().Str("application_id", appID).Int64("reviewer_id", reviewerID).Msg("deposit moved to in_progress")
	return report, nil
}

// ApproveDeposit resolves an IN_PROGRESS deposit to COMPLETED, flips the
// ledger row to approved under the reviewer's id, and notifies the owner
// with the amounts frozen at submission.
func (s *WorkflowService) ApproveDeposit(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error) {
	return s.resolveDeposit(ctx, reviewerID, appID, domain.StatusCompleted, domain.DepositApproved)
}

// RejectDeposit resolves an IN_PROGRESS deposit to REJECTED and flips the
// ledger row to rejected.
func (s *WorkflowService) RejectDeposit(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error) {
	return s.resolveDeposit(ctx, reviewerID, appID, domain.StatusRejected, domain.DepositRejected)
}

func (s *WorkflowService) resolveDeposit(ctx context.Context, reviewerID int64, appID string, to domain.ApplicationStatus, ledger domain.DepositStatus) (*domain.Application, error) {
	if err := s.require(ctx, reviewerID, "resolve_deposit", func(p domain.PermissionSet) bool { return p.ViewAllData }); err != nil {
		return nil, err
	}

	if err := s.apps.UpdateStatus(ctx, appID, domain.StatusInProgress, to, reviewerID, ""); err != nil {
		return nil, fmt.Errorf("resolve deposit: %w", err)
	}

	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("resolve deposit: %w", err)
	}

	if app.TxHash != "" {
		if err := s.deposits.SetStatus(ctx, app.TxHash, ledger, reviewerID); err != nil {
			// The application transition already happened; a ledger lag is
			// reconciled manually rather than rolled back.
			s.logger.Error().Err(err).Str("hash", app.TxHash).Str("status", string(ledger)).Msg("ledger status update failed")
		}
	}

	metrics.ApplicationsResolvedTotal.WithLabelValues(string(app.Type), string(to)).Inc()
	s.notifyDepositOutcome(ctx, app, to)
	s.notifier.BroadcastNewDeposit(ctx)

	s.logger.Info().
		Str("application_id", appID).
		Int64("reviewer_id", reviewerID).
		Str("status", string(to)).
		Msg("deposit resolved")
	return app, nil
}

func (s *WorkflowService) notifyDepositOutcome(ctx context.Context, app *domain.Application, to domain.ApplicationStatus) {
	var text string
	if to == domain.StatusCompleted {
		text = fmt.Sprintf(
			"✅ Deposit credited for this hash\n\nAmount: %s USDT\nRate: %.2f RUB/USDT\nCredited: %.2f RUB\nTeam: %s",
			formatAmount(app.Amount), app.ExchangeRate, app.AmountRub, app.TeamName,
		)
	} else {
		text = fmt.Sprintf(
			"❌ Deposit application rejected\n\nAmount: %s USDT\nHash: %s\n\nContact support if you believe this is a mistake.",
			formatAmount(app.Amount), app.TxHash,
		)
	}
	if _, err := s.msgr.Send(ctx, app.UserID, text); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", app.UserID).Msg("failed to notify user about deposit outcome")
	}
}

// ResolveApplication handles non-deposit applications: staff approve or
// reject directly from PENDING, optionally attaching a response relayed to
// the owner.
func (s *WorkflowService) ResolveApplication(ctx context.Context, reviewerID int64, appID string, approve bool, response string) (*domain.Application, error) {
	if err := s.require(ctx, reviewerID, "resolve_application", func(p domain.PermissionSet) bool { return p.ViewApplications }); err != nil {
		return nil, err
	}

	to := domain.StatusRejected
	if approve {
		to = domain.StatusApproved
	}
	if err := s.apps.UpdateStatus(ctx, appID, domain.StatusPending, to, reviewerID, response); err != nil {
		return nil, fmt.Errorf("resolve application: %w", err)
	}

	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("resolve application: %w", err)
	}

	metrics.ApplicationsResolvedTotal.WithLabelValues(string(app.Type), string(to)).Inc()

	text := fmt.Sprintf("%s Your application #%s is now: %s", to.StatusIcon(), app.ShortID(), to.StatusLabel())
	if response != "" {
		text += "\n\nStaff response:\n" + response
	}
	if _, err := s.msgr.Send(ctx, app.UserID, text); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", app.UserID).Msg("failed to notify user about resolution")
	}
	return app, nil
}

// DeleteApplication is the administrative removal operation.
func (s *WorkflowService) DeleteApplication(ctx context.Context, actorID int64, appID string) error {
	if err := s.require(ctx, actorID, "delete_application", func(p domain.PermissionSet) bool { return p.ViewAllData }); err != nil {
		return err
	}
	if err := s.apps.Delete(ctx, appID); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Staff replies
// ---------------------------------------------------------------------------

// StartReply opens the free-text reply capture for a reviewer.
func (s *WorkflowService) StartReply(ctx context.Context, reviewerID int64, appID string) (*domain.Application, error) {
	if err := s.require(ctx, reviewerID, "reply_application", func(p domain.PermissionSet) bool { return p.ReplyApplications }); err != nil {
		return nil, err
	}
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("start reply: %w", err)
	}
	sess := domain.Session{Flow: domain.FlowAdminReply, ReplyToAppID: app.ID, ReplyToUserID: app.UserID}
	if err := s.sessions.Set(ctx, reviewerID, sess); err != nil {
		return nil, fmt.Errorf("start reply: %w", err)
	}
	return app, nil
}

// SubmitReply stores the reviewer's response on the application and relays
// it to the owner.
func (s *WorkflowService) SubmitReply(ctx context.Context, reviewerID int64, text string) (*domain.Application, error) {
	sess, err := s.sessions.Get(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("submit reply: %w", err)
	}
	if sess.Flow != domain.FlowAdminReply || sess.ReplyToAppID == "" {
		return nil, domain.ErrNoActiveFlow
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		return nil, &domain.ValidationError{Field: "reply", Reason: "reply cannot be empty"}
	}

	if err := s.apps.SetResponse(ctx, sess.ReplyToAppID, reviewerID, reply); err != nil {
		return nil, fmt.Errorf("submit reply: %w", err)
	}
	app, err := s.apps.Get(ctx, sess.ReplyToAppID)
	if err != nil {
		return nil, fmt.Errorf("submit reply: %w", err)
	}

	if err := s.sessions.Clear(ctx, reviewerID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", reviewerID).Msg("failed to clear session after reply")
	}

	text = fmt.Sprintf("💬 Staff response to application #%s:\n\n%s", app.ShortID(), reply)
	if _, err := s.msgr.Send(ctx, app.UserID, text); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", app.UserID).Msg("failed to relay staff reply")
	}
	return app, nil
}

// ---------------------------------------------------------------------------
// Role management
// ---------------------------------------------------------------------------

// AssignRole moves the target into the given role. Reviewers can never act
// on their own identity; that guard lives here, not in the registry.
// Returns the target's previous role.
func (s *WorkflowService) AssignRole(ctx context.Context, actorID, targetID int64, role domain.Role) (domain.Role, error) {
	if err := s.require(ctx, actorID, "assign_role", func(p domain.PermissionSet) bool { return p.ManageRoles }); err != nil {
		return "", err
	}
	if actorID == targetID {
		s.logger.Warn().Int64("user_id", actorID).Msg("self role change rejected")
		return "", fmt.Errorf("assign role: %w", domain.ErrSelfAction)
	}

	prev := s.roles.Role(ctx, targetID)
	if err := s.roles.SetRole(ctx, targetID, role); err != nil {
		return "", err
	}
	if err := s.sessions.Clear(ctx, actorID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", actorID).Msg("failed to clear session after role change")
	}
	return prev, nil
}

// RevokeRole demotes the target back to USER, with the same self-action guard.
func (s *WorkflowService) RevokeRole(ctx context.Context, actorID, targetID int64) error {
	if err := s.require(ctx, actorID, "revoke_role", func(p domain.PermissionSet) bool { return p.ManageUsers }); err != nil {
		return err
	}
	if actorID == targetID {
		s.logger.Warn().Int64("user_id", actorID).Msg("self rights revocation rejected")
		return fmt.Errorf("revoke role: %w", domain.ErrSelfAction)
	}
	if err := s.roles.RemoveRole(ctx, targetID); err != nil {
		return err
	}
	if err := s.sessions.Clear(ctx, actorID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", actorID).Msg("failed to clear session after revoke")
	}
	return nil
}

// AbortFlow discards any active capture state for the user.
func (s *WorkflowService) AbortFlow(ctx context.Context, userID int64) error {
	return s.sessions.Clear(ctx, userID)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *WorkflowService) require(ctx context.Context, userID int64, action string, check func(domain.PermissionSet) bool) error {
	if err := s.roles.Require(ctx, userID, check, action); err != nil {
		metrics.PermissionDeniedTotal.WithLabelValues(action).Inc()
		return err
	}
	return nil
}

// newApplicationID returns an id of the form app_<millis>_<8 hex chars>; the
// middle fragment is the human-decodable piece shown in chat.
func newApplicationID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("app_%d_%08x", time.Now().UnixMilli(), time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("app_%d_%02x%02x%02x%02x", time.Now().UnixMilli(), b[0], b[1], b[2], b[3])
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
