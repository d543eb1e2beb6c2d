package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	"github.com/SscSPs/ledger_service/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/dto"
	"github.com/SscSPs/ledger_service/internal/utils/accounting"
	"github.com/SscSPs/ledger_service/internal/utils/pagination"
)

// outcomeCompleted is the metrics outcome label of a committed transfer. Failed
// transfers are labelled with their TransferErrorKind.
const outcomeCompleted = "completed"

// ledgerService provides balances, transfers and ledger history.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepository
	publisher   ports.EventPublisher
	metrics     ports.TransferMetrics

	conflictRetries int
	transferTimeout time.Duration
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithEventPublisher sets where TransferCompleted events are sent.
func WithEventPublisher(p ports.EventPublisher) LedgerOption {
	return func(s *ledgerService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics sets the transfer metrics sink.
func WithMetrics(m ports.TransferMetrics) LedgerOption {
	return func(s *ledgerService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithConflictRetries sets how many times a unit aborted by a store conflict
// is retried. Values above 1 are clamped to 1.
func WithConflictRetries(n int) LedgerOption {
	return func(s *ledgerService) {
		s.conflictRetries = max(0, min(n, 1))
	}
}

// WithTransferTimeout bounds the time a single transfer may hold its unit open.
// Zero disables the bound.
func WithTransferTimeout(d time.Duration) LedgerOption {
	return func(s *ledgerService) {
		s.transferTimeout = d
	}
}

// NewLedgerService creates a new ledger service with the provided options.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepository, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo:     accountRepo,
		ledgerRepo:      ledgerRepo,
		publisher:       ports.NoopPublisher{},
		metrics:         ports.NoopMetrics{},
		conflictRetries: 1,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	_, balance, err := s.GetAccountWithBalance(ctx, accountID)
	return balance, err
}

func (s *ledgerService) GetAccountWithBalance(ctx context.Context, accountID string) (*domain.Account, decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for balance", slog.String("account_id", accountID))
		}
		return nil, decimal.Zero, err
	}

	balance, err := s.ledgerRepo.SumSignedEntries(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger entries", slog.String("account_id", accountID))
		return nil, decimal.Zero, fmt.Errorf("failed to calculate balance: %w", err)
	}
	return account, balance, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transaction entries", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to load entries for transaction %s: %w", transactionID, err)
	}
	txn.Entries = entries
	return txn, nil
}

func (s *ledgerService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if params.NextToken != nil {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccountID(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account entries", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// Transfer moves cmd.Amount from cmd.FromAccountID to cmd.ToAccountID. The
// solvency check and both entries happen inside one store unit that holds row
// locks on both accounts, so concurrent transfers out of the same account are
// serialized and can never overdraw it.
func (s *ledgerService) Transfer(ctx context.Context, cmd domain.TransferCommand) (*domain.TransferResult, error) {
	start := time.Now()
	logger := s.GetLogger(ctx).With(
		slog.String("from_account", cmd.FromAccountID),
		slog.String("to_account", cmd.ToAccountID),
		slog.String("amount", cmd.Amount.String()),
	)

	result, err := s.transfer(ctx, cmd)
	if err != nil {
		kind, _ := apperrors.TransferKindOf(err)
		s.metrics.ObserveTransfer(kind.String(), cmd.CurrencyCode, cmd.Amount, time.Since(start))
		if kind == apperrors.KindStorageFailure {
			logger.Error("Transfer failed", slog.String("error", err.Error()))
		} else {
			logger.Warn("Transfer rejected", slog.String("reason", kind.String()), slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.metrics.ObserveTransfer(outcomeCompleted, result.CurrencyCode, result.Amount, time.Since(start))
	logger.Info("Transfer completed", slog.String("transaction_id", result.TransactionID))

	event := domain.TransferCompleted{
		TransactionID: result.TransactionID,
		FromAccount:   result.FromAccountID,
		ToAccount:     result.ToAccountID,
		Amount:        result.Amount,
		CurrencyCode:  result.CurrencyCode,
		Description:   cmd.Description,
		OccurredAt:    result.CreatedAt,
	}
	if pubErr := s.publisher.PublishTransferCompleted(ctx, event); pubErr != nil {
		s.metrics.ObserveEventPublish(false)
		logger.Warn("Failed to publish transfer event",
			slog.String("transaction_id", result.TransactionID),
			slog.String("error", pubErr.Error()))
	} else {
		s.metrics.ObserveEventPublish(true)
	}

	return result, nil
}

func (s *ledgerService) transfer(ctx context.Context, cmd domain.TransferCommand) (*domain.TransferResult, error) {
	if !cmd.Amount.IsPositive() {
		return nil, apperrors.NewTransferError(apperrors.KindInvalidAmount,
			fmt.Errorf("amount must be greater than zero, got %s", cmd.Amount.String()))
	}
	if !domain.HasValidScale(cmd.Amount) {
		return nil, apperrors.NewTransferError(apperrors.KindInvalidAmount,
			fmt.Errorf("amount %s has more than %d decimal places", cmd.Amount.String(), domain.AmountScale))
	}
	cmd.FromAccountID = canonicalID(cmd.FromAccountID)
	cmd.ToAccountID = canonicalID(cmd.ToAccountID)
	if cmd.FromAccountID == cmd.ToAccountID {
		return nil, apperrors.NewTransferError(apperrors.KindSelfTransfer, nil)
	}

	if s.transferTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.transferTimeout)
		defer cancel()
	}

	for attempt := 0; ; attempt++ {
		result, err := s.attemptTransfer(ctx, cmd)
		if err == nil {
			return result, nil
		}
		if attempt < s.conflictRetries && errors.Is(err, apperrors.ErrConflict) && ctx.Err() == nil {
			s.metrics.ObserveConflictRetry()
			s.LogWarn(ctx, "Transfer unit aborted by concurrent update, retrying",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}
}

// attemptTransfer runs one unit of work. Every error it returns is a
// *apperrors.TransferError.
func (s *ledgerService) attemptTransfer(ctx context.Context, cmd domain.TransferCommand) (*domain.TransferResult, error) {
	unit, err := s.ledgerRepo.BeginUnit(ctx)
	if err != nil {
		return nil, storageFailure("begin unit", err)
	}
	defer func() {
		// No-op once committed. Runs even if ctx has expired so locks are released.
		if rbErr := unit.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transfer unit")
		}
	}()

	accounts, err := unit.LockAccounts(ctx, []string{cmd.FromAccountID, cmd.ToAccountID})
	if err != nil {
		return nil, storageFailure("lock accounts", err)
	}
	from, err := transferEndpoint(accounts, cmd.FromAccountID, "source")
	if err != nil {
		return nil, err
	}
	to, err := transferEndpoint(accounts, cmd.ToAccountID, "destination")
	if err != nil {
		return nil, err
	}

	if from.CurrencyCode != to.CurrencyCode {
		return nil, apperrors.NewTransferError(apperrors.KindInvalidAmount,
			fmt.Errorf("currency mismatch: source is %s, destination is %s", from.CurrencyCode, to.CurrencyCode))
	}
	if cmd.CurrencyCode != "" && cmd.CurrencyCode != from.CurrencyCode {
		return nil, apperrors.NewTransferError(apperrors.KindInvalidAmount,
			fmt.Errorf("currency mismatch: requested %s, accounts hold %s", cmd.CurrencyCode, from.CurrencyCode))
	}

	balance, err := unit.SumSignedEntries(ctx, from.AccountID)
	if err != nil {
		return nil, storageFailure("sum entries", err)
	}
	if balance.LessThan(cmd.Amount) {
		return nil, apperrors.NewTransferError(apperrors.KindInsufficientFunds,
			fmt.Errorf("balance %s is below amount %s", balance.String(), cmd.Amount.String()))
	}

	now := domain.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindTransfer,
		Status:        domain.StatusCompleted,
		Description:   cmd.Description,
		CreatedAt:     now,
	}
	entries := []domain.LedgerEntry{
		{
			EntryID:       uuid.NewString(),
			AccountID:     from.AccountID,
			TransactionID: txn.TransactionID,
			EntryType:     domain.Debit,
			Amount:        cmd.Amount,
			CreatedAt:     now,
		},
		{
			EntryID:       uuid.NewString(),
			AccountID:     to.AccountID,
			TransactionID: txn.TransactionID,
			EntryType:     domain.Credit,
			Amount:        cmd.Amount,
			CreatedAt:     now,
		},
	}
	if err := accounting.ValidateTransactionEntries(entries); err != nil {
		return nil, storageFailure("validate entries", fmt.Errorf("%w: %v", apperrors.ErrInternal, err))
	}

	if err := unit.InsertTransaction(ctx, txn); err != nil {
		return nil, storageFailure("insert transaction", err)
	}
	for _, entry := range entries {
		if err := unit.InsertLedgerEntry(ctx, entry); err != nil {
			return nil, storageFailure("insert ledger entry", err)
		}
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, storageFailure("commit", err)
	}

	return &domain.TransferResult{
		TransactionID: txn.TransactionID,
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        cmd.Amount,
		CurrencyCode:  from.CurrencyCode,
		CreatedAt:     now,
	}, nil
}

func transferEndpoint(accounts map[string]domain.Account, accountID, role string) (domain.Account, error) {
	account, ok := accounts[accountID]
	if !ok {
		return domain.Account{}, apperrors.NewTransferError(apperrors.KindAccountNotFound,
			fmt.Errorf("%s account %s", role, accountID))
	}
	if !account.IsActive() {
		return domain.Account{}, apperrors.NewTransferError(apperrors.KindAccountInactive,
			fmt.Errorf("%s account %s is %s", role, accountID, account.Status))
	}
	return account, nil
}

func storageFailure(step string, err error) error {
	return apperrors.NewTransferError(apperrors.KindStorageFailure, fmt.Errorf("%s: %w", step, err))
}

// canonicalID returns the lower-case hyphenated form of a UUID, so that
// spellings such as upper case or urn:uuid: compare equal. Other strings are
// returned unchanged and later resolve to AccountNotFound.
func canonicalID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}
