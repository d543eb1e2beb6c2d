package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/core/services"
	"github.com/SscSPs/ledger_service/internal/dto"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) BeginUnit(ctx context.Context) (portsrepo.LedgerUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portsrepo.LedgerUnit), args.Error(1)
}

func (m *MockLedgerRepository) SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

// --- Mock LedgerUnit ---
type MockLedgerUnit struct {
	mock.Mock
}

var _ portsrepo.LedgerUnit = (*MockLedgerUnit)(nil)

func (m *MockLedgerUnit) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLedgerUnit) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLedgerUnit) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerUnit) SumSignedEntries(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerUnit) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockLedgerUnit) InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// --- Recording collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.TransferCompleted
	err    error
}

func (p *recordingPublisher) PublishTransferCompleted(_ context.Context, event domain.TransferCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  []string
	retries   int
	published []bool
}

func (m *recordingMetrics) ObserveTransfer(outcome string, _ string, _ decimal.Decimal, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObserveConflictRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

func (m *recordingMetrics) ObserveEventPublish(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, ok)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	ledgerRepo  *MockLedgerRepository
	unit        *MockLedgerUnit
	publisher   *recordingPublisher
	metrics     *recordingMetrics
	service     portssvc.LedgerSvcFacade

	from domain.Account
	to   domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.unit = new(MockLedgerUnit)
	suite.publisher = &recordingPublisher{}
	suite.metrics = &recordingMetrics{}
	suite.service = suite.newService(1)

	suite.from = domain.Account{AccountID: uuid.NewString(), CurrencyCode: "USD", Status: domain.AccountActive}
	suite.to = domain.Account{AccountID: uuid.NewString(), CurrencyCode: "USD", Status: domain.AccountActive}
}

func (suite *LedgerServiceTestSuite) newService(retries int) portssvc.LedgerSvcFacade {
	return services.NewLedgerService(suite.accountRepo, suite.ledgerRepo,
		services.WithEventPublisher(suite.publisher),
		services.WithMetrics(suite.metrics),
		services.WithConflictRetries(retries),
		services.WithTransferTimeout(time.Second),
	)
}

func (suite *LedgerServiceTestSuite) command(amount string) domain.TransferCommand {
	return domain.TransferCommand{
		FromAccountID: suite.from.AccountID,
		ToAccountID:   suite.to.AccountID,
		Amount:        decimal.RequireFromString(amount),
		Description:   "rent",
	}
}

func (suite *LedgerServiceTestSuite) bothAccounts() map[string]domain.Account {
	return map[string]domain.Account{suite.from.AccountID: suite.from, suite.to.AccountID: suite.to}
}

func (suite *LedgerServiceTestSuite) expectKind(err error, kind apperrors.TransferErrorKind) {
	suite.Require().Error(err)
	got, ok := apperrors.TransferKindOf(err)
	suite.Require().True(ok, "expected a TransferError, got %v", err)
	suite.Equal(kind, got, "error: %v", err)
}

func (suite *LedgerServiceTestSuite) expectSuccessfulUnit(unit *MockLedgerUnit, balance string) {
	unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.RequireFromString(balance), nil).Once()
	unit.On("InsertTransaction", mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	unit.On("InsertLedgerEntry", mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Twice()
	unit.On("Commit", mock.Anything).Return(nil).Once()
	unit.On("Rollback", mock.Anything).Return(nil).Once()
}

// --- Transfer: validation before the store ---

func (suite *LedgerServiceTestSuite) TestTransfer_NonPositiveAmount() {
	for _, amount := range []string{"0", "-5", "0.0000"} {
		result, err := suite.service.Transfer(context.Background(), suite.command(amount))

		suite.Nil(result)
		suite.expectKind(err, apperrors.KindInvalidAmount)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "BeginUnit", mock.Anything)
	suite.Equal([]string{"invalid_amount", "invalid_amount", "invalid_amount"}, suite.metrics.outcomes)
}

func (suite *LedgerServiceTestSuite) TestTransfer_SelfTransfer() {
	cmd := suite.command("10")
	cmd.ToAccountID = cmd.FromAccountID

	result, err := suite.service.Transfer(context.Background(), cmd)

	suite.Nil(result)
	suite.expectKind(err, apperrors.KindSelfTransfer)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "BeginUnit", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_AmountFinerThanScale() {
	for _, amount := range []string{"0.00001", "4.99995"} {
		result, err := suite.service.Transfer(context.Background(), suite.command(amount))

		suite.Nil(result)
		suite.expectKind(err, apperrors.KindInvalidAmount)
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "BeginUnit", mock.Anything)
	suite.Equal([]string{"invalid_amount", "invalid_amount"}, suite.metrics.outcomes)
}

func (suite *LedgerServiceTestSuite) TestTransfer_TrailingZerosWithinScale() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.expectSuccessfulUnit(suite.unit, "100")

	result, err := suite.service.Transfer(context.Background(), suite.command("1.50000"))

	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("1.5").Equal(result.Amount))
}

func (suite *LedgerServiceTestSuite) TestTransfer_SelfTransferAcrossIDSpellings() {
	for _, to := range []string{
		strings.ToUpper(suite.from.AccountID),
		"urn:uuid:" + suite.from.AccountID,
		"{" + suite.from.AccountID + "}",
	} {
		cmd := suite.command("10")
		cmd.ToAccountID = to

		result, err := suite.service.Transfer(context.Background(), cmd)

		suite.Nil(result)
		suite.expectKind(err, apperrors.KindSelfTransfer)
	}
	suite.ledgerRepo.AssertNotCalled(suite.T(), "BeginUnit", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_LocksCanonicalIDs() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, []string{suite.from.AccountID, suite.to.AccountID}).
		Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.NewFromInt(100), nil).Once()
	suite.unit.On("InsertTransaction", mock.Anything, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.unit.On("InsertLedgerEntry", mock.Anything, mock.AnythingOfType("domain.LedgerEntry")).Return(nil).Twice()
	suite.unit.On("Commit", mock.Anything).Return(nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	cmd := suite.command("10")
	cmd.FromAccountID = strings.ToUpper(cmd.FromAccountID)

	result, err := suite.service.Transfer(context.Background(), cmd)

	suite.Require().NoError(err)
	suite.Equal(suite.from.AccountID, result.FromAccountID)
	suite.unit.AssertExpectations(suite.T())
}

// --- Transfer: validation inside the unit ---

func (suite *LedgerServiceTestSuite) TestTransfer_AccountNotFound() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, []string{suite.from.AccountID, suite.to.AccountID}).
		Return(map[string]domain.Account{suite.from.AccountID: suite.from}, nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	result, err := suite.service.Transfer(context.Background(), suite.command("10"))

	suite.Nil(result)
	suite.expectKind(err, apperrors.KindAccountNotFound)
	suite.Contains(err.Error(), suite.to.AccountID)
	suite.unit.AssertExpectations(suite.T())
	suite.unit.AssertNotCalled(suite.T(), "InsertTransaction", mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.events)
}

func (suite *LedgerServiceTestSuite) TestTransfer_AccountInactive() {
	suite.from.Status = domain.AccountInactive
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := suite.service.Transfer(context.Background(), suite.command("10"))

	suite.expectKind(err, apperrors.KindAccountInactive)
	suite.unit.AssertNotCalled(suite.T(), "SumSignedEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_CurrencyMismatch() {
	suite.to.CurrencyCode = "EUR"
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := suite.service.Transfer(context.Background(), suite.command("10"))

	suite.expectKind(err, apperrors.KindInvalidAmount)
	suite.Contains(err.Error(), "currency mismatch")
}

func (suite *LedgerServiceTestSuite) TestTransfer_RequestedCurrencyMismatch() {
	cmd := suite.command("10")
	cmd.CurrencyCode = "GBP"
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := suite.service.Transfer(context.Background(), cmd)

	suite.expectKind(err, apperrors.KindInvalidAmount)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.NewFromInt(10), nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	result, err := suite.service.Transfer(context.Background(), suite.command("50"))

	suite.Nil(result)
	suite.expectKind(err, apperrors.KindInsufficientFunds)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.False(errors.Is(err, apperrors.ErrStorageFailure))
	suite.unit.AssertNotCalled(suite.T(), "InsertTransaction", mock.Anything, mock.Anything)
	suite.unit.AssertNotCalled(suite.T(), "Commit", mock.Anything)
	suite.unit.AssertExpectations(suite.T())
	suite.Equal([]string{"insufficient_funds"}, suite.metrics.outcomes)
}

// --- Transfer: success ---

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.expectSuccessfulUnit(suite.unit, "100")

	result, err := suite.service.Transfer(context.Background(), suite.command("40"))

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.NotEmpty(result.TransactionID)
	suite.Equal("USD", result.CurrencyCode)
	suite.True(decimal.NewFromInt(40).Equal(result.Amount))
	suite.unit.AssertExpectations(suite.T())

	var txn domain.Transaction
	var entries []domain.LedgerEntry
	for _, call := range suite.unit.Calls {
		switch call.Method {
		case "InsertTransaction":
			txn = call.Arguments.Get(1).(domain.Transaction)
		case "InsertLedgerEntry":
			entries = append(entries, call.Arguments.Get(1).(domain.LedgerEntry))
		}
	}
	suite.Equal(result.TransactionID, txn.TransactionID)
	suite.Equal(domain.KindTransfer, txn.Kind)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal("rent", txn.Description)
	suite.Require().Len(entries, 2)
	suite.Equal(domain.Debit, entries[0].EntryType)
	suite.Equal(suite.from.AccountID, entries[0].AccountID)
	suite.Equal(domain.Credit, entries[1].EntryType)
	suite.Equal(suite.to.AccountID, entries[1].AccountID)
	suite.Equal(entries[0].CreatedAt, entries[1].CreatedAt)
	suite.True(entries[0].Amount.Equal(entries[1].Amount))

	suite.Require().Len(suite.publisher.events, 1)
	suite.Equal(result.TransactionID, suite.publisher.events[0].TransactionID)
	suite.Equal([]string{"completed"}, suite.metrics.outcomes)
	suite.Equal([]bool{true}, suite.metrics.published)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ExactBalanceSucceeds() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.expectSuccessfulUnit(suite.unit, "40")

	_, err := suite.service.Transfer(context.Background(), suite.command("40"))

	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestTransfer_PublishFailureDoesNotFailTransfer() {
	suite.publisher.err = errors.New("broker unavailable")
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.expectSuccessfulUnit(suite.unit, "100")

	result, err := suite.service.Transfer(context.Background(), suite.command("1"))

	suite.NoError(err)
	suite.NotNil(result)
	suite.Equal([]bool{false}, suite.metrics.published)
}

// --- Transfer: storage faults ---

func (suite *LedgerServiceTestSuite) TestTransfer_BeginFailure() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(nil, assert.AnError).Once()

	_, err := suite.service.Transfer(context.Background(), suite.command("1"))

	suite.expectKind(err, apperrors.KindStorageFailure)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsertFailureRollsBack() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.NewFromInt(100), nil).Once()
	suite.unit.On("InsertTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	suite.unit.On("InsertLedgerEntry", mock.Anything, mock.Anything).Return(nil).Once()
	suite.unit.On("InsertLedgerEntry", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	result, err := suite.service.Transfer(context.Background(), suite.command("1"))

	suite.Nil(result)
	suite.expectKind(err, apperrors.KindStorageFailure)
	suite.False(errors.Is(err, apperrors.ErrInsufficientFunds))
	suite.unit.AssertNotCalled(suite.T(), "Commit", mock.Anything)
	suite.unit.AssertExpectations(suite.T())
	suite.Empty(suite.publisher.events)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConflictIsRetriedOnce() {
	conflict := apperrors.NewAppError(503, "failed to commit transaction", apperrors.ErrConflict)
	second := new(MockLedgerUnit)

	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(second, nil).Once()

	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.NewFromInt(100), nil).Once()
	suite.unit.On("InsertTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	suite.unit.On("InsertLedgerEntry", mock.Anything, mock.Anything).Return(nil).Twice()
	suite.unit.On("Commit", mock.Anything).Return(conflict).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()
	suite.expectSuccessfulUnit(second, "100")

	result, err := suite.service.Transfer(context.Background(), suite.command("5"))

	suite.Require().NoError(err)
	firstTxn := suite.unit.Calls[2].Arguments.Get(1).(domain.Transaction)
	suite.NotEqual(firstTxn.TransactionID, result.TransactionID, "retry uses a fresh transaction id")
	suite.Equal(1, suite.metrics.retries)
	suite.unit.AssertExpectations(suite.T())
	second.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConflictWithoutRetries() {
	service := suite.newService(0)
	conflict := apperrors.NewAppError(503, "failed to commit transaction", apperrors.ErrConflict)

	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.NewFromInt(100), nil).Once()
	suite.unit.On("InsertTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	suite.unit.On("InsertLedgerEntry", mock.Anything, mock.Anything).Return(nil).Twice()
	suite.unit.On("Commit", mock.Anything).Return(conflict).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := service.Transfer(context.Background(), suite.command("5"))

	suite.expectKind(err, apperrors.KindStorageFailure)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(0, suite.metrics.retries)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "BeginUnit", 1)
}

func (suite *LedgerServiceTestSuite) TestTransfer_BusinessFailureIsNeverRetried() {
	suite.ledgerRepo.On("BeginUnit", mock.Anything).Return(suite.unit, nil).Once()
	suite.unit.On("LockAccounts", mock.Anything, mock.Anything).Return(suite.bothAccounts(), nil).Once()
	suite.unit.On("SumSignedEntries", mock.Anything, suite.from.AccountID).Return(decimal.Zero, nil).Once()
	suite.unit.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := suite.service.Transfer(context.Background(), suite.command("5"))

	suite.expectKind(err, apperrors.KindInsufficientFunds)
	suite.ledgerRepo.AssertNumberOfCalls(suite.T(), "BeginUnit", 1)
}

// --- Reads ---

func (suite *LedgerServiceTestSuite) TestGetBalance() {
	ctx := context.Background()
	suite.accountRepo.On("FindAccountByID", ctx, suite.from.AccountID).Return(&suite.from, nil).Once()
	suite.ledgerRepo.On("SumSignedEntries", ctx, suite.from.AccountID).Return(decimal.RequireFromString("12.5"), nil).Once()

	balance, err := suite.service.GetBalance(ctx, suite.from.AccountID)

	suite.Require().NoError(err)
	suite.Equal("12.5", balance.String())
}

func (suite *LedgerServiceTestSuite) TestGetBalance_UnknownAccount() {
	ctx := context.Background()
	id := uuid.NewString()
	suite.accountRepo.On("FindAccountByID", ctx, id).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBalance(ctx, id)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "SumSignedEntries", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetTransaction() {
	ctx := context.Background()
	txnID := uuid.NewString()
	entries := []domain.LedgerEntry{{EntryID: uuid.NewString(), TransactionID: txnID}}
	suite.ledgerRepo.On("FindTransactionByID", ctx, txnID).Return(&domain.Transaction{TransactionID: txnID}, nil).Once()
	suite.ledgerRepo.On("FindEntriesByTransactionID", ctx, txnID).Return(entries, nil).Once()

	txn, err := suite.service.GetTransaction(ctx, txnID)

	suite.Require().NoError(err)
	suite.Equal(entries, txn.Entries)
}

func (suite *LedgerServiceTestSuite) TestListAccountEntries_InvalidToken() {
	bad := "%%%"
	_, err := suite.service.ListAccountEntries(context.Background(), suite.from.AccountID, dto.ListEntriesParams{Limit: 10, NextToken: &bad})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.accountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListAccountEntries() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{{EntryID: uuid.NewString(), AccountID: suite.from.AccountID}}
	suite.accountRepo.On("FindAccountByID", ctx, suite.from.AccountID).Return(&suite.from, nil).Once()
	suite.ledgerRepo.On("ListEntriesByAccountID", ctx, suite.from.AccountID, 10, (*string)(nil)).Return(entries, "next", nil).Once()

	resp, err := suite.service.ListAccountEntries(ctx, suite.from.AccountID, dto.ListEntriesParams{Limit: 10})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
}

// --- Run Test Suite ---

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
