package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_service/internal/apperrors"
	"github.com/SscSPs/ledger_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	account := domain.Account{
		AccountID:    uuid.NewString(),
		OwnerName:    req.OwnerName,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.AccountActive,
		CreatedAt:    domain.Now(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("currency_code", account.CurrencyCode))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// ErrNotFound is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	s.LogDebug(ctx, "Account retrieved successfully", slog.String("account_id", account.AccountID))
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccountStatus activates or deactivates an account. Setting the current
// status again is not an error.
func (s *accountService) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	if status != domain.AccountActive && status != domain.AccountInactive {
		return nil, fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}

	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account status", slog.String("account_id", accountID))
		}
		return nil, err
	}

	account.Status = status
	s.LogInfo(ctx, "Account status updated",
		slog.String("account_id", accountID),
		slog.String("status", string(status)))
	return account, nil
}
