package services

import (
	"github.com/SscSPs/ledger_service/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_service/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher ports.EventPublisher, metrics ports.TransferMetrics) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Ledger: NewLedgerService(
			repos.AccountRepo,
			repos.LedgerRepo,
			WithEventPublisher(publisher),
			WithMetrics(metrics),
			WithConflictRetries(cfg.TransferConflictRetries),
			WithTransferTimeout(cfg.TransferTimeout),
		),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
)
