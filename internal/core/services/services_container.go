package services

import (
	portsrepo "github.com/sbfleet/fleet_account_manager/internal/core/ports/repositories"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
	"github.com/sbfleet/fleet_account_manager/internal/tasks"
)

// NewServiceContainer wires all services with their dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, resetTokenRepo portsrepo.ResetTokenRepository, enqueuer tasks.Enqueuer) *portssvc.ServiceContainer {
	accountService := NewAccountServiceImpl(repos.AccountRepo)
	userService := NewUserServiceImpl(repos.UserRepo)

	return &portssvc.ServiceContainer{
		Account:       accountService,
		Dashboard:     NewDashboardServiceImpl(repos.AccountRepo),
		Export:        NewExportServiceImpl(accountService),
		User:          userService,
		Token:         NewTokenService(cfg),
		PasswordReset: NewPasswordResetService(cfg, userService, resetTokenRepo, enqueuer),
		GoogleOAuth:   NewGoogleOAuthService(cfg),
	}
}
