package services

// ServiceContainer holds instances of all the application services. It is the
// entry point handlers use to reach business logic.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Dashboard     DashboardSvcFacade
	Export        ExportSvcFacade
	User          UserSvcFacade
	Token         TokenSvcFacade
	PasswordReset PasswordResetSvcFacade
	GoogleOAuth   GoogleOAuthSvcFacade
}
