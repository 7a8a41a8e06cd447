package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sbfleet/fleet_account_manager/internal/core/domain"
	portssvc "github.com/sbfleet/fleet_account_manager/internal/core/ports/services"
	"github.com/sbfleet/fleet_account_manager/internal/dto"
)

// AccountHandler handles fleet account CRUD and export requests.
type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
	exportService  portssvc.ExportSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(as portssvc.AccountSvcFacade, es portssvc.ExportSvcFacade) *AccountHandler {
	return &AccountHandler{
		accountService: as,
		exportService:  es,
	}
}

// registerAccountRoutes sets up the routes for fleet accounts under /api/v1.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, es portssvc.ExportSvcFacade) {
	h := NewAccountHandler(as, es)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.POST("", h.CreateAccount)
		accounts.GET("/export", h.ExportAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.PUT("/:id", h.UpdateAccount)
		accounts.PATCH("/:id/status", h.QuickStatus)
	}
}

// ListAccounts godoc
// @Summary List fleet accounts
// @Description Lists accounts ordered by total sales descending, with an optional status filter and free-text search over business account ID, company name, and city.
// @Tags accounts
// @Produce json
// @Param filter query string false "Status filter" Enums(all, active, inactive, needs_review) default(all)
// @Param search query string false "Case-insensitive search term"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), domain.AccountFilter(params.Filter), params.Search)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// CreateAccount godoc
// @Summary Create a fleet account
// @Description Creates a manually entered account. Business account ID and company name are required; type defaults to LOCAL, status to active.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Business account ID already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// GetAccount godoc
// @Summary Get a fleet account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// UpdateAccount godoc
// @Summary Update a fleet account
// @Description Applies the provided fields. Business account ID and source are immutable.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// QuickStatus godoc
// @Summary Toggle account status
// @Description Sets is_active and clears the needs-review flag in a single atomic update.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param status body dto.QuickStatusRequest true "Target status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/status [patch]
func (h *AccountHandler) QuickStatus(c *gin.Context) {
	var req dto.QuickStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	account, err := h.accountService.QuickSetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondWithError(c, err, "Failed to toggle account status")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// ExportAccounts godoc
// @Summary Export accounts as XLSX
// @Description Exports the filtered account list as a spreadsheet download.
// @Tags accounts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param filter query string false "Status filter" Enums(all, active, inactive, needs_review) default(all)
// @Param search query string false "Case-insensitive search term"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/export [get]
func (h *AccountHandler) ExportAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	data, err := h.exportService.ExportAccounts(c.Request.Context(), domain.AccountFilter(params.Filter), params.Search)
	if err != nil {
		respondWithError(c, err, "Failed to export accounts")
		return
	}

	filename := fmt.Sprintf("fleet-accounts-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
