package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for ledger transactions.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to ledger transactions.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ls)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/approve", h.approveTransaction)
		transactions.POST("/:id/settle", h.settleTransaction)
		transactions.POST("/:id/cancel", h.cancelTransaction)
	}
}

// createTransaction godoc
// @Summary Record a ledger transaction
// @Description Records a new income or expense entry in PENDING status
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Project or vendor not found"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("transaction_no", txn.TransactionNo))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a filtered, paginated list of ledger transactions
// @Tags transactions
// @Produce json
// @Param direction query string false "INCOME or EXPENSE"
// @Param category query string false "Transaction category"
// @Param projectID query string false "Project filter"
// @Param vendorID query string false "Vendor filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), actor.CompanyID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not in PENDING status"
// @Security BearerAuth
// @Router /transactions/{id}/approve [post]
func (h *ledgerHandler) approveTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.ApproveTransaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve transaction")
		return
	}

	logger.Info("Transaction approved", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// settleTransaction godoc
// @Summary Settle an approved transaction
// @Description Marks the transaction SETTLED and folds expenses into project spend
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param settlement body dto.SettleTransactionRequest false "Settlement details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Not in APPROVED status"
// @Security BearerAuth
// @Router /transactions/{id}/settle [post]
func (h *ledgerHandler) settleTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SettleTransactionRequest
	_ = c.ShouldBindJSON(&req)

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.SettleTransaction(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to settle transaction")
		return
	}

	logger.Info("Transaction settled", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// cancelTransaction godoc
// @Summary Cancel a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Already settled or cancelled"
// @Security BearerAuth
// @Router /transactions/{id}/cancel [post]
func (h *ledgerHandler) cancelTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.CancelTransaction(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel transaction")
		return
	}

	logger.Info("Transaction cancelled", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
