package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
	"github.com/mishinyura/transaction-risk-service/internal/processor"
	"github.com/mishinyura/transaction-risk-service/internal/repository"
	"github.com/mishinyura/transaction-risk-service/pkg/metrics"
)

type APIHandler struct {
	processor      *processor.TransactionProcessor
	metrics        *metrics.MetricsCollector
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	processor *processor.TransactionProcessor,
	metrics *metrics.MetricsCollector,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		processor:      processor,
		metrics:        metrics,
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type CreateTransactionRequest struct {
	SenderAccountID   string                   `json:"sender_account_id"`
	ReceiverAccountID string                   `json:"receiver_account_id"`
	Amount            decimal.Decimal          `json:"amount"`
	Type              domain.TransactionType   `json:"type"`
	Timestamp         *time.Time               `json:"timestamp,omitempty"`
	Status            domain.TransactionStatus `json:"status,omitempty"`
	Geolocation       string                   `json:"geolocation"`
	Device            domain.Device            `json:"device"`
}

type TransactionResponse struct {
	ID        string   `json:"id"`
	FraudFlag bool     `json:"fraud_flag"`
	RiskScore float64  `json:"risk_score"`
	Signals   []string `json:"signals,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type CreateAccountRequest struct {
	AccountID  string  `json:"account_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName string  `json:"middle_name,omitempty"`
	Risk       float64 `json:"risk,omitempty"`
}

type AccountScoreResponse struct {
	AccountID string  `json:"account_id"`
	Score     float64 `json:"score"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	if err := h.validateTransactionRequest(req); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	tx := domain.NewTransaction(req.Type, req.Amount, req.SenderAccountID, req.ReceiverAccountID).
		WithOrigin(req.Geolocation, req.Device)
	if req.Timestamp != nil {
		tx.WithTimestamp(*req.Timestamp)
	}
	if req.Status != "" {
		tx.WithStatus(req.Status)
	}

	assessment, err := h.processor.SubmitTransaction(ctx, tx)
	duration := time.Since(startTime)

	success := err == nil
	h.metrics.RecordTransaction(duration, assessment.RiskScore, assessment.Fraud, success)

	if err != nil {
		h.logger.Error("Transaction processing failed",
			slog.String("error", err.Error()),
			slog.String("transaction_id", tx.ID))
		if errors.Is(err, repository.ErrDuplicate) {
			h.sendError(w, "Transaction already exists", http.StatusConflict, "DUPLICATE")
			return
		}
		h.sendError(w, fmt.Sprintf("Transaction failed: %v", err), http.StatusInternalServerError, "PROCESSING_ERROR")
		return
	}

	response := TransactionResponse{
		ID:        tx.ID,
		FraudFlag: tx.FraudFlag,
		RiskScore: assessment.RiskScore,
		Signals:   assessment.Signals,
		Message:   "Transaction processed successfully",
	}

	h.sendJSON(w, response, http.StatusCreated)
	h.logger.Info("Transaction processed successfully",
		slog.String("transaction_id", tx.ID),
		slog.Bool("fraud_flag", tx.FraudFlag),
		slog.Float64("risk_score", assessment.RiskScore))
}

func (h *APIHandler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	transactionID := r.URL.Query().Get("id")
	if transactionID == "" {
		h.sendError(w, "Transaction ID is required", http.StatusBadRequest, "MISSING_ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	tx, err := h.processor.GetTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, "Transaction not found", http.StatusNotFound, "NOT_FOUND")
		} else {
			h.sendError(w, "Failed to get transaction", http.StatusInternalServerError, "SERVER_ERROR")
		}
		return
	}

	h.sendJSON(w, tx, http.StatusOK)
}

func (h *APIHandler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if req.AccountID == "" || req.FirstName == "" || req.LastName == "" {
		h.sendError(w, "account_id, first_name and last_name are required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	account := &domain.Account{
		AccountID:  req.AccountID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Risk:       req.Risk,
	}

	if err := h.processor.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.sendError(w, "Account already exists", http.StatusConflict, "DUPLICATE")
			return
		}
		h.sendError(w, "Failed to create account", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, account, http.StatusCreated)
}

func (h *APIHandler) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	accounts, err := h.processor.GetAccounts(ctx)
	if err != nil {
		h.sendError(w, "Failed to list accounts", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	h.sendJSON(w, accounts, http.StatusOK)
}

// GetAccountScoreHandler recomputes and returns the reputation score; the
// persisted snapshot is refreshed as a side effect of the read.
func (h *APIHandler) GetAccountScoreHandler(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	score, err := h.processor.AccountScore(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, "Account not found", http.StatusNotFound, "NOT_FOUND")
		} else {
			h.sendError(w, "Failed to compute account score", http.StatusInternalServerError, "SERVER_ERROR")
		}
		return
	}

	h.metrics.RecordAccountScore(score)
	h.sendJSON(w, AccountScoreResponse{AccountID: accountID, Score: score}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) validateTransactionRequest(req CreateTransactionRequest) error {
	if req.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if req.SenderAccountID == "" || req.ReceiverAccountID == "" {
		return fmt.Errorf("sender_account_id and receiver_account_id are required")
	}

	switch req.Type {
	case domain.TypeTransfer, domain.TypeDeposit, domain.TypeWithdrawal:
	default:
		return fmt.Errorf("unknown transaction type: %s", req.Type)
	}

	switch req.Device {
	case domain.DeviceDesktop, domain.DeviceMobile:
	default:
		return fmt.Errorf("unknown device: %s", req.Device)
	}

	if req.Geolocation == "" {
		return fmt.Errorf("geolocation is required")
	}

	return nil
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/transactions", h.CreateTransactionHandler)
	mux.HandleFunc("GET /api/v1/transactions", h.GetTransactionHandler)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccountHandler)
	mux.HandleFunc("GET /api/v1/accounts", h.GetAccountsHandler)
	mux.HandleFunc("GET /api/v1/accounts/{id}/score", h.GetAccountScoreHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
