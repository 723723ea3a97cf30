// internal/api/handler/analyze.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/whitmore/dripline/internal/analyze"
	"github.com/whitmore/dripline/internal/api/response"
	"github.com/whitmore/dripline/internal/assemble"
	"github.com/whitmore/dripline/internal/core"
	"go.uber.org/zap"
)

// AnalyzeHandler handles strategy comparison API requests.
type AnalyzeHandler struct {
	analyzer *analyze.Analyzer
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer *analyze.Analyzer, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, logger: logger}
}

// Analyze runs a full strategy comparison for the requested ticker.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed,
			&core.Error{Code: "METHOD_NOT_ALLOWED", Message: "use POST"})
		return
	}

	var req analyze.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrValidation, err))
		return
	}

	result, err := h.analyzer.Run(r.Context(), req)
	if err != nil {
		h.logger.Warn("analysis failed",
			zap.String("ticker", req.Ticker),
			zap.Error(err))
		response.Error(w, statusFor(err), err)
		return
	}

	// Stock identity is presentation concern, resolved here rather
	// than inside the analysis pipeline.
	if sec, lerr := h.analyzer.Lookup(r.Context(), req.Ticker); lerr == nil {
		result.StockInfo = &assemble.StockInfo{Name: sec.Name, Ticker: sec.Ticker}
	} else {
		h.logger.Debug("ticker lookup failed",
			zap.String("ticker", req.Ticker),
			zap.Error(lerr))
	}

	response.JSON(w, http.StatusOK, result)
}

// statusFor maps domain error codes to HTTP status codes.
func statusFor(err error) int {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return http.StatusInternalServerError
	}
	switch coreErr.Code {
	case core.ErrValidation.Code:
		return http.StatusBadRequest
	case core.ErrTickerUnavailable.Code:
		return http.StatusNotFound
	case core.ErrInsufficientData.Code,
		core.ErrEmptySeries.Code,
		core.ErrInvalidInitialPrice.Code,
		core.ErrInvalidFinalPrice.Code,
		core.ErrNoTradingPeriods.Code,
		core.ErrResampleFailed.Code:
		return http.StatusUnprocessableEntity
	case core.ErrProviderFailed.Code:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
