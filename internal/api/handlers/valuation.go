package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/wonny/fairvalue/internal/analysis"
	"github.com/wonny/fairvalue/internal/export"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/report"
	"github.com/wonny/fairvalue/internal/valuation"
	"github.com/wonny/fairvalue/pkg/logger"
)

const maxBasketBody = 1 << 20

// Analyzer values a raw ticker list. *analysis.Analyzer satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, raw string, progress func(ratios.Progress)) (*analysis.Report, error)
}

// basketRequest holds the validated shape of a posted basket
type basketRequest struct {
	Tickers []string `validate:"min=1,max=200,dive,required,max=20"`
}

// ValuationHandler handles valuation endpoints
// ⭐ SSOT: 평가 API 핸들러는 이 구조체에서만
type ValuationHandler struct {
	analyzer Analyzer
	engine   *valuation.Engine
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(analyzer Analyzer, engine *valuation.Engine, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{
		analyzer: analyzer,
		engine:   engine,
		validate: validator.New(),
		logger:   log.WithField("module", "api"),
		now:      time.Now,
	}
}

// GetValuation fetches and values the requested tickers
// GET /api/valuation?tickers=GOOGL,AAPL
func (h *ValuationHandler) GetValuation(w http.ResponseWriter, r *http.Request) {
	rep, err := h.analyzer.Analyze(r.Context(), r.URL.Query().Get("tickers"), nil)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rep)
}

// PostBasket values a caller supplied basket without fetching
// POST /api/valuation/basket
func (h *ValuationHandler) PostBasket(w http.ResponseWriter, r *http.Request) {
	basket, err := valuation.DecodeBasket(http.MaxBytesReader(w, r.Body, maxBasketBody))
	if err != nil {
		h.fail(w, err)
		return
	}

	req := basketRequest{Tickers: make([]string, len(basket))}
	for i := range basket {
		req.Tickers[i] = basket[i].Ticker
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid basket: %v", err))
		return
	}

	v, err := h.engine.Run(basket)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.WithRun(v.RunID).WithField("tickers", len(v.Rows)).Info("Basket valued")
	respondJSON(w, http.StatusOK, v)
}

// ExportCSV returns the valuation as a CSV attachment
// GET /api/valuation/export?tickers=GOOGL,AAPL
func (h *ValuationHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rep, err := h.analyzer.Analyze(r.Context(), r.URL.Query().Get("tickers"), nil)
	if err != nil {
		h.fail(w, err)
		return
	}

	data, err := export.Bytes(rep.Valuation)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(h.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetExplanation returns the explanation of one ratio
// GET /api/explain/{ratio}
func (h *ValuationHandler) GetExplanation(w http.ResponseWriter, r *http.Request) {
	ratio := mux.Vars(r)["ratio"]
	text, ok := report.Explain(ratio)
	if !ok {
		respondError(w, http.StatusNotFound, "no information on that ratio")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"ratio":       ratio,
		"explanation": text,
	})
}

func (h *ValuationHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error("Valuation request failed")
		respondError(w, status, "Internal server error")
		return
	}
	respondError(w, status, err.Error())
}

var _ Analyzer = (*analysis.Analyzer)(nil)
