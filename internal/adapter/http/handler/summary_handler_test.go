package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

type summaryServiceFunc func(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error)

func (f summaryServiceFunc) Summarize(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error) {
	return f(ctx, input)
}

func TestSummaryHandler_Get(t *testing.T) {
	var captured usecase.SummaryInput
	h := NewSummaryHandler(summaryServiceFunc(func(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error) {
		captured = input
		return &domain.LedgerSummary{
			From:         input.From,
			To:           input.To,
			SalesMoney:   decimal.NewFromInt(46),
			RestockSpend: decimal.NewFromInt(20),
			SalesCount:   3,
		}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/entries/summary?from=2024-05-01T00:00:00Z&to=2024-05-02T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), captured.From.UTC())

	var resp dto.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.NetCash.Equal(decimal.NewFromInt(26)))
	assert.Equal(t, int64(3), resp.SalesCount)
}

func TestSummaryHandler_Get_BadInput(t *testing.T) {
	h := NewSummaryHandler(summaryServiceFunc(func(ctx context.Context, input usecase.SummaryInput) (*domain.LedgerSummary, error) {
		return nil, domain.ErrInvalidDateRange
	}))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/entries/summary?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/entries/summary?from=2024-05-02T00:00:00Z&to=2024-05-01T00:00:00Z", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
