package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/shared/cqrs"
	"github.com/salesboard/txstats/shared/middleware"
	"github.com/salesboard/txstats/shared/models"
	"github.com/salesboard/txstats/shared/utils"
)

// TransactionQuerier defines the read operations used by TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.Transaction, error)
	GetStatistics(context.Context, cqrs.MonthQuery) (*models.Statistics, error)
	GetBarChart(context.Context, cqrs.MonthQuery) ([]models.PriceBandCount, error)
	GetPieChart(context.Context, cqrs.MonthQuery) ([]models.CategoryCount, error)
	GetCombined(context.Context, cqrs.MonthQuery) (*models.CombinedView, error)
}

type TransactionHandler struct {
	queries TransactionQuerier
	log     *zap.Logger
}

func NewTransactionHandler(queries TransactionQuerier, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{queries: queries, log: log}
}

// ListTransactions never rejects its parameters: malformed paging falls back
// to the defaults.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		Month:   c.Query("month"),
		Search:  c.Query("search"),
		Page:    utils.PositiveIntOr(c.Query("page"), criteria.DefaultPage),
		PerPage: utils.PositiveIntOr(c.Query("perPage"), criteria.DefaultPerPage),
	})
	if err != nil {
		h.internalError(c, "list transactions", err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetStatistics(c *gin.Context) {
	stats, err := h.queries.GetStatistics(c.Request.Context(), monthQuery(c))
	if err != nil {
		h.internalError(c, "compute statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *TransactionHandler) GetBarChart(c *gin.Context) {
	bars, err := h.queries.GetBarChart(c.Request.Context(), monthQuery(c))
	if err != nil {
		h.internalError(c, "build bar chart", err)
		return
	}
	c.JSON(http.StatusOK, bars)
}

func (h *TransactionHandler) GetPieChart(c *gin.Context) {
	pie, err := h.queries.GetPieChart(c.Request.Context(), monthQuery(c))
	if err != nil {
		h.internalError(c, "build pie chart", err)
		return
	}
	c.JSON(http.StatusOK, pie)
}

func (h *TransactionHandler) GetCombined(c *gin.Context) {
	view, err := h.queries.GetCombined(c.Request.Context(), monthQuery(c))
	if err != nil {
		h.internalError(c, "build combined view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TransactionHandler) internalError(c *gin.Context, action string, err error) {
	h.log.Error("failed to "+action,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("month", c.Query("month")),
		zap.Error(err),
	)
	_ = c.Error(err)
	middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

func monthQuery(c *gin.Context) cqrs.MonthQuery {
	return cqrs.MonthQuery{Month: c.Query("month")}
}
