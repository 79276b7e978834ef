package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/txstats/internal/query"
	"github.com/salesboard/txstats/internal/repository"
	"github.com/salesboard/txstats/shared/models"
)

func TestRouterServesScenarioOverMemoryStore(t *testing.T) {
	store := repository.NewMemoryRepository()
	_, err := store.InsertBatch(context.Background(), []models.Transaction{
		{DateOfSale: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Title: "one", Description: "first", Price: 50, Category: "A"},
		{DateOfSale: time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC), Title: "two", Description: "second", Price: 150, Category: "B"},
		{DateOfSale: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), Title: "three", Description: "third", Price: 0, Category: "A"},
	})
	require.NoError(t, err)
	router := newTxTestRouter(query.NewTransactionQueryService(store, query.Options{}))

	w := txDoRequest(router, "/combined-data?month=01")
	require.Equal(t, http.StatusOK, w.Code)

	var combined struct {
		Transactions []models.Transaction `json:"transactions"`
		Statistics   struct {
			TotalSaleAmount   float64 `json:"totalSaleAmount"`
			TotalSoldItems    int64   `json:"totalSoldItems"`
			TotalNotSoldItems int64   `json:"totalNotSoldItems"`
		} `json:"statistics"`
		BarChart []models.PriceBandCount `json:"barChart"`
		PieChart []models.CategoryCount  `json:"pieChart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &combined))

	require.Len(t, combined.Transactions, 2)
	assert.Equal(t, "one", combined.Transactions[0].Title)
	assert.Equal(t, "two", combined.Transactions[1].Title)
	assert.InDelta(t, 200, combined.Statistics.TotalSaleAmount, 0.001)
	assert.Equal(t, int64(2), combined.Statistics.TotalSoldItems)
	assert.Zero(t, combined.Statistics.TotalNotSoldItems)
	require.Len(t, combined.BarChart, 10)
	assert.Equal(t, int64(1), combined.BarChart[0].Count)
	assert.Equal(t, int64(1), combined.BarChart[1].Count)
	assert.Equal(t, []models.CategoryCount{{Category: "A", Count: 1}, {Category: "B", Count: 1}}, combined.PieChart)

	// The single endpoints agree with the combined view.
	var pie []models.CategoryCount
	w = txDoRequest(router, "/pie-chart?month=01")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pie))
	assert.Equal(t, combined.PieChart, pie)

	var bars []models.PriceBandCount
	w = txDoRequest(router, "/bar-chart?month=01")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bars))
	assert.Equal(t, combined.BarChart, bars)
}

func TestRouterEmptyStoreReturnsEmptyArrays(t *testing.T) {
	router := newTxTestRouter(query.NewTransactionQueryService(repository.NewMemoryRepository(), query.Options{}))

	w := txDoRequest(router, "/transactions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = txDoRequest(router, "/pie-chart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = txDoRequest(router, "/statistics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalSaleAmount":0,"totalSoldItems":0,"totalNotSoldItems":0}`, w.Body.String())
}

func TestRouterHugePageReturnsEmptyList(t *testing.T) {
	store := repository.NewMemoryRepository()
	_, err := store.InsertBatch(context.Background(), []models.Transaction{
		{DateOfSale: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Title: "one", Price: 50, Category: "A"},
	})
	require.NoError(t, err)
	router := newTxTestRouter(query.NewTransactionQueryService(store, query.Options{MaxPerPage: 100}))

	for _, target := range []string{
		"/transactions?page=9223372036854775807",
		"/transactions?page=9223372036854775807&perPage=100",
		"/transactions?page=922337203685477581&perPage=10",
	} {
		w := txDoRequest(router, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "[]", w.Body.String(), target)
	}
}
