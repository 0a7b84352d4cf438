package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentDebits verifies the balance guard under concurrent load.
// 20 debits of 100,000 race against a 1,000,000 balance: the guarded
// atomic update must let exactly 10 through and the balance must end at
// zero, never negative.
func TestConcurrentDebits(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := registerAndLogin(t, app, "concurrent_user")

	// Fund the wallet with exactly 10 debits' worth.
	creditBody := `{"direction":"CREDIT","amount":1000000}`
	req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/transactions", bytes.NewBufferString(creditBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	concurrency := 20
	debitAmount := int64(100000)

	var wg sync.WaitGroup
	var successCount atomic.Int64
	var failCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"direction":"DEBIT","amount":%d,"description":"load-%d"}`, debitAmount, idx)
			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/transactions", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				failCount.Add(1)
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)

			if r.StatusCode == http.StatusCreated {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	t.Logf("Concurrent debits: %d succeeded, %d failed (out of %d)", successCount.Load(), failCount.Load(), concurrency)

	totalProcessed := successCount.Load() + failCount.Load()
	assert.Equal(t, int64(concurrency), totalProcessed, "all requests should complete")

	// The balance only ever decreases during the run, so the guard admits
	// exactly balance/amount debits regardless of interleaving.
	assert.Equal(t, int64(10), successCount.Load(), "exactly the funded number of debits should commit")

	balanceReq, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/wallet/balance", nil)
	balanceReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(balanceReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balanceResult struct {
		Data struct {
			Balance  int64  `json:"balance"`
			Currency string `json:"currency"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&balanceResult)
	resp.Body.Close()
	require.NoError(t, err)

	t.Logf("Final balance: %d", balanceResult.Data.Balance)
	assert.Equal(t, int64(0), balanceResult.Data.Balance, "balance must be fully drained, never negative")
}

// TestConcurrentGoalContributions verifies that contributions are applied
// atomically: 50 concurrent contributions of 100 must all land.
func TestConcurrentGoalContributions(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := registerAndLogin(t, app, "goal_racer")

	goalBody := `{"name":"rainy day","target_amount":5000}`
	req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/goals", bytes.NewBufferString(goalBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var goalResult struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&goalResult)
	resp.Body.Close()
	require.NoError(t, err)
	goalID := goalResult.Data.ID

	concurrency := 50
	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/goals/"+goalID+"/contribute",
				bytes.NewBufferString(`{"amount":100}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			r, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer r.Body.Close()
			_, _ = io.ReadAll(r.Body)
			if r.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	t.Logf("Concurrent contributions: %d succeeded (out of %d)", successCount.Load(), concurrency)
	require.Equal(t, int64(concurrency), successCount.Load(), "no contribution should be lost")

	listReq, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/goals", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(listReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listResult struct {
		Data []struct {
			SavedAmount int64 `json:"saved_amount"`
			Reached     bool  `json:"reached"`
		} `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&listResult)
	resp.Body.Close()
	require.NoError(t, err)
	require.Len(t, listResult.Data, 1)

	assert.Equal(t, int64(5000), listResult.Data[0].SavedAmount)
	assert.True(t, listResult.Data[0].Reached)
}
