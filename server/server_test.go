package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rowagames/ROWA-Token/server"
	"github.com/rowagames/ROWA-Token/state"
	"github.com/rowagames/ROWA-Token/token"
	"github.com/rowagames/ROWA-Token/vesting"
)

const (
	ownerAddr    = "0b87970433b22494faff1cc7a819e71bddc7880c"
	poolAddr     = "a47183c5a8aa342a2e7716ad4bd881962bb7d7f9"
	tokenAddr    = "3f1c0de2b9a44fa08c19d2749c21ab560cfa7712"
	vgpFundAddr  = "11f2ab9347cc01b86f3d02b41c7a9e05d88e3a01"
	lpFundAddr   = "22e3bc0458dd12c97f4e13c52d8b0f16e99f4b02"
	liqFundAddr  = "33d4cd1569ee23da8f5f24d63e9c1027faa05c03"
	resFundAddr  = "44c5de267aff34eb906035e74fad2138fbb16d04"
	aliceAddr    = "55b6ef378b0045fca17146f85abe3249fcc27e05"
	strangerAddr = "77980159a21267fec393680a8dd0546bfee49017"
)

type testAPI struct {
	handler http.Handler
	now     time.Time
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st := state.NewMemoryStore()
	ledger, err := token.New(st, ownerAddr, tokenAddr, nil, zap.NewNop())
	require.NoError(t, err)

	registry, err := vesting.NewRegistry(vesting.Options{
		State:       st,
		Token:       ledger,
		Access:      vesting.StaticOwner(ownerAddr),
		Log:         zap.NewNop(),
		PoolAccount: poolAddr,
		Funds: vesting.FundAddresses{
			VGP:       vgpFundAddr,
			LP:        lpFundAddr,
			Liquidity: liqFundAddr,
			Reserve:   resFundAddr,
		},
	})
	require.NoError(t, err)

	now := time.Unix(1_700_000_000, 0)
	srv := server.New(registry, ledger, func() time.Time { return now }, zap.NewNop())
	return &testAPI{handler: srv.Handler(), now: now}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) startProgram(t *testing.T) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/v1/program/start", fmt.Sprintf(`{"caller":%q}`, ownerAddr))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStartProgramEndpoint(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.startProgram(t)

	rec := api.do(t, http.MethodPost, "/v1/program/start", fmt.Sprintf(`{"caller":%q}`, ownerAddr))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/program/start", fmt.Sprintf(`{"caller":%q}`, strangerAddr))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestScheduleLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.startProgram(t)

	createBody := fmt.Sprintf(`{"caller":%q,"category":"PublicSale","beneficiary":%q,"amount":"10000"}`, ownerAddr, aliceAddr)
	rec := api.do(t, http.MethodPost, "/v1/schedules", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created vesting.VestingSchedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "10000", created.TotalAmount)

	rec = api.do(t, http.MethodGet, "/v1/schedules/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The clock is pinned at program start, so the initial unlock is live.
	rec = api.do(t, http.MethodGet, "/v1/schedules/"+created.ID+"/releasable", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var releasable map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &releasable))
	require.Equal(t, "2500", releasable["releasable"])

	releaseBody := fmt.Sprintf(`{"caller":%q,"amount":"2500"}`, aliceAddr)
	rec = api.do(t, http.MethodPost, "/v1/schedules/"+created.ID+"/release", releaseBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/v1/schedules/"+created.ID+"/release", releaseBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/v1/beneficiaries/"+aliceAddr+"/schedules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Count     int                        `json:"count"`
		Schedules []*vesting.VestingSchedule `json:"schedules"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Count)
	require.Equal(t, "2500", listed.Schedules[0].Released)
}

func TestScheduleEndpointErrors(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.startProgram(t)

	t.Run("unknown schedule is a 404", func(t *testing.T) {
		missing := vesting.ComputeVestingScheduleID(aliceAddr, 9)
		rec := api.do(t, http.MethodGet, "/v1/schedules/"+missing, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown category is a 400", func(t *testing.T) {
		body := fmt.Sprintf(`{"caller":%q,"category":"Nope","beneficiary":%q,"amount":"1"}`, ownerAddr, aliceAddr)
		rec := api.do(t, http.MethodPost, "/v1/schedules", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed amount is a 400", func(t *testing.T) {
		body := fmt.Sprintf(`{"caller":%q,"category":"PublicSale","beneficiary":%q,"amount":"ten"}`, ownerAddr, aliceAddr)
		rec := api.do(t, http.MethodPost, "/v1/schedules", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-owner create is a 403", func(t *testing.T) {
		body := fmt.Sprintf(`{"caller":%q,"category":"PublicSale","beneficiary":%q,"amount":"1"}`, strangerAddr, aliceAddr)
		rec := api.do(t, http.MethodPost, "/v1/schedules", body)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("revoking a sale schedule is a 400", func(t *testing.T) {
		body := fmt.Sprintf(`{"caller":%q,"category":"PublicSale","beneficiary":%q,"amount":"500"}`, ownerAddr, aliceAddr)
		rec := api.do(t, http.MethodPost, "/v1/schedules", body)
		require.Equal(t, http.StatusCreated, rec.Code)
		var created vesting.VestingSchedule
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		rec = api.do(t, http.MethodPost, "/v1/schedules/"+created.ID+"/revoke", fmt.Sprintf(`{"caller":%q}`, ownerAddr))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFundEndpoints(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.startProgram(t)

	ownerBody := fmt.Sprintf(`{"caller":%q}`, ownerAddr)

	rec := api.do(t, http.MethodPost, "/v1/funds/VGP/start", ownerBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodPost, "/v1/funds/VGP/start", ownerBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/funds/Unknown/start", ownerBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/funds/LP/start", fmt.Sprintf(`{"caller":%q}`, strangerAddr))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTotalsEndpoint(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.startProgram(t)

	body := fmt.Sprintf(`{"caller":%q,"category":"PublicSale","beneficiary":%q,"amount":"10000"}`, ownerAddr, aliceAddr)
	rec := api.do(t, http.MethodPost, "/v1/schedules", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/v1/totals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var totals struct {
		TotalCommitted string `json:"totalCommitted"`
		TotalReleased  string `json:"totalReleased"`
		SupplyCap      string `json:"supplyCap"`
		Categories     map[string]struct {
			Cap       string `json:"cap"`
			Committed string `json:"committed"`
			Released  string `json:"released"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Equal(t, "10000", totals.TotalCommitted)
	require.Equal(t, "0", totals.TotalReleased)
	require.Equal(t, "10000", totals.Categories["PublicSale"].Committed)
	require.Len(t, totals.Categories, len(vesting.Categories()))
}

func TestTokenEndpoints(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/v1/token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		TotalSupply string `json:"totalSupply"`
		Paused      bool   `json:"paused"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, "ROWA Token", info.Name)
	require.Equal(t, "ROWA", info.Symbol)
	require.Equal(t, "0", info.TotalSupply)
	require.False(t, info.Paused)

	api.startProgram(t)

	ownerBody := fmt.Sprintf(`{"caller":%q}`, ownerAddr)

	rec = api.do(t, http.MethodPost, "/v1/token/pause", ownerBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/token/pause", ownerBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/token/unpause", ownerBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/token/snapshot", ownerBody)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap map[string]uint64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, uint64(1), snap["snapshotId"])

	rec = api.do(t, http.MethodPost, "/v1/token/snapshot", fmt.Sprintf(`{"caller":%q}`, strangerAddr))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
