// Package server exposes the vesting registry and token ledger over a JSON
// HTTP API. It holds no business rules: every request is validated and
// executed by the registry, and time is sampled once per request from the
// injected clock.
package server

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rowagames/ROWA-Token/token"
	"github.com/rowagames/ROWA-Token/vesting"
)

// Server routes HTTP requests to the registry and token ledger.
type Server struct {
	registry *vesting.Registry
	token    *token.Token
	clock    func() time.Time
	log      *zap.Logger
}

// New builds a server. A nil clock defaults to time.Now.
func New(registry *vesting.Registry, ledger *token.Token, clock func() time.Time, log *zap.Logger) *Server {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{registry: registry, token: ledger, clock: clock, log: log}
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/program/start", s.handleStartProgram)
	mux.HandleFunc("POST /v1/schedules", s.handleCreateSchedule)
	mux.HandleFunc("GET /v1/schedules/{id}", s.handleGetSchedule)
	mux.HandleFunc("GET /v1/schedules/{id}/releasable", s.handleReleasable)
	mux.HandleFunc("POST /v1/schedules/{id}/release", s.handleRelease)
	mux.HandleFunc("POST /v1/schedules/{id}/revoke", s.handleRevoke)
	mux.HandleFunc("POST /v1/funds/{category}/start", s.handleStartFund)
	mux.HandleFunc("GET /v1/beneficiaries/{address}/schedules", s.handleListSchedules)
	mux.HandleFunc("GET /v1/totals", s.handleTotals)
	mux.HandleFunc("GET /v1/token", s.handleTokenInfo)
	mux.HandleFunc("POST /v1/token/pause", s.handleTokenPause)
	mux.HandleFunc("POST /v1/token/unpause", s.handleTokenUnpause)
	mux.HandleFunc("POST /v1/token/snapshot", s.handleTokenSnapshot)

	return mux
}

func (s *Server) now() uint64 {
	return uint64(s.clock().Unix())
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, vesting.ErrUnauthorized) || errors.Is(err, token.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, vesting.ErrScheduleNotFound) || errors.Is(err, vesting.ErrIndexOutOfBounds):
		return http.StatusNotFound
	case errors.Is(err, vesting.ErrProgramAlreadyStarted) ||
		errors.Is(err, vesting.ErrFundAlreadyStarted) ||
		errors.Is(err, vesting.ErrAlreadyRevoked) ||
		errors.Is(err, vesting.ErrDuplicateScheduleID) ||
		errors.Is(err, token.ErrVestingAlreadyStarted) ||
		errors.Is(err, token.ErrAlreadyPaused) ||
		errors.Is(err, token.ErrNotPaused):
		return http.StatusConflict
	case errors.Is(err, vesting.ErrServicePaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, vesting.ErrCapExceeded) ||
		errors.Is(err, vesting.ErrInsufficientVested) ||
		errors.Is(err, vesting.ErrNotRevocable) ||
		errors.Is(err, vesting.ErrScheduleRevoked) ||
		errors.Is(err, vesting.ErrProgramNotStarted) ||
		errors.Is(err, vesting.ErrNonPositiveVestingAmount) ||
		errors.Is(err, vesting.ErrCannotBeZero) ||
		errors.Is(err, vesting.ErrInvalidUserAddress):
		return http.StatusBadRequest
	}

	var custom *vesting.CustomError
	if errors.As(err, &custom) {
		return custom.Code
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, vesting.ErrInvalidAmount("amount", value)
	}
	return amount, nil
}

type startProgramRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleStartProgram(w http.ResponseWriter, r *http.Request) {
	var req startProgramRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err := s.registry.StartProgram(req.Caller, s.now())
	observe("start_program", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

type createScheduleRequest struct {
	Caller      string `json:"caller"`
	Category    string `json:"category"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	Revocable   bool   `json:"revocable"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var schedule *vesting.VestingSchedule
	switch req.Category {
	case vesting.PublicSale.String():
		schedule, err = s.registry.CreatePublicSaleVesting(req.Caller, req.Beneficiary, amount)
	case vesting.PrivateSale.String():
		schedule, err = s.registry.CreatePrivateSaleVesting(req.Caller, req.Beneficiary, amount)
	case vesting.SeedSale.String():
		schedule, err = s.registry.CreateSeedSaleVesting(req.Caller, req.Beneficiary, amount)
	case vesting.Team.String():
		schedule, err = s.registry.CreateTeamVesting(req.Caller, req.Beneficiary, amount, req.Revocable)
	case vesting.Advisor.String():
		schedule, err = s.registry.CreateAdvisorVesting(req.Caller, req.Beneficiary, amount, req.Revocable)
	case vesting.Partnerships.String():
		schedule, err = s.registry.CreatePartnershipsVesting(req.Caller, req.Beneficiary, amount, req.Revocable)
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: vesting.ErrInvalidCategory(req.Category).Error()})
		return
	}

	observe("create_schedule", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, schedule)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.registry.GetVestingSchedule(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) handleReleasable(w http.ResponseWriter, r *http.Request) {
	releasable, err := s.registry.ComputeReleasableAmount(r.PathValue("id"), s.now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"releasable": releasable.String()})
}

type releaseRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err = s.registry.Release(req.Caller, r.PathValue("id"), amount, s.now())
	observe("release", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "released", "amount": amount.String()})
}

type revokeRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err := s.registry.Revoke(req.Caller, r.PathValue("id"), s.now())
	observe("revoke", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

type startFundRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleStartFund(w http.ResponseWriter, r *http.Request) {
	var req startFundRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var err error
	switch r.PathValue("category") {
	case vesting.VGP.String():
		err = s.registry.StartVGPFund(req.Caller)
	case vesting.LP.String():
		err = s.registry.StartLPFund(req.Caller)
	case vesting.Liquidity.String():
		err = s.registry.StartLiquidityFund(req.Caller)
	case vesting.Reserve.String():
		err = s.registry.StartReserveFund(req.Caller)
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: vesting.ErrInvalidCategory(r.PathValue("category")).Error()})
		return
	}

	observe("start_fund", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	beneficiary := r.PathValue("address")

	scheduleIDs, err := s.registry.ListVestingScheduleIDs(beneficiary)
	if err != nil {
		s.writeError(w, err)
		return
	}

	schedules := make([]*vesting.VestingSchedule, 0, len(scheduleIDs))
	for _, scheduleID := range scheduleIDs {
		schedule, err := s.registry.GetVestingSchedule(scheduleID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		schedules = append(schedules, schedule)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"beneficiary": beneficiary,
		"count":       len(schedules),
		"schedules":   schedules,
	})
}

type categoryTotals struct {
	Cap       string `json:"cap"`
	Committed string `json:"committed"`
	Released  string `json:"released"`
}

func (s *Server) handleTotals(w http.ResponseWriter, _ *http.Request) {
	totalCommitted, err := s.registry.GetVestingSchedulesTotalAmount()
	if err != nil {
		s.writeError(w, err)
		return
	}
	totalReleased, err := s.registry.GetTotalReleasedAmount()
	if err != nil {
		s.writeError(w, err)
		return
	}

	perCategory := map[string]categoryTotals{}
	for _, category := range vesting.Categories() {
		committed, err := s.registry.GetCategoryCommittedAmount(category)
		if err != nil {
			s.writeError(w, err)
			return
		}
		released, err := s.registry.GetCategoryReleasedAmount(category)
		if err != nil {
			s.writeError(w, err)
			return
		}
		perCategory[category.String()] = categoryTotals{
			Cap:       category.Params().Cap.String(),
			Committed: committed.String(),
			Released:  released.String(),
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"totalCommitted": totalCommitted.String(),
		"totalReleased":  totalReleased.String(),
		"supplyCap":      vesting.TotalSupplyCap().String(),
		"categories":     perCategory,
	})
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, _ *http.Request) {
	paused, err := s.token.IsPaused()
	if err != nil {
		s.writeError(w, err)
		return
	}
	supply, err := s.token.TotalSupply()
	if err != nil {
		s.writeError(w, err)
		return
	}
	poolBalance, err := s.token.BalanceOf(s.registry.PoolAccount())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":        token.Name,
		"symbol":      token.Symbol,
		"decimals":    token.Decimals,
		"address":     s.registry.TokenAddress(),
		"paused":      paused,
		"totalSupply": supply.String(),
		"poolBalance": poolBalance.String(),
	})
}

type tokenAdminRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleTokenPause(w http.ResponseWriter, r *http.Request) {
	var req tokenAdminRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err := s.token.Pause(req.Caller)
	observe("token_pause", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleTokenUnpause(w http.ResponseWriter, r *http.Request) {
	var req tokenAdminRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err := s.token.Unpause(req.Caller)
	observe("token_unpause", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "unpaused"})
}

func (s *Server) handleTokenSnapshot(w http.ResponseWriter, r *http.Request) {
	var req tokenAdminRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snapshotID, err := s.token.Snapshot(req.Caller)
	observe("token_snapshot", err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]uint64{"snapshotId": snapshotID})
}
