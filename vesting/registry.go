package vesting

import (
	"fmt"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/rowagames/ROWA-Token/state"
)

// TokenLedger is the external value-ledger collaborator. The registry only
// instructs it after every invariant has been confirmed, so a rejected
// transfer leaves vesting state untouched.
type TokenLedger interface {
	StartVesting(pool string) error
	Transfer(from, to string, amount *big.Int) error
	BalanceOf(account string) (*big.Int, error)
	IsPaused() (bool, error)
	Address() string
}

// AccessControl is the external single-owner permission check.
type AccessControl interface {
	IsOwner(caller string) bool
}

// StaticOwner is an AccessControl recognizing exactly one owner address.
type StaticOwner string

func (o StaticOwner) IsOwner(caller string) bool {
	return caller != "" && caller == string(o)
}

// FundAddresses holds the fixed recipients of the four single-shot treasury
// funds.
type FundAddresses struct {
	VGP       string
	LP        string
	Liquidity string
	Reserve   string
}

// Options configures a Registry.
type Options struct {
	State       state.Store
	Token       TokenLedger
	Access      AccessControl
	Emitter     Emitter
	Log         *zap.Logger
	PoolAccount string
	Funds       FundAddresses
}

// Registry is the sole entry point mutating vesting state: it orchestrates
// schedule creation, release, revocation, and the fund initializers. Every
// operation samples time once, as the caller-supplied now argument.
type Registry struct {
	st      state.Store
	token   TokenLedger
	acl     AccessControl
	emitter Emitter
	log     *zap.Logger
	pool    string
	funds   FundAddresses
}

// NewRegistry validates the collaborators and fund recipients and returns a
// ready registry.
func NewRegistry(opts Options) (*Registry, error) {
	if opts.State == nil {
		return nil, fmt.Errorf("state store cannot be nil")
	}
	if opts.Token == nil {
		return nil, fmt.Errorf("token ledger cannot be nil")
	}
	if opts.Access == nil {
		return nil, fmt.Errorf("access control cannot be nil")
	}
	if !IsUserAddressValid(opts.PoolAccount) {
		return nil, fmt.Errorf("%w: pool account %q", ErrInvalidUserAddress, opts.PoolAccount)
	}

	fundRecipients := map[string]string{
		"VGP fund":       opts.Funds.VGP,
		"LP fund":        opts.Funds.LP,
		"Liquidity fund": opts.Funds.Liquidity,
		"Reserve fund":   opts.Funds.Reserve,
	}
	for name, recipient := range fundRecipients {
		if !IsUserAddressValid(recipient) {
			return nil, fmt.Errorf("%w: %s address cannot be %q", ErrInvalidUserAddress, name, recipient)
		}
	}

	emitter := opts.Emitter
	if emitter == nil {
		emitter = NopEmitter{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Registry{
		st:      opts.State,
		token:   opts.Token,
		acl:     opts.Access,
		emitter: emitter,
		log:     log,
		pool:    opts.PoolAccount,
		funds:   opts.Funds,
	}, nil
}

func (r *Registry) requireOwner(caller string) error {
	if !r.acl.IsOwner(caller) {
		return fmt.Errorf("%w: caller %s is not the owner", ErrUnauthorized, caller)
	}
	return nil
}

// StartProgram records the vesting program start and instructs the token
// ledger to mint the full supply to the vesting pool. Owner-only, once.
func (r *Registry) StartProgram(caller string, now uint64) error {
	if err := r.requireOwner(caller); err != nil {
		return err
	}
	if now == 0 {
		return ErrCannotBeZero
	}

	_, started, err := GetProgramStart(r.st)
	if err != nil {
		return err
	}
	if started {
		return fmt.Errorf("%w: vesting program", ErrProgramAlreadyStarted)
	}

	if err := r.token.StartVesting(r.pool); err != nil {
		return fmt.Errorf("failed to fund vesting pool: %w", err)
	}

	if err := SetProgramStart(r.st, now); err != nil {
		return err
	}

	if err := emitEvent(r.emitter, ProgramStartedEvent, ProgramStartedPayload{
		StartTimestamp: now,
		PoolAccount:    r.pool,
	}); err != nil {
		r.log.Warn("failed to emit program started event", zap.Error(err))
	}

	r.log.Info("vesting program started",
		zap.Uint64("startTimestamp", now),
		zap.String("poolAccount", r.pool),
	)

	return nil
}

// addSchedule reserves capacity and writes one schedule. All validations run
// before any write; callers have already checked category business rules.
func (r *Registry) addSchedule(category Category, beneficiary string, totalAmount *big.Int, revocable bool) (*VestingSchedule, error) {
	if !IsUserAddressValid(beneficiary) {
		return nil, fmt.Errorf("%w: beneficiary %q", ErrInvalidUserAddress, beneficiary)
	}
	if !amountIsPositive(totalAmount) {
		return nil, fmt.Errorf("%w: beneficiary %s", ErrNonPositiveVestingAmount, beneficiary)
	}

	startTimestamp, started, err := GetProgramStart(r.st)
	if err != nil {
		return nil, err
	}
	if !started {
		return nil, fmt.Errorf("%w: %s vesting requires a started program", ErrProgramNotStarted, category)
	}

	params := category.Params()

	committed, err := GetCategoryCommitted(r.st, category)
	if err != nil {
		return nil, err
	}
	newCommitted := new(big.Int).Add(committed, totalAmount)
	if newCommitted.Cmp(params.Cap) > 0 {
		return nil, fmt.Errorf("%w: %s vesting amount exceeds total amount", ErrCapExceeded, category)
	}

	totalCommitted, err := GetTotalCommitted(r.st)
	if err != nil {
		return nil, err
	}
	newTotalCommitted := new(big.Int).Add(totalCommitted, totalAmount)
	if newTotalCommitted.Cmp(TotalSupplyCap()) > 0 {
		return nil, fmt.Errorf("%w: vesting amount exceeds total supply", ErrCapExceeded)
	}

	scheduleIDs, err := GetHolderVestings(r.st, beneficiary)
	if err != nil {
		return nil, err
	}
	index := uint64(len(scheduleIDs))
	scheduleID := ComputeVestingScheduleID(beneficiary, index)

	existing, err := r.st.Get(scheduleKeyPrefix + scheduleID)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to check schedule %s", scheduleID), err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateScheduleID, scheduleID)
	}

	schedule := &VestingSchedule{
		ID:            scheduleID,
		Beneficiary:   beneficiary,
		Category:      category.String(),
		Index:         index,
		TotalAmount:   totalAmount.String(),
		StartTime:     startTimestamp,
		CliffDuration: params.CliffDuration,
		TotalDuration: params.TotalDuration,
		InitialUnlock: CalculateInitialUnlock(totalAmount, params.InitialUnlockPct).String(),
		Revocable:     revocable,
		Released:      "0",
	}

	if err := SetVestingSchedule(r.st, schedule); err != nil {
		return nil, err
	}
	if err := SetHolderVestings(r.st, beneficiary, append(scheduleIDs, scheduleID)); err != nil {
		return nil, err
	}
	if err := SetCategoryCommitted(r.st, category, newCommitted); err != nil {
		return nil, err
	}
	if err := SetTotalCommitted(r.st, newTotalCommitted); err != nil {
		return nil, err
	}

	if err := emitEvent(r.emitter, VestingScheduleCreatedEvent, ScheduleCreatedPayload{
		ScheduleID:    schedule.ID,
		Category:      schedule.Category,
		Beneficiary:   schedule.Beneficiary,
		TotalAmount:   schedule.TotalAmount,
		StartTime:     schedule.StartTime,
		CliffDuration: schedule.CliffDuration,
		TotalDuration: schedule.TotalDuration,
		InitialUnlock: schedule.InitialUnlock,
		Revocable:     schedule.Revocable,
	}); err != nil {
		r.log.Warn("failed to emit schedule created event", zap.Error(err))
	}

	r.log.Info("vesting schedule created",
		zap.String("scheduleId", schedule.ID),
		zap.String("category", schedule.Category),
		zap.String("beneficiary", schedule.Beneficiary),
		zap.String("totalAmount", schedule.TotalAmount),
	)

	return schedule, nil
}

func (r *Registry) createVesting(caller string, category Category, beneficiary string, totalAmount *big.Int, revocable bool) (*VestingSchedule, error) {
	if err := r.requireOwner(caller); err != nil {
		return nil, err
	}
	if category.Params().SingleShot {
		return nil, ErrInvalidCategory(category.String())
	}
	return r.addSchedule(category, beneficiary, totalAmount, revocable)
}

// CreatePublicSaleVesting creates a public sale schedule: quarter unlocked at
// program start, remainder over the public sale curve. Never revocable.
func (r *Registry) CreatePublicSaleVesting(caller, beneficiary string, totalAmount *big.Int) (*VestingSchedule, error) {
	return r.createVesting(caller, PublicSale, beneficiary, totalAmount, false)
}

// CreatePrivateSaleVesting creates a private sale schedule. Never revocable.
func (r *Registry) CreatePrivateSaleVesting(caller, beneficiary string, totalAmount *big.Int) (*VestingSchedule, error) {
	return r.createVesting(caller, PrivateSale, beneficiary, totalAmount, false)
}

// CreateSeedSaleVesting creates a seed sale schedule. Never revocable.
func (r *Registry) CreateSeedSaleVesting(caller, beneficiary string, totalAmount *big.Int) (*VestingSchedule, error) {
	return r.createVesting(caller, SeedSale, beneficiary, totalAmount, false)
}

// CreateTeamVesting creates a team schedule; the caller chooses revocability.
func (r *Registry) CreateTeamVesting(caller, beneficiary string, totalAmount *big.Int, revocable bool) (*VestingSchedule, error) {
	return r.createVesting(caller, Team, beneficiary, totalAmount, revocable)
}

// CreateAdvisorVesting creates an advisor schedule; the caller chooses
// revocability.
func (r *Registry) CreateAdvisorVesting(caller, beneficiary string, totalAmount *big.Int, revocable bool) (*VestingSchedule, error) {
	return r.createVesting(caller, Advisor, beneficiary, totalAmount, revocable)
}

// CreatePartnershipsVesting creates a partnerships schedule; the caller
// chooses revocability.
func (r *Registry) CreatePartnershipsVesting(caller, beneficiary string, totalAmount *big.Int, revocable bool) (*VestingSchedule, error) {
	return r.createVesting(caller, Partnerships, beneficiary, totalAmount, revocable)
}

// Release transfers amount vested tokens from the pool to the beneficiary and
// advances the released counter. Callable by the beneficiary or the owner.
//
// The transfer is instructed only after every validation passes, so a failed
// transfer leaves vesting state untouched; a storage failure after the
// transfer succeeded is reported as an internal fault with no automatic
// rollback.
func (r *Registry) Release(caller, scheduleID string, amount *big.Int, now uint64) error {
	schedule, err := GetVestingSchedule(r.st, scheduleID)
	if err != nil {
		return err
	}

	if schedule.Revoked {
		return fmt.Errorf("%w: %s", ErrScheduleRevoked, scheduleID)
	}
	if caller != schedule.Beneficiary && !r.acl.IsOwner(caller) {
		return fmt.Errorf("%w: only beneficiary and owner can release vested tokens", ErrUnauthorized)
	}
	if !amountIsPositive(amount) {
		return fmt.Errorf("%w: release amount", ErrNonPositiveVestingAmount)
	}

	paused, err := r.token.IsPaused()
	if err != nil {
		return fmt.Errorf("failed to read token pause state: %w", err)
	}
	if paused {
		return fmt.Errorf("%w: token ledger is paused", ErrServicePaused)
	}

	releasable, err := ReleasableAmount(schedule, now)
	if err != nil {
		return err
	}
	if amount.Cmp(releasable) > 0 {
		return fmt.Errorf("%w: cannot release tokens, not enough vested tokens", ErrInsufficientVested)
	}

	if err := r.token.Transfer(r.pool, schedule.Beneficiary, amount); err != nil {
		return fmt.Errorf("failed to transfer tokens: %w", err)
	}

	released, err := schedule.ReleasedInt()
	if err != nil {
		return err
	}
	schedule.Released = released.Add(released, amount).String()

	if err := SetVestingSchedule(r.st, schedule); err != nil {
		return NewCustomError(http.StatusInternalServerError, "released counter not persisted after transfer", err)
	}

	category, err := ParseCategory(schedule.Category)
	if err != nil {
		return err
	}
	if err := r.recordRelease(category, amount); err != nil {
		return err
	}

	if err := emitEvent(r.emitter, TokensReleasedEvent, TokensReleasedPayload{
		ScheduleID:  scheduleID,
		Beneficiary: schedule.Beneficiary,
		Amount:      amount.String(),
	}); err != nil {
		r.log.Warn("failed to emit tokens released event", zap.Error(err))
	}

	r.log.Info("tokens released",
		zap.String("scheduleId", scheduleID),
		zap.String("beneficiary", schedule.Beneficiary),
		zap.String("amount", amount.String()),
	)

	return nil
}

// Revoke terminates future vesting of a revocable schedule and returns the
// unvested remainder to the category's allocation capacity. The vested but
// unreleased tranche at the moment of revocation is forfeited: after a
// revocation every release and releasable query on the schedule fails.
func (r *Registry) Revoke(caller, scheduleID string, now uint64) error {
	schedule, err := GetVestingSchedule(r.st, scheduleID)
	if err != nil {
		return err
	}

	if err := r.requireOwner(caller); err != nil {
		return err
	}
	if !schedule.Revocable {
		return fmt.Errorf("%w: vesting is not revocable", ErrNotRevocable)
	}
	if schedule.Revoked {
		return fmt.Errorf("%w: %s", ErrAlreadyRevoked, scheduleID)
	}

	totalAmount, err := schedule.TotalAmountInt()
	if err != nil {
		return err
	}
	vested, err := VestedAmount(schedule, now)
	if err != nil {
		return err
	}
	unvested := new(big.Int).Sub(totalAmount, vested)

	category, err := ParseCategory(schedule.Category)
	if err != nil {
		return err
	}

	committed, err := GetCategoryCommitted(r.st, category)
	if err != nil {
		return err
	}
	totalCommitted, err := GetTotalCommitted(r.st)
	if err != nil {
		return err
	}

	schedule.Revoked = true
	if err := SetVestingSchedule(r.st, schedule); err != nil {
		return err
	}
	if err := SetCategoryCommitted(r.st, category, committed.Sub(committed, unvested)); err != nil {
		return err
	}
	if err := SetTotalCommitted(r.st, totalCommitted.Sub(totalCommitted, unvested)); err != nil {
		return err
	}

	if err := emitEvent(r.emitter, VestingRevokedEvent, VestingRevokedPayload{
		ScheduleID: scheduleID,
		Category:   schedule.Category,
		Unvested:   unvested.String(),
	}); err != nil {
		r.log.Warn("failed to emit vesting revoked event", zap.Error(err))
	}

	r.log.Info("vesting schedule revoked",
		zap.String("scheduleId", scheduleID),
		zap.String("category", schedule.Category),
		zap.String("unvested", unvested.String()),
	)

	return nil
}

func (r *Registry) recordRelease(category Category, amount *big.Int) error {
	categoryReleased, err := getCounter(r.st, categoryReleasedPrefix+category.String())
	if err != nil {
		return err
	}
	if err := setCounter(r.st, categoryReleasedPrefix+category.String(), categoryReleased.Add(categoryReleased, amount)); err != nil {
		return err
	}

	totalReleased, err := getCounter(r.st, totalReleasedKey)
	if err != nil {
		return err
	}
	return setCounter(r.st, totalReleasedKey, totalReleased.Add(totalReleased, amount))
}
