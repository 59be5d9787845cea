package vesting

import (
	"fmt"
	"math/big"
)

// Read-only query surface. None of these mutate state.

// GetVestingSchedule returns the schedule by id.
func (r *Registry) GetVestingSchedule(scheduleID string) (*VestingSchedule, error) {
	return GetVestingSchedule(r.st, scheduleID)
}

// GetVestingSchedulesCountByBeneficiary returns how many schedules the
// beneficiary holds.
func (r *Registry) GetVestingSchedulesCountByBeneficiary(beneficiary string) (uint64, error) {
	scheduleIDs, err := GetHolderVestings(r.st, beneficiary)
	if err != nil {
		return 0, err
	}
	return uint64(len(scheduleIDs)), nil
}

// VestingScheduleIDAtIndex returns the id of the beneficiary's schedule at
// the given sequence index.
func (r *Registry) VestingScheduleIDAtIndex(beneficiary string, index uint64) (string, error) {
	scheduleIDs, err := GetHolderVestings(r.st, beneficiary)
	if err != nil {
		return "", err
	}
	if index >= uint64(len(scheduleIDs)) {
		return "", fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfBounds, index, len(scheduleIDs))
	}
	return scheduleIDs[index], nil
}

// LastVestingScheduleIDFor returns the most recently created schedule id of
// the beneficiary.
func (r *Registry) LastVestingScheduleIDFor(beneficiary string) (string, error) {
	scheduleIDs, err := GetHolderVestings(r.st, beneficiary)
	if err != nil {
		return "", err
	}
	if len(scheduleIDs) == 0 {
		return "", fmt.Errorf("%w: no schedules for beneficiary %s", ErrScheduleNotFound, beneficiary)
	}
	return scheduleIDs[len(scheduleIDs)-1], nil
}

// ListVestingScheduleIDs returns all schedule ids of the beneficiary in
// insertion order.
func (r *Registry) ListVestingScheduleIDs(beneficiary string) ([]string, error) {
	return GetHolderVestings(r.st, beneficiary)
}

// GetVestingScheduleByAddressAndIndex recomputes the deterministic id and
// fetches the schedule.
func (r *Registry) GetVestingScheduleByAddressAndIndex(beneficiary string, index uint64) (*VestingSchedule, error) {
	return GetVestingSchedule(r.st, ComputeVestingScheduleID(beneficiary, index))
}

// ComputeReleasableAmount computes the releasable amount of the schedule at
// the given timestamp.
func (r *Registry) ComputeReleasableAmount(scheduleID string, now uint64) (*big.Int, error) {
	schedule, err := GetVestingSchedule(r.st, scheduleID)
	if err != nil {
		return nil, err
	}
	return ReleasableAmount(schedule, now)
}

// GetVestingSchedulesTotalAmount returns the grand-total committed amount
// across all schedules.
func (r *Registry) GetVestingSchedulesTotalAmount() (*big.Int, error) {
	return GetTotalCommitted(r.st)
}

// GetCategoryCommittedAmount returns the cumulative amount committed against
// the category's cap.
func (r *Registry) GetCategoryCommittedAmount(category Category) (*big.Int, error) {
	return GetCategoryCommitted(r.st, category)
}

// GetCategoryReleasedAmount returns the cumulative amount released from the
// category's schedules.
func (r *Registry) GetCategoryReleasedAmount(category Category) (*big.Int, error) {
	return getCounter(r.st, categoryReleasedPrefix+category.String())
}

// GetTotalReleasedAmount returns the cumulative amount released across all
// schedules.
func (r *Registry) GetTotalReleasedAmount() (*big.Int, error) {
	return getCounter(r.st, totalReleasedKey)
}

// ProgramStart returns the recorded program start timestamp and whether the
// program has been started.
func (r *Registry) ProgramStart() (uint64, bool, error) {
	return GetProgramStart(r.st)
}

// TokenAddress returns the bound token ledger address.
func (r *Registry) TokenAddress() string {
	return r.token.Address()
}

// PoolAccount returns the vesting pool account releases draw from.
func (r *Registry) PoolAccount() string {
	return r.pool
}
