package vesting

import (
	"fmt"
	"math/big"
)

// CalculateInitialUnlock returns the floor of totalAmount * pct / 100.
func CalculateInitialUnlock(totalAmount *big.Int, initialUnlockPct uint64) *big.Int {
	if initialUnlockPct == 0 {
		return big.NewInt(0)
	}

	percentage := new(big.Int).SetUint64(initialUnlockPct)

	result := new(big.Int).Mul(totalAmount, percentage)
	return result.Div(result, big.NewInt(100))
}

// VestedAmount computes the cumulative amount unlocked by the schedule at the
// given timestamp, ignoring what has already been released and whether the
// schedule is revoked. It is monotonically non-decreasing in now.
//
// Before the cliff elapses only the initial unlock is vested. After the full
// duration the entire total is vested. In between, the remainder unlocks
// linearly over the post-cliff span, with partial-period remainders held back
// by floor division.
func VestedAmount(schedule *VestingSchedule, now uint64) (*big.Int, error) {
	totalAmount, err := schedule.TotalAmountInt()
	if err != nil {
		return nil, err
	}
	initialUnlock, err := schedule.InitialUnlockInt()
	if err != nil {
		return nil, err
	}

	cliffEnd := schedule.StartTime + schedule.CliffDuration
	vestingEnd := schedule.StartTime + schedule.TotalDuration

	if now < cliffEnd {
		return initialUnlock, nil
	}
	if now >= vestingEnd {
		return totalAmount, nil
	}

	elapsedSinceCliff := new(big.Int).SetUint64(now - cliffEnd)
	linearSpan := new(big.Int).SetUint64(schedule.TotalDuration - schedule.CliffDuration)

	vested := new(big.Int).Sub(totalAmount, initialUnlock)
	vested.Mul(vested, elapsedSinceCliff)
	vested.Div(vested, linearSpan)
	vested.Add(vested, initialUnlock)

	return vested, nil
}

// ReleasableAmount computes the portion of the schedule's vested tokens not
// yet released at the given timestamp. No releasable amount is defined for a
// revoked schedule.
func ReleasableAmount(schedule *VestingSchedule, now uint64) (*big.Int, error) {
	if schedule.Revoked {
		return nil, fmt.Errorf("%w: %s", ErrScheduleRevoked, schedule.ID)
	}

	vested, err := VestedAmount(schedule, now)
	if err != nil {
		return nil, err
	}

	released, err := schedule.ReleasedInt()
	if err != nil {
		return nil, err
	}

	// released <= vested is maintained by Release, so this cannot go
	// negative under correct use.
	return vested.Sub(vested, released), nil
}
