package vesting_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowagames/ROWA-Token/vesting"
)

func cliffSchedule() *vesting.VestingSchedule {
	// 10000 total, 500 unlocked immediately, 10 week cliff, 22 week
	// duration, so the remaining 9500 unlock linearly over 12 weeks.
	return &vesting.VestingSchedule{
		ID:            vesting.ComputeVestingScheduleID(aliceAddr, 0),
		Beneficiary:   aliceAddr,
		Category:      vesting.SeedSale.String(),
		TotalAmount:   "10000",
		StartTime:     programStart,
		CliffDuration: 10 * testWeek,
		TotalDuration: 22 * testWeek,
		InitialUnlock: "500",
		Released:      "0",
	}
}

func TestVestedAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		now      uint64
		expected int64
	}{
		{name: "at start only the initial unlock is vested", now: programStart, expected: 500},
		{name: "mid cliff only the initial unlock is vested", now: programStart + 5*testWeek, expected: 500},
		{name: "cliff boundary has no linear time elapsed", now: programStart + 10*testWeek, expected: 500},
		{name: "six weeks into the twelve week linear span", now: programStart + 16*testWeek, expected: 500 + 4750},
		{name: "fully vested at total duration", now: programStart + 22*testWeek, expected: 10000},
		{name: "fully vested beyond total duration", now: programStart + 40*testWeek, expected: 10000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vested, err := vesting.VestedAmount(cliffSchedule(), tt.now)
			require.NoError(t, err)
			require.Equal(t, big.NewInt(tt.expected), vested)
		})
	}
}

func TestVestedAmountIsMonotonic(t *testing.T) {
	t.Parallel()

	schedule := cliffSchedule()
	previous := big.NewInt(-1)
	for now := programStart; now <= programStart+25*testWeek; now += testDay {
		vested, err := vesting.VestedAmount(schedule, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, vested.Cmp(previous), 0, "vested amount decreased at %d", now)
		previous = vested
	}
}

func TestVestedAmountFloorsPartialPeriods(t *testing.T) {
	t.Parallel()

	schedule := cliffSchedule()

	// One second past the cliff, 9500 * 1s / 12 weeks floors to zero: no
	// partial unit is released early.
	vested, err := vesting.VestedAmount(schedule, programStart+10*testWeek+1)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(500), vested)

	// The first unit of the 9500 remainder unlocks 764 seconds past the
	// cliff (12 weeks / 9500 rounds up to 764); the fractional excess is
	// floored away.
	vested, err = vesting.VestedAmount(schedule, programStart+10*testWeek+12*testWeek/9500+1)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(501), vested)
}

func TestReleasableAmountZeroWithoutInitialUnlock(t *testing.T) {
	t.Parallel()

	schedule := cliffSchedule()
	schedule.InitialUnlock = "0"

	releasable, err := vesting.ReleasableAmount(schedule, programStart+9*testWeek)
	require.NoError(t, err)
	require.Zero(t, releasable.Sign())
}

func TestReleasableAmountSubtractsReleased(t *testing.T) {
	t.Parallel()

	schedule := cliffSchedule()
	schedule.Released = "400"

	releasable, err := vesting.ReleasableAmount(schedule, programStart)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100), releasable)

	releasable, err = vesting.ReleasableAmount(schedule, programStart+22*testWeek)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(9600), releasable)
}

func TestReleasableAmountRevoked(t *testing.T) {
	t.Parallel()

	schedule := cliffSchedule()
	schedule.Revoked = true

	_, err := vesting.ReleasableAmount(schedule, programStart+22*testWeek)
	require.ErrorIs(t, err, vesting.ErrScheduleRevoked)
}

func TestCalculateInitialUnlock(t *testing.T) {
	t.Parallel()

	require.Equal(t, big.NewInt(0), vesting.CalculateInitialUnlock(big.NewInt(10000), 0))
	require.Equal(t, big.NewInt(2500), vesting.CalculateInitialUnlock(big.NewInt(10000), 25))
	require.Equal(t, big.NewInt(49), vesting.CalculateInitialUnlock(big.NewInt(999), 5))
}
