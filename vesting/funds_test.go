package vesting_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowagames/ROWA-Token/vesting"
)

func TestStartFund(t *testing.T) {
	t.Parallel()

	t.Run("owner only", func(t *testing.T) {
		t.Parallel()

		f := newStartedFixture(t)
		err := f.registry.StartVGPFund(strangerAddr)
		require.ErrorIs(t, err, vesting.ErrUnauthorized)
	})

	t.Run("requires a started program", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		err := f.registry.StartVGPFund(ownerAddr)
		require.ErrorIs(t, err, vesting.ErrProgramNotStarted)
	})

	t.Run("commits the full category cap to the configured recipient", func(t *testing.T) {
		t.Parallel()

		f := newStartedFixture(t)
		require.NoError(t, f.registry.StartVGPFund(ownerAddr))

		id, err := f.registry.LastVestingScheduleIDFor(vgpFundAddr)
		require.NoError(t, err)
		schedule, err := f.registry.GetVestingSchedule(id)
		require.NoError(t, err)

		params := vesting.VGP.Params()
		require.Equal(t, vesting.VGP.String(), schedule.Category)
		require.Equal(t, vgpFundAddr, schedule.Beneficiary)
		require.Equal(t, params.Cap.String(), schedule.TotalAmount)
		require.Equal(t, params.CliffDuration, schedule.CliffDuration)
		require.Equal(t, params.TotalDuration, schedule.TotalDuration)
		require.False(t, schedule.Revocable)

		committed, err := f.registry.GetCategoryCommittedAmount(vesting.VGP)
		require.NoError(t, err)
		require.Equal(t, params.Cap, committed)

		require.Contains(t, f.events.names, vesting.FundStartedEvent)
	})

	t.Run("second start fails and leaves counters unchanged", func(t *testing.T) {
		t.Parallel()

		f := newStartedFixture(t)
		require.NoError(t, f.registry.StartReserveFund(ownerAddr))

		before, err := f.registry.GetCategoryCommittedAmount(vesting.Reserve)
		require.NoError(t, err)

		err = f.registry.StartReserveFund(ownerAddr)
		require.ErrorIs(t, err, vesting.ErrFundAlreadyStarted)

		after, err := f.registry.GetCategoryCommittedAmount(vesting.Reserve)
		require.NoError(t, err)
		require.Equal(t, before, after)

		count, err := f.registry.GetVestingSchedulesCountByBeneficiary(resFundAddr)
		require.NoError(t, err)
		require.Equal(t, uint64(1), count)
	})

	t.Run("funds start independently", func(t *testing.T) {
		t.Parallel()

		f := newStartedFixture(t)
		require.NoError(t, f.registry.StartLPFund(ownerAddr))

		err := f.registry.StartLPFund(ownerAddr)
		require.ErrorIs(t, err, vesting.ErrFundAlreadyStarted)

		// Other funds are unaffected by the LP flag.
		require.NoError(t, f.registry.StartLiquidityFund(ownerAddr))
		require.NoError(t, f.registry.StartVGPFund(ownerAddr))
		require.NoError(t, f.registry.StartReserveFund(ownerAddr))
	})

	t.Run("liquidity fund unlocks a quarter immediately", func(t *testing.T) {
		t.Parallel()

		f := newStartedFixture(t)
		require.NoError(t, f.registry.StartLiquidityFund(ownerAddr))

		id, err := f.registry.LastVestingScheduleIDFor(liqFundAddr)
		require.NoError(t, err)

		cap := vesting.Liquidity.Params().Cap
		want := new(big.Int).Div(cap, big.NewInt(4))

		releasable, err := f.registry.ComputeReleasableAmount(id, programStart)
		require.NoError(t, err)
		require.Equal(t, want, releasable)
	})
}
