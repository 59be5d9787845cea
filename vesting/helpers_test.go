package vesting_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowagames/ROWA-Token/vesting"
)

func TestComputeVestingScheduleID(t *testing.T) {
	t.Parallel()

	id := vesting.ComputeVestingScheduleID(aliceAddr, 0)
	require.Len(t, id, 64)
	require.Equal(t, id, vesting.ComputeVestingScheduleID(aliceAddr, 0))

	require.NotEqual(t, id, vesting.ComputeVestingScheduleID(aliceAddr, 1))
	require.NotEqual(t, id, vesting.ComputeVestingScheduleID(bobAddr, 0))
}

func TestIsUserAddressValid(t *testing.T) {
	t.Parallel()

	valid := []string{
		ownerAddr,
		"0000000000000000000000000000000000000000",
		"ABCDEF0123456789abcdef0123456789ABCDEF01",
	}
	for _, addr := range valid {
		require.True(t, vesting.IsUserAddressValid(addr), addr)
	}

	invalid := []string{
		"",
		"0x" + ownerAddr,
		ownerAddr[:39],
		ownerAddr + "0",
		"zz87970433b22494faff1cc7a819e71bddc7880c",
	}
	for _, addr := range invalid {
		require.False(t, vesting.IsUserAddressValid(addr), addr)
	}
}

func TestConvertRowaToUnits(t *testing.T) {
	t.Parallel()

	require.Equal(t, "100000", vesting.ConvertRowaToUnits(1))
	require.Equal(t, "0", vesting.ConvertRowaToUnits(0))
	require.Equal(t, new(big.Int).Mul(big.NewInt(1_000_000_000), big.NewInt(100000)), vesting.TotalSupplyCap())
}

func TestCategoryParsing(t *testing.T) {
	t.Parallel()

	for _, category := range vesting.Categories() {
		parsed, err := vesting.ParseCategory(category.String())
		require.NoError(t, err)
		require.Equal(t, category, parsed)
	}

	_, err := vesting.ParseCategory("NoSuchCategory")
	require.Error(t, err)
}

func TestCategoryCapsCoverTheSupply(t *testing.T) {
	t.Parallel()

	sum := new(big.Int)
	for _, category := range vesting.Categories() {
		sum.Add(sum, category.Params().Cap)
	}
	require.Equal(t, vesting.TotalSupplyCap(), sum)
}
