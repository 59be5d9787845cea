package vesting_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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
	bobAddr      = "66a7f048910156fdb28257097bcf435afdd38f06"
	strangerAddr = "77980159a21267fec393680a8dd0546bfee49017"
	programStart = uint64(1_700_000_000)
	testDay      = uint64(24 * 60 * 60)
	testWeek     = 7 * testDay
	thirtyDays   = 30 * testDay
)

type recordingEmitter struct {
	names []string
}

func (e *recordingEmitter) Emit(name string, _ []byte) error {
	e.names = append(e.names, name)
	return nil
}

type fixture struct {
	registry *vesting.Registry
	ledger   *token.Token
	store    *state.MemoryStore
	events   *recordingEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := state.NewMemoryStore()
	events := &recordingEmitter{}

	ledger, err := token.New(st, ownerAddr, tokenAddr, events, zap.NewNop())
	require.NoError(t, err)

	registry, err := vesting.NewRegistry(vesting.Options{
		State:       st,
		Token:       ledger,
		Access:      vesting.StaticOwner(ownerAddr),
		Emitter:     events,
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

	return &fixture{registry: registry, ledger: ledger, store: st, events: events}
}

func newStartedFixture(t *testing.T) *fixture {
	t.Helper()

	f := newFixture(t)
	require.NoError(t, f.registry.StartProgram(ownerAddr, programStart))
	return f
}
