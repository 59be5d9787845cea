// Package token is the ROWA fungible-asset ledger: balance accounting,
// transfers, an owner-gated pause flag, and historical balance snapshots.
// The vesting registry consumes it through its TokenLedger boundary; all
// vesting arithmetic lives on the registry side.
package token

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rowagames/ROWA-Token/state"
)

const (
	Name     = "ROWA Token"
	Symbol   = "ROWA"
	Decimals = 5
)

const (
	balanceKeyPrefix  = "rowabalance_"
	snapshotKeyPrefix = "rowasnapshot_"
	snapshotCountKey  = "rowasnapshotcount"
	totalSupplyKey    = "rowatotalsupply"
	pausedKey         = "rowapaused"
	vestingAccountKey = "rowavestingaccount"
)

// Event names.
const (
	ContractPausedEvent   = "ContractPaused"
	ContractUnpausedEvent = "ContractUnpaused"
	SnapshotEvent         = "Snapshot"
	VestingStartedEvent   = "VestingStarted"
	TransferEvent         = "Transfer"
)

// Emitter receives named JSON event payloads after successful mutations.
type Emitter interface {
	Emit(name string, payload []byte) error
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, []byte) error { return nil }

// Token is the ROWA ledger over a durable state store. Supply is zero until
// StartVesting mints the full fixed supply to the vesting pool account.
type Token struct {
	st      state.Store
	owner   string
	address string
	emitter Emitter
	log     *zap.Logger
}

// New returns a ledger owned by owner and bound to the given token address.
func New(st state.Store, owner, address string, emitter Emitter, log *zap.Logger) (*Token, error) {
	if st == nil {
		return nil, fmt.Errorf("state store cannot be nil")
	}
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: owner cannot be empty", ErrInvalidAccount)
	}
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("token address cannot be zero")
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Token{st: st, owner: owner, address: address, emitter: emitter, log: log}, nil
}

// Address returns the ledger's bound token address.
func (t *Token) Address() string {
	return t.address
}

// Owner returns the ledger owner account.
func (t *Token) Owner() string {
	return t.owner
}

func (t *Token) requireOwner(caller string) error {
	if caller != t.owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

func (t *Token) getBalance(account string) (*big.Int, error) {
	balanceAsBytes, err := t.st.Get(balanceKeyPrefix + account)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for %s: %w", account, err)
	}

	balance := big.NewInt(0)
	if balanceAsBytes != nil {
		_, success := balance.SetString(string(balanceAsBytes), 10)
		if !success {
			return nil, fmt.Errorf("failed to parse balance for %s", account)
		}
	}

	return balance, nil
}

func (t *Token) setBalance(account string, balance *big.Int) error {
	err := t.st.Put(balanceKeyPrefix+account, []byte(balance.String()))
	if err != nil {
		return fmt.Errorf("failed to set balance for %s: %w", account, err)
	}
	return nil
}

// BalanceOf returns the current balance of the account.
func (t *Token) BalanceOf(account string) (*big.Int, error) {
	return t.getBalance(account)
}

// TotalSupply returns the minted supply; zero before StartVesting.
func (t *Token) TotalSupply() (*big.Int, error) {
	supplyAsBytes, err := t.st.Get(totalSupplyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}

	supply := big.NewInt(0)
	if supplyAsBytes != nil {
		_, success := supply.SetString(string(supplyAsBytes), 10)
		if !success {
			return nil, fmt.Errorf("failed to parse total supply")
		}
	}

	return supply, nil
}

// IsPaused reports the pause flag.
func (t *Token) IsPaused() (bool, error) {
	pausedAsBytes, err := t.st.Get(pausedKey)
	if err != nil {
		return false, fmt.Errorf("failed to get pause flag: %w", err)
	}
	return string(pausedAsBytes) == "1", nil
}

// VestingAccount returns the pool account the supply was minted to, empty
// before StartVesting.
func (t *Token) VestingAccount() (string, error) {
	accountAsBytes, err := t.st.Get(vestingAccountKey)
	if err != nil {
		return "", fmt.Errorf("failed to get vesting account: %w", err)
	}
	return string(accountAsBytes), nil
}

// StartVesting mints the full fixed supply to the vesting pool account. It
// can succeed once; the registry authorizes the caller before invoking it.
func (t *Token) StartVesting(pool string) error {
	if strings.TrimSpace(pool) == "" {
		return fmt.Errorf("%w: vesting pool cannot be empty", ErrInvalidAccount)
	}

	existing, err := t.VestingAccount()
	if err != nil {
		return err
	}
	if existing != "" {
		return ErrVestingAlreadyStarted
	}

	supply := initialSupply()
	if err := t.setBalance(pool, supply); err != nil {
		return err
	}
	if err := t.st.Put(totalSupplyKey, []byte(supply.String())); err != nil {
		return fmt.Errorf("failed to set total supply: %w", err)
	}
	if err := t.st.Put(vestingAccountKey, []byte(pool)); err != nil {
		return fmt.Errorf("failed to set vesting account: %w", err)
	}

	t.emit(VestingStartedEvent, map[string]string{"pool": pool, "supply": supply.String()})
	t.log.Info("vesting supply minted", zap.String("pool", pool), zap.String("supply", supply.String()))

	return nil
}

// Transfer moves amount from one account to another. Rejected while paused.
func (t *Token) Transfer(from, to string, amount *big.Int) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: transfer accounts cannot be empty", ErrInvalidAccount)
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive")
	}

	paused, err := t.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrTransferWhilePaused
	}

	fromBalance, err := t.getBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s", ErrInsufficientBalance, from)
	}

	toBalance, err := t.getBalance(to)
	if err != nil {
		return err
	}

	if err := t.setBalance(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	if err := t.setBalance(to, toBalance.Add(toBalance, amount)); err != nil {
		return err
	}

	t.emit(TransferEvent, map[string]string{"from": from, "to": to, "amount": amount.String()})

	return nil
}

// Pause sets the pause flag. Owner-only.
func (t *Token) Pause(caller string) error {
	if err := t.requireOwner(caller); err != nil {
		return err
	}

	paused, err := t.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrAlreadyPaused
	}

	if err := t.st.Put(pausedKey, []byte("1")); err != nil {
		return fmt.Errorf("failed to set pause flag: %w", err)
	}

	t.emit(ContractPausedEvent, map[string]string{"by": caller})
	t.log.Info("token ledger paused", zap.String("by", caller))

	return nil
}

// Unpause clears the pause flag. Owner-only.
func (t *Token) Unpause(caller string) error {
	if err := t.requireOwner(caller); err != nil {
		return err
	}

	paused, err := t.IsPaused()
	if err != nil {
		return err
	}
	if !paused {
		return ErrNotPaused
	}

	if err := t.st.Put(pausedKey, []byte("0")); err != nil {
		return fmt.Errorf("failed to clear pause flag: %w", err)
	}

	t.emit(ContractUnpausedEvent, map[string]string{"by": caller})
	t.log.Info("token ledger unpaused", zap.String("by", caller))

	return nil
}

// Snapshot records all current balances under a new snapshot id and returns
// the id. Owner-only. Snapshot ids start at 1.
func (t *Token) Snapshot(caller string) (uint64, error) {
	if err := t.requireOwner(caller); err != nil {
		return 0, err
	}

	countAsBytes, err := t.st.Get(snapshotCountKey)
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot count: %w", err)
	}
	var count uint64
	if countAsBytes != nil {
		count, err = strconv.ParseUint(string(countAsBytes), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse snapshot count: %w", err)
		}
	}
	snapshotID := count + 1

	balances, err := t.st.List(balanceKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list balances: %w", err)
	}
	for _, pair := range balances {
		account := strings.TrimPrefix(pair.Key, balanceKeyPrefix)
		snapshotKey := fmt.Sprintf("%s%d_%s", snapshotKeyPrefix, snapshotID, account)
		if err := t.st.Put(snapshotKey, pair.Value); err != nil {
			return 0, fmt.Errorf("failed to record snapshot balance for %s: %w", account, err)
		}
	}

	if err := t.st.Put(snapshotCountKey, []byte(strconv.FormatUint(snapshotID, 10))); err != nil {
		return 0, fmt.Errorf("failed to set snapshot count: %w", err)
	}

	t.emit(SnapshotEvent, map[string]string{"id": strconv.FormatUint(snapshotID, 10)})
	t.log.Info("balance snapshot taken", zap.Uint64("snapshotId", snapshotID))

	return snapshotID, nil
}

// BalanceOfAt returns the account balance recorded by the given snapshot;
// zero if the account held nothing when it was taken.
func (t *Token) BalanceOfAt(account string, snapshotID uint64) (*big.Int, error) {
	countAsBytes, err := t.st.Get(snapshotCountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot count: %w", err)
	}
	var count uint64
	if countAsBytes != nil {
		count, _ = strconv.ParseUint(string(countAsBytes), 10, 64)
	}
	if snapshotID == 0 || snapshotID > count {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotNotFound, snapshotID)
	}

	balanceAsBytes, err := t.st.Get(fmt.Sprintf("%s%d_%s", snapshotKeyPrefix, snapshotID, account))
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot balance for %s: %w", account, err)
	}

	balance := big.NewInt(0)
	if balanceAsBytes != nil {
		_, success := balance.SetString(string(balanceAsBytes), 10)
		if !success {
			return nil, fmt.Errorf("failed to parse snapshot balance for %s", account)
		}
	}

	return balance, nil
}

func (t *Token) emit(name string, payload map[string]string) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		t.log.Warn("failed to encode event", zap.String("event", name), zap.Error(err))
		return
	}
	if err := t.emitter.Emit(name, payloadJSON); err != nil {
		t.log.Warn("failed to emit event", zap.String("event", name), zap.Error(err))
	}
}

func initialSupply() *big.Int {
	supply := big.NewInt(1_000_000_000)
	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)
	return supply.Mul(supply, multiplier)
}
