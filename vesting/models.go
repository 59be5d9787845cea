package vesting

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/rowagames/ROWA-Token/state"
)

// VestingSchedule is one beneficiary's time-based unlock program for a fixed
// token amount. Identity fields are fixed at creation; only Released and
// Revoked are ever mutated, and only by the registry.
type VestingSchedule struct {
	ID            string `json:"id"`
	Beneficiary   string `json:"beneficiary"`
	Category      string `json:"category"`
	Index         uint64 `json:"index"`
	TotalAmount   string `json:"totalAmount"`
	StartTime     uint64 `json:"startTime"`
	CliffDuration uint64 `json:"cliffDuration"`
	TotalDuration uint64 `json:"totalDuration"`
	InitialUnlock string `json:"initialUnlock"`
	Revocable     bool   `json:"revocable"`
	Released      string `json:"released"`
	Revoked       bool   `json:"revoked"`
}

func parseAmount(entity, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, ErrInvalidAmount(entity, value)
	}
	return amount, nil
}

// TotalAmountInt parses the schedule's total amount.
func (v *VestingSchedule) TotalAmountInt() (*big.Int, error) {
	return parseAmount("totalAmount", v.TotalAmount)
}

// InitialUnlockInt parses the schedule's initial unlock amount.
func (v *VestingSchedule) InitialUnlockInt() (*big.Int, error) {
	return parseAmount("initialUnlock", v.InitialUnlock)
}

// ReleasedInt parses the schedule's released counter.
func (v *VestingSchedule) ReleasedInt() (*big.Int, error) {
	return parseAmount("released", v.Released)
}

func GetVestingSchedule(st state.Store, scheduleID string) (*VestingSchedule, error) {
	scheduleKey := scheduleKeyPrefix + scheduleID
	scheduleAsBytes, err := st.Get(scheduleKey)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to get schedule with key %s", scheduleKey), err)
	}
	if scheduleAsBytes == nil {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, scheduleID)
	}

	var schedule VestingSchedule
	err = json.Unmarshal(scheduleAsBytes, &schedule)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, "failed to unmarshal schedule", err)
	}

	return &schedule, nil
}

func SetVestingSchedule(st state.Store, schedule *VestingSchedule) error {
	scheduleKey := scheduleKeyPrefix + schedule.ID
	scheduleAsBytes, err := json.Marshal(schedule)
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, "failed to marshal schedule", err)
	}

	err = st.Put(scheduleKey, scheduleAsBytes)
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, "failed to set schedule", err)
	}

	return nil
}

// GetHolderVestings returns the schedule ids of the beneficiary in insertion
// order; an empty list if none exist yet.
func GetHolderVestings(st state.Store, beneficiary string) ([]string, error) {
	holderKey := holderVestingsKeyPrefix + beneficiary
	holderJSON, err := st.Get(holderKey)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to get holder vestings for %s", holderKey), err)
	}
	if holderJSON == nil {
		return []string{}, nil
	}

	var scheduleIDs []string
	err = json.Unmarshal(holderJSON, &scheduleIDs)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to unmarshal holder vestings for %s", holderKey), err)
	}

	return scheduleIDs, nil
}

func SetHolderVestings(st state.Store, beneficiary string, scheduleIDs []string) error {
	holderJSON, err := json.Marshal(scheduleIDs)
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to marshal holder vestings for %s", beneficiary), err)
	}

	err = st.Put(holderVestingsKeyPrefix+beneficiary, holderJSON)
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to set holder vestings for %s", beneficiary), err)
	}

	return nil
}

func getCounter(st state.Store, counterKey string) (*big.Int, error) {
	counterAsBytes, err := st.Get(counterKey)
	if err != nil {
		return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to get counter with key %s", counterKey), err)
	}

	counter := big.NewInt(0)
	if counterAsBytes != nil {
		_, success := counter.SetString(string(counterAsBytes), 10)
		if !success {
			return nil, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to parse counter with key %s", counterKey), nil)
		}
	}

	return counter, nil
}

func setCounter(st state.Store, counterKey string, counter *big.Int) error {
	err := st.Put(counterKey, []byte(counter.String()))
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to set counter with key %s", counterKey), err)
	}
	return nil
}

// GetCategoryCommitted returns the cumulative amount committed against the
// category's cap; zero if nothing has been committed yet.
func GetCategoryCommitted(st state.Store, category Category) (*big.Int, error) {
	return getCounter(st, categoryCommittedPrefix+category.String())
}

func SetCategoryCommitted(st state.Store, category Category, committed *big.Int) error {
	return setCounter(st, categoryCommittedPrefix+category.String(), committed)
}

// GetTotalCommitted returns the grand-total committed amount across all
// schedules.
func GetTotalCommitted(st state.Store) (*big.Int, error) {
	return getCounter(st, totalCommittedKey)
}

func SetTotalCommitted(st state.Store, committed *big.Int) error {
	return setCounter(st, totalCommittedKey, committed)
}

// GetProgramStart returns the recorded program start timestamp, with started
// false if the program has not been started.
func GetProgramStart(st state.Store) (uint64, bool, error) {
	startAsBytes, err := st.Get(programStartKey)
	if err != nil {
		return 0, false, NewCustomError(http.StatusInternalServerError, "failed to get program start", err)
	}
	if startAsBytes == nil {
		return 0, false, nil
	}

	startTimestamp, err := strconv.ParseUint(string(startAsBytes), 10, 64)
	if err != nil {
		return 0, false, NewCustomError(http.StatusInternalServerError, "failed to parse program start", err)
	}

	return startTimestamp, true, nil
}

func SetProgramStart(st state.Store, startTimestamp uint64) error {
	err := st.Put(programStartKey, []byte(strconv.FormatUint(startTimestamp, 10)))
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, "failed to set program start", err)
	}
	return nil
}

// IsFundStarted reports whether the single-shot fund of the category has been
// started.
func IsFundStarted(st state.Store, category Category) (bool, error) {
	flagAsBytes, err := st.Get(fundStartedKeyPrefix + category.String())
	if err != nil {
		return false, NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to get fund flag for %s", category), err)
	}
	return flagAsBytes != nil, nil
}

func SetFundStarted(st state.Store, category Category) error {
	err := st.Put(fundStartedKeyPrefix+category.String(), []byte("1"))
	if err != nil {
		return NewCustomError(http.StatusInternalServerError, fmt.Sprintf("failed to set fund flag for %s", category), err)
	}
	return nil
}
