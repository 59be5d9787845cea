package vesting

import (
	"encoding/json"
	"fmt"
)

// Emitter receives named JSON event payloads after successful mutations.
// Emission failures never roll back a committed operation.
type Emitter interface {
	Emit(name string, payload []byte) error
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(string, []byte) error { return nil }

type ProgramStartedPayload struct {
	StartTimestamp uint64 `json:"startTimestamp"`
	PoolAccount    string `json:"poolAccount"`
}

type ScheduleCreatedPayload struct {
	ScheduleID    string `json:"scheduleId"`
	Category      string `json:"category"`
	Beneficiary   string `json:"beneficiary"`
	TotalAmount   string `json:"totalAmount"`
	StartTime     uint64 `json:"startTime"`
	CliffDuration uint64 `json:"cliffDuration"`
	TotalDuration uint64 `json:"totalDuration"`
	InitialUnlock string `json:"initialUnlock"`
	Revocable     bool   `json:"revocable"`
}

type TokensReleasedPayload struct {
	ScheduleID  string `json:"scheduleId"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

type VestingRevokedPayload struct {
	ScheduleID string `json:"scheduleId"`
	Category   string `json:"category"`
	Unvested   string `json:"unvested"`
}

type FundStartedPayload struct {
	Category   string `json:"category"`
	Recipient  string `json:"recipient"`
	ScheduleID string `json:"scheduleId"`
	Amount     string `json:"amount"`
}

func emitEvent(emitter Emitter, name string, payload any) error {
	if emitter == nil {
		return nil
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = emitter.Emit(name, payloadJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}
