package vesting

import (
	"fmt"

	"go.uber.org/zap"
)

// startFund creates the single schedule of a treasury category for its fixed
// recipient, committing the full category cap. Each fund has its own
// idempotency flag; starting one neither blocks nor enables another.
func (r *Registry) startFund(caller string, category Category, recipient string) error {
	if err := r.requireOwner(caller); err != nil {
		return err
	}

	started, err := IsFundStarted(r.st, category)
	if err != nil {
		return err
	}
	if started {
		return fmt.Errorf("%w: %s fund", ErrFundAlreadyStarted, category)
	}

	schedule, err := r.addSchedule(category, recipient, category.Params().Cap, false)
	if err != nil {
		return err
	}

	if err := SetFundStarted(r.st, category); err != nil {
		return err
	}

	if err := emitEvent(r.emitter, FundStartedEvent, FundStartedPayload{
		Category:   category.String(),
		Recipient:  recipient,
		ScheduleID: schedule.ID,
		Amount:     schedule.TotalAmount,
	}); err != nil {
		r.log.Warn("failed to emit fund started event", zap.Error(err))
	}

	r.log.Info("treasury fund started",
		zap.String("category", category.String()),
		zap.String("recipient", recipient),
		zap.String("scheduleId", schedule.ID),
	)

	return nil
}

// StartVGPFund starts the viral growth pool fund. Owner-only, once.
func (r *Registry) StartVGPFund(caller string) error {
	return r.startFund(caller, VGP, r.funds.VGP)
}

// StartLPFund starts the launchpad fund. Owner-only, once.
func (r *Registry) StartLPFund(caller string) error {
	return r.startFund(caller, LP, r.funds.LP)
}

// StartLiquidityFund starts the liquidity fund. Owner-only, once.
func (r *Registry) StartLiquidityFund(caller string) error {
	return r.startFund(caller, Liquidity, r.funds.Liquidity)
}

// StartReserveFund starts the reserve fund. Owner-only, once.
func (r *Registry) StartReserveFund(caller string) error {
	return r.startFund(caller, Reserve, r.funds.Reserve)
}
