package token

import "errors"

var (
	ErrUnauthorized          = errors.New("caller is not the owner")
	ErrTransferWhilePaused   = errors.New("token transfer while paused")
	ErrAlreadyPaused         = errors.New("contract is already paused")
	ErrNotPaused             = errors.New("contract is not paused")
	ErrVestingAlreadyStarted = errors.New("vesting already started")
	ErrInvalidAccount        = errors.New("invalid account address")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrSnapshotNotFound      = errors.New("snapshot does not exist")
)
