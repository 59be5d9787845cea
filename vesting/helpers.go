package vesting

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
)

const hexAddressRegex = `^[0-9a-fA-F]{40}$`

// ComputeVestingScheduleID derives the deterministic schedule id from the
// beneficiary and its per-beneficiary sequence index. The id is stable and
// recomputable without a storage lookup.
func ComputeVestingScheduleID(beneficiary string, index uint64) string {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", beneficiary, index)))
	return hex.EncodeToString(digest[:])
}

// IsUserAddressValid reports whether the address is a 20-byte hex account
// identifier.
func IsUserAddressValid(address string) bool {
	if address == "" {
		return false
	}

	isValid, _ := regexp.MatchString(hexAddressRegex, address)
	return isValid
}

// ConvertRowaToUnits renders a whole-ROWA amount as integer token units.
func ConvertRowaToUnits(rowaAmount uint64) string {
	return rowa(rowaAmount).String()
}

// Decimals returns the ROWA token decimal places.
func Decimals() uint64 {
	return TokenDecimals
}

func amountIsPositive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}
