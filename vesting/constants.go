package vesting

import "math/big"

const (
	// TokenDecimals is the number of decimal places of the ROWA token; all
	// amounts in state are integer token units (ROWA * 10^5) rendered as
	// decimal strings.
	TokenDecimals = 5

	// TotalSupplyRowa is the fixed ROWA supply the vesting program distributes.
	TotalSupplyRowa = 1_000_000_000

	day = 24 * 60 * 60
)

// State key prefixes. One logical record per key, JSON or decimal-string
// encoded.
const (
	scheduleKeyPrefix       = "vestingschedule_"
	holderVestingsKeyPrefix = "holdervestings_"
	categoryCommittedPrefix = "categorycommitted_"
	totalCommittedKey       = "totalcommitted"
	categoryReleasedPrefix  = "categoryreleased_"
	totalReleasedKey        = "totalreleased"
	programStartKey         = "programstart"
	fundStartedKeyPrefix    = "fundstarted_"
)

// Event names.
const (
	ProgramStartedEvent         = "ProgramStarted"
	VestingScheduleCreatedEvent = "VestingScheduleCreated"
	TokensReleasedEvent         = "TokensReleased"
	VestingRevokedEvent         = "VestingRevoked"
	FundStartedEvent            = "FundStarted"
)

// Category is one of the fixed funding buckets of the vesting program.
type Category int

const (
	PublicSale Category = iota
	PrivateSale
	SeedSale
	Team
	Advisor
	Partnerships
	VGP
	LP
	Liquidity
	Reserve
)

func (c Category) String() string {
	return [...]string{
		"PublicSale",
		"PrivateSale",
		"SeedSale",
		"Team",
		"Advisor",
		"Partnerships",
		"VGP",
		"LP",
		"Liquidity",
		"Reserve",
	}[c]
}

// Categories lists every funding bucket in declaration order.
func Categories() []Category {
	return []Category{
		PublicSale, PrivateSale, SeedSale, Team, Advisor,
		Partnerships, VGP, LP, Liquidity, Reserve,
	}
}

// ParseCategory maps a category name back to its Category value.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, ErrInvalidCategory(name)
}

// CategoryParams fixes the unlock curve and allocation cap of one category.
// Every category shares the single schedule shape (initial unlock + cliff +
// linear ramp); they differ only in these magnitudes.
type CategoryParams struct {
	// Cap is the hard limit on the sum of schedule totals in this category.
	Cap *big.Int
	// InitialUnlockPct is the percentage of a schedule's total that is
	// releasable immediately at program start, with no cliff wait.
	InitialUnlockPct uint64
	// CliffDuration and TotalDuration are in seconds from program start.
	// TotalDuration includes the cliff.
	CliffDuration uint64
	TotalDuration uint64
	// RevocableFlag marks categories whose create entry point lets the
	// caller choose revocability. All other categories are never revocable.
	RevocableFlag bool
	// SingleShot marks treasury categories created exactly once through
	// their fund initializer, never through a create entry point.
	SingleShot bool
}

// Params returns the fixed configuration of the category.
func (c Category) Params() CategoryParams {
	switch c {
	case PublicSale:
		return CategoryParams{Cap: rowa(20_000_000), InitialUnlockPct: 25, CliffDuration: 30 * day, TotalDuration: 150 * day}
	case PrivateSale:
		return CategoryParams{Cap: rowa(80_000_000), InitialUnlockPct: 10, CliffDuration: 90 * day, TotalDuration: 360 * day}
	case SeedSale:
		return CategoryParams{Cap: rowa(50_000_000), InitialUnlockPct: 5, CliffDuration: 180 * day, TotalDuration: 540 * day}
	case Team:
		return CategoryParams{Cap: rowa(150_000_000), CliffDuration: 360 * day, TotalDuration: 1080 * day, RevocableFlag: true}
	case Advisor:
		return CategoryParams{Cap: rowa(50_000_000), CliffDuration: 180 * day, TotalDuration: 720 * day, RevocableFlag: true}
	case Partnerships:
		return CategoryParams{Cap: rowa(100_000_000), CliffDuration: 90 * day, TotalDuration: 720 * day, RevocableFlag: true}
	case VGP:
		return CategoryParams{Cap: rowa(200_000_000), TotalDuration: 1800 * day, SingleShot: true}
	case LP:
		return CategoryParams{Cap: rowa(50_000_000), TotalDuration: 360 * day, SingleShot: true}
	case Liquidity:
		return CategoryParams{Cap: rowa(100_000_000), InitialUnlockPct: 25, TotalDuration: 180 * day, SingleShot: true}
	case Reserve:
		return CategoryParams{Cap: rowa(200_000_000), CliffDuration: 180 * day, TotalDuration: 1440 * day, SingleShot: true}
	}
	return CategoryParams{}
}

// TotalSupplyCap is the global cap on committed allocations, in token units.
func TotalSupplyCap() *big.Int {
	return rowa(TotalSupplyRowa)
}

func rowa(amount uint64) *big.Int {
	units := new(big.Int).SetUint64(amount)
	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
	return units.Mul(units, multiplier)
}
