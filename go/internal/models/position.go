package models

// Position is a roster position tag. Players carry primitive positions only;
// leagues may also require composite positions (CI, MI) and the BEN wildcard.
type Position string

const (
	PositionCatcher       Position = "C"
	PositionFirstBase     Position = "1B"
	PositionSecondBase    Position = "2B"
	PositionShortstop     Position = "SS"
	PositionThirdBase     Position = "3B"
	PositionOutfield      Position = "OF"
	PositionStarter       Position = "SP"
	PositionReliever      Position = "RP"
	PositionUtility       Position = "UTIL"
	PositionCornerInfield Position = "CI"
	PositionMiddleInfield Position = "MI"
	PositionBench         Position = "BEN"
)

// AllPositions lists every position tag in display order.
var AllPositions = []Position{
	PositionCatcher,
	PositionFirstBase,
	PositionSecondBase,
	PositionShortstop,
	PositionThirdBase,
	PositionOutfield,
	PositionStarter,
	PositionReliever,
	PositionUtility,
	PositionCornerInfield,
	PositionMiddleInfield,
	PositionBench,
}

// ValidPosition reports whether p is a known position tag.
func ValidPosition(p Position) bool {
	for _, known := range AllPositions {
		if p == known {
			return true
		}
	}
	return false
}
