package leaderboard

import (
	"math"

	"github.com/bryanwahyu/sandai/src/domain/roster"
)

const (
	baseDelta       = 5
	fastWinTurns    = 50
	fastWinDivisor  = 5
	balanceBonusMax = 10
)

// TeamPower sums max hp, attack, defense and speed across units.
func TeamPower(units []roster.Unit) int {
	total := 0
	for _, u := range units {
		total += u.Stats.Total()
	}
	return total
}

// RatingDelta rewards short battles and evenly matched teams:
//
//	round(5 + max(0, (50-turns)/5) + (1 - min(1, |a-b| / ((a+b)/2))) * 10)
//
// Two powerless teams count as perfectly balanced. Rounding is half to even.
func RatingDelta(totalTurns, powerA, powerB int) int {
	speed := math.Max(0, float64(fastWinTurns-totalTurns)/fastWinDivisor)

	imbalance := 0.0
	if sum := powerA + powerB; sum > 0 {
		mean := float64(sum) / 2
		imbalance = math.Min(1, math.Abs(float64(powerA-powerB))/mean)
	}
	balance := (1 - imbalance) * balanceBonusMax

	return int(math.RoundToEven(baseDelta + speed + balance))
}
