// Package odds computes the chance that opening today's door awards a
// prize. The pacing is expected-value based: if prizes and days depleted in
// lockstep, the draw rate would stay exactly on track.
package odds

import "time"

// FinalDay is the last openable door of the calendar.
const FinalDay = 24

// RepeatWinnerFactor dampens the odds for users who have already won once.
// A flat anti-hoarding rule, deliberately not proportional fairness.
const RepeatWinnerFactor = 0.1

// Probability returns the win probability for a single door open.
// Zero when no prizes or no days remain. Values above 1 are passed through
// unclamped; the caller's uniform draw saturates at "always wins".
func Probability(remainingPrizes, remainingDays int, hasWonBefore bool) float64 {
	if remainingPrizes <= 0 || remainingDays <= 0 {
		return 0
	}
	p := float64(remainingPrizes) / float64(remainingDays)
	if hasWonBefore {
		p *= RepeatWinnerFactor
	}
	return p
}

// RemainingDays counts the eligible days from today through the final door,
// today included. Outside December, or past the final day, it is zero.
func RemainingDays(today time.Time) int {
	if today.Month() != time.December || today.Day() > FinalDay {
		return 0
	}
	return FinalDay - today.Day() + 1
}
