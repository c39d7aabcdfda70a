// Package skill implements the two-team rating update used after a decided
// match. Each player carries a mean (mu) and an uncertainty (sigma); the
// winning team is ranked above the losing team, with no draws.
package skill

import (
	"math"
)

// Environment parameters. These match the live ladder and changing them
// shifts every delta the engine produces.
const (
	// DefaultMu is the mean a new player starts at
	DefaultMu = 1000.0

	// DefaultSigma is the uncertainty a new player starts at
	DefaultSigma = 300.0

	// Beta is the per-player performance variance
	Beta = 200.0

	// Tau is the additive dynamics factor applied each match
	Tau = 0.05
)

// Rating is one player's skill estimate
type Rating struct {
	Mu    float64
	Sigma float64
}

// NewRating returns the rating assigned to an unrated player
func NewRating() Rating {
	return Rating{Mu: DefaultMu, Sigma: DefaultSigma}
}

// Rate computes posterior ratings for a winners-over-losers team match.
// Inputs are not mutated; outputs are positionally aligned with inputs.
func Rate(winners, losers []Rating) (newWinners, newLosers []Rating) {
	// Dynamics: every sigma grows by tau before the update so ratings
	// never freeze entirely.
	winPrior := withDynamics(winners)
	losePrior := withDynamics(losers)

	var muWin, muLose, varSum float64
	for _, r := range winPrior {
		muWin += r.Mu
		varSum += r.Sigma * r.Sigma
	}
	for _, r := range losePrior {
		muLose += r.Mu
		varSum += r.Sigma * r.Sigma
	}

	n := float64(len(winPrior) + len(losePrior))
	c := math.Sqrt(varSum + n*Beta*Beta)

	t := (muWin - muLose) / c
	v := vWin(t)
	w := v * (v + t)

	newWinners = make([]Rating, len(winPrior))
	for i, r := range winPrior {
		sigma2 := r.Sigma * r.Sigma
		newWinners[i] = Rating{
			Mu:    r.Mu + sigma2/c*v,
			Sigma: math.Sqrt(sigma2 * (1 - sigma2/(c*c)*w)),
		}
	}

	newLosers = make([]Rating, len(losePrior))
	for i, r := range losePrior {
		sigma2 := r.Sigma * r.Sigma
		newLosers[i] = Rating{
			Mu:    r.Mu - sigma2/c*v,
			Sigma: math.Sqrt(sigma2 * (1 - sigma2/(c*c)*w)),
		}
	}

	return newWinners, newLosers
}

func withDynamics(ratings []Rating) []Rating {
	out := make([]Rating, len(ratings))
	for i, r := range ratings {
		out[i] = Rating{
			Mu:    r.Mu,
			Sigma: math.Sqrt(r.Sigma*r.Sigma + Tau*Tau),
		}
	}
	return out
}

// vWin is the additive truncated-gaussian correction for a win with no
// draw margin: pdf(t) / cdf(t), guarded against underflow for extreme t.
func vWin(t float64) float64 {
	denom := cdf(t)
	if denom < 1e-12 {
		return -t
	}
	return pdf(t) / denom
}

func pdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func cdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
