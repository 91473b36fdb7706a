package scoring

import (
	"math"
	"sort"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

const (
	// Accounts with fewer transactions than this are scored at the neutral
	// value: not enough data to score confidently.
	minHistorySize = 5
	neutralScore   = 50.0

	// Recency decay window and the residual weight floor for old transactions.
	decayWindowDays = 30
	residualWeight  = 0.1

	// Accounts with more than this share of flagged transactions score zero.
	fraudRatioCeiling = 0.3

	// Per-transaction cap on the log-scaled amount contribution.
	amountContributionCap = 5.0
)

var typeWeights = map[domain.TransactionType]float64{
	domain.TypeTransfer:   1.0,
	domain.TypeDeposit:    0.9,
	domain.TypeWithdrawal: 0.8,
}

const unknownTypeWeight = 0.5

// AccountScoreCalculator derives a [0,100] reputation score from the full set
// of transactions an account participated in, as sender or receiver.
type AccountScoreCalculator struct {
	weights Weights
}

func NewAccountScoreCalculator(weights Weights) *AccountScoreCalculator {
	return &AccountScoreCalculator{weights: weights}
}

// Compute scores an account from its transaction history. It is a total
// function: degenerate inputs yield policy values, never errors. The caller
// supplies the sent+received union and must not double-count.
func (c *AccountScoreCalculator) Compute(transactions []domain.Transaction) float64 {
	if len(transactions) < minHistorySize {
		return neutralScore
	}

	total := float64(len(transactions))
	fraudCount := 0
	for _, tx := range transactions {
		if tx.FraudFlag {
			fraudCount++
		}
	}

	// Hard ceiling: heavily flagged accounts are maximally distrusted
	// regardless of every other factor.
	if float64(fraudCount)/total > fraudRatioCeiling {
		return 0
	}

	score := c.recencyScore(transactions) +
		c.frequencyScore(transactions) +
		c.qualityScore(transactions) +
		c.typeDiversityScore(transactions) +
		c.amountScore(transactions) -
		c.fraudPenalty(fraudCount, total)

	return clamp(score, 0, 100)
}

// recencyScore rewards sustained recent activity. Each transaction contributes
// a quadratically decayed weight relative to the newest transaction in the
// set, floored so very old history still counts a little.
func (c *AccountScoreCalculator) recencyScore(transactions []domain.Transaction) float64 {
	mostRecent := transactions[0].Timestamp
	for _, tx := range transactions[1:] {
		if tx.Timestamp.After(mostRecent) {
			mostRecent = tx.Timestamp
		}
	}

	var sum float64
	for _, tx := range transactions {
		ageDays := int(mostRecent.Sub(tx.Timestamp).Hours() / 24)
		base := 1 - float64(ageDays)/decayWindowDays
		if base < residualWeight {
			base = residualWeight
		}
		sum += base * base
	}

	ratio := sum / c.weights.Count
	if ratio > 1 {
		ratio = 1
	}
	return ratio * c.weights.Count
}

// frequencyScore rewards short average gaps between consecutive transactions.
func (c *AccountScoreCalculator) frequencyScore(transactions []domain.Transaction) float64 {
	if len(transactions) < 2 {
		return 0
	}

	timestamps := make([]int64, len(transactions))
	for i, tx := range transactions {
		timestamps[i] = tx.Timestamp.Unix()
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	var gapSum float64
	for i := 1; i < len(timestamps); i++ {
		gapDays := (timestamps[i] - timestamps[i-1]) / (24 * 60 * 60)
		gapSum += float64(gapDays)
	}
	avgGap := gapSum / float64(len(timestamps)-1)

	// All on the same day counts as maximum frequency.
	if avgGap == 0 {
		return c.weights.Frequency
	}
	return math.Min(1/avgGap, 1.0) * c.weights.Frequency
}

// qualityScore is linear in the share of successful transactions.
func (c *AccountScoreCalculator) qualityScore(transactions []domain.Transaction) float64 {
	successCount := 0
	for _, tx := range transactions {
		if tx.Status == domain.StatusSuccess {
			successCount++
		}
	}
	return float64(successCount) / float64(len(transactions)) * c.weights.Quality
}

// typeDiversityScore averages per-type weights over the history. The cap is
// compared against the post-divide average, not the raw sum.
func (c *AccountScoreCalculator) typeDiversityScore(transactions []domain.Transaction) float64 {
	var sum float64
	for _, tx := range transactions {
		if w, ok := typeWeights[tx.Type]; ok {
			sum += w
		} else {
			sum += unknownTypeWeight
		}
	}
	avg := sum / float64(len(transactions))
	return math.Min(avg, c.weights.TypeDiversity)
}

// amountScore sums log-scaled contributions of successful transactions, with
// diminishing returns per transaction and a cap on the total.
func (c *AccountScoreCalculator) amountScore(transactions []domain.Transaction) float64 {
	var sum float64
	for _, tx := range transactions {
		if tx.Status != domain.StatusSuccess {
			continue
		}
		amount, _ := tx.Amount.Float64()
		sum += math.Min(math.Log10(amount+1)*2, amountContributionCap)
	}
	return math.Min(sum, c.weights.Amount)
}

// fraudPenalty is subtracted from the combined score. The >30% hard zero is
// handled before the weighted sum; this covers the remaining flagged share.
func (c *AccountScoreCalculator) fraudPenalty(fraudCount int, total float64) float64 {
	if fraudCount == 0 || c.weights.Fraud == 0 {
		return 0
	}
	penalty := float64(fraudCount) / (total * c.weights.Fraud / 100) * c.weights.Fraud
	return math.Min(penalty, c.weights.Fraud)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
