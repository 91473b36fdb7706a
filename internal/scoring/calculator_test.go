package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishinyura/transaction-risk-service/internal/domain"
)

func makeTx(amount float64, ts time.Time, status domain.TransactionStatus, fraud bool) domain.Transaction {
	return domain.Transaction{
		SenderAccountID:   "acc-1",
		ReceiverAccountID: "acc-2",
		Amount:            decimal.NewFromFloat(amount),
		Type:              domain.TypeTransfer,
		Timestamp:         ts,
		Status:            status,
		FraudFlag:         fraud,
		Geolocation:       "Berlin",
		Device:            domain.DeviceDesktop,
	}
}

func sameDayHistory(n int, amount float64) []domain.Transaction {
	ts := time.Now()
	txs := make([]domain.Transaction, n)
	for i := range txs {
		txs[i] = makeTx(amount, ts, domain.StatusSuccess, false)
	}
	return txs
}

func TestCompute_InsufficientHistoryReturnsNeutralScore(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	assert.Equal(t, 50.0, calc.Compute(nil))
	assert.Equal(t, 50.0, calc.Compute([]domain.Transaction{}))
	assert.Equal(t, 50.0, calc.Compute(sameDayHistory(4, 100)))
}

func TestCompute_FraudRatioAboveCeilingReturnsZero(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	txs := sameDayHistory(10, 100)
	for i := 0; i < 4; i++ { // 40% flagged
		txs[i].FraudFlag = true
	}

	assert.Equal(t, 0.0, calc.Compute(txs))
}

func TestCompute_ScoreAlwaysInRange(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())
	now := time.Now()

	cases := map[string][]domain.Transaction{
		"all failed": {
			makeTx(10, now, domain.StatusFailed, false),
			makeTx(10, now, domain.StatusFailed, false),
			makeTx(10, now, domain.StatusFailed, false),
			makeTx(10, now, domain.StatusFailed, false),
			makeTx(10, now, domain.StatusFailed, false),
		},
		"huge amounts": {
			makeTx(1e9, now, domain.StatusSuccess, false),
			makeTx(1e9, now, domain.StatusSuccess, false),
			makeTx(1e9, now, domain.StatusSuccess, false),
			makeTx(1e9, now, domain.StatusSuccess, false),
			makeTx(1e9, now, domain.StatusSuccess, false),
			makeTx(1e9, now, domain.StatusSuccess, false),
		},
		"ancient history": {
			makeTx(50, now.AddDate(0, 0, -400), domain.StatusSuccess, false),
			makeTx(50, now.AddDate(0, 0, -300), domain.StatusSuccess, false),
			makeTx(50, now.AddDate(0, 0, -200), domain.StatusSuccess, false),
			makeTx(50, now.AddDate(0, 0, -100), domain.StatusSuccess, false),
			makeTx(50, now.AddDate(0, 0, -50), domain.StatusSuccess, false),
		},
		"flagged below ceiling": {
			makeTx(100, now, domain.StatusSuccess, true),
			makeTx(100, now, domain.StatusSuccess, false),
			makeTx(100, now, domain.StatusSuccess, false),
			makeTx(100, now, domain.StatusSuccess, false),
			makeTx(100, now, domain.StatusSuccess, false),
		},
	}

	for name, txs := range cases {
		score := calc.Compute(txs)
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 100.0, name)
	}
}

func TestCompute_ActiveHealthyAccountScoresAboveNeutral(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	// Six successful same-type transactions within the last day.
	txs := sameDayHistory(6, 10)
	score := calc.Compute(txs)

	assert.Greater(t, score, 50.0)
	assert.Less(t, score, 100.0)
}

func TestCompute_QualityScoreMonotonicInSuccessRatio(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())
	now := time.Now()

	prev := -1.0
	for successCount := 0; successCount <= 8; successCount++ {
		txs := make([]domain.Transaction, 8)
		for i := range txs {
			status := domain.StatusFailed
			if i < successCount {
				status = domain.StatusSuccess
			}
			txs[i] = makeTx(100, now, status, false)
		}
		quality := calc.qualityScore(txs)
		assert.GreaterOrEqual(t, quality, prev,
			"quality score decreased at success count %d", successCount)
		prev = quality
	}
}

func TestCompute_FraudPenaltySubtracted(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	clean := sameDayHistory(10, 10)
	flagged := sameDayHistory(10, 10)
	flagged[0].FraudFlag = true
	flagged[1].FraudFlag = true

	// Two of ten flagged with fraud weight 30:
	// penalty = 2 / (10 * 30/100) * 30 = 20.
	diff := calc.Compute(clean) - calc.Compute(flagged)
	assert.InDelta(t, 20.0, diff, 1e-9)
}

func TestCompute_FrequencyRewardsShorterGaps(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())
	now := time.Now()

	daily := make([]domain.Transaction, 5)
	sparse := make([]domain.Transaction, 5)
	for i := 0; i < 5; i++ {
		daily[i] = makeTx(100, now.AddDate(0, 0, -i), domain.StatusSuccess, false)
		sparse[i] = makeTx(100, now.AddDate(0, 0, -i*10), domain.StatusSuccess, false)
	}

	assert.Equal(t, 20.0, calc.frequencyScore(daily))
	assert.InDelta(t, 2.0, calc.frequencyScore(sparse), 1e-9)
}

func TestCompute_SameDayHistoryGetsFullFrequencyWeight(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	assert.Equal(t, 20.0, calc.frequencyScore(sameDayHistory(6, 100)))
}

func TestCompute_TypeDiversityClampAppliedAfterDivide(t *testing.T) {
	// With a weight below the per-transaction average the cap becomes
	// reachable, which pins down the divide-then-clamp order.
	weights := Weights{TypeDiversity: 0.5}
	calc := NewAccountScoreCalculator(weights)

	txs := sameDayHistory(5, 100) // all transfers, per-tx weight 1.0
	assert.InDelta(t, 0.5, calc.Compute(txs), 1e-9)
}

func TestCompute_UnknownTypeFallsBackToDefaultWeight(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	txs := sameDayHistory(5, 100)
	for i := range txs {
		txs[i].Type = domain.TransactionType("CardPayment")
	}

	assert.InDelta(t, 0.5, calc.typeDiversityScore(txs), 1e-9)
}

func TestCompute_RecencyFloorsVeryOldTransactions(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())
	now := time.Now()

	txs := []domain.Transaction{
		makeTx(100, now, domain.StatusSuccess, false),
		makeTx(100, now.AddDate(0, 0, -365), domain.StatusSuccess, false),
		makeTx(100, now.AddDate(0, 0, -365), domain.StatusSuccess, false),
		makeTx(100, now.AddDate(0, 0, -365), domain.StatusSuccess, false),
		makeTx(100, now.AddDate(0, 0, -365), domain.StatusSuccess, false),
	}

	// Newest weight 1.0, the four old ones floored at 0.1^2 each.
	sum := 1.0 + 4*0.01
	want := sum / 25 * 25
	assert.InDelta(t, want, calc.recencyScore(txs), 1e-9)
}

func TestCompute_AmountScoreCapsPerTransactionContribution(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	// log10(1e9+1)*2 is far above the per-transaction cap of 5.
	txs := sameDayHistory(5, 1e9)
	assert.InDelta(t, 25.0, calc.amountScore(txs), 1e-9)
}

func TestCompute_Idempotent(t *testing.T) {
	calc := NewAccountScoreCalculator(DefaultWeights())

	txs := sameDayHistory(7, 250)
	txs[2].FraudFlag = true
	first := calc.Compute(txs)
	second := calc.Compute(txs)

	require.Equal(t, first, second)
}

func TestCompute_ZeroFraudWeightWithFlaggedHistory(t *testing.T) {
	weights := DefaultWeights()
	weights.Fraud = 0
	calc := NewAccountScoreCalculator(weights)

	txs := sameDayHistory(10, 100)
	txs[0].FraudFlag = true

	score := calc.Compute(txs)

	require.False(t, math.IsNaN(score))
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}
