// Package scoring implements the reputation and fraud-risk scoring core.
// Both scorers are pure evaluators over caller-supplied transaction data;
// they own no storage and keep no state between calls.
package scoring

// Weights configures the account score calculator. The positive weights and
// the fraud penalty do not have to sum to 100; the final clamp to [0,100]
// is the only normalization guarantee.
type Weights struct {
	Count         float64
	Frequency     float64
	Quality       float64
	TypeDiversity float64
	Fraud         float64
	Amount        float64
}

func DefaultWeights() Weights {
	return Weights{
		Count:         25,
		Frequency:     20,
		Quality:       20,
		TypeDiversity: 10,
		Fraud:         30,
		Amount:        25,
	}
}

// AnalyzerConfig configures the transaction risk analyzer. The four signal
// weights sum to 1.0, which bounds the composite risk score in [0,1].
type AnalyzerConfig struct {
	// HighRiskThreshold is the cached receiver risk at or above which the
	// receiver_risk signal fires.
	HighRiskThreshold float64
	// AmountThreshold is the absolute amount floor below which the amount
	// anomaly check never runs, regardless of relative size.
	AmountThreshold float64
	// AmountIncreaseThreshold is the multiplier over the sender's recent
	// average above which the amount anomaly fires.
	AmountIncreaseThreshold float64
	// FraudRiskThreshold is the decision boundary: fraud iff score > threshold.
	FraudRiskThreshold float64
	// WindowDays bounds the trailing sender history window.
	WindowDays int

	ReceiverRiskWeight    float64
	AmountAnomalyWeight   float64
	LocationAnomalyWeight float64
	DeviceAnomalyWeight   float64
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		HighRiskThreshold:       0.80,
		AmountThreshold:         10000,
		AmountIncreaseThreshold: 3.0,
		FraudRiskThreshold:      0.6,
		WindowDays:              7,
		ReceiverRiskWeight:      0.3,
		AmountAnomalyWeight:     0.3,
		LocationAnomalyWeight:   0.2,
		DeviceAnomalyWeight:     0.2,
	}
}
