package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingNotifier struct {
	mu     sync.Mutex
	alerts []FraudAlert
}

func (n *countingNotifier) Notify(alert FraudAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func TestAlertService_DeliversToNotifiers(t *testing.T) {
	notifier := &countingNotifier{}
	svc := NewAlertService([]Notifier{notifier}, 2, 0, nil)
	svc.Start()

	for i := 0; i < 5; i++ {
		if !svc.Enqueue(FraudAlert{TransactionID: "tx", CreatedAt: time.Now()}) {
			t.Fatal("enqueue failed on non-full queue")
		}
	}

	deadline := time.After(2 * time.Second)
	for notifier.count() < 5 {
		select {
		case <-deadline:
			t.Fatalf("expected 5 delivered alerts, got %d", notifier.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestAlertService_EnqueueAfterShutdownReturnsFalse(t *testing.T) {
	svc := NewAlertService(nil, 1, 0, nil)
	svc.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if svc.Enqueue(FraudAlert{TransactionID: "tx"}) {
		t.Error("enqueue must fail after shutdown")
	}
}
