package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/classification"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

type mockClassifier struct {
	calls int
	res   classification.Result
	err   error
}

func (m *mockClassifier) Classify(_ context.Context, _ string, _ []place.Candidate) (classification.Result, error) {
	m.calls++
	return m.res, m.err
}

type mockChecker struct{ err error }

func (m *mockChecker) Check(_ context.Context) error { return m.err }

func TestBudgetedClassifier_Delegates(t *testing.T) {
	inner := &mockClassifier{res: classification.NewResult(0, 2)}
	c := NewBudgetedClassifier(inner, &mockChecker{})

	res, err := c.Classify(context.Background(), "coffee", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if res.Len() != 2 {
		t.Errorf("expected 2 accepted, got %d", res.Len())
	}
}

func TestBudgetedClassifier_ExhaustedIsUnavailable(t *testing.T) {
	inner := &mockClassifier{}
	c := NewBudgetedClassifier(inner, &mockChecker{err: domain.ErrBudgetExhausted})

	_, err := c.Classify(context.Background(), "coffee", nil)
	if !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Errorf("expected ErrClassifierUnavailable, got %v", err)
	}
	if !errors.Is(err, domain.ErrBudgetExhausted) {
		t.Errorf("expected ErrBudgetExhausted in chain, got %v", err)
	}
	if inner.calls != 0 {
		t.Errorf("inner classifier must not be called, got %d calls", inner.calls)
	}
}

func TestBudgetedClassifier_InnerErrorPassesThrough(t *testing.T) {
	inner := &mockClassifier{err: domain.ErrClassifierUnavailable}
	c := NewBudgetedClassifier(inner, &mockChecker{})

	if _, err := c.Classify(context.Background(), "coffee", nil); !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Errorf("expected ErrClassifierUnavailable, got %v", err)
	}
}
