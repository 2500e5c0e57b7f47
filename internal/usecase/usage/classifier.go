package usage

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/classification"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/logger"
)

type classifier interface {
	Classify(ctx context.Context, query string, candidates []place.Candidate) (classification.Result, error)
}

// BudgetedClassifier skips the inner classifier once the token budget is spent.
// A skipped call reports domain.ErrClassifierUnavailable, so searches fall back
// to the unfiltered candidates. Token spend is recorded by the inner classifier.
type BudgetedClassifier struct {
	inner  classifier
	budget BudgetChecker
}

// NewBudgetedClassifier wraps inner with a budget gate.
func NewBudgetedClassifier(inner classifier, budget BudgetChecker) *BudgetedClassifier {
	return &BudgetedClassifier{inner: inner, budget: budget}
}

// Classify checks the budget, then delegates.
func (c *BudgetedClassifier) Classify(
	ctx context.Context, query string, candidates []place.Candidate,
) (classification.Result, error) {
	if err := c.budget.Check(ctx); err != nil {
		logger.FromContext(ctx).Warn("Classifier skipped: token budget exhausted")
		return classification.Result{}, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}
	return c.inner.Classify(ctx, query, candidates)
}
