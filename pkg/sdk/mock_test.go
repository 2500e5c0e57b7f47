package localmaps

import (
	"context"

	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	"github.com/kailas-cloud/localmaps/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	runFn   func(ctx context.Context, req request.Request) (result.Result, error)
	placeFn func(ctx context.Context, placeID string) (place.Details, error)
}

func (m *mockSearchUC) Run(ctx context.Context, req request.Request) (result.Result, error) {
	return m.runFn(ctx, req)
}

func (m *mockSearchUC) Place(ctx context.Context, placeID string) (place.Details, error) {
	return m.placeFn(ctx, placeID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
