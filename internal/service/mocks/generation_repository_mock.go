package mocks

import (
	"context"

	"repurpose-server/internal/interfaces"
	"repurpose-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockGenerationRepository is a mock type for the GenerationRepository type
type MockGenerationRepository struct {
	mock.Mock
}

// CreateGeneration provides a mock function with given fields: ctx, generation
func (_m *MockGenerationRepository) CreateGeneration(ctx context.Context, generation *models.Generation) error {
	ret := _m.Called(ctx, generation)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *models.Generation) error); ok {
		r0 = rf(ctx, generation)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListGenerationsByUser provides a mock function with given fields: ctx, userID
func (_m *MockGenerationRepository) ListGenerationsByUser(ctx context.Context, userID int64) ([]models.Generation, error) {
	ret := _m.Called(ctx, userID)

	var r0 []models.Generation
	if rf, ok := ret.Get(0).(func(context.Context, int64) []models.Generation); ok {
		r0 = rf(ctx, userID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.Generation)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGenerationRepository creates a new instance of MockGenerationRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockGenerationRepository(t interface {
	mock.TestingT
	Helper()
}) *MockGenerationRepository {
	m := &MockGenerationRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.GenerationRepository = (*MockGenerationRepository)(nil)
