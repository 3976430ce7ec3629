package contract

import (
	"context"

	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/schema"
	"github.com/stretchr/testify/mock"
)

// MockHubFetcher is a mock implementation of HubFetcher for testing.
type MockHubFetcher struct {
	mock.Mock
}

var _ HubFetcher = &MockHubFetcher{} // Compile-time check

// GlobalTop implements the HubFetcher interface.
func (m *MockHubFetcher) GlobalTop(ctx context.Context, limit int, metric schema.SortMetric) hubclient.Result {
	args := m.Called(ctx, limit, metric)
	return args.Get(0).(hubclient.Result)
}

// Targeted implements the HubFetcher interface.
func (m *MockHubFetcher) Targeted(ctx context.Context, task, library string, limit int) hubclient.Result {
	args := m.Called(ctx, task, library, limit)
	return args.Get(0).(hubclient.Result)
}

var _ HubFetcher = &hubclient.Client{} // Compile-time check

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}

// GetModelStore implements the StoreManager interface.
func (m *MockStoreManager) GetModelStore() ModelStore {
	ret := m.Called()
	store, _ := ret.Get(0).(ModelStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(run schema.PipelineRun) error {
	args := m.Called(run)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(run schema.PipelineRun) error {
	args := m.Called(run)
	return args.Error(0)
}

// GetRun implements the RunStore interface.
func (m *MockRunStore) GetRun(runID string) (schema.PipelineRun, error) {
	args := m.Called(runID)
	return args.Get(0).(schema.PipelineRun), args.Error(1)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns() ([]schema.PipelineRun, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.PipelineRun)
	return runs, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockModelStore is a mock implementation of ModelStore for testing.
type MockModelStore struct {
	mock.Mock
}

var _ ModelStore = &MockModelStore{} // Compile-time check

// UpsertModel implements the ModelStore interface.
func (m *MockModelStore) UpsertModel(model schema.ModelRecord, tags []schema.ModelTag) (bool, error) {
	args := m.Called(model, tags)
	return args.Bool(0), args.Error(1)
}

// GetModel implements the ModelStore interface.
func (m *MockModelStore) GetModel(modelID string) (schema.ModelRecord, error) {
	args := m.Called(modelID)
	return args.Get(0).(schema.ModelRecord), args.Error(1)
}

// ListModels implements the ModelStore interface.
func (m *MockModelStore) ListModels() ([]schema.ModelRecord, error) {
	args := m.Called()
	models, _ := args.Get(0).([]schema.ModelRecord)
	return models, args.Error(1)
}

// ListTags implements the ModelStore interface.
func (m *MockModelStore) ListTags(modelID string) ([]schema.ModelTag, error) {
	args := m.Called(modelID)
	tags, _ := args.Get(0).([]schema.ModelTag)
	return tags, args.Error(1)
}

// SaveSnapshot implements the ModelStore interface.
func (m *MockModelStore) SaveSnapshot(snapshot schema.ModelSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

// ListSnapshots implements the ModelStore interface.
func (m *MockModelStore) ListSnapshots() ([]schema.ModelSnapshot, error) {
	args := m.Called()
	snapshots, _ := args.Get(0).([]schema.ModelSnapshot)
	return snapshots, args.Error(1)
}

// RecordPrediction implements the ModelStore interface.
func (m *MockModelStore) RecordPrediction(prediction schema.TrendPrediction) error {
	args := m.Called(prediction)
	return args.Error(0)
}

// ListPredictions implements the ModelStore interface.
func (m *MockModelStore) ListPredictions() ([]schema.TrendPrediction, error) {
	args := m.Called()
	predictions, _ := args.Get(0).([]schema.TrendPrediction)
	return predictions, args.Error(1)
}

// Close implements the ModelStore interface.
func (m *MockModelStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
