package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"plumberf/internal/app/model"
	"plumberf/internal/app/pipeline"
	"plumberf/internal/app/queue"
	"plumberf/internal/app/storage/upload"
)

// MockPipeline is a configurable pipeline.Pipeline.
type MockPipeline struct {
	mu        sync.Mutex
	drafts    map[int64]*model.LessonDraft
	errors    map[int64]error
	fallback  func() *model.LessonDraft
	latency   time.Duration
	calls     []pipeline.Input
	processed chan int64
}

// NewMockPipeline returns a pipeline producing SinkDraft for every job video.
func NewMockPipeline() *MockPipeline {
	return &MockPipeline{
		drafts:    make(map[int64]*model.LessonDraft),
		errors:    make(map[int64]error),
		fallback:  SinkDraft,
		processed: make(chan int64, 100),
	}
}

// WithDraft makes the pipeline return draft for one job video.
func (m *MockPipeline) WithDraft(jobVideoID int64, draft *model.LessonDraft) *MockPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[jobVideoID] = draft
	return m
}

// WithError makes the pipeline fail for one job video.
func (m *MockPipeline) WithError(jobVideoID int64, err error) *MockPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[jobVideoID] = err
	return m
}

// WithLatency delays every Process call.
func (m *MockPipeline) WithLatency(d time.Duration) *MockPipeline {
	m.latency = d
	return m
}

// Process implements pipeline.Pipeline.
func (m *MockPipeline) Process(ctx context.Context, in pipeline.Input) (*model.LessonDraft, error) {
	if m.latency > 0 {
		select {
		case <-time.After(m.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, in)
	err, failing := m.errors[in.JobVideoID]
	draft, ok := m.drafts[in.JobVideoID]
	m.mu.Unlock()

	defer func() { m.processed <- in.JobVideoID }()
	if failing {
		return nil, err
	}
	if !ok {
		draft = m.fallback()
	}
	return draft, nil
}

// Calls returns the inputs seen so far.
func (m *MockPipeline) Calls() []pipeline.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pipeline.Input(nil), m.calls...)
}

// WaitProcessed blocks until n Process calls have returned or timeout passes.
func (m *MockPipeline) WaitProcessed(n int, timeout time.Duration) ([]int64, error) {
	var ids []int64
	deadline := time.After(timeout)
	for len(ids) < n {
		select {
		case id := <-m.processed:
			ids = append(ids, id)
		case <-deadline:
			return ids, fmt.Errorf("processed %d of %d job videos before timeout", len(ids), n)
		}
	}
	return ids, nil
}

// MockStorage is an in-memory upload.Storage. Every upload is present unless
// marked missing.
type MockStorage struct {
	mu          sync.Mutex
	missing     map[string]bool
	allocateErr error
	confirmErr  error
	fetchErr    error
}

var _ upload.Storage = (*MockStorage)(nil)

// NewMockStorage creates a storage that confirms every upload.
func NewMockStorage() *MockStorage {
	return &MockStorage{missing: make(map[string]bool)}
}

// WithMissing makes Confirm report fileURL as absent.
func (m *MockStorage) WithMissing(fileURL string) *MockStorage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing[fileURL] = true
	return m
}

// WithConfirmError makes Confirm fail.
func (m *MockStorage) WithConfirmError(err error) *MockStorage {
	m.confirmErr = err
	return m
}

// WithAllocateError makes AllocateUploadTarget fail.
func (m *MockStorage) WithAllocateError(err error) *MockStorage {
	m.allocateErr = err
	return m
}

// WithFetchError makes Fetch fail.
func (m *MockStorage) WithFetchError(err error) *MockStorage {
	m.fetchErr = err
	return m
}

// AllocateUploadTarget implements upload.Allocator.
func (m *MockStorage) AllocateUploadTarget(ctx context.Context, jobVideoID int64, ext string) (*upload.Target, error) {
	if m.allocateErr != nil {
		return nil, m.allocateErr
	}
	key := upload.ObjectKey(jobVideoID, ext)
	return &upload.Target{URL: "mock://uploads/" + key, Method: "PUT", Key: key}, nil
}

// Confirm implements upload.Allocator.
func (m *MockStorage) Confirm(ctx context.Context, jobVideoID int64, fileURL string) (bool, error) {
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.missing[fileURL] && strings.TrimSpace(fileURL) != "", nil
}

// Fetch implements upload.Fetcher.
func (m *MockStorage) Fetch(ctx context.Context, fileURL string) (string, func(), error) {
	if m.fetchErr != nil {
		return "", nil, m.fetchErr
	}
	return fileURL, func() {}, nil
}

// ErrQueueUnavailable is returned by a FlakyQueue while it is failing.
var ErrQueueUnavailable = errors.New("queue unavailable")

// FlakyQueue wraps a queue and fails the next n enqueues.
type FlakyQueue struct {
	queue.Queue
	mu       sync.Mutex
	failures int
}

// NewFlakyQueue wraps q.
func NewFlakyQueue(q queue.Queue) *FlakyQueue {
	return &FlakyQueue{Queue: q}
}

// FailNext makes the next n Enqueue calls fail.
func (f *FlakyQueue) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = n
}

// Enqueue implements queue.Queue.
func (f *FlakyQueue) Enqueue(ctx context.Context, msg queue.Message) error {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return ErrQueueUnavailable
	}
	f.mu.Unlock()
	return f.Queue.Enqueue(ctx, msg)
}
