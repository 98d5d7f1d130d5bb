//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/adapter"
	"repolingo/internal/domain/ports/repository"
)

// -----------------------------
// Scoped transaction manager
// -----------------------------

type scopeMarker struct{}

// mockTxManager reproduces the ambient-scope contract in memory: RunScoped
// plants a marker, Transaction and the repos below refuse to run without it.
type mockTxManager struct {
	mu           sync.Mutex
	Transactions int
}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func scoped(ctx context.Context) bool {
	return ctx.Value(scopeMarker{}) != nil
}

func (m *mockTxManager) RunScoped(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, scopeMarker{}, true))
}

func (m *mockTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !scoped(ctx) {
		return domain.ErrNoTxScope
	}
	m.mu.Lock()
	m.Transactions++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *mockTxManager) ActiveHandle(ctx context.Context) (repository.Querier, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	return nil, nil
}

// -----------------------------
// In-memory activity repository
// -----------------------------

type memActivityRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Activity
	// watched[userID] is the set of source ids the user watches
	watched map[string]map[string]bool

	// optional error hooks
	errMarkProcessing error
	errMarkFailed     error
	errMarkCompleted  error
	errMarkQueued     error
}

var _ repository.ActivityRepository = (*memActivityRepo)(nil)

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{
		byID:    map[string]*model.Activity{},
		watched: map[string]map[string]bool{},
	}
}

func (m *memActivityRepo) put(a *model.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.byID[a.ID] = &cp
}

func (m *memActivityRepo) watch(userID, sourceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watched[userID] == nil {
		m.watched[userID] = map[string]bool{}
	}
	m.watched[userID][sourceID] = true
}

func (m *memActivityRepo) get(id string) *model.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.byID[id]; a != nil {
		cp := *a
		return &cp
	}
	return nil
}

func (m *memActivityRepo) Save(ctx context.Context, a *model.Activity) error {
	if !scoped(ctx) {
		return domain.ErrNoTxScope
	}
	m.put(a)
	return nil
}

func (m *memActivityRepo) FindByID(ctx context.Context, activityID string) (*model.Activity, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	if a := m.get(activityID); a != nil {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memActivityRepo) FindForUser(ctx context.Context, userID, activityID string) (*model.Activity, error) {
	a, err := m.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	ok := m.watched[userID][a.SourceID]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *memActivityRepo) MarkQueued(ctx context.Context, activityID string, requestedAt time.Time, messageID string) (*model.Activity, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	if m.errMarkQueued != nil {
		return nil, m.errMarkQueued
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[activityID]
	if a == nil {
		return nil, domain.ErrNotFound
	}
	a.TranslationStatus = model.TranslationQueued
	a.StatusDetail = ""
	a.TranslationRequestedAt = &requestedAt
	a.TranslationStartedAt = nil
	a.TranslationCompletedAt = nil
	a.TranslationMessageID = &messageID
	cp := *a
	return &cp, nil
}

func (m *memActivityRepo) MarkProcessing(ctx context.Context, activityID string, startedAt time.Time, messageID string) (*model.Activity, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	if m.errMarkProcessing != nil {
		return nil, m.errMarkProcessing
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[activityID]
	if a == nil {
		return nil, domain.ErrNotFound
	}
	a.TranslationStatus = model.TranslationProcessing
	a.TranslationStartedAt = &startedAt
	a.TranslationMessageID = &messageID
	cp := *a
	return &cp, nil
}

func (m *memActivityRepo) MarkCompleted(ctx context.Context, activityID, translatedBody string, completedAt time.Time) (*model.Activity, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	if m.errMarkCompleted != nil {
		return nil, m.errMarkCompleted
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[activityID]
	if a == nil {
		return nil, domain.ErrNotFound
	}
	a.TranslationStatus = model.TranslationCompleted
	a.StatusDetail = ""
	a.TranslatedBody = &translatedBody
	a.TranslationCompletedAt = &completedAt
	cp := *a
	return &cp, nil
}

func (m *memActivityRepo) MarkFailed(ctx context.Context, activityID string, completedAt time.Time, statusDetail string) (*model.Activity, error) {
	if !scoped(ctx) {
		return nil, domain.ErrNoTxScope
	}
	if m.errMarkFailed != nil {
		return nil, m.errMarkFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[activityID]
	if a == nil {
		return nil, domain.ErrNotFound
	}
	a.TranslationStatus = model.TranslationFailed
	a.StatusDetail = statusDetail
	a.TranslatedBody = nil
	a.TranslationCompletedAt = &completedAt
	cp := *a
	return &cp, nil
}

// -----------------------------
// In-memory watch repository
// -----------------------------

type memWatchRepo struct {
	mu    sync.Mutex
	chats map[string][]int64 // sourceID -> chat ids
	err   error
}

var _ repository.WatchRepository = (*memWatchRepo)(nil)

func newMemWatchRepo() *memWatchRepo {
	return &memWatchRepo{chats: map[string][]int64{}}
}

func (m *memWatchRepo) Save(ctx context.Context, w *model.Watch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ChatID != 0 {
		m.chats[w.SourceID] = append(m.chats[w.SourceID], w.ChatID)
	}
	return nil
}

func (m *memWatchRepo) WatcherChats(ctx context.Context, sourceID string) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.chats[sourceID]...), nil
}

// -----------------------------
// Queue / provider / notifier mocks
// -----------------------------

type mockQueue struct {
	mu          sync.Mutex
	Enqueued    []adapter.TranslationJob
	EnqueueFunc func(ctx context.Context, job adapter.TranslationJob) (string, error)
}

var _ adapter.JobQueue = (*mockQueue)(nil)

func (m *mockQueue) Enqueue(ctx context.Context, job adapter.TranslationJob) (string, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, job)
	return fmt.Sprintf("msg-%d", len(m.Enqueued)), nil
}

func (m *mockQueue) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Enqueued)
}

type mockProvider struct {
	mu            sync.Mutex
	Calls         []string // target languages per call
	TranslateFunc func(ctx context.Context, body, lang string) (string, error)
}

var _ adapter.TranslationProvider = (*mockProvider)(nil)

func (m *mockProvider) Translate(ctx context.Context, body, lang string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, lang)
	m.mu.Unlock()
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, body, lang)
	}
	return "translated: " + body, nil
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type mockNotifier struct {
	mu       sync.Mutex
	Notified []int64
}

var _ adapter.WatcherNotifier = (*mockNotifier)(nil)

func (m *mockNotifier) NotifyTranslated(ctx context.Context, chatID int64, a *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, chatID)
	return nil
}
