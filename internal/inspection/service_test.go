package inspection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]models.InspectionSession
	upserts   int
	gets      int
	upsertErr error
	getErr    error
}

func newMockStore() *mockStore {
	return &mockStore{sessions: make(map[uuid.UUID]models.InspectionSession)}
}

func (m *mockStore) UpsertInspection(_ context.Context, s *models.InspectionSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.sessions[s.ID] = *s
	return nil
}

func (m *mockStore) GetInspection(_ context.Context, id, tenantID uuid.UUID) (*models.InspectionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

type mockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) Ping(_ context.Context) error { return nil }

func (m *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

type stubGenerator struct {
	categories []models.InspectionCategory
	prompts    []string
}

func (g *stubGenerator) GenerateInspectionList(_ context.Context, prompt string) []models.InspectionCategory {
	g.prompts = append(g.prompts, prompt)
	return g.categories
}

func newTestService(st *mockStore, c *mockCache, gen Generator) *Service {
	return NewService(st, NewSessionCache(c, time.Hour), gen)
}

// --- tests ---

func TestCreate_FromTemplate(t *testing.T) {
	st, c := newMockStore(), newMockCache()
	svc := newTestService(st, c, nil)
	tenantID := uuid.New()

	session, err := svc.Create(context.Background(), CreateParams{TenantID: tenantID, VehicleType: models.VehicleTruck})
	require.NoError(t, err)

	assert.Equal(t, models.SessionInProgress, session.Status)
	assert.Equal(t, "truck-annual", session.TemplateName)
	assert.Equal(t, 1, st.upserts)
	assert.Equal(t, time.Hour, c.ttls[cacheKey(tenantID, session.ID)])
}

func TestCreate_RequiresTenant(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	_, err := svc.Create(context.Background(), CreateParams{VehicleType: models.VehicleCar})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreate_UsesGeneratorWhenPrompted(t *testing.T) {
	gen := &stubGenerator{categories: []models.InspectionCategory{
		{Title: "Hydraulics", Items: []string{"Lift Cylinder", "Hoses"}},
	}}
	svc := newTestService(newMockStore(), newMockCache(), gen)

	session, err := svc.Create(context.Background(), CreateParams{
		TenantID:    uuid.New(),
		VehicleType: models.VehicleBus,
		Prompt:      "wheelchair lift inspection",
	})
	require.NoError(t, err)

	assert.Equal(t, "generated", session.TemplateName)
	assert.Equal(t, "Hydraulics", session.Sections[0].Title)
	assert.Equal(t, "Tag Axle", session.Sections[len(session.Sections)-1].Title)
	assert.Equal(t, []string{"wheelchair lift inspection"}, gen.prompts)
}

func TestCreate_EmptyGenerationFallsBackToTemplate(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), &stubGenerator{})

	session, err := svc.Create(context.Background(), CreateParams{
		TenantID:    uuid.New(),
		VehicleType: models.VehicleCar,
		Prompt:      "anything",
	})
	require.NoError(t, err)
	assert.Equal(t, "car-multipoint", session.TemplateName)
}

func TestCreate_StoreFailureIsDependencyError(t *testing.T) {
	st := newMockStore()
	st.upsertErr = errors.New("db down")
	svc := newTestService(st, newMockCache(), nil)

	_, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New()})
	assert.Equal(t, apperr.KindDependency, apperr.KindOf(err))
}

func TestGet_PrefersCache(t *testing.T) {
	st, c := newMockStore(), newMockCache()
	svc := newTestService(st, c, nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 0, st.gets)
}

func TestGet_FallsBackToStoreAndRefillsCache(t *testing.T) {
	st, c := newMockStore(), newMockCache()
	svc := newTestService(st, c, nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)
	delete(c.data, cacheKey(created.TenantID, created.ID))

	got, err := svc.Get(context.Background(), created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, st.gets)
	assert.Contains(t, c.data, cacheKey(created.TenantID, created.ID))
}

func TestGet_CacheErrorFailsOpen(t *testing.T) {
	st, c := newMockStore(), newMockCache()
	svc := newTestService(st, c, nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New()})
	require.NoError(t, err)
	c.getErr = errors.New("redis down")

	got, err := svc.Get(context.Background(), created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGet_CorruptCacheEntryIsMiss(t *testing.T) {
	st, c := newMockStore(), newMockCache()
	svc := newTestService(st, c, nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New()})
	require.NoError(t, err)
	c.data[cacheKey(created.TenantID, created.ID)] = []byte("{not json")

	got, err := svc.Get(context.Background(), created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, st.gets)
}

func TestUpdateItems(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)

	updated, err := svc.UpdateItems(context.Background(), created.TenantID, created.ID, []ItemUpdate{
		{Section: 3, Item: 0, Status: strPtr("fail"), Notes: strPtr("pads worn"), PhotoURL: "https://p/1.jpg"},
		{Section: 3, Item: 1, Status: strPtr("recommend")},
	})
	require.NoError(t, err)
	assert.Equal(t, models.InspectionFail, updated.Sections[3].Items[0].Status)
	assert.Equal(t, models.InspectionRecommend, updated.Sections[3].Items[1].Status)

	// Downgrading clears photos.
	updated, err = svc.UpdateItems(context.Background(), created.TenantID, created.ID, []ItemUpdate{
		{Section: 3, Item: 0, Status: strPtr("ok")},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Sections[3].Items[0].PhotoURLs)
}

func TestUpdateItems_AllOrNothing(t *testing.T) {
	st := newMockStore()
	svc := newTestService(st, newMockCache(), nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)

	_, err = svc.UpdateItems(context.Background(), created.TenantID, created.ID, []ItemUpdate{
		{Section: 0, Item: 0, Status: strPtr("fail")},
		{Section: 42, Item: 0, Status: strPtr("fail")},
	})
	require.Error(t, err)

	got, err := svc.Get(context.Background(), created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InspectionUnmarked, got.Sections[0].Items[0].Status)
	assert.Equal(t, 1, st.upserts)
}

func TestUpdateItems_CompletedSessionIsConflict(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)
	_, err = svc.Replace(context.Background(), created.TenantID, created.ID, created.Sections, models.SessionCompleted)
	require.NoError(t, err)

	_, err = svc.UpdateItems(context.Background(), created.TenantID, created.ID, []ItemUpdate{{Section: 0, Item: 0, Status: strPtr("ok")}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestReplace_CompletedSession(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateParams{TenantID: uuid.New(), VehicleType: models.VehicleCar})
	require.NoError(t, err)
	_, err = svc.Replace(ctx, created.TenantID, created.ID, created.Sections, models.SessionCompleted)
	require.NoError(t, err)

	rewritten := []models.InspectionSection{{Title: "Rewritten", Items: []models.InspectionItem{{Name: "Steer 1 pad", Status: "fail"}}}}

	_, err = svc.Replace(ctx, created.TenantID, created.ID, rewritten, "")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	_, err = svc.Replace(ctx, created.TenantID, created.ID, rewritten, models.SessionCompleted)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	got, err := svc.Get(ctx, created.TenantID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, got.Status)
	require.Len(t, got.Sections, len(created.Sections))
	assert.NotEqual(t, "Rewritten", got.Sections[0].Title)

	reopened, err := svc.Replace(ctx, created.TenantID, created.ID, rewritten, models.SessionInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, reopened.Status)
	assert.Equal(t, "Rewritten", reopened.Sections[0].Title)
}

func TestReplace_NormalizesPhotos(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New()})
	require.NoError(t, err)

	sections := []models.InspectionSection{{
		Title: "Brakes",
		Items: []models.InspectionItem{
			{Name: "Steer 1 pad", Status: "ok", PhotoURLs: []string{"https://p/1.jpg"}},
			{Name: "Drive 1 pad", Status: "fail", PhotoURLs: []string{"https://p/2.jpg"}},
			{Name: "Horn"},
		},
	}}

	got, err := svc.Replace(context.Background(), created.TenantID, created.ID, sections, "")
	require.NoError(t, err)
	assert.Empty(t, got.Sections[0].Items[0].PhotoURLs)
	assert.Len(t, got.Sections[0].Items[1].PhotoURLs, 1)
	assert.Equal(t, models.InspectionUnmarked, got.Sections[0].Items[2].Status)
	assert.Equal(t, models.SessionInProgress, got.Status)
}

func TestReplace_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newMockStore(), newMockCache(), nil)
	created, err := svc.Create(context.Background(), CreateParams{TenantID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Replace(context.Background(), created.TenantID, created.ID, created.Sections, "archived")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func cacheKey(tenantID, id uuid.UUID) string {
	return "inspection:session:" + tenantID.String() + ":" + id.String()
}
