package service

import (
	"context"
	"sync"
	"testing"

	apperrors "jpo/internal/errors"
	"jpo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory RegistrationStore mirroring the repository's
// semantics: unknown open days read as full, and the insert itself enforces
// the capacity ceiling like the guarded SQL statement does.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[int64]*models.Registration
	capacities map[int64]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:       make(map[int64]*models.Registration),
		capacities: make(map[int64]int),
	}
}

func (f *fakeStore) addOpenDay(jpoID int64, capacity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacities[jpoID] = capacity
}

func (f *fakeStore) activeCount(jpoID int64) int {
	count := 0
	for _, r := range f.rows {
		if r.JpoID == jpoID && r.Status == models.StatusRegistered {
			count++
		}
	}
	return count
}

func (f *fakeStore) List(ctx context.Context, filters models.RegistrationFilters) ([]models.RegistrationDetail, error) {
	return nil, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &models.RegistrationDetail{
		ID:               r.RegistrationID,
		RegistrationDate: r.RegistrationDate,
		Status:           r.Status,
		User:             models.RegistrationUser{ID: r.UserID},
		OpenDay:          models.RegistrationOpenDay{ID: r.JpoID},
	}, nil
}

func (f *fakeStore) GetRow(ctx context.Context, id int64) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copy := *r
	return &copy, nil
}

func (f *fakeStore) Create(ctx context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	capacity, ok := f.capacities[reg.JpoID]
	if !ok || (reg.Status == models.StatusRegistered && f.activeCount(reg.JpoID) >= capacity) {
		return apperrors.ErrOpenDayFull
	}
	for _, r := range f.rows {
		if r.UserID == reg.UserID && r.JpoID == reg.JpoID && r.Status == models.StatusRegistered {
			return apperrors.ErrAlreadyRegistered
		}
	}

	f.nextID++
	reg.RegistrationID = f.nextID
	copy := *reg
	f.rows[reg.RegistrationID] = &copy
	return nil
}

func (f *fakeStore) Cancel(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	r.Status = models.StatusUnregistered
	return true, nil
}

func (f *fakeStore) Reactivate(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return apperrors.ErrOpenDayFull
	}
	capacity, known := f.capacities[r.JpoID]
	if !known || f.activeCount(r.JpoID) >= capacity {
		return apperrors.ErrOpenDayFull
	}
	r.Status = models.StatusRegistered
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeStore) IsUserRegistered(ctx context.Context, userID, jpoID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.JpoID == jpoID && r.Status == models.StatusRegistered {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) IsOpenDayFull(ctx context.Context, jpoID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	capacity, ok := f.capacities[jpoID]
	if !ok {
		return true, nil
	}
	return f.activeCount(jpoID) >= capacity, nil
}

func (f *fakeStore) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	return &models.RegistrationStats{}, nil
}

func (f *fakeStore) StatsByOpenDay(ctx context.Context) ([]models.OpenDayStats, error) {
	return nil, nil
}

// recordingPublisher captures published subjects.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func newTestService(store *fakeStore) (*RegistrationService, *recordingPublisher) {
	publisher := &recordingPublisher{}
	return NewRegistrationService(store, publisher, nil), publisher
}

func TestCreateAdmitsWhenCapacityAvailable(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 10)
	svc, publisher := newTestService(store)

	reg, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{
		UserID: 42,
		JpoID:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, reg.Status)
	assert.Equal(t, int64(42), reg.User.ID)
	assert.False(t, reg.RegistrationDate.IsZero())
	assert.Equal(t, []string{models.EventRegistrationCreated}, publisher.subjects)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 10)
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 42, JpoID: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 42, JpoID: 1})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestCreateReportsDuplicateBeforeFull(t *testing.T) {
	// A user already registered on a full open day must get the duplicate
	// error, not the capacity error.
	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 42, JpoID: 1})
	require.NoError(t, err)

	full, err := store.IsOpenDayFull(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, full)

	_, err = svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 42, JpoID: 1})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestCreateRejectsWhenFull(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 2, JpoID: 1})
	assert.ErrorIs(t, err, apperrors.ErrOpenDayFull)
}

func TestCreateFailsClosedOnUnknownOpenDay(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 999})
	assert.ErrorIs(t, err, apperrors.ErrOpenDayFull)
}

func TestCancelFreesCapacity(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, publisher := newTestService(store)

	first, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 2, JpoID: 1})
	require.ErrorIs(t, err, apperrors.ErrOpenDayFull)

	require.NoError(t, svc.Cancel(context.Background(), first.ID))

	second, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 2, JpoID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, second.Status)

	assert.Contains(t, publisher.subjects, models.EventRegistrationCancelled)
}

func TestCancelUnknownRegistration(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	err := svc.Cancel(context.Background(), 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReactivateRestoresRegistration(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 5)
	svc, publisher := newTestService(store)

	reg, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), reg.ID))

	require.NoError(t, svc.Reactivate(context.Background(), reg.ID))

	row, err := store.GetRow(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, row.Status)
	assert.Contains(t, publisher.subjects, models.EventRegistrationReactivated)
}

func TestReactivateRejectedWhenFull(t *testing.T) {
	// The freed slot was taken by someone else; reactivation must not
	// oversubscribe.
	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, _ := newTestService(store)

	first, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), first.ID))

	_, err = svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 2, JpoID: 1})
	require.NoError(t, err)

	err = svc.Reactivate(context.Background(), first.ID)
	assert.ErrorIs(t, err, apperrors.ErrOpenDayFull)
}

func TestReactivateAlreadyActiveIsNoop(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, _ := newTestService(store)

	reg, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)

	// The open day is full, but the row already holds the slot.
	assert.NoError(t, svc.Reactivate(context.Background(), reg.ID))
}

func TestUpdateStatusDispatch(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 5)
	svc, _ := newTestService(store)

	reg, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), reg.ID, models.StatusUnregistered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnregistered, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), reg.ID, models.StatusRegistered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), reg.ID, "pending")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestDeleteRegistration(t *testing.T) {
	store := newFakeStore()
	store.addOpenDay(1, 5)
	svc, _ := newTestService(store)

	reg, err := svc.Create(context.Background(), &models.CreateRegistrationRequest{UserID: 1, JpoID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), reg.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), reg.ID), apperrors.ErrNotFound)
}

func TestConcurrentCreatesNeverOversubscribe(t *testing.T) {
	const attempts = 50

	store := newFakeStore()
	store.addOpenDay(1, 1)
	svc, _ := newTestService(store)

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), &models.CreateRegistrationRequest{
				UserID: int64(i + 1),
				JpoID:  1,
			})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrOpenDayFull)
		}
	}

	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, store.activeCount(1))
}
