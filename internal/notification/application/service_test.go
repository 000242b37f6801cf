package application

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/honeyshop/internal/notification/domain"
)

type fakeRepository struct {
	byID   map[uint]*domain.Notification
	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[uint]*domain.Notification), nextID: 1}
}

func (r *fakeRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.nextID++
	r.byID[n.ID] = n
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id uint) (*domain.Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func (r *fakeRepository) Recent(ctx context.Context, userID uint, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.byID {
		if n.UserID != nil && *n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	for _, n := range r.byID {
		if n.UserID != nil && *n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) Save(ctx context.Context, n *domain.Notification) error {
	r.byID[n.ID] = n
	return nil
}

func (r *fakeRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	var count int64
	for _, n := range r.byID {
		if n.UserID != nil && *n.UserID == userID && !n.IsRead {
			n.MarkRead(at)
			count++
		}
	}
	return count, nil
}

func notify(t *testing.T, svc *NotificationService, userID uint, title string) {
	t.Helper()
	uid := userID
	require.NoError(t, svc.Notify(context.Background(), &uid, title, "message", "", nil, ""))
}

func TestNotifyDefaultsToInfo(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)

	notify(t, svc, 7, "hello")
	assert.Equal(t, domain.TypeInfo, repo.byID[1].Type)
}

func TestUnreadCount(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)

	notify(t, svc, 7, "a")
	notify(t, svc, 7, "b")
	notify(t, svc, 8, "other user")

	count, err := svc.UnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRecentLimit(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)

	for i := 0; i < RecentLimit+5; i++ {
		notify(t, svc, 7, "n")
	}

	list, err := svc.Recent(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, list, RecentLimit)
}

func TestMarkRead(t *testing.T) {
	t.Run("marks and stamps read time", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewNotificationService(repo, nil)
		notify(t, svc, 7, "a")

		require.NoError(t, svc.MarkRead(context.Background(), 7, 1))
		assert.True(t, repo.byID[1].IsRead)
		assert.NotNil(t, repo.byID[1].ReadAt)

		count, _ := svc.UnreadCount(context.Background(), 7)
		assert.Zero(t, count)
	})

	t.Run("rejects other user's notification", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewNotificationService(repo, nil)
		notify(t, svc, 7, "a")

		err := svc.MarkRead(context.Background(), 8, 1)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
		assert.False(t, repo.byID[1].IsRead)
	})

	t.Run("missing notification", func(t *testing.T) {
		svc := NewNotificationService(newFakeRepository(), nil)
		err := svc.MarkRead(context.Background(), 7, 99)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeRepository()
	svc := NewNotificationService(repo, nil)
	notify(t, svc, 7, "a")
	notify(t, svc, 7, "b")
	notify(t, svc, 8, "other")

	affected, err := svc.MarkAllRead(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	count, _ := svc.UnreadCount(context.Background(), 7)
	assert.Zero(t, count)

	otherCount, _ := svc.UnreadCount(context.Background(), 8)
	assert.EqualValues(t, 1, otherCount)
}

func TestMarkReadIdempotent(t *testing.T) {
	n := &domain.Notification{}
	first := time.Now()
	n.MarkRead(first)
	require.NotNil(t, n.ReadAt)

	later := first.Add(time.Hour)
	n.MarkRead(later)
	assert.True(t, n.ReadAt.Equal(first))
}
