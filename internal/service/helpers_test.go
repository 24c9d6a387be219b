package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chronos/internal/domain"
	"chronos/internal/repository"
	"chronos/internal/repository/sqlite"
	"chronos/internal/storage"
)

type stores struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	shifts   repository.ShiftRepository
}

func newStores(t *testing.T) stores {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "chronos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := stores{
		users:    sqlite.NewUserRepository(db),
		profiles: sqlite.NewProfileRepository(db),
		shifts:   sqlite.NewShiftRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.profiles.Init(ctx))
	require.NoError(t, s.shifts.Init(ctx))
	return s
}

func addUser(t *testing.T, s stores, name string, staff, superuser bool) *domain.User {
	t.Helper()
	user := &domain.User{Username: name, PasswordHash: "x", IsActive: true, IsStaff: staff, IsSuperuser: superuser}
	_, err := s.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func addShift(t *testing.T, s stores, user *domain.User, in time.Time, length time.Duration) {
	t.Helper()
	shift := &domain.Shift{UserID: user.ID, InTime: in}
	if length > 0 {
		out := in.Add(length)
		shift.OutTime = &out
	}
	_, err := s.shifts.Create(context.Background(), shift)
	require.NoError(t, err)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Put(_ context.Context, obj storage.Object) (string, error) {
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Bucket+"/"+obj.Key] = data
	return obj.Key, nil
}

func (m *memoryStorage) Delete(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://objects.test/%s/%s", bucket, key), nil
}

func photo(name string) *Photo {
	return &Photo{Filename: name, ContentType: "image/png", Body: bytes.NewReader([]byte("png"))}
}
