package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string
	Value int
}

func (i item) GetID() string { return i.ID }

func newTestRepo(t *testing.T) (*Store, *Repository[item]) {
	t.Helper()
	s := New()
	return s, NewRepository[item](s, "items")
}

func TestRepositoryCRUD(t *testing.T) {
	_, repo := newTestRepo(t)

	repo.SetAll([]item{{ID: "a", Value: 1}, {ID: "b", Value: 2}})
	assert.Equal(t, 2, repo.Len())

	repo.Add(item{ID: "c", Value: 3})
	got, ok := repo.GetByID("c")
	require.True(t, ok)
	assert.Equal(t, 3, got.Value)

	assert.True(t, repo.Update(item{ID: "a", Value: 10}))
	got, _ = repo.GetByID("a")
	assert.Equal(t, 10, got.Value)

	assert.True(t, repo.Remove("b"))
	_, ok = repo.GetByID("b")
	assert.False(t, ok)

	assert.Equal(t, []item{{ID: "a", Value: 10}, {ID: "c", Value: 3}}, repo.GetAll())

	// Index stays consistent after removal shifts items.
	got, ok = repo.GetByID("c")
	require.True(t, ok)
	assert.Equal(t, 3, got.Value)
}

func TestRepositoryUpdateMissingIsDropped(t *testing.T) {
	s, repo := newTestRepo(t)
	repo.SetAll([]item{{ID: "a"}})
	before := s.Version()

	assert.False(t, repo.Update(item{ID: "zzz", Value: 1}))
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, before, s.Version(), "dropped update must not publish")

	assert.False(t, repo.Remove("zzz"))
}

func TestRepositoryAddExistingReplaces(t *testing.T) {
	_, repo := newTestRepo(t)
	repo.Add(item{ID: "a", Value: 1})
	repo.Add(item{ID: "a", Value: 2})

	assert.Equal(t, []item{{ID: "a", Value: 2}}, repo.GetAll())
}

func TestRepositoryGetAllReturnsCopy(t *testing.T) {
	_, repo := newTestRepo(t)
	repo.SetAll([]item{{ID: "a", Value: 1}})

	all := repo.GetAll()
	all[0].Value = 99

	got, _ := repo.GetByID("a")
	assert.Equal(t, 1, got.Value)
}

func TestStoreSubscribe(t *testing.T) {
	s, repo := newTestRepo(t)

	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) {
		// Listeners may read the repository they were notified about.
		_ = repo.Len()
		changes = append(changes, c)
	})

	repo.SetAll(nil)
	repo.Add(item{ID: "a"})
	repo.Update(item{ID: "a", Value: 5})
	repo.Remove("a")

	unsubscribe()
	repo.Add(item{ID: "b"})

	require.Len(t, changes, 4)
	assert.Equal(t, Change{Resource: "items", Op: OpReset, Version: 1}, changes[0])
	assert.Equal(t, Change{Resource: "items", Op: OpAdd, ID: "a", Version: 2}, changes[1])
	assert.Equal(t, Change{Resource: "items", Op: OpUpdate, ID: "a", Version: 3}, changes[2])
	assert.Equal(t, Change{Resource: "items", Op: OpRemove, ID: "a", Version: 4}, changes[3])
	assert.Equal(t, uint64(5), s.Version())
}

func TestStoreDeliversInVersionOrder(t *testing.T) {
	s, repo := newTestRepo(t)

	var versions []uint64
	unsubscribe := s.Subscribe(func(c Change) {
		// No lock: deliveries never overlap.
		versions = append(versions, c.Version)
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo.Add(item{ID: fmt.Sprintf("i%d", i)})
		}(i)
	}
	wg.Wait()

	require.Len(t, versions, 50)
	for i, v := range versions {
		assert.Equal(t, uint64(i+1), v)
	}
}

func TestStoreRegisterTwicePanics(t *testing.T) {
	s, _ := newTestRepo(t)
	assert.Panics(t, func() { NewRepository[item](s, "items") })

	NewRepository[item](s, "others")
	assert.Equal(t, []string{"items", "others"}, s.Resources())
}

func TestRepositoryConcurrentWrites(t *testing.T) {
	_, repo := newTestRepo(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", i)
			repo.Add(item{ID: id, Value: i})
			repo.Update(item{ID: id, Value: i * 2})
			_ = repo.GetAll()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Len())
	got, ok := repo.GetByID("id-7")
	require.True(t, ok)
	assert.Equal(t, 14, got.Value)
}
