// Package storetest is a compliance suite shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/rememberme/internal/store"
)

// Run exercises the store contract. makeStore must return a clean, isolated
// store on every call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, makeStore(t).Ping(context.Background()))
	})
	t.Run("EventsCreateAndList", func(t *testing.T) { testEvents(t, makeStore(t)) })
	t.Run("EventsUpcomingLimit", func(t *testing.T) { testEventsLimit(t, makeStore(t)) })
	t.Run("Family", func(t *testing.T) { testFamily(t, makeStore(t)) })
	t.Run("MemoriesRoundTrip", func(t *testing.T) { testMemoryRoundTrip(t, makeStore(t)) })
	t.Run("MemoriesUpdateTagsOnly", func(t *testing.T) { testMemoryPatch(t, makeStore(t)) })
	t.Run("MemoriesNotFound", func(t *testing.T) { testMemoryNotFound(t, makeStore(t)) })
	t.Run("MemoriesFilterByPerson", func(t *testing.T) { testMemoryFilter(t, makeStore(t)) })
	t.Run("MemoriesRandom", func(t *testing.T) { testMemoryRandom(t, makeStore(t)) })
	t.Run("PatientUpsert", func(t *testing.T) { testPatient(t, makeStore(t)) })
}

func testEvents(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	past, err := s.Events().Create(ctx, &store.Event{Name: "Old visit", Date: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	later, err := s.Events().Create(ctx, &store.Event{Name: "Birthday", Date: now.Add(72 * time.Hour), Description: "cake"})
	require.NoError(t, err)
	soon, err := s.Events().Create(ctx, &store.Event{Name: "Doctor", Date: now.Add(24 * time.Hour)})
	require.NoError(t, err)

	ids := map[string]bool{past.ID: true, later.ID: true, soon.ID: true}
	assert.Len(t, ids, 3, "identifiers must be distinct")
	assert.NotEmpty(t, soon.ID)
	assert.False(t, soon.CreatedAt.IsZero(), "createdAt should default to creation time")
	assert.Equal(t, "cake", later.Description)

	upcoming, err := s.Events().List(ctx, store.EventFilter{From: now})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Doctor", upcoming[0].Name)
	assert.Equal(t, "Birthday", upcoming[1].Name)
	assert.True(t, upcoming[0].Date.Equal(soon.Date), "date = %v, want %v", upcoming[0].Date, soon.Date)

	all, err := s.Events().List(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Old visit", all[0].Name)
}

func testEventsLimit(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 5; i >= 1; i-- {
		_, err := s.Events().Create(ctx, &store.Event{Name: "e", Date: now.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	got, err := s.Events().List(ctx, store.EventFilter{From: now, Limit: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.Before(got[i-1].Date), "dates must be non-decreasing")
	}
	for _, e := range got {
		assert.False(t, e.Date.Before(now))
	}
}

func testFamily(t *testing.T, s store.Store) {
	ctx := context.Background()

	a, err := s.Family().Create(ctx, &store.FamilyMember{PersonName: "Alice", Relationship: "Mother"})
	require.NoError(t, err)
	b, err := s.Family().Create(ctx, &store.FamilyMember{PersonName: "Bob", Relationship: "Son"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	members, err := s.Family().List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, *a, members[0])
	assert.Equal(t, *b, members[1])
}

func testMemoryRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Memories().Create(ctx, &store.Memory{
		PersonName:   "Alice",
		Relationship: "Mother",
		MemoryText:   "Baked bread every Sunday",
		Tags:         []string{"baking", "sunday"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Memories().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := s.Memories().List(ctx, store.MemoryFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *created, list[0])

	require.NoError(t, s.Memories().Delete(ctx, created.ID))
	_, err = s.Memories().Get(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testMemoryPatch(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Memories().Create(ctx, &store.Memory{
		PersonName:   "Alice",
		Relationship: "Mother",
		MemoryText:   "Baked bread every Sunday",
	})
	require.NoError(t, err)

	tags := []string{"baking"}
	updated, err := s.Memories().Update(ctx, created.ID, store.MemoryPatch{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, tags, updated.Tags)

	stored, err := s.Memories().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.PersonName)
	assert.Equal(t, "Mother", stored.Relationship)
	assert.Equal(t, "Baked bread every Sunday", stored.MemoryText)
	assert.Equal(t, tags, stored.Tags)

	text := "Baked rye bread every Sunday"
	updated, err = s.Memories().Update(ctx, created.ID, store.MemoryPatch{MemoryText: &text})
	require.NoError(t, err)
	assert.Equal(t, text, updated.MemoryText)
	assert.Equal(t, tags, updated.Tags)
}

func testMemoryNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()
	text := "x"

	for _, id := range []string{"does-not-exist", "000000000000000000000000"} {
		_, err := s.Memories().Get(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound, "Get(%q)", id)

		_, err = s.Memories().Update(ctx, id, store.MemoryPatch{MemoryText: &text})
		assert.ErrorIs(t, err, store.ErrNotFound, "Update(%q)", id)

		err = s.Memories().Delete(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound, "Delete(%q)", id)
	}
}

func testMemoryFilter(t *testing.T, s store.Store) {
	ctx := context.Background()

	for _, m := range []store.Memory{
		{PersonName: "Alice", Relationship: "Mother", MemoryText: "bread"},
		{PersonName: "Bob", Relationship: "Son", MemoryText: "fishing"},
		{PersonName: "Alice", Relationship: "Mother", MemoryText: "garden"},
	} {
		_, err := s.Memories().Create(ctx, &m)
		require.NoError(t, err)
	}

	alice, err := s.Memories().List(ctx, store.MemoryFilter{PersonName: "Alice"})
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "bread", alice[0].MemoryText)
	assert.Equal(t, "garden", alice[1].MemoryText)

	none, err := s.Memories().List(ctx, store.MemoryFilter{PersonName: "alice"})
	require.NoError(t, err)
	assert.Empty(t, none, "person match is exact")
}

func testMemoryRandom(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Memories().Random(ctx)
	assert.True(t, errors.Is(err, store.ErrNotFound), "empty collection: got %v", err)

	seen := map[string]bool{}
	for _, text := range []string{"one", "two"} {
		m, err := s.Memories().Create(ctx, &store.Memory{PersonName: "P", Relationship: "R", MemoryText: text})
		require.NoError(t, err)
		seen[m.ID] = false
	}

	for i := 0; i < 10; i++ {
		m, err := s.Memories().Random(ctx)
		require.NoError(t, err)
		_, known := seen[m.ID]
		assert.True(t, known, "random returned unknown id %q", m.ID)
	}
}

func testPatient(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Patient().Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	age := 81
	first, created, err := s.Patient().Save(ctx, &store.PatientInfo{
		Name:    "Rose",
		Age:     &age,
		Hobbies: []string{"knitting"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, store.PatientKey, first.ID)

	age = 82
	second, created, err := s.Patient().Save(ctx, &store.PatientInfo{
		Name:               "Rose Marie",
		Age:                &age,
		FavoriteActivities: []string{"walks"},
		MedicalNotes:       "mild arthritis",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.Patient().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rose Marie", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 82, *got.Age)
	assert.Equal(t, []string{"walks"}, got.FavoriteActivities)
	assert.Empty(t, got.Hobbies, "second save overwrites, it does not merge")
	assert.Equal(t, "mild arthritis", got.MedicalNotes)
}
