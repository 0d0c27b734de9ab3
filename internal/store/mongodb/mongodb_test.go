package mongodb

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/lazypower/rememberme/internal/store"
	"github.com/lazypower/rememberme/internal/store/storetest"
)

// The suite needs a live server; point REMEMBERME_TEST_MONGO_URI at one.
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("REMEMBERME_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("REMEMBERME_TEST_MONGO_URI not set")
	}

	s, err := Open(context.Background(), uri, "rememberme_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		s.Drop(context.Background())
		s.Close()
	})
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return testStore(t) })
}

func TestObjectIDMalformed(t *testing.T) {
	if _, err := objectID("not-hex"); err != store.ErrNotFound {
		t.Errorf("objectID(not-hex) err = %v, want ErrNotFound", err)
	}
	if _, err := objectID("65a1f0c2e4b0a1b2c3d4e5f6"); err != nil {
		t.Errorf("objectID(valid) err = %v", err)
	}
}
