package db

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/tokenized/settlement/pkg/storage"

	"github.com/pkg/errors"
)

func TestDB(t *testing.T) {
	ctx := context.Background()

	root, err := ioutil.TempDir("", "db")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(root)

	dbConn, err := New(&StorageConfig{Bucket: "standalone", Root: root})
	if err != nil {
		t.Fatalf("Failed to create db : %s", err)
	}

	if err := dbConn.StatusCheck(ctx); err != nil {
		t.Fatalf("Status check failed : %s", err)
	}

	if _, err := dbConn.Fetch(ctx, "nonces/none"); err != ErrNotFound {
		t.Errorf("Fetch missing: got %v, want %v", err, ErrNotFound)
	}

	if err := dbConn.Put(ctx, "nonces/one", []byte{1}); err != nil {
		t.Fatalf("Failed to put : %s", err)
	}

	b, err := dbConn.Fetch(ctx, "nonces/one")
	if err != nil {
		t.Fatalf("Failed to fetch : %s", err)
	}
	if len(b) != 1 || b[0] != 1 {
		t.Errorf("Fetch: got %x, want 01", b)
	}

	if err := dbConn.Remove(ctx, "nonces/one"); err != nil {
		t.Fatalf("Failed to remove : %s", err)
	}
	if err := dbConn.Remove(ctx, "nonces/one"); err != ErrNotFound {
		t.Errorf("Remove missing: got %v, want %v", err, ErrNotFound)
	}

	dbConn.Close()
	if err := dbConn.Put(ctx, "nonces/two", nil); err == nil {
		t.Errorf("Put succeeded on closed db")
	}

	if _, err := New(nil); err == nil {
		t.Errorf("Created db without config")
	}
}

func TestUndo(t *testing.T) {
	ctx := context.Background()

	root, err := ioutil.TempDir("", "undo")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(root)

	dbConn, err := New(&StorageConfig{Bucket: "standalone", Root: root})
	if err != nil {
		t.Fatalf("Failed to create db : %s", err)
	}
	defer dbConn.Close()

	// Without an Undo in the context registration is ignored.
	OnUndo(ctx, func(ctx context.Context) error {
		t.Errorf("Undo action called without undo context")
		return nil
	})

	undoCtx, undo := ContextWithUndo(ctx)

	var order []string
	for _, k := range []string{"nonces/a", "nonces/b"} {
		k := k
		if err := dbConn.Put(undoCtx, k, []byte{1}); err != nil {
			t.Fatalf("Failed to put %s : %s", k, err)
		}
		OnUndo(undoCtx, func(ctx context.Context) error {
			order = append(order, k)
			return dbConn.Remove(ctx, k)
		})
	}

	if err := undo.Run(ctx); err != nil {
		t.Fatalf("Failed to undo : %s", err)
	}

	if len(order) != 2 || order[0] != "nonces/b" || order[1] != "nonces/a" {
		t.Errorf("Undo order: got %v, want [nonces/b nonces/a]", order)
	}

	for _, k := range []string{"nonces/a", "nonces/b"} {
		if _, err := dbConn.Fetch(ctx, k); err != ErrNotFound {
			t.Errorf("Fetch %s after undo: got %v, want %v", k, err, ErrNotFound)
		}
	}

	// Actions run once.
	if err := undo.Run(ctx); err != nil {
		t.Errorf("Second undo failed : %s", err)
	}
	if len(order) != 2 {
		t.Errorf("Undo actions ran again : %v", order)
	}
}

// wrappingStorage reports every key as missing, wrapped the way a remote store would.
type wrappingStorage struct {
	storage.Storage
}

func (wrappingStorage) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.Wrapf(storage.ErrNotFound, "read %s", key)
}

func (wrappingStorage) Remove(ctx context.Context, key string) error {
	return errors.Wrapf(storage.ErrNotFound, "remove %s", key)
}

func TestWrappedNotFound(t *testing.T) {
	ctx := context.Background()
	dbConn := &DB{storage: wrappingStorage{}}

	if _, err := dbConn.Fetch(ctx, "nonces/none"); err != ErrNotFound {
		t.Errorf("Fetch wrapped missing: got %v, want %v", err, ErrNotFound)
	}
	if err := dbConn.Remove(ctx, "nonces/none"); err != ErrNotFound {
		t.Errorf("Remove wrapped missing: got %v, want %v", err, ErrNotFound)
	}
}
