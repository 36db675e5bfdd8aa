package sqlitestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novatel/novadec/adapters/sqlitestore"
)

func TestOpenUnregisteredDriverErrors(t *testing.T) {
	_, err := sqlitestore.Open("not-a-registered-driver", ":memory:")
	assert.Error(t, err)
}

func TestInsertBatchOnEmptySliceIsNoOp(t *testing.T) {
	// A nil *Store is never produced by Open, but InsertBatch's empty-slice
	// guard runs before anything touches the connection, so it is safe to
	// exercise against a zero-value Store.
	var s sqlitestore.Store
	assert.NoError(t, s.InsertBatch(nil))
}
