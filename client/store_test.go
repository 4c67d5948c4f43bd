package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "zkchannel", "submissions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestStorePutGet(t *testing.T) {
	store := testStore(t)
	sub := testSubmission(t)
	sub.Status = StatusCompleted
	sub.Output = []byte("375")

	require.NoError(t, store.Put(sub))
	loaded, err := store.Get(sub.Requester, sub.ExecutionID)
	require.NoError(t, err)
	require.Equal(t, sub, loaded)
}

func TestStoreGetMissing(t *testing.T) {
	store := testStore(t)
	sub, err := store.Get(testAddr(t, 1), "no_such_execution")
	require.NoError(t, err)
	require.Nil(t, sub)
}

func TestStorePutInvalid(t *testing.T) {
	store := testStore(t)
	require.ErrorContains(t, store.Put(nil), "submission is nil")
	require.ErrorContains(t, store.Put(&Submission{}), "missing execution id")
}

func TestStoreOverwrite(t *testing.T) {
	store := testStore(t)
	sub := testSubmission(t)
	require.NoError(t, store.Put(sub))

	sub.Status = StatusFailed
	sub.Error = "division by zero"
	require.NoError(t, store.Put(sub))

	loaded, err := store.Get(sub.Requester, sub.ExecutionID)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, loaded.Status)
	require.Equal(t, "division by zero", loaded.Error)
}

func TestStoreListAndDelete(t *testing.T) {
	store := testStore(t)

	first := testSubmission(t)
	second := testSubmission(t)
	second.ExecutionID = "calc_exec_2"
	// same execution id under a different requester is a distinct entry
	third := testSubmission(t)
	third.Requester = testAddr(t, 0x0B)
	for _, sub := range []*Submission{first, second, third} {
		require.NoError(t, store.Put(sub))
	}

	subs, err := store.List()
	require.NoError(t, err)
	require.Len(t, subs, 3)

	require.NoError(t, store.Delete(second.Requester, second.ExecutionID))
	subs, err = store.List()
	require.NoError(t, err)
	require.Len(t, subs, 2)

	loaded, err := store.Get(first.Requester, first.ExecutionID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	loaded, err = store.Get(second.Requester, second.ExecutionID)
	require.NoError(t, err)
	require.Nil(t, loaded)
}
