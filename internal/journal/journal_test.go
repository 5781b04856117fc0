package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/operation"
	"github.com/desertwitch/diskman/internal/schema"
	"github.com/desertwitch/diskman/internal/secret"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sdaPath = schema.EntityRef("/org/freedesktop/UDisks/devices/sda")

func openTemp(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "db", "journal.db"))
	require.NoError(t, err, "journal should open")
	t.Cleanup(func() { _ = j.Close() })

	return j
}

func request(params schema.Params, issued time.Time) *operation.Request {
	return &operation.Request{
		ID:     uuid.New(),
		Target: operation.ForDevice(&model.Device{ObjectPath: sdaPath}),
		Params: params,
		Issued: issued,
	}
}

// TestOpen_Fail_NoPath tests that a journal needs a path.
func TestOpen_Fail_NoPath(t *testing.T) {
	t.Parallel()

	_, err := Open("")
	require.ErrorIs(t, err, ErrNoPath)
}

// TestJournal_Completed_Success tests journaling a successful operation.
func TestJournal_Completed_Success(t *testing.T) {
	t.Parallel()

	j := openTemp(t)
	issued := time.UnixMilli(1700000000000)
	completed := issued.Add(2 * time.Second)
	j.now = func() time.Time { return completed }

	req := request(schema.CreatePartitionParams{Offset: 1024, Size: 4096, FSType: "ext4"}, issued)
	j.Dispatched(req)
	j.Completed(req, schema.Result{Created: "/org/freedesktop/UDisks/devices/sda1"})

	e, err := j.Get(t.Context(), req.ID)
	require.NoError(t, err)

	assert.Equal(t, req.ID, e.ID)
	assert.Equal(t, schema.KindCreatePartition, e.Kind)
	assert.Equal(t, sdaPath, e.Target)
	assert.Contains(t, e.Params, "size=4096")
	assert.True(t, e.Issued.Equal(issued), "issued time should survive the round trip")
	assert.True(t, e.Completed.Equal(completed), "completion time should be recorded")
	assert.Equal(t, schema.EntityRef("/org/freedesktop/UDisks/devices/sda1"), e.Created)
	assert.True(t, e.Done())
	assert.False(t, e.Failed())
}

// TestJournal_Completed_Failure tests journaling a failed operation.
func TestJournal_Completed_Failure(t *testing.T) {
	t.Parallel()

	j := openTemp(t)
	req := request(schema.LinuxMdCheckParams{Options: []string{"repair"}}, time.Now())

	j.Dispatched(req)
	j.Completed(req, schema.Failure(&schema.OperationError{
		Kind:    "org.freedesktop.UDisks.Error.Failed",
		Message: "Array is busy",
	}))

	e, err := j.Get(t.Context(), req.ID)
	require.NoError(t, err)

	assert.True(t, e.Failed())
	assert.Equal(t, "org.freedesktop.UDisks.Error.Failed", e.ErrKind)
	assert.Equal(t, "Array is busy", e.ErrMessage)
}

// TestJournal_Dispatched_Secret tests that passphrases never reach the
// journal.
func TestJournal_Dispatched_Secret(t *testing.T) {
	t.Parallel()

	j := openTemp(t)
	pass := secret.NewPassphrase([]byte("hunter2"))
	t.Cleanup(pass.Wipe)

	req := request(schema.CreatePartitionParams{Size: 4096, FSType: "ext4", Secret: pass}, time.Now())
	j.Dispatched(req)

	e, err := j.Get(t.Context(), req.ID)
	require.NoError(t, err)

	assert.Contains(t, e.Params, "encrypted=true")
	assert.NotContains(t, e.Params, "hunter2", "the passphrase must not be journaled")

	raw, err := os.ReadFile(j.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2", "the passphrase must not be in the database file")
}

// TestJournal_Recent_Success tests that recent entries are returned newest
// first and limited.
func TestJournal_Recent_Success(t *testing.T) {
	t.Parallel()

	j := openTemp(t)
	base := time.UnixMilli(1700000000000)

	var ids []uuid.UUID
	for i := range 3 {
		req := request(schema.DriveEjectParams{}, base.Add(time.Duration(i)*time.Minute))
		j.Dispatched(req)
		ids = append(ids, req.ID)
	}

	entries, err := j.Recent(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ids[2], entries[0].ID, "newest entry should come first")
	assert.Equal(t, ids[1], entries[1].ID)
}

// TestJournal_Pending_Success tests listing operations that never completed.
func TestJournal_Pending_Success(t *testing.T) {
	t.Parallel()

	j := openTemp(t)

	done := request(schema.DriveEjectParams{}, time.Now())
	j.Dispatched(done)
	j.Completed(done, schema.Result{})

	open := request(schema.DriveDetachParams{}, time.Now())
	j.Dispatched(open)

	entries, err := j.Pending(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, open.ID, entries[0].ID)
	assert.False(t, entries[0].Done())
}

// TestJournal_Prune_Success tests that only completed old entries are
// pruned.
func TestJournal_Prune_Success(t *testing.T) {
	t.Parallel()

	j := openTemp(t)
	old := time.Now().Add(-48 * time.Hour)

	oldDone := request(schema.DriveEjectParams{}, old)
	j.Dispatched(oldDone)
	j.Completed(oldDone, schema.Result{})

	oldOpen := request(schema.DriveEjectParams{}, old)
	j.Dispatched(oldOpen)

	fresh := request(schema.DriveEjectParams{}, time.Now())
	j.Dispatched(fresh)
	j.Completed(fresh, schema.Result{})

	n, err := j.Prune(t.Context(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = j.Get(t.Context(), oldDone.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = j.Get(t.Context(), oldOpen.ID)
	require.NoError(t, err, "operations that never completed should be kept")
}

// TestOpen_Success_Reopen tests that reopening a journal keeps its entries
// and does not apply migrations twice.
func TestOpen_Success_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)

	req := request(schema.DriveEjectParams{}, time.Now())
	j.Dispatched(req)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err, "reopening should succeed")
	t.Cleanup(func() { _ = j.Close() })

	var versions int
	require.NoError(t, j.conn.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&versions))
	assert.Equal(t, len(migrations), versions)

	_, err = j.Get(t.Context(), req.ID)
	require.NoError(t, err, "entries should survive reopening")
}
