package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	pf := New(path)

	// Act
	require.NoError(t, pf.Acquire())

	// Assert
	pid, err := ReadPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, pf.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_ReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	// PID 0 is never a live daemon
	require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))

	require.NoError(t, New(path).Acquire())

	pid, err := ReadPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	assert.NoError(t, New(path).Acquire())
}

func TestAcquire_LiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	// the parent of the test binary is alive for the duration of the test
	ppid := os.Getppid()
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(ppid)), 0o644))

	err := New(path).Acquire()

	require.ErrorIs(t, err, ErrAlreadyRunning)
	var running *AlreadyRunningError
	require.ErrorAs(t, err, &running)
	assert.Equal(t, ppid, running.PID)
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	pf := New(path)
	require.NoError(t, pf.Acquire())
	require.NoError(t, os.WriteFile(path, []byte("12345\n"), 0o644))

	require.NoError(t, pf.Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestIsRunning(t *testing.T) {
	assert.True(t, IsRunning(os.Getpid()))
	assert.False(t, IsRunning(0))
	assert.False(t, IsRunning(-1))
}
