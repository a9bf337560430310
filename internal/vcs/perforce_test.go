package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recorder(out string, err error) (Runner, *[]call) {
	var calls []call
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name: name, args: args})
		return []byte(out), err
	}, &calls
}

func TestIsCheckoutNeeded(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsaved file", func(t *testing.T) {
		p := NewPerforce(filepath.Join(dir, "missing.yaml"), nil)
		needed, err := p.IsCheckoutNeeded()
		require.NoError(t, err)
		assert.False(t, needed)
	})

	t.Run("writable file", func(t *testing.T) {
		path := filepath.Join(dir, "writable.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		needed, err := NewPerforce(path, nil).IsCheckoutNeeded()
		require.NoError(t, err)
		assert.False(t, needed)
	})

	t.Run("read-only file", func(t *testing.T) {
		path := filepath.Join(dir, "locked.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o444))
		needed, err := NewPerforce(path, nil).IsCheckoutNeeded()
		require.NoError(t, err)
		assert.True(t, needed)
	})
}

func TestCheckout(t *testing.T) {
	run, calls := recorder("", nil)
	p := NewPerforce("/depot/level01.yaml", run)

	require.NoError(t, p.Checkout(context.Background()))
	require.Len(t, *calls, 1)
	assert.Equal(t, "p4", (*calls)[0].name)
	assert.Equal(t, []string{"edit", "/depot/level01.yaml"}, (*calls)[0].args)
}

func TestCheckoutFailure(t *testing.T) {
	run, _ := recorder("file(s) not on client.\n", errors.New("exit status 1"))
	err := NewPerforce("/depot/level01.yaml", run).Checkout(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not on client")
}

func TestInstalled(t *testing.T) {
	run, calls := recorder("User name: art\n", nil)
	assert.True(t, NewPerforce("x", run).Installed(context.Background()))
	assert.Equal(t, []string{"info"}, (*calls)[0].args)

	missing, _ := recorder("", errors.New("executable file not found"))
	assert.False(t, NewPerforce("x", missing).Installed(context.Background()))
}
