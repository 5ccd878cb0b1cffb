package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "rule", "testdata", name))
	require.NoError(t, err)
	return data
}

func TestRun(t *testing.T) {
	location := filepath.Join(t.TempDir(), "ParkingLotController.java")
	require.NoError(t, os.WriteFile(location, fixture(t, "ParkingLotController.java"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-f", location}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Added getters to controller DTO classes\n", stdout.String())
	assert.Empty(t, stderr.String())

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, string(fixture(t, "ParkingLotController.patched.java")), string(data))
}

func TestRun_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--file", filepath.Join(t.TempDir(), "absent.java")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "failed to read")
}

func TestRun_DryRun(t *testing.T) {
	location := filepath.Join(t.TempDir(), "ParkingLotController.java")
	original := fixture(t, "ParkingLotController.java")
	require.NoError(t, os.WriteFile(location, original, 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-f", location, "--dry-run"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "+        public int getDurationMinutes() { return durationMinutes; }")
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestRun_List(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--list"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "ExitVehicleRequest\t")
	assert.Contains(t, stdout.String(), "ParkingLotStatus\tpublic static class ParkingLotStatus \\{[^}]*\\}\n")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"--unknown"}, &stdout, &stderr))
}
