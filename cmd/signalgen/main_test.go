package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package demo

import "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"

type Worker struct {
	actor.BaseActor
}

type Keeper struct {
	actor.BaseActor
}
`

func writeSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.go"), []byte(source), 0o600))
	return dir
}

func TestCommandWritesFile(t *testing.T) {
	dir := writeSource(t)

	err := newCommand().Run(context.Background(), []string{"signalgen", "--type", "Worker,Keeper", "-o", "handlers.go", dir})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "handlers.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func (w *Worker) HandleStop(")
	assert.Contains(t, string(out), "func (k *Keeper) HandleTerminate(")
}

func TestCommandReceiverFromEnv(t *testing.T) {
	dir := writeSource(t)
	t.Setenv("SIGNALGEN_RECEIVER", "value")

	err := newCommand().Run(context.Background(), []string{"signalgen", "-t", "Worker", dir})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "signal_handlers_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func (w Worker) HandleStop(")
}

func TestCommandErrors(t *testing.T) {
	dir := writeSource(t)

	err := newCommand().Run(context.Background(), []string{"signalgen", dir})
	assert.Error(t, err, "no types selected")

	err = newCommand().Run(context.Background(), []string{"signalgen", "--receiver", "ref", "-t", "Worker", dir})
	assert.Error(t, err)
}
