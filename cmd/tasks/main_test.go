package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logger"
	"github.com/idilsaglam/tasks/internal/model"
)

func TestOpenStore_FileBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	var logs bytes.Buffer
	cfg := &config.Config{Backend: config.BackendFile, DataFile: path}

	s, err := openStore(ctx, cfg, logger.New("DEBUG", &logs))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	task := model.NewTask("from main", "", model.PriorityLow)
	require.NoError(t, s.Add(ctx, &task))

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	assert.Contains(t, logs.String(), `"message":"using file store"`)
	assert.Contains(t, logs.String(), `"message":"task add"`)
	assert.FileExists(t, path)
}

func TestOpenStore_UnreachableMongo(t *testing.T) {
	cfg := &config.Config{
		Backend:        config.BackendMongo,
		MongoURI:       "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200",
		MongoDatabase:  "taskmanager",
		Collection:     "tasks",
		ConnectTimeout: 500 * time.Millisecond,
		OpTimeout:      time.Second,
	}

	_, err := openStore(context.Background(), cfg, logger.Discard())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to MongoDB")
}

func TestLogOutput(t *testing.T) {
	var stderr bytes.Buffer

	w, closeLog, err := logOutput(&config.Config{}, "ls", &stderr)
	require.NoError(t, err)
	closeLog()
	assert.Same(t, &stderr, w)

	w, closeLog, err = logOutput(&config.Config{}, "ui", &stderr)
	require.NoError(t, err)
	closeLog()
	assert.Equal(t, io.Discard, w)
}

func TestLogOutput_FileKeepsTheFormClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	var stderr bytes.Buffer

	w, closeLog, err := logOutput(&config.Config{LogFile: path}, "ui", &stderr)
	require.NoError(t, err)
	logger.New("ERROR", w).Error("store operation failed", map[string]any{"op": "list"})
	closeLog()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"op":"list"`)
	assert.Empty(t, stderr.String())
}

func TestLogOutput_BadFile(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "tasks.log")}

	_, _, err := logOutput(cfg, "ls", io.Discard)

	assert.ErrorContains(t, err, "open log file")
}
