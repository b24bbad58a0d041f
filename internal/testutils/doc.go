// Package testutils provides shared helpers for package tests: an in-memory
// slog handler for asserting on log emission, and HTTP helpers for exercising
// handlers and asserting on error responses.
//
//	recorder := testutils.NewTestSlogHandler()
//	svc := service.NewWorkspaceService(repo, notifier, slog.New(recorder), service.Options{})
//	...
//	assert.Len(t, recorder.EntriesAtLevel(slog.LevelWarn), 1)
package testutils
