package eisenhower

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

type ImportSummary struct {
	Sessions int
	Tasks    int
	Notes    int
	Theme    Theme
	Skipped  []string
	// Cleared lists the stored keys the export did not carry.
	Cleared []string
}

// storedKeys are the keys the stores own.
var storedKeys = []string{KeySessions, KeyTasks, KeyNotes, KeyTheme}

// ImportLocalStorage copies a browser localStorage export, a JSON object of
// key to string value, into repo. Entries are checked with the same decoding
// rules as Persister.Load and written together; nothing is written if any
// known entry is invalid. Store keys missing from a non-empty export are
// deleted so the namespace matches the export.
func ImportLocalStorage(ctx context.Context, repo KVRepo, r io.Reader) (ImportSummary, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return ImportSummary{}, fmt.Errorf("failed to read export: %w", err)
	}

	var summary ImportSummary
	entries := make(map[string]string, len(raw))
	for key, text := range raw {
		switch key {
		case KeySessions:
			var sessions []Session
			if err := decode(text, &sessions); err != nil {
				return ImportSummary{}, fmt.Errorf("invalid %q entry: %w", key, err)
			}
			summary.Sessions = len(sessions)
		case KeyTasks:
			var tasks []Task
			if err := decode(text, &tasks); err != nil {
				return ImportSummary{}, fmt.Errorf("invalid %q entry: %w", key, err)
			}
			summary.Tasks = len(tasks)
		case KeyNotes:
			var notes []Note
			if err := decode(text, &notes); err != nil {
				return ImportSummary{}, fmt.Errorf("invalid %q entry: %w", key, err)
			}
			summary.Notes = len(notes)
		case KeyTheme:
			summary.Theme = ParseTheme(text)
			text = string(summary.Theme)
		default:
			summary.Skipped = append(summary.Skipped, key)
			continue
		}
		entries[key] = text
	}
	slices.Sort(summary.Skipped)

	if len(entries) == 0 {
		return summary, nil
	}
	if err := repo.SetMany(ctx, entries); err != nil {
		return ImportSummary{}, err
	}

	for _, key := range storedKeys {
		if _, ok := entries[key]; !ok {
			summary.Cleared = append(summary.Cleared, key)
		}
	}
	if len(summary.Cleared) > 0 {
		if err := repo.Delete(ctx, summary.Cleared...); err != nil {
			return ImportSummary{}, fmt.Errorf("failed to clear %v: %w", summary.Cleared, err)
		}
	}
	return summary, nil
}

// ExportLocalStorage writes every entry of repo as one JSON object of key to
// string value, the shape ImportLocalStorage reads. It returns the number of
// entries written.
func ExportLocalStorage(ctx context.Context, repo KVRepo, w io.Writer) (int, error) {
	keys, err := repo.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}

	entries := make(map[string]string, len(keys))
	for _, key := range keys {
		text, err := repo.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		entries[key] = text
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
