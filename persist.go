package eisenhower

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	KeySessions = "sessions"
	KeyTasks    = "tasks"
	KeyTheme    = "theme"
	KeyNotes    = "notes"

	DefaultStorageTimeout = 3 * time.Second
)

// Persister stores JSON values under string keys. Failed writes are logged,
// never returned, and leave the previously persisted value in place. Failed
// reads are returned so a store never bootstraps over data it could not see.
//
// Date fields are typed (time.Time, *time.Time) and decode from RFC 3339
// text, which covers the ISO-8601 form written by Date.toJSON().
type Persister struct {
	repo    KVRepo
	l       Logger
	timeout time.Duration
}

func NewPersister(repo KVRepo, logger Logger, timeout time.Duration) *Persister {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return &Persister{
		repo:    repo,
		l:       orNop(logger),
		timeout: timeout,
	}
}

func (p *Persister) newTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

func (p *Persister) Save(key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		p.l.Error("failed to encode value", "key", key, "error", err)
		return
	}
	p.SaveText(key, string(b))
}

func (p *Persister) SaveText(key string, value string) {
	timeout, cancel := p.newTimeout()
	defer cancel()
	if err := p.repo.Set(timeout, key, value); err != nil {
		p.l.Error("failed to save", "key", key, "error", err)
		return
	}
	p.l.Debug("saved", "key", key, "bytes", len(value))
}

// Load decodes the value under key into dst. It reports false with a nil
// error when the key is absent or the value does not decode; dst is left
// untouched in that case. A non-nil error means the backend could not be
// read, which callers must not confuse with an empty namespace.
func (p *Persister) Load(key string, dst any) (bool, error) {
	text, ok, err := p.LoadText(key)
	if !ok || err != nil {
		return false, err
	}
	if err := decode(text, dst); err != nil {
		p.l.Error("failed to parse stored value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (p *Persister) LoadText(key string) (string, bool, error) {
	timeout, cancel := p.newTimeout()
	defer cancel()
	text, err := p.repo.Get(timeout, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		p.l.Error("failed to load", "key", key, "error", err)
		return "", false, fmt.Errorf("load %q: %w", key, err)
	}
	return text, true, nil
}

// decode unmarshals into a scratch value of dst's type first so a failed
// decode cannot leave dst half-written.
func decode(text string, dst any) error {
	switch v := dst.(type) {
	case *[]Session:
		var out []Session
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return err
		}
		*v = out
	case *[]Task:
		var out []Task
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return err
		}
		*v = out
	case *[]Note:
		var out []Note
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return err
		}
		*v = out
	default:
		return json.Unmarshal([]byte(text), dst)
	}
	return nil
}
