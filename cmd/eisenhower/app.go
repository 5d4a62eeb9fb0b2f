package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	txStdLib "github.com/Thiht/transactor/stdlib"

	"github.com/benjamonnguyen/eisenhower"
	"github.com/benjamonnguyen/eisenhower/charmlog"
	"github.com/benjamonnguyen/eisenhower/rediskv"
	"github.com/benjamonnguyen/eisenhower/sqlite"
)

// app holds the wired stores shared by the TUI and the one-shot commands.
type app struct {
	conf eisenhower.Config
	l    eisenhower.Logger
	repo eisenhower.KVRepo

	sessions *eisenhower.SessionStore
	tasks    *eisenhower.TaskStore
	notes    *eisenhower.NoteStore
	theme    *eisenhower.ThemeStore

	closers []io.Closer
}

func openApp(ctx context.Context, confFile string) (*app, error) {
	conf, err := eisenhower.LoadConfig(confFile)
	if err != nil {
		return nil, err
	}

	a := &app{conf: conf}
	f, err := charmlog.OpenFile(conf.LogPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, f)
	a.l = charmlog.NewLogger(charmlog.Options{
		Writer: f,
		Level:  conf.LogLevel,
	})
	a.l.Info("loaded config", "config", conf)

	a.repo, err = a.openRepo(ctx)
	if err != nil {
		a.l.Error("failed to open storage", "url", conf.DatabaseURL, "error", err)
		a.Close()
		return nil, err
	}

	if err := a.openStores(); err != nil {
		a.l.Error("failed to load stored data", "error", err)
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStores() error {
	p := eisenhower.NewPersister(a.repo, a.l, a.conf.StorageTimeout)
	var err error
	if a.sessions, err = eisenhower.NewSessionStore(p, a.l); err != nil {
		return err
	}
	if a.tasks, err = eisenhower.NewTaskStore(a.sessions, p, a.l); err != nil {
		return err
	}
	if a.notes, err = eisenhower.NewNoteStore(p, a.l); err != nil {
		return err
	}
	a.theme = eisenhower.NewThemeStore(p, a.l)
	return nil
}

func (a *app) openRepo(ctx context.Context) (eisenhower.KVRepo, error) {
	if a.conf.IsRedisURL() {
		client, err := rediskv.Open(ctx, a.conf.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		return rediskv.NewKVRepo(client, a.conf.Namespace, a.l), nil
	}

	if err := os.MkdirAll(filepath.Dir(a.conf.DatabaseURL), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlite.Open(a.conf.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db)
	if err := db.Migrate(sqlite.Migrations); err != nil {
		return nil, err
	}
	tx, dbGetter := txStdLib.NewTransactor(db.DB(), txStdLib.NestedTransactionsSavepoints)
	return sqlite.NewKVRepo(tx, dbGetter, a.conf.Namespace, a.l), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
