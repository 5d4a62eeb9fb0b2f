package eisenhower

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NoteStore keeps free-form notes shared by all sessions.
type NoteStore struct {
	mu    sync.RWMutex
	p     *Persister
	l     Logger
	now   func() time.Time
	notes []Note
}

func NewNoteStore(p *Persister, logger Logger) (*NoteStore, error) {
	s := &NoteStore{
		p:   p,
		l:   orNop(logger),
		now: time.Now,
	}
	if _, err := p.Load(KeyNotes, &s.notes); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *NoteStore) save() {
	s.p.Save(KeyNotes, s.notes)
}

func (s *NoteStore) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n Note) bool {
		return n.ID == id
	})
}

func cloneNote(n Note) Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

func (s *NoteStore) ListNotes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, cloneNote(n))
	}
	return notes
}

func (s *NoteStore) NoteByID(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneNote(s.notes[i]), nil
	}
	return Note{}, fmt.Errorf("%q: %w", id, ErrNoteNotFound)
}

func (s *NoteStore) NotesByTag(tag string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var notes []Note
	for _, n := range s.notes {
		if slices.Contains(n.Tags, tag) {
			notes = append(notes, cloneNote(n))
		}
	}
	return notes
}

func (s *NoteStore) AddNote(data NewNote) (Note, error) {
	title, err := ValidateTitle(data.Title)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   strings.TrimSpace(data.Content),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      cleanTags(data.Tags),
	}
	s.notes = append(s.notes, n)
	s.l.Debug("added note", "id", n.ID)
	s.save()
	return cloneNote(n), nil
}

func (s *NoteStore) UpdateNote(note Note) (Note, error) {
	title, err := ValidateTitle(note.Title)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(note.ID)
	if i < 0 {
		s.l.Warn("refused note update", "id", note.ID, "error", ErrNoteNotFound)
		return Note{}, fmt.Errorf("update %q: %w", note.ID, ErrNoteNotFound)
	}
	note.Title = title
	note.Content = strings.TrimSpace(note.Content)
	note.Tags = cleanTags(note.Tags)
	note.CreatedAt = s.notes[i].CreatedAt
	note.UpdatedAt = s.now()
	s.notes[i] = note
	s.l.Debug("updated note", "id", note.ID)
	s.save()
	return cloneNote(note), nil
}

func (s *NoteStore) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.l.Warn("refused note delete", "id", id, "error", ErrNoteNotFound)
		return fmt.Errorf("delete %q: %w", id, ErrNoteNotFound)
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	s.save()
	return nil
}

// cleanTags trims tags and drops empties and duplicates, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
