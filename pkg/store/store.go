// Package store holds the in-memory calendar collection and persists it to
// a single binary database file.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/malvik/dagbok/pkg/models"
)

// DefaultFileName is the database file name used by the application.
const DefaultFileName = "calendar_database.dat"

type changeListener struct {
	id uuid.UUID
	fn func()
}

type errorListener struct {
	id uuid.UUID
	fn func(error)
}

// Store owns an ordered collection of calendars, unique by name, and the
// backing database file. It is not safe for concurrent use; the application
// drives it from a single goroutine.
type Store struct {
	path   string
	logger *slog.Logger

	calendars []*models.Calendar

	changeListeners []changeListener
	errorListeners  []errorListener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for milestone and listener-failure
// messages. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store backed by the database file at path. The file is not
// touched until Load or Save is called.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing database file path.
func (s *Store) Path() string {
	return s.path
}

// Add appends a calendar to the store and notifies change listeners. If a
// calendar with the same name is already present the store is left unchanged
// and an *AlreadyExistsError carrying the existing calendar is returned.
func (s *Store) Add(cal *models.Calendar) error {
	if existing := s.Get(cal.Name()); existing != nil {
		return &AlreadyExistsError{Existing: existing}
	}
	s.SilentlyAdd(cal)
	s.notifyChanged()
	s.logger.Info("calendar added", "name", cal.Name())
	return nil
}

// SilentlyAdd appends a calendar without notifying listeners and without a
// uniqueness check. The load path uses it because the file was written from
// a store that already enforced uniqueness.
func (s *Store) SilentlyAdd(cal *models.Calendar) {
	s.calendars = append(s.calendars, cal)
}

// Contains reports whether a calendar with the given name is in the store.
func (s *Store) Contains(name string) bool {
	return s.Get(name) != nil
}

// Get returns the first calendar with the given name, or nil if absent.
func (s *Store) Get(name string) *models.Calendar {
	for _, cal := range s.calendars {
		if cal.Name() == name {
			return cal
		}
	}
	return nil
}

// Remove takes the given calendars out of the store, preserving the relative
// order of the rest. Change listeners are notified exactly once for the whole
// batch, even when nothing was actually removed.
func (s *Store) Remove(calendars ...*models.Calendar) {
	doomed := make(map[string]bool, len(calendars))
	names := make([]string, 0, len(calendars))
	for _, cal := range calendars {
		doomed[cal.Name()] = true
		names = append(names, cal.Name())
	}

	kept := s.calendars[:0]
	for _, cal := range s.calendars {
		if !doomed[cal.Name()] {
			kept = append(kept, cal)
		}
	}
	s.calendars = kept
	s.logger.Info("calendars removed", "names", names)
	s.notifyChanged()
}

// Calendars returns a snapshot of all calendars in insertion order.
func (s *Store) Calendars() []*models.Calendar {
	out := make([]*models.Calendar, len(s.calendars))
	copy(out, s.calendars)
	return out
}

// EnabledCalendars returns a snapshot of the calendars whose Enabled flag
// is set, in insertion order.
func (s *Store) EnabledCalendars() []*models.Calendar {
	out := make([]*models.Calendar, 0, len(s.calendars))
	for _, cal := range s.calendars {
		if cal.Enabled {
			out = append(out, cal)
		}
	}
	return out
}

// Len returns the number of calendars in the store.
func (s *Store) Len() int {
	return len(s.calendars)
}

// Save writes the whole collection to the database file, replacing it. If
// the file's directory has gone missing it is recreated and the write is
// retried exactly once. Failures are reported to the save-error listeners
// rather than returned: autosave runs with no caller waiting on a result.
// The in-memory state is never touched; a failed write may leave a partial
// file behind.
func (s *Store) Save() {
	err := s.writeFile()
	if err == nil {
		s.logger.Info("calendar database saved", "path", s.path, "calendars", len(s.calendars))
		return
	}

	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("calendar database file not found, creating a new one", "path", s.path)
		if retryErr := s.recreateAndSave(); retryErr != nil {
			s.logger.Error("could not create new calendar database file", "path", s.path, "error", retryErr)
			s.notifySaveError(retryErr)
			return
		}
		s.logger.Info("new calendar database file created", "path", s.path)
		return
	}

	s.logger.Error("could not save calendar database", "path", s.path, "error", err)
	s.notifySaveError(err)
}

func (s *Store) recreateAndSave() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return s.writeFile()
}

func (s *Store) writeFile() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := &encoder{w: w}
	if err := enc.encodeCalendars(s.calendars); err != nil {
		f.Close()
		return fmt.Errorf("encoding database: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads the database file, populating the store through the silent add
// paths. A missing file prepares the storage directory for a future Save and
// returns ErrNotFound so the caller can start with an empty store. Content
// that does not parse returns a *CorruptError; the store may be partially
// populated then and must be discarded.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("calendar database file not found, preparing storage directory", "path", s.path)
			if mkErr := os.MkdirAll(filepath.Dir(s.path), 0o755); mkErr != nil {
				return fmt.Errorf("creating database directory: %w", mkErr)
			}
			return fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return fmt.Errorf("opening calendar database: %w", err)
	}
	defer f.Close()

	dec := &decoder{r: bufio.NewReader(f)}
	if err := dec.decodeInto(s.SilentlyAdd); err != nil {
		return &CorruptError{Path: s.path, Cause: err}
	}
	s.logger.Info("calendar database loaded", "path", s.path, "calendars", len(s.calendars))
	return nil
}

// OnChange registers a callback invoked after every mutation of the calendar
// collection, and returns its subscription handle. Listeners cannot be
// removed; they live as long as the store.
func (s *Store) OnChange(fn func()) uuid.UUID {
	id := uuid.New()
	s.changeListeners = append(s.changeListeners, changeListener{id: id, fn: fn})
	return id
}

// OnSaveError registers a callback invoked when a save cannot complete, and
// returns its subscription handle.
func (s *Store) OnSaveError(fn func(error)) uuid.UUID {
	id := uuid.New()
	s.errorListeners = append(s.errorListeners, errorListener{id: id, fn: fn})
	return id
}

// notifyChanged delivers to every change listener in registration order. A
// panicking listener is logged and must not starve the ones after it.
func (s *Store) notifyChanged() {
	for _, l := range s.changeListeners {
		s.dispatch(l.id, l.fn)
	}
}

func (s *Store) notifySaveError(err error) {
	for _, l := range s.errorListeners {
		s.dispatch(l.id, func() { l.fn(err) })
	}
}

func (s *Store) dispatch(id uuid.UUID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("listener panicked", "listener", id, "panic", r)
		}
	}()
	fn()
}
