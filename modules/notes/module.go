// Package notes is the persistent-storage demo plugin. It keeps short text
// notes in a local BadgerDB instance that it owns outright; the registry only
// ever holds the close callback.
//
// Commands, given as the request path remainder:
//
//	add/<text>  store a note, respond with its URL
//	get/<id>    fetch one note
//	list        list stored note IDs
package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/vk/plugserv/internal/ctxlog"
	"github.com/vk/plugserv/internal/plugin"
	"github.com/vk/plugserv/internal/registry"
)

const keyPrefix = "note/"

// Module implements the plugin.Module interface for this package.
type Module struct {
	opts map[string]string
}

// New returns the notes module configured with its merged option block.
// Recognized options: data_dir (defaults to a directory under the system
// temp dir).
func New(opts map[string]string) *Module {
	return &Module{opts: opts}
}

// Register adds the plugin to the binary's registration table.
func (m *Module) Register(t *plugin.Table) {
	t.Register(plugin.Descriptor{Name: "notes", Init: m.init})
}

// store is the plugin's private state. The registry never inspects it.
type store struct {
	db      *badger.DB
	baseURI string
}

func (m *Module) init(ctx context.Context, h *registry.Handle, baseURI string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	dir := m.opts["data_dir"]
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "plugserv-notes")
	}
	logger.Debug("Opening notes database.", "dir", dir)

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening notes database at %s: %w", dir, err)
	}
	// Close is registered before anything else can fail, so even an aborted
	// startup releases the database lock.
	h.AddCleanup(registry.Always, db.Close)

	s := &store{db: db, baseURI: baseURI}
	h.AddPreprocessor("notes", s.handle)
	return s, nil
}

// handle interprets the path remainder as a note command.
func (s *store) handle(input string) (string, error) {
	cmd, rest, _ := strings.Cut(input, "/")
	switch cmd {
	case "add":
		if rest == "" {
			return "", fmt.Errorf("nothing to add")
		}
		return s.add(rest)
	case "get":
		return s.get(rest)
	case "list":
		return s.list()
	default:
		return "", fmt.Errorf("unknown notes command %q (want add, get or list)", cmd)
	}
}

func (s *store) add(text string) (string, error) {
	id := uuid.NewString()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+id), []byte(text))
	})
	if err != nil {
		return "", fmt.Errorf("storing note: %w", err)
	}
	return fmt.Sprintf("stored %snotes/get/%s", s.baseURI, id), nil
}

func (s *store) get(id string) (string, error) {
	var text string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			text = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return "", fmt.Errorf("no note with id %q", id)
	}
	if err != nil {
		return "", fmt.Errorf("reading note: %w", err)
	}
	return text, nil
}

func (s *store) list() (string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("listing notes: %w", err)
	}
	if len(ids) == 0 {
		return "no notes stored", nil
	}
	sort.Strings(ids)
	return strings.Join(ids, "\n"), nil
}
