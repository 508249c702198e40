// Package datablock keeps plot data in temporary files so that gnuplot can
// re-read a block after it has been rewritten.
package datablock

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	gnuplot "github.com/goliatone/go-gnuplot"
	"github.com/google/uuid"
)

// TempFileManager materializes column data into files under Dir. It is safe
// for concurrent use; rewriting a single block must still be serialized by
// the caller.
type TempFileManager struct {
	// Dir is where blocks are created. Empty means os.TempDir().
	Dir    string
	Logger *slog.Logger

	mu     sync.Mutex
	blocks map[string]*FileBlock
}

// NewTempFileManager returns a manager creating blocks under dir.
func NewTempFileManager(dir string) *TempFileManager {
	return &TempFileManager{Dir: dir}
}

// Materialize writes data to a new temporary file.
func (m *TempFileManager) Materialize(data gnuplot.Columns) (gnuplot.BlockHandle, error) {
	id := uuid.NewString()
	file, err := os.CreateTemp(m.Dir, "gnuplot-"+id[:8]+"-*.dat")
	if err != nil {
		return nil, fmt.Errorf("datablock: create: %w", err)
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("datablock: close %s: %w", path, err)
	}

	block := &FileBlock{id: id, path: path}
	if err := block.Rewrite(data); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	m.mu.Lock()
	if m.blocks == nil {
		m.blocks = map[string]*FileBlock{}
	}
	m.blocks[id] = block
	m.mu.Unlock()

	m.log().Debug("gnuplot datablock materialized", "id", id, "path", path, "rows", data.Rows())
	return block, nil
}

// Lookup returns the block with id.
func (m *TempFileManager) Lookup(id string) (*FileBlock, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	block, ok := m.blocks[id]
	return block, ok
}

// Len is the number of live blocks.
func (m *TempFileManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}

// Close removes every file the manager created.
func (m *TempFileManager) Close() error {
	m.mu.Lock()
	blocks := m.blocks
	m.blocks = nil
	m.mu.Unlock()

	var errs []error
	for _, block := range blocks {
		if err := os.Remove(block.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("datablock: remove %s: %w", block.path, err))
		}
	}
	return errors.Join(errs...)
}

func (m *TempFileManager) log() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// FileBlock is a block backed by one file. The last written data is kept in
// memory; Data never reads the file back.
type FileBlock struct {
	id   string
	path string

	mu   sync.Mutex
	data gnuplot.Columns
}

// ID implements gnuplot.BlockHandle.
func (b *FileBlock) ID() string { return b.id }

// Path is the file holding the data.
func (b *FileBlock) Path() string { return b.path }

// Ref is the quoted file name as it appears in a plot command.
func (b *FileBlock) Ref() string {
	return "'" + strings.ReplaceAll(b.path, "'", "''") + "'"
}

// Data returns the last written data.
func (b *FileBlock) Data() gnuplot.Columns {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Append(nil)
}

// Rewrite replaces the file content with data.
func (b *FileBlock) Rewrite(data gnuplot.Columns) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.WriteFile(b.path, []byte(data.Format()), 0o600); err != nil {
		return fmt.Errorf("datablock: write %s: %w", b.path, err)
	}
	b.data = data.Append(nil)
	return nil
}
