// Package colortable maps 256-color palette indices to 32-bit RGBA values.
//
// The default palette is baked in via go:embed; an operator may override it
// at runtime with a same-shaped file (one 6-hex-digit RGB triplet per line,
// 256 non-empty lines) and have the table hot-swapped in place, see
// NewWatched.
package colortable

import (
	_ "embed"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

//go:embed color_table.txt
var defaultPaletteText string

const size = 256

// Table maps an 8-bit color index to a packed 0xRRGGBBAA value.
type Table struct {
	data [size]uint32
}

// overrides applied after load, chosen to improve contrast on dark
// backgrounds.
var overrides = map[int]uint32{
	0:  0x303030FF,
	4:  0x3030C0FF,
	7:  0xA0A0A0FF,
	8:  0x707070FF,
	15: 0xE0E0E0FF,
}

// Default returns the baked-in 256-color palette.
func Default() *Table {
	t, err := parse(defaultPaletteText)
	if err != nil {
		// The embedded resource is a build-time invariant; a parse failure
		// here means the binary was built wrong.
		panic(fmt.Sprintf("colortable: embedded palette invalid: %v", err))
	}
	return t
}

// Load parses palette text in the same format as the embedded default:
// one non-empty line per entry, each a 6-hex-digit RGB triplet, exactly
// 256 entries after blank lines are skipped.
func Load(text string) (*Table, error) {
	return parse(text)
}

func parse(text string) (*Table, error) {
	t := &Table{}
	i := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i >= size {
			return nil, fmt.Errorf("colortable: more than %d entries", size)
		}
		if len(line) != 6 {
			return nil, fmt.Errorf("colortable: line %d: want 6 hex digits, got %q", i, line)
		}
		r, err := strconv.ParseUint(line[0:2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("colortable: line %d: %w", i, err)
		}
		g, err := strconv.ParseUint(line[2:4], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("colortable: line %d: %w", i, err)
		}
		b, err := strconv.ParseUint(line[4:6], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("colortable: line %d: %w", i, err)
		}
		t.data[i] = uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xFF
		i++
	}
	if i != size {
		return nil, fmt.Errorf("colortable: want %d entries, got %d", size, i)
	}
	for idx, rgba := range overrides {
		t.data[idx] = rgba
	}
	return t, nil
}

// RGBA returns the 32-bit RGBA value for a palette index. Out-of-range
// lookups are a programmer error: the table is fixed-size and callers are
// expected to have already validated the index came from an 8-bit SGR
// parameter.
func (t *Table) RGBA(index uint8) uint32 {
	return t.data[index]
}

// Watched holds a Table that can be atomically swapped by a background
// fsnotify watcher when its backing file changes.
type Watched struct {
	current atomic.Pointer[Table]
	watcher *fsnotify.Watcher
}

// NewWatched starts with Default() and, if path is non-empty, watches it
// for writes and hot-swaps the active table on every successful reparse.
// Swap failures are logged and the previous table is kept. Callers should
// treat every swap as invalidating all cached colors (full damage redraw).
func NewWatched(path string, onSwap func()) (*Watched, error) {
	w := &Watched{}
	w.current.Store(Default())

	if path == "" {
		return w, nil
	}

	table, err := loadFile(path)
	if err != nil {
		log.Printf("[colortable] initial load of %s failed, using default: %v", path, err)
	} else {
		w.current.Store(table)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("colortable: creating watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("colortable: watching %s: %w", path, err)
	}
	w.watcher = watcher

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				table, err := loadFile(path)
				if err != nil {
					log.Printf("[colortable] reload of %s failed, keeping previous table: %v", path, err)
					continue
				}
				w.current.Store(table)
				log.Printf("[colortable] reloaded palette from %s", path)
				if onSwap != nil {
					onSwap()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[colortable] watch error: %v", err)
			}
		}
	}()

	return w, nil
}

// Table returns the currently active palette.
func (w *Watched) Table() *Table {
	return w.current.Load()
}

// RGBA implements the same lookup as Table, always against whichever
// palette is currently active, so callers can hold a Watched instead of a
// frozen Table and see swaps take effect immediately.
func (w *Watched) RGBA(index uint8) uint32 {
	return w.current.Load().RGBA(index)
}

// Close stops the background watcher, if any.
func (w *Watched) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}
