// Package journal writes placement passes as zstd-compressed JSON lines.
//
// A journal file holds one pass: a header line followed by one line per
// placement in attempt order.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/spawn"
)

// Record types.
const (
	TypePass      = "pass"
	TypePlacement = "placement"
)

// ErrMalformed is returned for journals that do not start with a pass header.
var ErrMalformed = errors.New("malformed journal")

type passHeader struct {
	Type              string    `json:"type"`
	ID                uuid.UUID `json:"id"`
	Field             string    `json:"field"`
	Seed              uint64    `json:"seed"`
	Region            string    `json:"region"`
	StartedAt         time.Time `json:"started_at"`
	DurationNS        int64     `json:"duration_ns"`
	Attempts          int       `json:"attempts"`
	Placed            int       `json:"placed"`
	Rare              int       `json:"rare"`
	NoSelection       int       `json:"no_selection"`
	RejectedExclusion int       `json:"rejected_exclusion"`
	RejectedOverlap   int       `json:"rejected_overlap"`
}

// maxResultsHint caps the preallocation taken from an untrusted header.
const maxResultsHint = 1 << 16

func (h passHeader) validate() error {
	counters := []struct {
		name string
		v    int
	}{
		{"attempts", h.Attempts},
		{"placed", h.Placed},
		{"rare", h.Rare},
		{"no_selection", h.NoSelection},
		{"rejected_exclusion", h.RejectedExclusion},
		{"rejected_overlap", h.RejectedOverlap},
	}
	for _, c := range counters {
		if c.v < 0 {
			return fmt.Errorf("negative %s %d", c.name, c.v)
		}
	}
	if h.Placed > h.Attempts {
		return fmt.Errorf("placed %d exceeds attempts %d", h.Placed, h.Attempts)
	}
	if h.Rare > h.Placed {
		return fmt.Errorf("rare %d exceeds placed %d", h.Rare, h.Placed)
	}
	return nil
}

type placementLine struct {
	Type       string                    `json:"type"`
	Seq        int                       `json:"seq"`
	Name       string                    `json:"name"`
	KindIndex  int                       `json:"kind_index"`
	Archetype  model.Archetype           `json:"archetype"`
	Position   [3]float64                `json:"pos"`
	Yaw        float64                   `json:"yaw"`
	Scale      float64                   `json:"scale"`
	Radius     float64                   `json:"radius"`
	Rare       bool                      `json:"rare,omitempty"`
	Footprint  *model.FootprintShape     `json:"footprint,omitempty"`
	Ingredient *model.IngredientInstance `json:"ingredient,omitempty"`
}

// Writer writes each pass to its own file under a directory.
type Writer struct {
	dir string
	mu  sync.Mutex
}

// NewWriter creates a journal writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// PathFor returns the journal file a pass is written to.
// The file always lands directly in the writer's directory.
func (w *Writer) PathFor(pass *spawn.Pass) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", fileStem(pass.Field), pass.ID))
}

// fileStem заменяет разделители пути, чтобы имя поля не выводило из каталога.
func fileStem(field string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, field)
}

// SavePass writes pass to a new journal file.
func (w *Writer) SavePass(ctx context.Context, pass *spawn.Pass) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("saving pass %s: %w", pass.ID, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating journal dir %s: %w", w.dir, err)
	}
	path := w.PathFor(pass)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating journal %s: %w", path, err)
	}
	if err := Encode(f, pass); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing journal %s: %w", path, err)
	}
	return nil
}

// Encode writes pass to out as zstd-compressed JSON lines.
func Encode(out io.Writer, pass *spawn.Pass) error {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(bw)

	st := pass.Stats
	if err := je.Encode(passHeader{
		Type:              TypePass,
		ID:                pass.ID,
		Field:             pass.Field,
		Seed:              pass.Seed,
		Region:            pass.Region,
		StartedAt:         pass.StartedAt,
		DurationNS:        int64(pass.Duration),
		Attempts:          st.Attempts,
		Placed:            st.Placed,
		Rare:              st.Rare,
		NoSelection:       st.NoSelection,
		RejectedExclusion: st.RejectedExclusion,
		RejectedOverlap:   st.RejectedOverlap,
	}); err != nil {
		_ = enc.Close()
		return err
	}

	for _, r := range pass.Results {
		if err := je.Encode(placementLine{
			Type:       TypePlacement,
			Seq:        r.Seq,
			Name:       r.Name,
			KindIndex:  r.KindIndex,
			Archetype:  r.Archetype,
			Position:   [3]float64{r.Position.X, r.Position.Y, r.Position.Z},
			Yaw:        r.Yaw,
			Scale:      r.Scale,
			Radius:     r.Radius,
			Rare:       r.Rare,
			Footprint:  r.Footprint,
			Ingredient: r.Ingredient,
		}); err != nil {
			_ = enc.Close()
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadFile decodes the journal at path.
func ReadFile(path string) (*spawn.Pass, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a pass written by Encode.
func Decode(in io.Reader) (*spawn.Pass, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	var h passHeader
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if h.Type != TypePass {
		return nil, fmt.Errorf("%w: first record is %q", ErrMalformed, h.Type)
	}
	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	pass := &spawn.Pass{
		ID:        h.ID,
		Field:     h.Field,
		Seed:      h.Seed,
		Region:    h.Region,
		StartedAt: h.StartedAt,
		Duration:  time.Duration(h.DurationNS),
		Stats: spawn.Stats{
			Attempts:          h.Attempts,
			Placed:            h.Placed,
			Rare:              h.Rare,
			NoSelection:       h.NoSelection,
			RejectedExclusion: h.RejectedExclusion,
			RejectedOverlap:   h.RejectedOverlap,
		},
		Results: make([]model.PlacementResult, 0, min(h.Placed, maxResultsHint)),
	}

	for sc.Scan() {
		var p placementLine
		if err := json.Unmarshal(sc.Bytes(), &p); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, len(pass.Results)+2, err)
		}
		if p.Type != TypePlacement {
			return nil, fmt.Errorf("%w: unexpected record %q", ErrMalformed, p.Type)
		}
		pass.Results = append(pass.Results, model.PlacementResult{
			Seq:        p.Seq,
			Name:       p.Name,
			KindIndex:  p.KindIndex,
			Archetype:  p.Archetype,
			Position:   model.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
			Yaw:        p.Yaw,
			Scale:      p.Scale,
			Radius:     p.Radius,
			Rare:       p.Rare,
			Footprint:  p.Footprint,
			Ingredient: p.Ingredient,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pass, nil
}
