// Package loader reads artifacts from disk and rehydrates them.
//
// Files are mapped read-only and decoded in place. Files with the
// CompressedExt extension are snappy-decoded first. Decoded programs are
// cached by the SHA3-256 digest of the uncompressed artifact, so the same
// bytes loaded from different paths share one program.
package loader

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	"github.com/golang/snappy"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
	"github.com/wippyai/sksl-runtime/rehydrate"
)

// CompressedExt marks snappy-compressed artifacts.
const CompressedExt = ".sz"

// Digest identifies artifact contents.
type Digest [32]byte

// Sum returns the digest of data.
func Sum(data []byte) Digest { return sha3.Sum256(data) }

// Options configures a Loader.
type Options struct {
	// Logger receives load records. Nil uses the package logger.
	Logger *zap.Logger
	// CacheSize is the number of decoded programs kept. Zero disables
	// caching.
	CacheSize int
}

// Stats counts cache outcomes.
type Stats struct {
	Hits   int64
	Misses int64
}

// Loader decodes artifacts against one language Context. It is safe for
// concurrent use; each load runs its own decode session. Cached programs
// are shared between callers and must be treated as read-only.
type Loader struct {
	dec    *rehydrate.Decoder
	cache  *lru.Cache[Digest, *ir.Program]
	log    *zap.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Loader.
func New(lang *ir.Context, opts Options) (*Loader, error) {
	if lang == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "loader requires a language context")
	}
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	l := &Loader{
		dec: rehydrate.NewDecoder(lang, rehydrate.Options{Logger: log}),
		log: log,
	}
	if opts.CacheSize < 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "cache size must not be negative")
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[Digest, *ir.Program](opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "create cache")
		}
		l.cache = cache
	}
	return l, nil
}

// LoadBytes decodes an uncompressed program artifact.
func (l *Loader) LoadBytes(data []byte) (*ir.Program, error) {
	if l.cache == nil {
		return l.dec.Decode(data)
	}
	key := Sum(data)
	if prog, ok := l.cache.Get(key); ok {
		l.hits.Add(1)
		debugf("cache hit %x", key[:8])
		return prog, nil
	}
	l.misses.Add(1)
	prog, err := l.dec.Decode(data)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, prog)
	return prog, nil
}

// LoadFile decodes the program artifact at path.
func (l *Loader) LoadFile(path string) (*ir.Program, error) {
	var prog *ir.Program
	err := withArtifact(path, func(data []byte) error {
		var err error
		prog, err = l.LoadBytes(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Debug("loaded program",
		zap.String("path", path),
		zap.Stringer("kind", prog.Config.Kind),
		zap.Int("elements", len(prog.Elements)))
	return prog, nil
}

// LoadModuleFile decodes the module artifact at path into a scope nested
// in parent. Modules are not cached since each decode binds to its parent.
func (l *Loader) LoadModuleFile(path string, parent *ir.SymbolTable) (*ir.Module, error) {
	var mod *ir.Module
	err := withArtifact(path, func(data []byte) error {
		var err error
		mod, err = l.dec.DecodeModule(data, parent)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.log.Debug("loaded module", zap.String("path", path), zap.Int("elements", len(mod.Elements)))
	return mod, nil
}

// Stats reports cache outcomes since the Loader was created.
func (l *Loader) Stats() Stats {
	return Stats{Hits: l.hits.Load(), Misses: l.misses.Load()}
}

// ReadFile returns the uncompressed contents of the artifact at path.
func ReadFile(path string) ([]byte, error) {
	var out []byte
	err := withArtifact(path, func(data []byte) error {
		out = append([]byte(nil), data...)
		return nil
	})
	return out, err
}

// withArtifact maps path and calls fn with its uncompressed contents. The
// slice is only valid during fn.
func withArtifact(path string, fn func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Load("open "+path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Load("stat "+path, err)
	}
	var data []byte
	if info.Size() > 0 {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return errors.Load("map "+path, err)
		}
		defer func() {
			if err := m.Unmap(); err != nil {
				Logger().Warn("unmap artifact", zap.String("path", path), zap.Error(err))
			}
		}()
		data = m
	}

	if filepath.Ext(path) == CompressedExt {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return errors.Load("snappy decode "+path, err)
		}
	}
	return fn(data)
}
