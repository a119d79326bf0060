// Package kb loads and owns the in-memory knowledge base: the stable-order
// formula sequence and the taxonomy cache derived from it. Reloading swaps
// both atomically; an existing cache is never patched in place.
package kb

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/kif"
	"github.com/ontokit/axigen/sym"
	"github.com/ontokit/axigen/taxonomy"
)

// KnowledgeBase holds the loaded formulas and their taxonomy cache.
type KnowledgeBase struct {
	name  string
	paths []string

	mu       sync.RWMutex
	formulas []*kif.Formula
	cache    *taxonomy.Cache

	logger *zap.SugaredLogger
}

// Load reads every source file (in sorted path order, so formula order is
// stable across runs) and builds the taxonomy cache.
func Load(name string, paths []string, log *zap.SugaredLogger) (*KnowledgeBase, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if len(paths) == 0 {
		return nil, errors.New("no knowledge base files configured")
	}

	k := &KnowledgeBase{
		name:   name,
		paths:  append([]string(nil), paths...),
		logger: log,
	}
	sort.Strings(k.paths)

	if err := k.Reload(); err != nil {
		return nil, err
	}
	return k, nil
}

// Reload re-reads every source file and rebuilds the taxonomy cache from
// scratch, then swaps both in under the lock. Readers holding formulas or a
// cache reference from before the swap keep a consistent older view.
func (k *KnowledgeBase) Reload() error {
	var formulas []*kif.Formula
	for _, path := range k.paths {
		fs, err := kif.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "load %s", path)
		}
		formulas = append(formulas, fs...)
	}
	cache := taxonomy.Build(formulas, k.logger)

	k.mu.Lock()
	k.formulas = formulas
	k.cache = cache
	k.mu.Unlock()

	k.logger.Infow(sym.KB+" Knowledge base loaded",
		"name", k.name,
		"files", len(k.paths),
		"formulas", len(formulas),
	)
	return nil
}

// Name returns the knowledge base name.
func (k *KnowledgeBase) Name() string { return k.name }

// Paths returns the source files, sorted.
func (k *KnowledgeBase) Paths() []string {
	return append([]string(nil), k.paths...)
}

// Formulas returns the stable-order formula sequence. The returned slice is
// a copy; the underlying formulas are immutable.
func (k *KnowledgeBase) Formulas() []*kif.Formula {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]*kif.Formula(nil), k.formulas...)
}

// Taxonomy returns the current taxonomy cache.
func (k *KnowledgeBase) Taxonomy() *taxonomy.Cache {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cache
}

// RestoreTaxonomy installs a cache restored from a snapshot, keeping the
// loaded formulas. Callers verify the snapshot's basis against Fingerprint
// first; a stale snapshot must lose to the freshly built cache.
func (k *KnowledgeBase) RestoreTaxonomy(cache *taxonomy.Cache) {
	k.mu.Lock()
	k.cache = cache
	k.mu.Unlock()
}

// Fingerprint identifies the loaded formula sequence. Snapshots persisted
// against one fingerprint are only restored while the knowledge base still
// hashes to it.
func (k *KnowledgeBase) Fingerprint() string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	h := sha256.New()
	for _, f := range k.formulas {
		h.Write([]byte(f.ID))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
