package ocr

import (
	"runtime"
	"sync"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
)

// Engine is a script-family-specific OCR inference engine. Concrete
// implementations (PaddleOCR via ONNX Runtime) satisfy this internally;
// the pool only needs to create and hold them.
type Engine interface {
	Close() error
}

// EngineFactory constructs an Engine for family, given its recognition
// model/dict paths and the thread count to initialize with.
type EngineFactory func(family ScriptFamily, modelPath, dictPath string, numThreads int) (Engine, error)

// Pool lazily initializes and caches one Engine per script family. The
// first caller for a family ensures its shared and per-family models,
// builds the engine, and inserts it under lock; a post-creation re-check
// prevents concurrent double-init from leaking a duplicate engine.
type Pool struct {
	mu       sync.Mutex
	engines  map[ScriptFamily]Engine
	manager  *ModelManager
	factory  EngineFactory
}

// NewPool creates an empty pool backed by manager for model resolution
// and factory for engine construction.
func NewPool(manager *ModelManager, factory EngineFactory) *Pool {
	return &Pool{engines: make(map[ScriptFamily]Engine), manager: manager, factory: factory}
}

// Acquire returns the engine for family, initializing it on first use.
func (p *Pool) Acquire(jobID string, family ScriptFamily) (Engine, error) {
	p.mu.Lock()
	if engine, ok := p.engines[family]; ok {
		p.mu.Unlock()
		return engine, nil
	}
	p.mu.Unlock()

	if _, _, err := p.manager.EnsureSharedModels(jobID); err != nil {
		return nil, err
	}
	modelPath, dictPath, err := p.manager.EnsureRecModel(jobID, family)
	if err != nil {
		return nil, err
	}

	numThreads := runtime.NumCPU()
	if numThreads > 4 {
		numThreads = 4
	}

	engine, err := p.factory(family, modelPath, dictPath, numThreads)
	if err != nil {
		return nil, kerrors.NewPluginFailureError(jobID, "ocr-pool", "engine init failed for family "+string(family), err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.engines[family]; ok {
		// Lost the race: another caller finished initializing first.
		engine.Close()
		return existing, nil
	}
	p.engines[family] = engine
	return engine, nil
}

// CloseAll shuts down every initialized engine and drains the pool.
func (p *Pool) CloseAll() []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, engine := range p.engines {
		if err := engine.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.engines = make(map[ScriptFamily]Engine)
	return errs
}
