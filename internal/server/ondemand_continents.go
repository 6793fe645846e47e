// Package server adapts the on-demand generate-and-cache pattern to
// continent data: a request for a continent's metadata or textures
// either serves what's already in the store or generates it first.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nickelm/golemcraft-worldgen/internal/conthost"
	"github.com/nickelm/golemcraft-worldgen/internal/pipeline"
	"github.com/nickelm/golemcraft-worldgen/internal/worlddata"
	"github.com/nickelm/golemcraft-worldgen/internal/worldtemplate"
)

// OnDemandContinentsConfig configures the on-demand generation server.
type OnDemandContinentsConfig struct {
	MaxConcurrentGenerations int
	GenerationTimeout        time.Duration
	CacheControl             string
}

// TemplateResolver looks up the named template a worldID/continentID pair
// should be generated from. A real host typically keys this off a small
// in-memory registry or a config directory of YAML templates.
type TemplateResolver func(worldID, continentID string) (*worldtemplate.Template, uint32, error)

// OnDemandContinents serves continent metadata and textures out of a
// conthost.Store, generating and caching on first request (or whenever
// the store reports staleness) rather than pre-baking everything.
type OnDemandContinents struct {
	store    conthost.Store
	resolve  TemplateResolver
	logger   *slog.Logger
	cfg      OnDemandContinentsConfig
	sem      chan struct{}
	locks    sync.Map // map[string]*sync.Mutex, keyed by worldID/continentID

	activeGenerations atomic.Int32
	totalGenerated    atomic.Int64
	totalFailed       atomic.Int64
}

// NewOnDemandContinents builds a server around store, resolving templates
// via resolve.
func NewOnDemandContinents(store conthost.Store, resolve TemplateResolver, cfg OnDemandContinentsConfig, logger *slog.Logger) *OnDemandContinents {
	if cfg.MaxConcurrentGenerations <= 0 {
		cfg.MaxConcurrentGenerations = 1
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 2 * time.Minute
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OnDemandContinents{
		store:   store,
		resolve: resolve,
		logger:  logger,
		cfg:     cfg,
		sem:     make(chan struct{}, cfg.MaxConcurrentGenerations),
	}
}

// Handler serves GET /continents/{worldID}/{continentID}/metadata and
// GET /continents/{worldID}/{continentID}/textures/{type}.
func (s *OnDemandContinents) Handler() http.Handler {
	return http.HandlerFunc(s.serve)
}

func (s *OnDemandContinents) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	worldID, continentID, resource, textureType, ok := parseContinentPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.ensureGenerated(r.Context(), worldID, continentID); err != nil {
		s.logger.Error("continent generation failed", "world_id", worldID, "continent_id", continentID, "error", err)
		http.Error(w, fmt.Sprintf("failed to generate continent: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", s.cfg.CacheControl)

	switch resource {
	case "metadata":
		s.serveMetadata(w, worldID, continentID)
	case "textures":
		s.serveTexture(w, worldID, continentID, textureType)
	default:
		http.NotFound(w, r)
	}
}

func (s *OnDemandContinents) serveMetadata(w http.ResponseWriter, worldID, continentID string) {
	rec, ok, err := s.store.GetContinentMetadata(worldID, continentID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load metadata: %v", err), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		s.logger.Error("failed to encode metadata response", "error", err)
	}
}

func (s *OnDemandContinents) serveTexture(w http.ResponseWriter, worldID, continentID, textureType string) {
	// Textures aren't separately fetchable from conthost.Store today —
	// SaveTexture has no paired Get. Exposing the encoded bytes here
	// would need a GetTexture addition to the Store interface, which is
	// out of scope until a consumer actually needs random texture
	// access over HTTP rather than a local file/sqlite read.
	_ = worlddata.TextureType(textureType)
	http.Error(w, "texture retrieval over HTTP is not yet implemented", http.StatusNotImplemented)
}

// ensureGenerated regenerates worldID/continentID if the store reports it
// stale, serializing concurrent requests for the same continent behind a
// per-key lock and an overall concurrency semaphore.
func (s *OnDemandContinents) ensureGenerated(ctx context.Context, worldID, continentID string) error {
	stale, err := s.store.NeedsRegeneration(worldID, continentID)
	if err != nil {
		return fmt.Errorf("checking staleness: %w", err)
	}
	if !stale {
		return nil
	}

	key := worldID + "/" + continentID
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	// Re-check: another request may have generated it while we waited.
	stale, err = s.store.NeedsRegeneration(worldID, continentID)
	if err != nil {
		return fmt.Errorf("checking staleness: %w", err)
	}
	if !stale {
		return nil
	}

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return ctx.Err()
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	t, seed, err := s.resolve(worldID, continentID)
	if err != nil {
		return fmt.Errorf("resolving template: %w", err)
	}

	s.activeGenerations.Add(1)
	defer s.activeGenerations.Add(-1)

	wd, err := pipeline.GenerateAll(genCtx, seed, t, nil, nil)
	if err != nil {
		s.totalFailed.Add(1)
		return err
	}

	rec := worlddata.ToRecord(wd, worldID, continentID)
	if err := s.store.SaveContinentMetadata(rec); err != nil {
		s.totalFailed.Add(1)
		return fmt.Errorf("saving metadata: %w", err)
	}
	for textureType, tex := range wd.Textures {
		texRec := worlddata.EncodeTexture(tex, worldID, continentID, worlddata.TextureType(textureType))
		if err := s.store.SaveTexture(texRec); err != nil {
			s.totalFailed.Add(1)
			return fmt.Errorf("saving texture %q: %w", textureType, err)
		}
	}

	s.totalGenerated.Add(1)
	return nil
}

func (s *OnDemandContinents) lockFor(key string) *sync.Mutex {
	if v, ok := s.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

// parseContinentPath parses /continents/{worldID}/{continentID}/metadata
// or /continents/{worldID}/{continentID}/textures/{type}.
func parseContinentPath(requestPath string) (worldID, continentID, resource, textureType string, ok bool) {
	parts := strings.Split(strings.Trim(path.Clean(requestPath), "/"), "/")
	if len(parts) < 4 || parts[0] != "continents" {
		return "", "", "", "", false
	}
	worldID, continentID, resource = parts[1], parts[2], parts[3]
	if resource == "textures" {
		if len(parts) != 5 {
			return "", "", "", "", false
		}
		return worldID, continentID, resource, parts[4], true
	}
	if len(parts) != 4 {
		return "", "", "", "", false
	}
	return worldID, continentID, resource, "", true
}
