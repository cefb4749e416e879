// Package compound layers a record-oriented convenience API over the raw
// PUG REST repo: typed accessors for the common computed properties, a
// client-side cache keyed by cid and memoized cross-reference lookups.
package compound

import (
	"context"
	"strconv"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"

	"github.com/chemstack/pugrest/internal/config"
	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/model"
	"github.com/chemstack/pugrest/pkg/repo"
	"github.com/chemstack/pugrest/pkg/utils"
)

type Service struct {
	repo  repo.PubChemRepo
	cache *haxmap.Map[uint32, *Compound]
	pool  *ants.Pool
}

// New builds the service around an existing repo. Batch sizing comes from
// the global configuration.
func New(r repo.PubChemRepo) (*Service, error) {
	conf := config.Global()
	workers := conf.Batch.Workers
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, code.InvalidArgumentErr.WithErr(err)
	}
	return &Service{
		repo:  r,
		cache: haxmap.New[uint32, *Compound](uintptr(conf.Batch.CacheSize)),
		pool:  pool,
	}, nil
}

// Close releases the worker pool. The cache needs no teardown.
func (s *Service) Close() {
	s.pool.Release()
}

// FromCID returns the compound for a cid, fetching and caching the full
// record on first use.
func (s *Service) FromCID(ctx context.Context, cid uint32) (*Compound, error) {
	if c, ok := s.cache.Get(cid); ok {
		return c, nil
	}
	recs, err := s.repo.GetCompounds(ctx, strconv.FormatUint(uint64(cid), 10), repo.NamespaceCID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, code.NotFoundErr.WithMsgf("cid %d has no record", cid)
	}
	c := &Compound{svc: s, rec: recs[0]}
	s.cache.Set(cid, c)
	return c, nil
}

// Lookup resolves an identifier in any namespace; name and structure
// lookups can legitimately return several compounds.
func (s *Service) Lookup(ctx context.Context, identifier, namespace string) ([]*Compound, error) {
	recs, err := s.repo.GetCompounds(ctx, identifier, namespace)
	if err != nil {
		return nil, err
	}
	out := make([]*Compound, 0, len(recs))
	for _, rec := range recs {
		c := &Compound{svc: s, rec: rec}
		if rec.CID != 0 {
			s.cache.Set(rec.CID, c)
		}
		out = append(out, c)
	}
	return out, nil
}

// Batch fetches many cids through the worker pool. Order follows the
// input; the first error aborts the result. A panic inside a fetch is
// recovered into that slot's error so one bad record cannot take down the
// pool worker.
func (s *Service) Batch(ctx context.Context, cids []uint32) ([]*Compound, error) {
	out := make([]*Compound, len(cids))
	errs := make([]error, len(cids))

	var wg sync.WaitGroup
	for i, cid := range cids {
		wg.Add(1)
		i, cid := i, cid
		if err := s.pool.Submit(func() {
			defer wg.Done()
			if perr := utils.SafelyRun(func() {
				out[i], errs[i] = s.FromCID(ctx, cid)
			}); perr != nil {
				errs[i] = code.FromError(perr)
			}
		}); err != nil {
			wg.Done()
			errs[i] = code.InvalidArgumentErr.WithErr(err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Compound wraps a decoded record with property accessors and memoized
// cross references. The record itself is immutable; only the memo fields
// are guarded.
type Compound struct {
	svc *Service
	rec *model.Compound

	mu              sync.Mutex
	synonyms        []string
	synonymsFetched bool
	sids            []uint32
	sidsFetched     bool
	aids            []uint32
	aidsFetched     bool
}

// Record exposes the underlying decoded record.
func (c *Compound) Record() *model.Compound { return c.rec }

func (c *Compound) CID() uint32             { return c.rec.CID }
func (c *Compound) Charge() int             { return c.rec.Charge }
func (c *Compound) Atoms() []model.Atom     { return c.rec.Atoms }
func (c *Compound) Bonds() []model.Bond     { return c.rec.Bonds }
func (c *Compound) Counts() map[string]int  { return c.rec.Counts }
func (c *Compound) Props() model.Properties { return c.rec.Props }

func (c *Compound) stringProp(f model.PropFilter) string {
	v, ok := c.rec.Props.Find(f)
	if !ok {
		return ""
	}
	s, _ := v.String()
	return s
}

func (c *Compound) floatProp(f model.PropFilter) (float64, bool) {
	v, ok := c.rec.Props.Find(f)
	if !ok {
		return 0, false
	}
	return v.Float64()
}

func (c *Compound) MolecularFormula() string {
	return c.stringProp(model.PropFilter{Label: "Molecular Formula"})
}

func (c *Compound) MolecularWeight() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Molecular Weight"})
}

// SMILES prefers the stereo-aware rendering and falls back through the
// names older record versions use.
func (c *Compound) SMILES() string {
	for _, name := range []string{"Absolute", "Isomeric", "Canonical"} {
		if s := c.stringProp(model.PropFilter{Label: "SMILES", Name: name}); s != "" {
			return s
		}
	}
	return c.stringProp(model.PropFilter{Label: "SMILES"})
}

func (c *Compound) InChI() string {
	return c.stringProp(model.PropFilter{Label: "InChI", Name: "Standard"})
}

func (c *Compound) InChIKey() string {
	return c.stringProp(model.PropFilter{Label: "InChIKey", Name: "Standard"})
}

func (c *Compound) IUPACName() string {
	return c.stringProp(model.PropFilter{Label: "IUPAC Name", Name: "Preferred"})
}

func (c *Compound) XLogP() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Log P"})
}

func (c *Compound) ExactMass() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Mass", Name: "Exact"})
}

func (c *Compound) MonoisotopicMass() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Weight", Name: "MonoIsotopic"})
}

func (c *Compound) TPSA() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Topological", Name: "Polar Surface Area"})
}

func (c *Compound) Complexity() (float64, bool) {
	return c.floatProp(model.PropFilter{Label: "Compound Complexity"})
}

func (c *Compound) Fingerprint() (string, error) {
	return c.rec.CACTVSFingerprint()
}

// Synonyms fetches and memoizes the synonym list. The second round trip
// happens once per compound instance.
func (c *Compound) Synonyms(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.synonymsFetched {
		return c.synonyms, nil
	}
	infos, err := c.svc.repo.GetSynonyms(ctx, c.cidString(), repo.NamespaceCID)
	if err != nil {
		return nil, err
	}
	var syns []string
	for _, info := range infos {
		syns = append(syns, info.Synonyms...)
	}
	c.synonyms = syns
	c.synonymsFetched = true
	return syns, nil
}

// CachedSynonyms returns the memo without fetching; ok is false while no
// lookup has happened yet.
func (c *Compound) CachedSynonyms() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.synonyms, c.synonymsFetched
}

// SIDs fetches and memoizes the substance ids depositing this compound.
func (c *Compound) SIDs(ctx context.Context) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sidsFetched {
		return c.sids, nil
	}
	ids, err := c.svc.repo.GetSIDs(ctx, c.cidString(), repo.NamespaceCID)
	if err != nil {
		return nil, err
	}
	c.sids = ids
	c.sidsFetched = true
	return ids, nil
}

// CachedSIDs returns the memo without fetching.
func (c *Compound) CachedSIDs() ([]uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sids, c.sidsFetched
}

// AIDs fetches and memoizes the assay ids testing this compound.
func (c *Compound) AIDs(ctx context.Context) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aidsFetched {
		return c.aids, nil
	}
	ids, err := c.svc.repo.GetAIDs(ctx, c.cidString(), repo.NamespaceCID)
	if err != nil {
		return nil, err
	}
	c.aids = ids
	c.aidsFetched = true
	return ids, nil
}

// CachedAIDs returns the memo without fetching.
func (c *Compound) CachedAIDs() ([]uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aids, c.aidsFetched
}

func (c *Compound) cidString() string {
	return strconv.FormatUint(uint64(c.rec.CID), 10)
}
