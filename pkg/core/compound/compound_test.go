package compound

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/model"
	"github.com/chemstack/pugrest/pkg/repo"
)

// fakeRepo serves canned records and counts round trips.
type fakeRepo struct {
	records      map[uint32]*model.Compound
	synonyms     []string
	sids, aids   []uint32
	compoundHits atomic.Int64
	synonymHits  atomic.Int64
}

func (f *fakeRepo) Get(context.Context, repo.Query) ([]byte, error) {
	return nil, code.UnimplementedErr
}

func (f *fakeRepo) GetCompounds(_ context.Context, identifier, _ string) ([]*model.Compound, error) {
	f.compoundHits.Add(1)
	cid, err := strconv.ParseUint(identifier, 10, 32)
	if err != nil {
		return nil, code.InvalidArgumentErr.WithErr(err)
	}
	rec, ok := f.records[uint32(cid)]
	if !ok {
		return nil, code.NotFoundErr.WithMsgf("cid %s", identifier)
	}
	return []*model.Compound{rec}, nil
}

func (f *fakeRepo) GetSubstances(context.Context, string, string) ([]*model.Substance, error) {
	return nil, code.UnimplementedErr
}

func (f *fakeRepo) GetAssays(context.Context, string, string) ([]*model.Assay, error) {
	return nil, code.UnimplementedErr
}

func (f *fakeRepo) GetProperties(context.Context, string, string, []string) ([]model.CompoundProperties, error) {
	return nil, code.UnimplementedErr
}

func (f *fakeRepo) GetSynonyms(context.Context, string, string) ([]model.Information, error) {
	f.synonymHits.Add(1)
	return []model.Information{{Synonyms: f.synonyms}}, nil
}

func (f *fakeRepo) GetCIDs(context.Context, string, string) ([]uint32, error) {
	return nil, code.UnimplementedErr
}

func (f *fakeRepo) GetSIDs(context.Context, string, string) ([]uint32, error) {
	return f.sids, nil
}

func (f *fakeRepo) GetAIDs(context.Context, string, string) ([]uint32, error) {
	return f.aids, nil
}

func (f *fakeRepo) GetSources(context.Context, string) ([]string, error) {
	return nil, code.UnimplementedErr
}

func testRecord(t *testing.T, cid uint32) *model.Compound {
	t.Helper()
	doc := `{
		"id":{"id":{"cid":` + strconv.FormatUint(uint64(cid), 10) + `}},
		"atoms":{"aid":[1,2],"element":[8,6]},
		"props":[
			{"urn":{"label":"Molecular Formula"},"value":{"sval":"C9H8O4"}},
			{"urn":{"label":"Molecular Weight"},"value":{"sval":"180.16"}},
			{"urn":{"label":"SMILES","name":"Absolute"},"value":{"sval":"CC(=O)Oc1ccccc1C(=O)O"}},
			{"urn":{"label":"SMILES","name":"Canonical"},"value":{"sval":"CC(=O)OC1=CC=CC=C1C(=O)O"}},
			{"urn":{"label":"InChIKey","name":"Standard"},"value":{"sval":"BSYNRYMUTXBXSQ-UHFFFAOYSA-N"}},
			{"urn":{"label":"Log P","name":"XLogP3"},"value":{"fval":1.2}}
		]
	}`
	require.True(t, json.Valid([]byte(doc)))
	rec, err := model.DecodeCompound([]byte(doc))
	require.NoError(t, err)
	return rec
}

func newTestService(t *testing.T, f repo.PubChemRepo) *Service {
	t.Helper()
	svc, err := New(f)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestFromCIDCaches(t *testing.T) {
	f := &fakeRepo{records: map[uint32]*model.Compound{2244: testRecord(t, 2244)}}
	svc := newTestService(t, f)

	ctx := context.Background()
	first, err := svc.FromCID(ctx, 2244)
	require.NoError(t, err)
	second, err := svc.FromCID(ctx, 2244)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), f.compoundHits.Load(), "second lookup served from cache")
}

func TestFromCIDNotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepo{records: map[uint32]*model.Compound{}})
	_, err := svc.FromCID(context.Background(), 999)
	assert.ErrorIs(t, err, code.NotFoundErr)
}

func TestPropertyAccessors(t *testing.T) {
	f := &fakeRepo{records: map[uint32]*model.Compound{2244: testRecord(t, 2244)}}
	svc := newTestService(t, f)

	c, err := svc.FromCID(context.Background(), 2244)
	require.NoError(t, err)

	assert.Equal(t, uint32(2244), c.CID())
	assert.Equal(t, "C9H8O4", c.MolecularFormula())
	assert.Equal(t, "CC(=O)Oc1ccccc1C(=O)O", c.SMILES(), "stereo-aware rendering preferred")
	assert.Equal(t, "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", c.InChIKey())

	mw, ok := c.MolecularWeight()
	require.True(t, ok)
	assert.Equal(t, 180.16, mw)

	xlogp, ok := c.XLogP()
	require.True(t, ok)
	assert.Equal(t, 1.2, xlogp)

	_, ok = c.TPSA()
	assert.False(t, ok)
}

func TestSynonymsMemoized(t *testing.T) {
	f := &fakeRepo{
		records:  map[uint32]*model.Compound{2244: testRecord(t, 2244)},
		synonyms: []string{"aspirin", "acetylsalicylic acid"},
	}
	svc := newTestService(t, f)

	c, err := svc.FromCID(context.Background(), 2244)
	require.NoError(t, err)

	_, fetched := c.CachedSynonyms()
	assert.False(t, fetched, "no lookup before the first call")

	syns, err := c.Synonyms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"aspirin", "acetylsalicylic acid"}, syns)

	_, err = c.Synonyms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.synonymHits.Load(), "second call served from memo")

	cached, fetched := c.CachedSynonyms()
	assert.True(t, fetched)
	assert.Equal(t, syns, cached)
}

func TestSIDsAndAIDsMemoized(t *testing.T) {
	f := &fakeRepo{
		records: map[uint32]*model.Compound{2244: testRecord(t, 2244)},
		sids:    []uint32{10, 20},
		aids:    []uint32{7},
	}
	svc := newTestService(t, f)
	c, err := svc.FromCID(context.Background(), 2244)
	require.NoError(t, err)

	_, ok := c.CachedSIDs()
	assert.False(t, ok)

	sids, err := c.SIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20}, sids)

	aids, err := c.AIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint32{7}, aids)

	got, ok := c.CachedAIDs()
	assert.True(t, ok)
	assert.Equal(t, aids, got)
}

func TestBatchPreservesOrder(t *testing.T) {
	records := map[uint32]*model.Compound{}
	var cids []uint32
	for cid := uint32(1); cid <= 40; cid++ {
		records[cid] = testRecord(t, cid)
		cids = append(cids, cid)
	}
	svc := newTestService(t, &fakeRepo{records: records})

	out, err := svc.Batch(context.Background(), cids)
	require.NoError(t, err)
	require.Len(t, out, len(cids))
	for i, c := range out {
		assert.Equal(t, cids[i], c.CID())
	}
}

// panicRepo blows up on record fetches to exercise worker recovery.
type panicRepo struct {
	fakeRepo
}

func (p *panicRepo) GetCompounds(context.Context, string, string) ([]*model.Compound, error) {
	panic("corrupt record")
}

func TestBatchRecoversWorkerPanic(t *testing.T) {
	svc := newTestService(t, &panicRepo{})

	out, err := svc.Batch(context.Background(), []uint32{1, 2})
	require.Error(t, err, "panic surfaces as an error, not a crash")
	assert.ErrorIs(t, err, code.GenericHTTPErr)
	assert.Nil(t, out)
}

func TestBatchPropagatesError(t *testing.T) {
	svc := newTestService(t, &fakeRepo{
		records: map[uint32]*model.Compound{1: testRecord(t, 1)},
	})
	_, err := svc.Batch(context.Background(), []uint32{1, 999})
	assert.ErrorIs(t, err, code.NotFoundErr)
}
