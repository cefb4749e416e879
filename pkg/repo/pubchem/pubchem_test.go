package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/repo"
)

func newTestClient(t *testing.T, handler http.Handler) repo.PubChemRepo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&Config{
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
		PollInterval: 5 * time.Millisecond,
	})
}

func TestPollWaitingUntilReady(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch len(paths) {
		case 1:
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "CCO", r.PostForm.Get("smiles"))
			_, _ = w.Write([]byte(`{"Waiting":{"ListKey":"862515746","Message":"Your request is running"}}`))
		case 2:
			_, _ = w.Write([]byte(`{"Waiting":{"ListKey":"862515746"}}`))
		default:
			_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[702,1031]}}`))
		}
	}))

	body, err := client.Get(context.Background(), repo.Query{
		SearchType:  repo.SearchSimilarity,
		Namespace:   repo.NamespaceSMILES,
		Identifiers: []string{"CCO"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "IdentifierList")

	require.Equal(t, []string{
		"/compound/similarity/smiles/JSON",
		"/compound/listkey/862515746/JSON",
		"/compound/listkey/862515746/JSON",
	}, paths, "identifier rewritten to the list key after the first Waiting")
}

func TestPollNonJSONOutputFetchesOnceMore(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch len(paths) {
		case 1:
			_, _ = w.Write([]byte(`{"Waiting":{"ListKey":"k1"}}`))
		case 2:
			_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[702]}}`))
		default:
			_, _ = w.Write([]byte("fake sdf payload"))
		}
	}))

	body, err := client.Get(context.Background(), repo.Query{
		SearchType:  repo.SearchSubstructure,
		Namespace:   repo.NamespaceSMILES,
		Identifiers: []string{"CCO"},
		Output:      repo.OutputSDF,
	})
	require.NoError(t, err)
	assert.Equal(t, "fake sdf payload", string(body))

	require.Len(t, paths, 3)
	assert.Equal(t, "/compound/substructure/smiles/JSON", paths[0], "initial request always JSON")
	assert.Equal(t, "/compound/listkey/k1/JSON", paths[1])
	assert.Equal(t, "/compound/listkey/k1/SDF", paths[2], "finished result refetched in the requested format")
}

func TestPollSynchronousQuerySkipsProtocol(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"PC_Compounds":[]}`))
	}))

	_, err := client.Get(context.Background(), repo.Query{
		Namespace:   repo.NamespaceCID,
		Identifiers: []string{"2244"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestPollContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Waiting":{"ListKey":"stuck"}}`))
	}))
	t.Cleanup(srv.Close)
	// Interval far beyond the deadline: the context fires during the
	// inter-poll sleep.
	client := New(&Config{BaseURL: srv.URL, Timeout: 5 * time.Second, PollInterval: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, repo.Query{
		Namespace:   repo.NamespaceFormula,
		Identifiers: []string{"C9H8O4"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.TimeoutErr)
}

func TestPollExplicitCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Waiting":{"ListKey":"stuck"}}`))
	}))
	t.Cleanup(srv.Close)
	client := New(&Config{BaseURL: srv.URL, Timeout: 5 * time.Second, PollInterval: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Get(ctx, repo.Query{
		Namespace:   repo.NamespaceFormula,
		Identifiers: []string{"C9H8O4"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.CanceledErr, "caller cancellation is not a timeout")
	assert.NotErrorIs(t, err, code.TimeoutErr)
}

func TestRequestFaultClassification(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"Fault":{"Code":"PUGREST.NotFound","Message":"No CID found that matches the given name","Details":["detail one"]}}`))
	}))

	_, err := client.GetCompounds(context.Background(), "no-such-compound", repo.NamespaceName)
	require.Error(t, err)
	require.ErrorIs(t, err, code.NotFoundErr)

	var ce *code.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.Code)
	assert.Contains(t, ce.Msg, "PUGREST.NotFound")
	assert.Contains(t, ce.Msg, "No CID found")
	assert.Equal(t, []string{"detail one"}, ce.Details)
}

func TestRequestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(&Config{BaseURL: srv.URL, Timeout: time.Second, PollInterval: time.Millisecond})

	_, err := client.Get(context.Background(), repo.Query{
		Namespace:   repo.NamespaceCID,
		Identifiers: []string{"2244"},
	})
	assert.ErrorIs(t, err, code.TransportErr)
}

func TestGetCompoundsDecodes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/cid/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{"PC_Compounds":[{
			"id":{"id":{"cid":2244}},
			"atoms":{"aid":[1,2],"element":[8,6]},
			"bonds":{"aid1":[1],"aid2":[2],"order":[1]}
		}]}`))
	}))

	compounds, err := client.GetCompounds(context.Background(), "2244", repo.NamespaceCID)
	require.NoError(t, err)
	require.Len(t, compounds, 1)
	assert.Equal(t, uint32(2244), compounds[0].CID)
	assert.Len(t, compounds[0].Atoms, 2)
}

func TestGetProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/name/property/MolecularFormula,MolecularWeight/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{"PropertyTable":{"Properties":[
			{"CID":2244,"MolecularFormula":"C9H8O4","MolecularWeight":"180.16"}
		]}}`))
	}))

	rows, err := client.GetProperties(context.Background(), "aspirin", repo.NamespaceName,
		[]string{"MolecularFormula", "MolecularWeight"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C9H8O4", rows[0].MolecularFormula)

	_, err = client.GetProperties(context.Background(), "aspirin", repo.NamespaceName, nil)
	assert.ErrorIs(t, err, code.InvalidArgumentErr)
}

func TestGetSIDsFromCompoundDomain(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/cid/sids/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{"InformationList":{"Information":[
			{"CID":2244,"SID":[103164348,103906797]}
		]}}`))
	}))

	ids, err := client.GetSIDs(context.Background(), "2244", repo.NamespaceCID)
	require.NoError(t, err)
	assert.Equal(t, []uint32{103164348, 103906797}, ids)
}

func TestGetCIDsIdentifierList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/name/cids/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
	}))

	ids, err := client.GetCIDs(context.Background(), "aspirin", repo.NamespaceName)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2244}, ids)
}

func TestGetSources(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sources/assay/JSON", r.URL.Path)
		_, _ = w.Write([]byte(`{"InformationList":{"SourceName":["ChEMBL","DTP/NCI"]}}`))
	}))

	names, err := client.GetSources(context.Background(), repo.DomainAssay)
	require.NoError(t, err)
	assert.Equal(t, []string{"ChEMBL", "DTP/NCI"}, names)
}
