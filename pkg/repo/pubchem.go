package repo

import (
	"context"

	"github.com/chemstack/pugrest/pkg/model"
)

// Input domains.
const (
	DomainCompound  = "compound"
	DomainSubstance = "substance"
	DomainAssay     = "assay"
	DomainSources   = "sources"
)

// Input namespaces.
const (
	NamespaceCID      = "cid"
	NamespaceSID      = "sid"
	NamespaceAID      = "aid"
	NamespaceName     = "name"
	NamespaceSMILES   = "smiles"
	NamespaceInChI    = "inchi"
	NamespaceInChIKey = "inchikey"
	NamespaceFormula  = "formula"
	NamespaceListKey  = "listkey"
	NamespaceSourceID = "sourceid"
	NamespaceXRef     = "xref"
)

// Structure search types.
const (
	SearchSubstructure   = "substructure"
	SearchSuperstructure = "superstructure"
	SearchSimilarity     = "similarity"
	SearchIdentity       = "identity"
	SearchXRef           = "xref"
)

// Output formats.
const (
	OutputJSON = "JSON"
	OutputXML  = "XML"
	OutputSDF  = "SDF"
	OutputCSV  = "CSV"
	OutputPNG  = "PNG"
	OutputTXT  = "TXT"
	OutputASNT = "ASNT"
	OutputASNB = "ASNB"
)

// Query describes one PUG REST request: which records to address, what to
// do with them and how to render the result. The zero values of Domain,
// Namespace and Output default to compound/cid/JSON at encode time.
type Query struct {
	Domain      string
	Namespace   string
	Identifiers []string
	Operation   string
	Output      string
	SearchType  string
	Options     map[string]string
}

// PubChemRepo is the PUG REST client surface. Get runs a raw query,
// transparently driving the listkey polling protocol when the query is an
// asynchronous search; the typed getters decode the common record shapes.
type PubChemRepo interface {
	Get(ctx context.Context, q Query) ([]byte, error)

	GetCompounds(ctx context.Context, identifier, namespace string) ([]*model.Compound, error)
	GetSubstances(ctx context.Context, identifier, namespace string) ([]*model.Substance, error)
	GetAssays(ctx context.Context, identifier, namespace string) ([]*model.Assay, error)
	GetProperties(ctx context.Context, identifier, namespace string, properties []string) ([]model.CompoundProperties, error)
	GetSynonyms(ctx context.Context, identifier, namespace string) ([]model.Information, error)
	GetCIDs(ctx context.Context, identifier, namespace string) ([]uint32, error)
	GetSIDs(ctx context.Context, identifier, namespace string) ([]uint32, error)
	GetAIDs(ctx context.Context, identifier, namespace string) ([]uint32, error)
	GetSources(ctx context.Context, domain string) ([]string, error)
}
