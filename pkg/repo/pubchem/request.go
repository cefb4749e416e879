package pubchem

import (
	"net/url"
	"strings"

	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/repo"
)

// EncodeQuery turns a query into the relative request URL and, when the
// identifier cannot ride in the path, the POST form carrying it.
//
// The identifier goes into the path for the listkey, formula and sourceid
// namespaces, for xref searches, for structure searches keyed by cid and
// for the sources domain; every other case posts it as a form field keyed
// by the namespace, which keeps arbitrary SMILES and InChI strings out of
// the URL. Multiple identifiers are comma-joined either way.
func EncodeQuery(q repo.Query) (string, url.Values, error) {
	domain := q.Domain
	if domain == "" {
		domain = repo.DomainCompound
	}
	// The sources domain addresses a source collection directly and takes
	// no namespace segment.
	namespace := q.Namespace
	if namespace == "" && domain != repo.DomainSources {
		namespace = repo.NamespaceCID
	}
	output := q.Output
	if output == "" {
		output = repo.OutputJSON
	}

	ids := make([]string, 0, len(q.Identifiers))
	for _, id := range q.Identifiers {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", nil, code.InvalidArgumentErr.WithMsg("query has no identifier")
	}
	identifier := strings.Join(ids, ",")

	if namespace == repo.NamespaceSourceID {
		identifier = strings.ReplaceAll(identifier, "/", ".")
	}

	var urlid string
	var form url.Values
	switch {
	case namespace == repo.NamespaceListKey,
		namespace == repo.NamespaceFormula,
		namespace == repo.NamespaceSourceID,
		q.SearchType == repo.SearchXRef,
		q.SearchType != "" && namespace == repo.NamespaceCID,
		domain == repo.DomainSources:
		urlid = url.PathEscape(identifier)
	default:
		form = url.Values{namespace: []string{identifier}}
	}

	parts := make([]string, 0, 6)
	for _, p := range []string{domain, q.SearchType, namespace, urlid, q.Operation, output} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	path := "/" + strings.Join(parts, "/")

	if len(q.Options) > 0 {
		query := url.Values{}
		for k, v := range q.Options {
			query.Set(k, v)
		}
		path += "?" + query.Encode()
	}

	return path, form, nil
}
