package pubchem

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/chemstack/pugrest/internal/config"
	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/middleware/logger"
	"github.com/chemstack/pugrest/pkg/model"
	"github.com/chemstack/pugrest/pkg/repo"
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	UserAgent    string
}

type pubchemImpl struct {
	client       *resty.Client
	pollInterval time.Duration
}

// New builds a PUG REST client. A nil conf takes every setting from the
// global configuration.
func New(conf *Config) repo.PubChemRepo {
	if conf == nil {
		g := config.Global()
		conf = &Config{
			BaseURL:      g.API.BaseURL,
			Timeout:      g.API.Timeout(),
			PollInterval: g.API.PollInterval(),
			UserAgent:    g.API.UserAgent,
		}
	}
	if conf.PollInterval <= 0 {
		conf.PollInterval = 2 * time.Second
	}

	return &pubchemImpl{
		client: resty.New().
			SetTimeout(conf.Timeout).
			SetBaseURL(conf.BaseURL).
			SetHeader("User-Agent", conf.UserAgent),
		pollInterval: conf.PollInterval,
	}
}

// request performs one round trip: GET when the identifier rides in the
// path, POST form otherwise. Non-200 responses are classified through the
// Fault envelope; transport failures stay opaque behind TransportErr.
func (p *pubchemImpl) request(ctx context.Context, q repo.Query) ([]byte, error) {
	path, form, err := EncodeQuery(q)
	if err != nil {
		return nil, err
	}

	req := p.client.R().SetContext(ctx)
	var res *resty.Response
	if form == nil {
		res, err = req.Get(path)
	} else {
		res, err = req.
			SetHeader("Content-Type", "application/x-www-form-urlencoded").
			SetFormDataFromValues(form).
			Post(path)
	}
	if err != nil {
		logger.Errorf(ctx, "request %s failed: %v", path, err)
		return nil, code.TransportErr.WithErr(err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, code.FromStatus(res.StatusCode(), res.Body())
	}
	return res.Body(), nil
}

func (p *pubchemImpl) Get(ctx context.Context, q repo.Query) ([]byte, error) {
	if needsPolling(q) {
		return p.poll(ctx, q)
	}
	return p.request(ctx, q)
}

func (p *pubchemImpl) GetCompounds(ctx context.Context, identifier, namespace string) ([]*model.Compound, error) {
	body, err := p.Get(ctx, repo.Query{
		Domain:      repo.DomainCompound,
		Namespace:   namespace,
		Identifiers: []string{identifier},
	})
	if err != nil {
		return nil, err
	}
	return model.DecodeCompounds(body)
}

func (p *pubchemImpl) GetSubstances(ctx context.Context, identifier, namespace string) ([]*model.Substance, error) {
	body, err := p.Get(ctx, repo.Query{
		Domain:      repo.DomainSubstance,
		Namespace:   namespace,
		Identifiers: []string{identifier},
	})
	if err != nil {
		return nil, err
	}
	return model.DecodeSubstances(body)
}

func (p *pubchemImpl) GetAssays(ctx context.Context, identifier, namespace string) ([]*model.Assay, error) {
	body, err := p.Get(ctx, repo.Query{
		Domain:      repo.DomainAssay,
		Namespace:   namespace,
		Identifiers: []string{identifier},
		Operation:   "description",
	})
	if err != nil {
		return nil, err
	}
	return model.DecodeAssays(body)
}

func (p *pubchemImpl) GetProperties(ctx context.Context, identifier, namespace string, properties []string) ([]model.CompoundProperties, error) {
	if len(properties) == 0 {
		return nil, code.InvalidArgumentErr.WithMsg("no properties requested")
	}
	body, err := p.Get(ctx, repo.Query{
		Domain:      repo.DomainCompound,
		Namespace:   namespace,
		Identifiers: []string{identifier},
		Operation:   "property/" + strings.Join(properties, ","),
	})
	if err != nil {
		return nil, err
	}
	return model.DecodePropertyTable(body)
}

func (p *pubchemImpl) GetSynonyms(ctx context.Context, identifier, namespace string) ([]model.Information, error) {
	domain := domainForNamespace(namespace, repo.DomainCompound)
	body, err := p.Get(ctx, repo.Query{
		Domain:      domain,
		Namespace:   namespace,
		Identifiers: []string{identifier},
		Operation:   "synonyms",
	})
	if err != nil {
		return nil, err
	}
	return model.DecodeInformationList(body)
}

func (p *pubchemImpl) GetCIDs(ctx context.Context, identifier, namespace string) ([]uint32, error) {
	return p.getIDs(ctx, identifier, namespace, repo.DomainCompound, "cids")
}

func (p *pubchemImpl) GetSIDs(ctx context.Context, identifier, namespace string) ([]uint32, error) {
	return p.getIDs(ctx, identifier, namespace, repo.DomainSubstance, "sids")
}

func (p *pubchemImpl) GetAIDs(ctx context.Context, identifier, namespace string) ([]uint32, error) {
	return p.getIDs(ctx, identifier, namespace, repo.DomainAssay, "aids")
}

func (p *pubchemImpl) getIDs(ctx context.Context, identifier, namespace, fallbackDomain, operation string) ([]uint32, error) {
	body, err := p.Get(ctx, repo.Query{
		Domain:      domainForNamespace(namespace, fallbackDomain),
		Namespace:   namespace,
		Identifiers: []string{identifier},
		Operation:   operation,
	})
	if err != nil {
		return nil, err
	}
	return decodeIDs(body, operation)
}

// domainForNamespace picks the input domain a record-id namespace lives
// in; non-id namespaces (name, smiles, formula, ...) stay in the fallback.
func domainForNamespace(namespace, fallback string) string {
	switch namespace {
	case repo.NamespaceSID:
		return repo.DomainSubstance
	case repo.NamespaceAID:
		return repo.DomainAssay
	case repo.NamespaceCID:
		return repo.DomainCompound
	default:
		return fallback
	}
}

type identifierListEnvelope struct {
	IdentifierList struct {
		CID []uint32 `json:"CID"`
		SID []uint32 `json:"SID"`
		AID []uint32 `json:"AID"`
	} `json:"IdentifierList"`
}

// decodeIDs reads the id projection the backend chose: a flat
// IdentifierList for same-domain lookups, an InformationList of per-record
// entries for cross-domain ones.
func decodeIDs(body []byte, operation string) ([]uint32, error) {
	var env identifierListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}

	var ids []uint32
	switch operation {
	case "cids":
		ids = env.IdentifierList.CID
	case "sids":
		ids = env.IdentifierList.SID
	case "aids":
		ids = env.IdentifierList.AID
	}
	if ids != nil {
		return ids, nil
	}

	infos, err := model.DecodeInformationList(body)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		switch operation {
		case "cids":
			ids = append(ids, info.CIDs...)
		case "sids":
			ids = append(ids, info.SIDs...)
		case "aids":
			ids = append(ids, info.AIDs...)
		}
	}
	return ids, nil
}

type sourceListEnvelope struct {
	InformationList struct {
		SourceName []string `json:"SourceName"`
	} `json:"InformationList"`
}

func (p *pubchemImpl) GetSources(ctx context.Context, domain string) ([]string, error) {
	if domain == "" {
		domain = repo.DomainSubstance
	}
	body, err := p.Get(ctx, repo.Query{
		Domain:      repo.DomainSources,
		Identifiers: []string{domain},
	})
	if err != nil {
		return nil, err
	}

	var env sourceListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return env.InformationList.SourceName, nil
}
