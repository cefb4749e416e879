package pubchem

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/middleware/logger"
	"github.com/chemstack/pugrest/pkg/repo"
)

// waitingEnvelope is the deferred-job response of an asynchronous search:
// {"Waiting": {"ListKey": "...", "Message": "..."}}.
type waitingEnvelope struct {
	Waiting struct {
		ListKey string `json:"ListKey"`
		Message string `json:"Message"`
	} `json:"Waiting"`
}

// needsPolling reports whether the backend answers the query with a job
// handle instead of a result. Structure searches (except xref, which is
// synchronous) and formula lookups are asynchronous.
func needsPolling(q repo.Query) bool {
	if q.SearchType != "" && q.SearchType != repo.SearchXRef {
		return true
	}
	return q.Namespace == repo.NamespaceFormula
}

// poll drives the listkey protocol to completion. The initial request is
// always made as JSON so the Waiting envelope can be recognized; while the
// job is pending the query is rewritten to address the returned list key
// and re-issued after each interval. There is no retry cap, the caller
// bounds the wait through ctx, and cancellation takes effect at the next
// poll boundary. When the caller asked for a non-JSON format, one extra
// request fetches the finished result in that format.
func (p *pubchemImpl) poll(ctx context.Context, q repo.Query) ([]byte, error) {
	initial := q
	initial.Output = repo.OutputJSON
	body, err := p.request(ctx, initial)
	if err != nil {
		return nil, err
	}

	for {
		var w waitingEnvelope
		if err := json.Unmarshal(body, &w); err != nil || w.Waiting.ListKey == "" {
			break
		}
		logger.Infof(ctx, "job pending, list key %s: %s", w.Waiting.ListKey, w.Waiting.Message)

		q.Identifiers = []string{w.Waiting.ListKey}
		q.Namespace = repo.NamespaceListKey
		q.SearchType = ""

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, code.TimeoutErr.WithErr(ctx.Err())
			}
			return nil, code.CanceledErr.WithErr(ctx.Err())
		case <-time.After(p.pollInterval):
		}

		next := q
		next.Output = repo.OutputJSON
		body, err = p.request(ctx, next)
		if err != nil {
			return nil, err
		}
	}

	output := q.Output
	if output == "" {
		output = repo.OutputJSON
	}
	if output != repo.OutputJSON {
		return p.request(ctx, q)
	}
	return body, nil
}
