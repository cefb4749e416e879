package model

import (
	"context"
	"encoding/json"

	"github.com/chemstack/pugrest/pkg/common/code"
	"github.com/chemstack/pugrest/pkg/middleware/logger"
)

// RecordKind discriminates the document shapes the backend returns.
type RecordKind int

const (
	KindCompound RecordKind = iota
	KindSubstance
	KindAssay
)

// Decode parses a full JSON response document of the given kind. It
// returns []*Compound, []*Substance or []*Assay respectively. Prefer the
// typed entry points when the kind is known at the call site.
func Decode(kind RecordKind, data []byte) (any, error) {
	switch kind {
	case KindCompound:
		return DecodeCompounds(data)
	case KindSubstance:
		return DecodeSubstances(data)
	case KindAssay:
		return DecodeAssays(data)
	default:
		return nil, code.InvalidArgumentErr.WithMsgf("unknown record kind %d", kind)
	}
}

type rawAtomCharge struct {
	AID   uint32 `json:"aid"`
	Value int    `json:"value"`
}

type rawAtoms struct {
	AID     []uint32        `json:"aid"`
	Element []int           `json:"element"`
	Charge  []rawAtomCharge `json:"charge"`
}

type rawBonds struct {
	AID1  []uint32 `json:"aid1"`
	AID2  []uint32 `json:"aid2"`
	Order []int    `json:"order"`
}

type rawStyle struct {
	Annotation []int    `json:"annotation"`
	AID1       []uint32 `json:"aid1"`
	AID2       []uint32 `json:"aid2"`
}

type rawConformer struct {
	X     []float64  `json:"x"`
	Y     []float64  `json:"y"`
	Z     []float64  `json:"z"`
	Style *rawStyle  `json:"style"`
	Data  Properties `json:"data"`
}

type rawCoords struct {
	Type       []int          `json:"type"`
	AID        []uint32       `json:"aid"`
	Conformers []rawConformer `json:"conformers"`
	Data       Properties     `json:"data"`
}

type rawCompound struct {
	ID struct {
		ID struct {
			CID uint32 `json:"cid"`
		} `json:"id"`
	} `json:"id"`
	Atoms  *rawAtoms      `json:"atoms"`
	Bonds  *rawBonds      `json:"bonds"`
	Coords []rawCoords    `json:"coords"`
	Charge int            `json:"charge"`
	Count  map[string]int `json:"count"`
	Props  Properties     `json:"props"`
}

type compoundEnvelope struct {
	PCCompounds []rawCompound `json:"PC_Compounds"`
}

// DecodeCompounds parses a {"PC_Compounds": [...]} response document.
// Any malformed record fails the whole decode; no partial results.
func DecodeCompounds(data []byte) ([]*Compound, error) {
	var env compoundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	out := make([]*Compound, 0, len(env.PCCompounds))
	for i := range env.PCCompounds {
		c, err := buildCompound(&env.PCCompounds[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// DecodeCompound parses a single compound record object.
func DecodeCompound(data []byte) (*Compound, error) {
	var raw rawCompound
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return buildCompound(&raw)
}

// buildCompound assembles one record in a single pass, enforcing the
// parallel-array invariants before anything is returned.
func buildCompound(raw *rawCompound) (*Compound, error) {
	c := &Compound{
		CID:    raw.ID.ID.CID,
		Charge: raw.Charge,
		Counts: raw.Count,
		Props:  raw.Props,
	}

	if raw.Atoms != nil {
		if len(raw.Atoms.AID) != len(raw.Atoms.Element) {
			return nil, code.ResponseParseErr.WithMsgf(
				"atom arrays disagree: %d aids vs %d elements",
				len(raw.Atoms.AID), len(raw.Atoms.Element))
		}
		c.Atoms = make([]Atom, len(raw.Atoms.AID))
		index := make(map[uint32]int, len(raw.Atoms.AID))
		for i, aid := range raw.Atoms.AID {
			c.Atoms[i] = Atom{AID: aid, Element: raw.Atoms.Element[i]}
			index[aid] = i
		}
		for _, ch := range raw.Atoms.Charge {
			i, ok := index[ch.AID]
			if !ok {
				logger.Warnf(context.Background(),
					"cid %d: charge entry references unknown atom %d, skipping", c.CID, ch.AID)
				continue
			}
			c.Atoms[i].Charge = ch.Value
		}

		if len(raw.Coords) > 0 && len(raw.Coords[0].Conformers) > 0 {
			if err := applyCoordinates(c, &raw.Coords[0], index); err != nil {
				return nil, err
			}
		}
	}

	if raw.Bonds != nil {
		bonds, err := buildBonds(c.CID, raw.Bonds, raw.Coords)
		if err != nil {
			return nil, err
		}
		c.Bonds = bonds
	}

	for _, rc := range raw.Coords {
		set := CoordinateSet{
			Types: rc.Type,
			AIDs:  rc.AID,
			Data:  rc.Data,
		}
		for _, conf := range rc.Conformers {
			set.Conformers = append(set.Conformers, Conformer{
				X:    conf.X,
				Y:    conf.Y,
				Z:    conf.Z,
				Data: conf.Data,
			})
		}
		c.Coords = append(c.Coords, set)
	}

	return c, nil
}

// applyCoordinates copies the first conformer of the first coordinate set
// onto the atoms. The x, y and aid arrays must each cover every atom;
// z is allowed to run short, which leaves the tail of the atoms 2-D.
func applyCoordinates(c *Compound, rc *rawCoords, index map[uint32]int) error {
	conf := &rc.Conformers[0]
	n := len(c.Atoms)
	if len(rc.AID) != n || len(conf.X) != n || len(conf.Y) != n {
		return code.ResponseParseErr.WithMsgf(
			"cid %d: coordinate arrays disagree with %d atoms (aid=%d x=%d y=%d)",
			c.CID, n, len(rc.AID), len(conf.X), len(conf.Y))
	}
	if len(conf.Z) > n {
		return code.ResponseParseErr.WithMsgf(
			"cid %d: %d z coordinates for %d atoms", c.CID, len(conf.Z), n)
	}
	for i, aid := range rc.AID {
		ai, ok := index[aid]
		if !ok {
			return code.ResponseParseErr.WithMsgf(
				"cid %d: coordinates reference unknown atom %d", c.CID, aid)
		}
		x, y := conf.X[i], conf.Y[i]
		c.Atoms[ai].X = &x
		c.Atoms[ai].Y = &y
		if i < len(conf.Z) {
			z := conf.Z[i]
			c.Atoms[ai].Z = &z
		}
	}
	return nil
}

// buildBonds assembles the bond list and folds in the style annotations of
// the first conformer. Bonds are looked up by unordered aid pair; an
// annotation whose pair matches no bond is skipped with a warning rather
// than failing an otherwise valid record.
func buildBonds(cid uint32, raw *rawBonds, coords []rawCoords) ([]Bond, error) {
	if len(raw.AID1) != len(raw.AID2) || len(raw.AID1) != len(raw.Order) {
		return nil, code.ResponseParseErr.WithMsgf(
			"cid %d: bond arrays disagree (aid1=%d aid2=%d order=%d)",
			cid, len(raw.AID1), len(raw.AID2), len(raw.Order))
	}

	type pair struct{ lo, hi uint32 }
	norm := func(a, b uint32) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}

	bonds := make([]Bond, len(raw.AID1))
	index := make(map[pair]int, len(raw.AID1))
	for i := range raw.AID1 {
		bonds[i] = Bond{AID1: raw.AID1[i], AID2: raw.AID2[i], Order: raw.Order[i]}
		index[norm(raw.AID1[i], raw.AID2[i])] = i
	}

	if len(coords) > 0 && len(coords[0].Conformers) > 0 {
		style := coords[0].Conformers[0].Style
		if style != nil {
			if len(style.Annotation) != len(style.AID1) || len(style.Annotation) != len(style.AID2) {
				return nil, code.ResponseParseErr.WithMsgf(
					"cid %d: style arrays disagree (annotation=%d aid1=%d aid2=%d)",
					cid, len(style.Annotation), len(style.AID1), len(style.AID2))
			}
			for i, ann := range style.Annotation {
				bi, ok := index[norm(style.AID1[i], style.AID2[i])]
				if !ok {
					logger.Warnf(context.Background(),
						"cid %d: style annotation for unknown bond %d-%d, skipping",
						cid, style.AID1[i], style.AID2[i])
					continue
				}
				a := ann
				bonds[bi].Style = &a
			}
		}
	}

	return bonds, nil
}

type rawSubstance struct {
	SID struct {
		ID      uint32 `json:"id"`
		Version int    `json:"version"`
	} `json:"sid"`
	Source struct {
		DB struct {
			Name     string `json:"name"`
			SourceID struct {
				Str string `json:"str"`
			} `json:"source_id"`
		} `json:"db"`
	} `json:"source"`
	Synonyms []string `json:"synonyms"`
	Comment  []string `json:"comment"`
	Compound []struct {
		ID struct {
			Type int `json:"type"`
			ID   *struct {
				CID uint32 `json:"cid"`
			} `json:"id"`
		} `json:"id"`
	} `json:"compound"`
}

type substanceEnvelope struct {
	PCSubstances []rawSubstance `json:"PC_Substances"`
}

// DecodeSubstances parses a {"PC_Substances": [...]} response document.
func DecodeSubstances(data []byte) ([]*Substance, error) {
	var env substanceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	out := make([]*Substance, 0, len(env.PCSubstances))
	for i := range env.PCSubstances {
		out = append(out, buildSubstance(&env.PCSubstances[i]))
	}
	return out, nil
}

// DecodeSubstance parses a single substance record object.
func DecodeSubstance(data []byte) (*Substance, error) {
	var raw rawSubstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return buildSubstance(&raw), nil
}

func buildSubstance(raw *rawSubstance) *Substance {
	s := &Substance{
		SID:        raw.SID.ID,
		SourceName: raw.Source.DB.Name,
		SourceID:   raw.Source.DB.SourceID.Str,
		Synonyms:   raw.Synonyms,
		Comments:   raw.Comment,
	}
	for _, entry := range raw.Compound {
		// The deposited structure is embedded inline without a cid; only
		// references into the compound database become stubs.
		if entry.ID.ID == nil {
			continue
		}
		s.Compounds = append(s.Compounds, CompoundStub{
			Type: CompoundIDType(entry.ID.Type),
			CID:  entry.ID.ID.CID,
		})
	}
	return s
}

type rawAssay struct {
	Assay struct {
		Descr struct {
			AID struct {
				ID      uint32 `json:"id"`
				Version int    `json:"version"`
			} `json:"aid"`
			Name            string        `json:"name"`
			Description     []string      `json:"description"`
			Comment         []string      `json:"comment"`
			Results         []AssayResult `json:"results"`
			Target          []AssayTarget `json:"target"`
			Revision        int           `json:"revision"`
			ProjectCategory string        `json:"project_category"`
		} `json:"descr"`
	} `json:"assay"`
}

type assayEnvelope struct {
	PCAssayContainer []rawAssay `json:"PC_AssayContainer"`
}

// DecodeAssays parses a {"PC_AssayContainer": [...]} response document.
func DecodeAssays(data []byte) ([]*Assay, error) {
	var env assayEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	out := make([]*Assay, 0, len(env.PCAssayContainer))
	for i := range env.PCAssayContainer {
		out = append(out, buildAssay(&env.PCAssayContainer[i]))
	}
	return out, nil
}

// DecodeAssay parses a single assay container entry.
func DecodeAssay(data []byte) (*Assay, error) {
	var raw rawAssay
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return buildAssay(&raw), nil
}

func buildAssay(raw *rawAssay) *Assay {
	d := &raw.Assay.Descr
	return &Assay{
		AID:             d.AID.ID,
		Version:         d.AID.Version,
		Revision:        d.Revision,
		Name:            d.Name,
		Description:     d.Description,
		Comments:        d.Comment,
		Results:         d.Results,
		Targets:         d.Target,
		ProjectCategory: d.ProjectCategory,
	}
}
