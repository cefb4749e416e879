package model

// CompoundIDType tags related-compound references inside substance records.
type CompoundIDType int

const (
	CompoundDeposited    CompoundIDType = 0
	CompoundStandardized CompoundIDType = 1
	CompoundComponent    CompoundIDType = 2
	CompoundNeutralized  CompoundIDType = 3
	CompoundMixture      CompoundIDType = 4
	CompoundTautomer     CompoundIDType = 5
	CompoundIonized      CompoundIDType = 6
	CompoundUnknown      CompoundIDType = 255
)

// Atom is one atom of a decoded compound, with coordinates from the first
// conformer of the first coordinate set when present.
type Atom struct {
	AID     uint32
	Element int
	Charge  int
	X, Y    *float64
	Z       *float64
}

// Symbol returns the element symbol, or "" for unknown atomic numbers.
func (a Atom) Symbol() string { return ElementSymbol(a.Element) }

// Bond connects two atoms. Identity is the unordered aid pair.
type Bond struct {
	AID1, AID2 uint32
	Order      int
	Style      *int
}

// Connects reports whether the bond joins the two atoms, in either order.
func (b Bond) Connects(a1, a2 uint32) bool {
	return (b.AID1 == a1 && b.AID2 == a2) || (b.AID1 == a2 && b.AID2 == a1)
}

// Conformer is one geometry of a coordinate set. X and Y always have one
// entry per listed atom; Z may be absent or shorter, missing entries mean
// a 2-D (or partially 3-D) geometry.
type Conformer struct {
	X, Y []float64
	Z    []float64
	Data Properties
}

// CoordinateSet groups conformers sharing one aid ordering.
type CoordinateSet struct {
	Types      []int
	AIDs       []uint32
	Conformers []Conformer
	Data       Properties
}

// Compound is a fully decoded compound record. Instances are built in a
// single decode pass and not mutated afterwards.
type Compound struct {
	CID    uint32
	Charge int
	Atoms  []Atom
	Bonds  []Bond
	Coords []CoordinateSet
	Counts map[string]int
	Props  Properties
}

// Atom returns the atom with the given aid.
func (c *Compound) Atom(aid uint32) (Atom, bool) {
	for _, a := range c.Atoms {
		if a.AID == aid {
			return a, true
		}
	}
	return Atom{}, false
}

// Bond returns the bond joining the two atoms regardless of the order the
// aids are given in.
func (c *Compound) Bond(a1, a2 uint32) (Bond, bool) {
	for _, b := range c.Bonds {
		if b.Connects(a1, a2) {
			return b, true
		}
	}
	return Bond{}, false
}

// Neighbors returns the aids bonded to the given atom.
func (c *Compound) Neighbors(aid uint32) []uint32 {
	var out []uint32
	for _, b := range c.Bonds {
		switch aid {
		case b.AID1:
			out = append(out, b.AID2)
		case b.AID2:
			out = append(out, b.AID1)
		}
	}
	return out
}

// CompoundStub is a related-compound reference inside a substance record.
type CompoundStub struct {
	Type CompoundIDType
	CID  uint32
}

// Substance is a decoded substance record.
type Substance struct {
	SID        uint32
	SourceName string
	SourceID   string
	Synonyms   []string
	Comments   []string
	Compounds  []CompoundStub
}

// StandardizedCID returns the first related compound tagged as the
// standardized form of the deposited structure.
func (s *Substance) StandardizedCID() (uint32, bool) {
	for _, cs := range s.Compounds {
		if cs.Type == CompoundStandardized {
			return cs.CID, true
		}
	}
	return 0, false
}

// AssayTarget is one biological target of an assay. Enumerated schema
// fields arrive as strings in the JSON rendering.
type AssayTarget struct {
	Name         string `json:"name"`
	MolID        uint64 `json:"mol_id"`
	MoleculeType string `json:"molecule_type"`
}

// AssayResult describes one readout column of an assay.
type AssayResult struct {
	TID         int      `json:"tid"`
	Name        string   `json:"name"`
	Description []string `json:"description"`
	Type        string   `json:"type"`
	Unit        string   `json:"unit"`
}

// Assay is a decoded assay description record.
type Assay struct {
	AID             uint32
	Version         int
	Revision        int
	Name            string
	Description     []string
	Comments        []string
	Results         []AssayResult
	Targets         []AssayTarget
	ProjectCategory string
}
