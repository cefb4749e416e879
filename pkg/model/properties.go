package model

import (
	"encoding/json"
	"strconv"

	"github.com/chemstack/pugrest/pkg/common/code"
)

// Numeric is a float that tolerates being serialized as a JSON string,
// which newer schema versions do for MolecularWeight and ExactMass.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Numeric(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Numeric(f)
	return nil
}

// CompoundProperties is one row of the PropertyTable endpoint. Pointer
// fields distinguish "not requested" from a zero value.
type CompoundProperties struct {
	CID                uint32   `json:"CID"`
	Title              string   `json:"Title,omitempty"`
	MolecularFormula   string   `json:"MolecularFormula,omitempty"`
	MolecularWeight    *Numeric `json:"MolecularWeight,omitempty"`
	SMILES             string   `json:"SMILES,omitempty"`
	ConnectivitySMILES string   `json:"ConnectivitySMILES,omitempty"`
	CanonicalSMILES    string   `json:"CanonicalSMILES,omitempty"`
	IsomericSMILES     string   `json:"IsomericSMILES,omitempty"`
	InChI              string   `json:"InChI,omitempty"`
	InChIKey           string   `json:"InChIKey,omitempty"`
	IUPACName          string   `json:"IUPACName,omitempty"`
	XLogP              *Numeric `json:"XLogP,omitempty"`
	ExactMass          *Numeric `json:"ExactMass,omitempty"`
	MonoisotopicMass   *Numeric `json:"MonoisotopicMass,omitempty"`
	TPSA               *Numeric `json:"TPSA,omitempty"`
	Complexity         *Numeric `json:"Complexity,omitempty"`
	Charge             *int     `json:"Charge,omitempty"`
	HBondDonorCount    *int     `json:"HBondDonorCount,omitempty"`
	HBondAcceptorCount *int     `json:"HBondAcceptorCount,omitempty"`
	RotatableBondCount *int     `json:"RotatableBondCount,omitempty"`
	HeavyAtomCount     *int     `json:"HeavyAtomCount,omitempty"`
	CovalentUnitCount  *int     `json:"CovalentUnitCount,omitempty"`
}

// AnySMILES returns the best available SMILES string, falling back from
// the current field names to the legacy ones.
func (p *CompoundProperties) AnySMILES() string {
	for _, s := range []string{p.SMILES, p.IsomericSMILES, p.ConnectivitySMILES, p.CanonicalSMILES} {
		if s != "" {
			return s
		}
	}
	return ""
}

type propertyTableEnvelope struct {
	PropertyTable struct {
		Properties []CompoundProperties `json:"Properties"`
	} `json:"PropertyTable"`
}

// DecodePropertyTable parses a {"PropertyTable":{"Properties":[...]}}
// response into its rows.
func DecodePropertyTable(data []byte) ([]CompoundProperties, error) {
	var env propertyTableEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return env.PropertyTable.Properties, nil
}

type informationListEnvelope struct {
	InformationList struct {
		Information []Information `json:"Information"`
	} `json:"InformationList"`
}

// IDList accepts both the scalar and the array rendering the backend uses
// for the SID and AID keys, depending on the direction of the lookup.
type IDList []uint32

func (l *IDList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var ids []uint32
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		*l = ids
		return nil
	}
	var id uint32
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*l = IDList{id}
	return nil
}

// Information is one entry of an InformationList response (synonyms,
// sid/aid cross references).
type Information struct {
	CIDs     IDList   `json:"CID,omitempty"`
	SIDs     IDList   `json:"SID,omitempty"`
	AIDs     IDList   `json:"AID,omitempty"`
	Synonyms []string `json:"Synonym,omitempty"`
}

// DecodeInformationList parses an {"InformationList": ...} response.
func DecodeInformationList(data []byte) ([]Information, error) {
	var env informationListEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, code.ResponseParseErr.WithErr(err)
	}
	return env.InformationList.Information, nil
}
