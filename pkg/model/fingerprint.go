package model

import (
	"math/big"
	"strings"

	"github.com/chemstack/pugrest/pkg/common/code"
)

// FingerprintBits is the width of the CACTVS substructure key set.
const FingerprintBits = 881

// DecodeCACTVS expands the base16 CACTVS fingerprint property into its
// 881-character bit string. The raw value carries a 4-byte length prefix
// (8 hex chars) and 7 trailing padding bits, both of which are stripped.
func DecodeCACTVS(hex string) (string, error) {
	if len(hex) <= 8 {
		return "", code.InvalidArgumentErr.WithMsgf("fingerprint too short: %d hex chars", len(hex))
	}
	payload := hex[8:]

	n, ok := new(big.Int).SetString(payload, 16)
	if !ok {
		return "", code.InvalidArgumentErr.WithMsgf("fingerprint is not valid base16: %q", payload)
	}

	// Re-establish the leading zero bits the integer rendering drops.
	bits := n.Text(2)
	if width := 4 * len(payload); len(bits) < width {
		bits = strings.Repeat("0", width-len(bits)) + bits
	}

	if len(bits) < 7 {
		return "", code.InvalidArgumentErr.WithMsgf("fingerprint payload of %d bits", len(bits))
	}
	bits = bits[:len(bits)-7]

	if len(bits) > FingerprintBits {
		return "", code.InvalidArgumentErr.WithMsgf(
			"fingerprint has %d bits, want at most %d", len(bits), FingerprintBits)
	}
	if len(bits) < FingerprintBits {
		bits = strings.Repeat("0", FingerprintBits-len(bits)) + bits
	}
	return bits, nil
}

// CACTVSFingerprint pulls the Fingerprint/SubStructure Keys property off a
// record and decodes it.
func (c *Compound) CACTVSFingerprint() (string, error) {
	v, ok := c.Props.Find(PropFilter{Label: "Fingerprint", Name: "SubStructure Keys"})
	if !ok {
		return "", code.NotFoundErr.WithMsgf("cid %d has no fingerprint property", c.CID)
	}
	raw, ok := v.String()
	if !ok {
		return "", code.ResponseParseErr.WithMsgf("cid %d fingerprint payload is not a string", c.CID)
	}
	return DecodeCACTVS(raw)
}
