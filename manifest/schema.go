package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/BurntSushi/toml"
)

// schemaSource is the embedded CUE schema a decoded knight.toml must satisfy.
// It bounds embed_budget and rng_seed to sane ranges and closes the
// top-level tables so a typo'd section name fails loudly instead of being
// silently ignored by the TOML decoder.
const schemaSource = `
#Manifest: {
	project?: {
		name?: string
	}
	run?: {
		entry?: string
	}
	server?: {
		http_addr?: string
		lsp?:       bool
	}
	interpreter?: {
		embed_budget?: int & >=0 & <=255
		rng_seed?:     int & >=0
	}
}
`

var cueCtx = cuecontext.New()

// Validate checks raw TOML bytes (decoded as generic CUE-compatible data)
// against the embedded schema. toml.Unmarshal has already produced a typed
// Manifest by the time this runs; Validate exists to catch what static Go
// struct decoding can't: out-of-range tuning values and unknown top-level
// tables that a silent `toml:"-"` mismatch would otherwise swallow.
func Validate(tomlBytes []byte) error {
	data, err := decodeTOMLToMap(tomlBytes)
	if err != nil {
		return fmt.Errorf("decoding for validation: %w", err)
	}

	schema := cueCtx.CompileString(schemaSource)
	if schema.Err() != nil {
		return fmt.Errorf("internal schema error: %w", schema.Err())
	}
	schema = schema.LookupPath(cue.ParsePath("#Manifest"))

	value := cueCtx.Encode(data)
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return err
	}
	return nil
}

// decodeTOMLToMap decodes raw TOML into a generic map so it can be handed
// to CUE's Encode, independent of the strongly-typed Manifest struct.
func decodeTOMLToMap(tomlBytes []byte) (map[string]any, error) {
	var data map[string]any
	if _, err := toml.Decode(string(tomlBytes), &data); err != nil {
		return nil, err
	}
	return data, nil
}
