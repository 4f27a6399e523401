package latex

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed presets.toml
var presetsTOML string

// preset mirrors one named table in presets.toml; pointer fields
// distinguish "not set, keep NewParsingState's default" from an explicit
// false (BurntSushi/toml leaves unset fields at their Go zero value, which
// is indistinguishable from an explicit false for a plain bool).
type preset struct {
	Tolerant                      bool  `toml:"tolerant"`
	EnableDoubleNewlineParagraphs *bool `toml:"enable_double_newline_paragraphs"`
	EnableEnvironments            *bool `toml:"enable_environments"`
	EnableComments                *bool `toml:"enable_comments"`
	EnableGroups                  *bool `toml:"enable_groups"`
	EnableMacros                  *bool `toml:"enable_macros"`
	EnableSpecials                *bool `toml:"enable_specials"`
	EnableMath                    *bool `toml:"enable_math"`
}

var presetTable map[string]preset

func loadPresets() (map[string]preset, error) {
	var table map[string]preset
	if _, err := toml.Decode(presetsTOML, &table); err != nil {
		return nil, fmt.Errorf("latex: decoding embedded presets: %w", err)
	}
	return table, nil
}

// Preset builds the StateOptions and tolerant flag for a named
// configuration ("strict", "tolerant-report", "plain-text"), loaded from
// the embedded presets.toml.
func Preset(name string) (opts []StateOption, tolerant bool, err error) {
	if presetTable == nil {
		presetTable, err = loadPresets()
		if err != nil {
			return nil, false, err
		}
	}
	p, ok := presetTable[name]
	if !ok {
		return nil, false, fmt.Errorf("latex: unknown preset %q", name)
	}

	if p.EnableDoubleNewlineParagraphs != nil {
		opts = append(opts, WithEnableDoubleNewlineParagraphs(*p.EnableDoubleNewlineParagraphs))
	}
	if p.EnableEnvironments != nil {
		opts = append(opts, WithEnableEnvironments(*p.EnableEnvironments))
	}
	if p.EnableComments != nil {
		opts = append(opts, WithEnableComments(*p.EnableComments))
	}
	if p.EnableGroups != nil {
		opts = append(opts, WithEnableGroups(*p.EnableGroups))
	}
	if p.EnableMacros != nil {
		opts = append(opts, WithEnableMacros(*p.EnableMacros))
	}
	if p.EnableSpecials != nil {
		opts = append(opts, WithEnableSpecials(*p.EnableSpecials))
	}
	if p.EnableMath != nil {
		opts = append(opts, WithEnableMath(*p.EnableMath))
	}
	return opts, p.Tolerant, nil
}
