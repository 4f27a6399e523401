package latex

import "fmt"

// StandardArgOption configures NewStandardArgumentParser's parsing-state
// override.
type StandardArgOption func(*standardArgConfig)

type standardArgConfig struct {
	isMathMode     *bool
	mathDelimiter  string
	extraStateOpts []StateOption
}

// WithArgIsMathMode forces math mode on or off for this argument only,
// regardless of the surrounding parsing state.
func WithArgIsMathMode(v bool, delimiter string) StandardArgOption {
	return func(c *standardArgConfig) {
		c.isMathMode = &v
		c.mathDelimiter = delimiter
	}
}

// WithArgParsingStateOptions applies arbitrary additional StateOptions to
// the state this argument is parsed under.
func WithArgParsingStateOptions(opts ...StateOption) StandardArgOption {
	return func(c *standardArgConfig) { c.extraStateOpts = append(c.extraStateOpts, opts...) }
}

// NewStandardArgumentParser translates an xparse-style arg_spec string into
// a Parser. Recognized specs: `m`/`{` (expression), `o`/`[`
// (optional `[...]` group), `s`/`*` (optional `*` marker), `t<c>` (optional
// single-character marker), `r<o><c>`/`d<o><c>` (required/optional group
// with custom delimiters), `v`/`v<o><c>` (delimited verbatim).
func NewStandardArgumentParser(spec string, opts ...StandardArgOption) (Parser, error) {
	cfg := standardArgConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	base, err := buildStandardArgParser(spec)
	if err != nil {
		return nil, err
	}

	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		argState := state
		if cfg.isMathMode != nil {
			argState = argState.SubContext(WithInMathMode(*cfg.isMathMode, cfg.mathDelimiter))
		}
		if len(cfg.extraStateOpts) > 0 {
			argState = argState.SubContext(cfg.extraStateOpts...)
		}
		return base.Parse(w, tr, argState)
	}), nil
}

func buildStandardArgParser(spec string) (Parser, error) {
	switch {
	case spec == "m" || spec == "{":
		return NewExpressionParser(), nil

	case spec == "o" || spec == "[":
		return NewCustomGroupParser("[", "]", true), nil

	case spec == "s" || spec == "*":
		return NewOptionalCharsMarkerParser([]string{"*"}), nil

	case len(spec) == 2 && spec[0] == 't':
		return NewOptionalCharsMarkerParser([]string{spec[1:]}), nil

	case len(spec) == 3 && spec[0] == 'r':
		return NewCustomGroupParser(spec[1:2], spec[2:3], false), nil

	case len(spec) == 3 && spec[0] == 'd':
		return NewCustomGroupParser(spec[1:2], spec[2:3], true), nil

	case spec == "v":
		return NewDelimitedVerbatimParser(), nil

	case len(spec) == 3 && spec[0] == 'v':
		open := rune(spec[1])
		closeCh := rune(spec[2])
		return NewDelimitedVerbatimParser(WithForcedDelimiters(open, closeCh)), nil

	default:
		return nil, fmt.Errorf("latex: unrecognized standard argument spec %q", spec)
	}
}

// NewArgumentListParser builds a Spec.ArgumentsParser from an ordered list
// of xparse-style specs (e.g. ["s", "m", "o"]), running each sub-parser in
// turn and assembling the results into a *ParsedArguments keyed by
// position, with names (if given, same length as specs) as the
// by-name lookup keys used by ParsedArgumentsInfo.GetArgumentInfo.
func NewArgumentListParser(specs []string, names []string, optsPerArg ...[]StandardArgOption) (Parser, error) {
	parsers := make([]Parser, len(specs))
	for i, spec := range specs {
		var opts []StandardArgOption
		if i < len(optsPerArg) {
			opts = optsPerArg[i]
		}
		p, err := NewStandardArgumentParser(spec, opts...)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		parsers[i] = p
	}

	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		argnlist := make([]*Node, len(parsers))
		for i, p := range parsers {
			desc := "argument"
			if i < len(names) && names[i] != "" {
				desc = "argument " + names[i]
			}
			result, _, err := w.ParseContent(p, tr, state, OpenContextFrame{Description: desc, Pos: tr.CurPos()})
			if err != nil {
				return nil, nil, err
			}
			argnlist[i] = coerceArgumentResult(w, state, result)
		}
		return NewParsedArguments(append([]string{}, specs...), append([]string{}, names...), argnlist), nil, nil
	}), nil
}

// coerceArgumentResult normalizes any standard-argument sub-parser's result
// (a bare *Node, a *NodeList from an expression that collected leading
// comments, or an *OptionalMarkerResult) into the single *Node (or nil, for
// "not provided") that ParsedArguments stores per argument.
func coerceArgumentResult(w *Walker, state *ParsingState, v any) *Node {
	switch x := v.(type) {
	case *Node:
		return x
	case *NodeList:
		if x == nil {
			return nil
		}
		return w.MakeGroupNode(state, x.Pos(), x.PosEnd(), "", "", x)
	case *OptionalMarkerResult:
		if !x.Matched {
			return nil
		}
		return coerceArgumentResult(w, state, x.Value)
	default:
		return nil
	}
}
