package latex

// OptionalMarkerResult is what NewOptionalCharsMarkerParser returns via its
// Parser.Parse `any` slot. Matched is false when none of the candidates
// were present at the current position — this is the normal "absent
// optional piece" outcome, not an error.
type OptionalMarkerResult struct {
	Matched       bool
	MatchedString string
	Value         any
}

// OptionalMarkerResultMode selects how a successful match is packaged.
type OptionalMarkerResultMode int

const (
	// MarkerResultNodeList returns the marker's own char/specials nodes
	// followed by whatever the following-argument parser produced, as a
	// flat *NodeList.
	MarkerResultNodeList OptionalMarkerResultMode = iota
	// MarkerResultFollowingOnly discards the marker nodes and returns only
	// the following-argument parser's result.
	MarkerResultFollowingOnly
	// MarkerResultGroup wraps the marker nodes plus the following result
	// in an invisible group node whose open delimiter is the matched
	// string.
	MarkerResultGroup
)

// OptionalMarkerOption configures NewOptionalCharsMarkerParser.
type OptionalMarkerOption func(*optionalMarkerConfig)

type optionalMarkerConfig struct {
	following Parser
	mode      OptionalMarkerResultMode
}

// WithFollowingArgumentParser installs a parser run immediately after a
// successful match, whose result feeds into the marker's own result per
// the configured OptionalMarkerResultMode.
func WithFollowingArgumentParser(p Parser) OptionalMarkerOption {
	return func(c *optionalMarkerConfig) { c.following = p }
}

// WithOptionalMarkerResultMode selects the result shape (default
// MarkerResultNodeList).
func WithOptionalMarkerResultMode(m OptionalMarkerResultMode) OptionalMarkerOption {
	return func(c *optionalMarkerConfig) { c.mode = m }
}

// NewOptionalCharsMarkerParser scans char/specials tokens at the current
// position, concatenating payloads (joined by a single space wherever a
// token carried pre_space) and matching the accumulated string against
// candidates — e.g. "*" or "**". It commits to the longest
// candidate the input actually equals, backtracking over any further
// tokens it spent trying to extend the match.
func NewOptionalCharsMarkerParser(candidates []string, opts ...OptionalMarkerOption) Parser {
	cfg := optionalMarkerConfig{mode: MarkerResultNodeList}
	for _, o := range opts {
		o(&cfg)
	}

	return ParserFunc(func(w *Walker, tr *TokenReader, state *ParsingState) (any, ParsingStateDelta, error) {
		var consumed []Token
		accumulated := ""
		matchedAccum := ""
		matchedCount := 0

		for {
			tok, err := tr.PeekToken(state)
			if err != nil {
				break
			}
			if tok.Kind != KindChar && tok.Kind != KindSpecials {
				break
			}
			candidate := accumulated
			if accumulated != "" && tok.PreSpace != "" {
				candidate += " "
			}
			candidate += tok.Payload
			if !anyCandidateHasPrefix(candidates, candidate) {
				break
			}
			if _, err := tr.NextToken(state); err != nil {
				return nil, nil, err
			}
			consumed = append(consumed, tok)
			accumulated = candidate
			if containsString(candidates, accumulated) {
				matchedAccum = accumulated
				matchedCount = len(consumed)
			}
		}

		if matchedAccum == "" {
			if len(consumed) > 0 {
				tr.MoveToToken(consumed[0], true)
			}
			return &OptionalMarkerResult{Matched: false}, nil, nil
		}

		if matchedCount < len(consumed) {
			tr.MoveToToken(consumed[matchedCount], true)
		}
		matchedTokens := consumed[:matchedCount]

		markerNodes := make([]*Node, 0, len(matchedTokens))
		for _, t := range matchedTokens {
			if t.Kind == KindChar {
				markerNodes = append(markerNodes, w.MakeCharsNode(state, t.Pos, t.PosEnd, t.Payload))
			} else {
				markerNodes = append(markerNodes, w.MakeSpecialsNode(state, t.Pos, t.PosEnd, t.Payload, t.SpecialsSpec, NewParsedArguments(nil, nil, nil)))
			}
		}
		pos := matchedTokens[0].Pos
		posEnd := matchedTokens[len(matchedTokens)-1].PosEnd

		var followingResult any
		if cfg.following != nil {
			result, _, err := w.ParseContent(cfg.following, tr, state, OpenContextFrame{
				Description: "argument following optional marker " + matchedAccum, Pos: pos,
			})
			if err != nil {
				return nil, nil, err
			}
			followingResult = result
			if fn := flattenToNodes(followingResult); len(fn) > 0 {
				posEnd = fn[len(fn)-1].PosEnd()
			}
		}

		switch cfg.mode {
		case MarkerResultFollowingOnly:
			return &OptionalMarkerResult{Matched: true, MatchedString: matchedAccum, Value: followingResult}, nil, nil
		case MarkerResultGroup:
			all := append(markerNodes, flattenToNodes(followingResult)...)
			nl := NewNodeList(state, all, pos, posEnd)
			group := w.MakeGroupNode(state, pos, posEnd, matchedAccum, "", nl)
			return &OptionalMarkerResult{Matched: true, MatchedString: matchedAccum, Value: group}, nil, nil
		default:
			all := append(markerNodes, flattenToNodes(followingResult)...)
			nl := NewNodeList(state, all, pos, posEnd)
			return &OptionalMarkerResult{Matched: true, MatchedString: matchedAccum, Value: nl}, nil, nil
		}
	})
}

func anyCandidateHasPrefix(candidates []string, prefix string) bool {
	for _, c := range candidates {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, c := range list {
		if c == s {
			return true
		}
	}
	return false
}

func flattenToNodes(v any) []*Node {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			return nil
		}
		return []*Node{x}
	case *NodeList:
		if x == nil {
			return nil
		}
		return append([]*Node{}, x.Items()...)
	default:
		return nil
	}
}
