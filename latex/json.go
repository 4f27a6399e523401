package latex

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes n as {"nodetype": "<Kind>", ...fields..., "pos": n,
// "pos_end": n}. This is the one place this package reaches for
// encoding/json directly rather than a third-party codec: the wire format
// is specified as JSON, and nothing in the retrieval corpus carries an
// alternative JSON library worth preferring over the standard one.
func (n *Node) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"nodetype": n.Kind().String(),
		"pos":      int(n.Pos()),
		"pos_end":  int(n.PosEnd()),
	}
	switch n.Kind() {
	case NodeChars:
		m["chars"] = n.Text()
	case NodeComment:
		m["comment"] = n.Text()
		m["post_space"] = n.PostSpace()
	case NodeGroup:
		open, close := n.Delimiters()
		m["delimiters"] = [2]string{open, close}
		m["nodelist"] = n.NodeList()
	case NodeMacro:
		m["macroname"] = n.Name()
		m["args"] = n.Args()
		m["post_space"] = n.PostSpace()
		m["spec"] = specRepr(n.SpecOf())
	case NodeEnvironment:
		m["envname"] = n.Name()
		m["args"] = n.Args()
		m["nodelist"] = n.Body()
		m["spec"] = specRepr(n.SpecOf())
	case NodeSpecials:
		m["specials_chars"] = n.Chars()
		m["args"] = n.Args()
		m["spec"] = specRepr(n.SpecOf())
	case NodeMath:
		open, close := n.Delimiters()
		m["delimiters"] = [2]string{open, close}
		m["displaytype"] = n.Display().String()
		m["nodelist"] = n.NodeList()
	}
	return json.Marshal(m)
}

// MarshalJSON encodes the node list as a plain JSON array of its items.
func (nl *NodeList) MarshalJSON() ([]byte, error) {
	if nl == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(nl.Items())
}

// MarshalJSON encodes a parsed-arguments object as {"specs": [...],
// "names": [...], "nodes": [...]} (nil entries for not-provided optional
// arguments).
func (pa *ParsedArguments) MarshalJSON() ([]byte, error) {
	if pa == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]any{
		"specs": pa.SpecList(),
		"names": pa.names,
		"nodes": pa.Nodes(),
	})
}

// specRepr serializes a Spec opaquely via its Stringer implementation
func specRepr(spec Spec) string {
	if spec == nil {
		return ""
	}
	return fmt.Sprintf("%v", spec)
}
