package browser

import (
	"fmt"
	"strings"

	"spx-gex/internal/types"
)

// Query is a locator lowered to a selector the engines understand.
type Query struct {
	Selector string
	XPath    bool
}

// Lower turns a locator into a CSS selector or an XPath expression.
// Text matching is case-sensitive and whitespace-normalized, like the
// dashboard's own labels.
func Lower(loc types.Locator) (Query, error) {
	switch loc.Strategy {
	case types.StrategyCSS:
		return Query{Selector: loc.Value}, nil
	case types.StrategyID:
		return Query{Selector: "#" + strings.TrimPrefix(loc.Value, "#")}, nil
	case types.StrategyXPath:
		return Query{Selector: loc.Value, XPath: true}, nil
	case types.StrategyText:
		tag := loc.Tag
		if tag == "" {
			// innermost element carrying the text itself
			return Query{Selector: fmt.Sprintf("//*[text()[contains(normalize-space(.), %s)]]", xpathLiteral(loc.Value)), XPath: true}, nil
		}
		return Query{Selector: fmt.Sprintf("//%s[contains(normalize-space(.), %s)]", tag, xpathLiteral(loc.Value)), XPath: true}, nil
	case types.StrategyRole:
		if loc.Value == "" {
			return Query{Selector: fmt.Sprintf("//*[@role=%s]", xpathLiteral(loc.Role)), XPath: true}, nil
		}
		return Query{Selector: fmt.Sprintf("//*[@role=%s][contains(normalize-space(.), %s)]", xpathLiteral(loc.Role), xpathLiteral(loc.Value)), XPath: true}, nil
	default:
		return Query{}, fmt.Errorf("unknown locator strategy %q", loc.Strategy)
	}
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(parts, `, "'", `) + ")"
}
