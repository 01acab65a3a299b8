package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/selector"
)

// rootTable is the global a rules file must define.
const rootTable = "qbdifetch"

// Parser represents a Lua rules parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new rules parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector, opts ...ParserOption) *Parser {
	p := &Parser{detector: detector, logger: defaultLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger used while parsing.
func WithLogger(l Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// ParseFile reads and parses a rules file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	p.logger.Debug("parsing rules file", "path", path)
	return p.ParseString(ctx, string(data))
}

// ParseString parses a rules file held in memory.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		p.logger.Debug("detected platform", "os", platformInfo.OS, "arch", platformInfo.Arch, "distro", platformInfo.Platform)
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a rules parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the root table left behind by the rules file.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal(rootTable)
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: fmt.Sprintf("missing or invalid '%s' table", rootTable),
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}
	table := root.(*lua.LTable)

	config := Default()

	if sourceVal := table.RawGetString("source"); sourceVal.Type() == lua.LTTable {
		extractSource(sourceVal.(*lua.LTable), &config.Source)
	} else if sourceVal.Type() != lua.LTNil {
		return nil, &ParseError{
			Message: "invalid 'source'",
			Detail:  fmt.Sprintf("expected table, got %s", sourceVal.Type()),
		}
	}

	if rulesVal := table.RawGetString("rules"); rulesVal.Type() == lua.LTTable {
		rules, err := extractRules(rulesVal.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		config.Rules = rules
	} else if rulesVal.Type() != lua.LTNil {
		return nil, &ParseError{
			Message: "invalid 'rules'",
			Detail:  fmt.Sprintf("expected table, got %s", rulesVal.Type()),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractSource overlays the string fields present in table onto src.
func extractSource(table *lua.LTable, src *Source) {
	if v := table.RawGetString("owner"); v.Type() == lua.LTString {
		src.Owner = v.String()
	}
	if v := table.RawGetString("repo"); v.Type() == lua.LTString {
		src.Repo = v.String()
	}
	if v := table.RawGetString("api_url"); v.Type() == lua.LTString {
		src.APIURL = v.String()
	}
}

// extractRules converts the rules array in order. Holes left by platform
// conditionals (nil) are skipped.
func extractRules(table *lua.LTable) (selector.Rules, error) {
	var rules selector.Rules

	for i := 1; i <= table.MaxN(); i++ {
		value := table.RawGetInt(i)
		switch value.Type() {
		case lua.LTNil:
			continue
		case lua.LTString:
			m, err := selector.NewRegexpMatcher(value.String())
			if err != nil {
				return nil, ruleError(i, err.Error())
			}
			rules = append(rules, m)
		case lua.LTTable:
			m, err := extractRule(value.(*lua.LTable))
			if err != nil {
				return nil, ruleError(i, err.Error())
			}
			rules = append(rules, m)
		default:
			return nil, ruleError(i, fmt.Sprintf("expected string or table, got %s", value.Type()))
		}
	}

	return rules, nil
}

// extractRule converts one { pattern = ... } or { contains = ... } entry.
func extractRule(table *lua.LTable) (selector.Matcher, error) {
	pattern := table.RawGetString("pattern")
	contains := table.RawGetString("contains")

	switch {
	case pattern.Type() != lua.LTNil && contains.Type() != lua.LTNil:
		return nil, fmt.Errorf("'pattern' and 'contains' are mutually exclusive")

	case pattern.Type() == lua.LTString:
		return selector.NewRegexpMatcher(pattern.String())

	case contains.Type() == lua.LTString:
		return selector.NewSubstringMatcher(foldCase(table), contains.String()), nil

	case contains.Type() == lua.LTTable:
		var needles []string
		var bad error
		contains.(*lua.LTable).ForEach(func(_, v lua.LValue) {
			if v.Type() != lua.LTString {
				bad = fmt.Errorf("'contains' entries must be strings, got %s", v.Type())
				return
			}
			if v.String() != "" {
				needles = append(needles, v.String())
			}
		})
		if bad != nil {
			return nil, bad
		}
		if len(needles) == 0 {
			return nil, fmt.Errorf("'contains' is empty")
		}
		return selector.NewSubstringMatcher(foldCase(table), needles...), nil

	default:
		return nil, fmt.Errorf("rule needs a 'pattern' string or a 'contains' list")
	}
}

func foldCase(table *lua.LTable) bool {
	v := table.RawGetString("fold_case")
	return v.Type() == lua.LTBool && bool(v.(lua.LBool))
}

func ruleError(index int, detail string) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid rule #%d", index),
		Detail:  detail,
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
