// Package styles provides default CV stylesheet and checks user supplied
// ones against markup hooks the renderer relies on.
package styles

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

//go:embed default.css
var defaultCSS []byte

// Default returns copy of embedded stylesheet.
func Default() []byte {
	return bytes.Clone(defaultCSS)
}

// Rule is a single ruleset, Media is empty outside of @media blocks.
type Rule struct {
	Selectors  []string
	Media      string
	Properties []string
}

// Sheet is a flat view of stylesheet sufficient for checks.
type Sheet struct {
	Rules   []Rule
	Imports []string
	Errors  []string
}

// Parse scans stylesheet. Nested at-rules other than @media are skipped.
func Parse(data []byte, log *zap.Logger) *Sheet {
	if log == nil {
		log = zap.NewNop()
	}
	sheet := &Sheet{}
	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err != io.EOF {
				sheet.Errors = append(sheet.Errors, err.Error())
				log.Debug("CSS parse error", zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			switch name := strings.ToLower(string(data)); name {
			case "@media":
				media := tokensText(parser.Values())
				sheet.Rules = append(sheet.Rules, parseBlock(parser, media)...)
			default:
				skipBlock(parser)
				log.Debug("Skipping @-rule", zap.String("rule", name))
			}

		case css.AtRuleGrammar:
			if strings.EqualFold(string(data), "@import") {
				if url := importURL(parser.Values()); url != "" {
					sheet.Imports = append(sheet.Imports, url)
				}
			}

		case css.BeginRulesetGrammar:
			sheet.Rules = append(sheet.Rules, Rule{
				Selectors:  selectors(data, parser.Values()),
				Properties: declarations(parser),
			})
		}
	}
}

func parseBlock(parser *css.Parser, media string) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules
		case css.BeginAtRuleGrammar:
			skipBlock(parser)
		case css.BeginRulesetGrammar:
			rules = append(rules, Rule{
				Selectors:  selectors(data, parser.Values()),
				Media:      media,
				Properties: declarations(parser),
			})
		}
	}
}

func skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func declarations(parser *css.Parser) []string {
	var props []string
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			props = append(props, strings.ToLower(string(data)))
		}
	}
}

func selectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var out []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func tokensText(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func importURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return strings.Trim(string(t.Data), `"'`)
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return strings.Trim(strings.TrimSpace(s), `"'`)
		}
	}
	return ""
}

// HasSelector reports whether any rule selector (optionally limited to media
// query containing given text) contains fragment.
func (s *Sheet) HasSelector(fragment, media string) bool {
	for _, r := range s.Rules {
		if media != "" && !strings.Contains(strings.ToLower(r.Media), media) {
			continue
		}
		for _, sel := range r.Selectors {
			if strings.Contains(sel, fragment) {
				return true
			}
		}
	}
	return false
}

type hook struct {
	fragment, media, what string
}

// markup hooks produced by renderer which stylesheet is expected to handle
var hooks = []hook{
	{".easycv-container", "", "CV container"},
	{".easycv-table", "", "entry tables"},
	{`[data-theme="dark"]`, "", "dark theme"},
	{".floating-actions", "print", "hiding page controls when printing"},
	{".easycv-print-cv-only", "print", "print isolation"},
}

// Lint returns human readable problems found in stylesheet. It never fails,
// stylesheet is used as is regardless of result.
func Lint(data []byte, log *zap.Logger) []string {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("styles")

	sheet := Parse(data, log)
	var problems []string
	for _, e := range sheet.Errors {
		problems = append(problems, "parse error: "+e)
	}
	for _, h := range hooks {
		if !sheet.HasSelector(h.fragment, h.media) {
			where := ""
			if h.media != "" {
				where = " in @media " + h.media
			}
			problems = append(problems, fmt.Sprintf("no rule for %s (%s%s)", h.what, h.fragment, where))
		}
	}
	for _, url := range sheet.Imports {
		problems = append(problems, "external import will not be inlined: "+url)
	}
	return problems
}

// Load returns stylesheet for pages: embedded default, user file or both
// (default first). Problems found in user stylesheet are logged.
func Load(path string, inlineDefault bool, log *zap.Logger) ([]byte, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var out bytes.Buffer
	if inlineDefault {
		out.Write(defaultCSS)
	}
	if path == "" {
		return out.Bytes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet: %w", err)
	}
	lintTarget := data
	if inlineDefault {
		// user rules only need to complement default ones
		lintTarget = append(bytes.Clone(defaultCSS), data...)
	}
	for _, p := range Lint(lintTarget, log) {
		log.Warn("Stylesheet problem", zap.String("path", path), zap.String("problem", p))
	}
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	out.Write(data)
	return out.Bytes(), nil
}

// IsolationRule returns print rule hiding every CV container on the page
// except the one with given print id while that id owns print marker.
func IsolationRule(printID string) string {
	id := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(printID)
	return fmt.Sprintf(`@media print {
  .easycv-print-cv-only[data-easycv-print-id="%[1]s"] .easycv-container:not([data-easycv-print-id="%[1]s"]) {
    display: none;
  }
}
`, id)
}
