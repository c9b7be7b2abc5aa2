package publish

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"easycv/config"
	"easycv/cv"
)

// OutputExt is extension of produced pages.
const OutputExt = ".xhtml"

// Values is what output name template can use.
type Values struct {
	Name     string
	Source   string
	Tags     []string
	Sections []string
}

func templateValues(doc *cv.Document, src Source) Values {
	v := Values{
		Name:   strings.TrimSpace(doc.Header.Name),
		Source: strings.TrimSuffix(filepath.Base(src.Rel), filepath.Ext(src.Rel)),
		Tags:   doc.Header.Tags,
	}
	for _, s := range doc.Sections {
		v.Sections = append(v.Sections, s.Title)
	}
	return v
}

func expandTemplate(field string, values Values) (string, error) {
	tmpl, err := template.New(string(config.NameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.NameTemplateFieldName, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OutputPath returns name of the page for document. Directory structure of
// the source is kept under dst. Name template result may contain
// subdirectories, every segment is cleaned and optionally transliterated.
func OutputPath(doc *cv.Document, src Source, dst string, conf *config.OutputConfig, log *zap.Logger) string {
	outDir := filepath.Join(dst, filepath.Dir(src.Rel))
	base := strings.TrimSuffix(filepath.Base(src.Rel), filepath.Ext(src.Rel))
	defaultName := filepath.Join(outDir, cleanSegment(base, conf)+OutputExt)

	if conf.NameTemplate == "" {
		return defaultName
	}
	expanded, err := expandTemplate(conf.NameTemplate, templateValues(doc, src))
	if err != nil {
		log.Warn("Unable to prepare output filename", zap.Error(err))
		return defaultName
	}

	segments := splitPath(filepath.FromSlash(strings.TrimSpace(expanded)))
	if len(segments) == 0 {
		return defaultName
	}
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments[:len(segments)-1] {
		parts = append(parts, cleanSegment(s, conf))
	}
	parts = append(parts, cleanSegment(segments[len(segments)-1], conf)+OutputExt)
	return filepath.Join(parts...)
}

// splitPath drops empty, current and parent directory segments so template
// cannot escape output directory.
func splitPath(path string) []string {
	var out []string
	for s := range strings.SplitSeq(path, string(os.PathSeparator)) {
		if s = strings.TrimSpace(s); s == "" || s == "." || s == ".." {
			continue
		}
		out = append(out, s)
	}
	return slices.Clip(out)
}

func cleanSegment(segment string, conf *config.OutputConfig) string {
	if conf.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
