package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/ohler55/ojg/sen"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
)

const DefaultRecordPath = "$[*]"

var ErrUnsupportedFormat = errors.New("unsupported dataset format")

type (
	Option func(*loadConfig)

	loadConfig struct {
		recordPath string
		l          *log.Logger
	}
)

// WithRecordPath sets the JSONPath expression selecting the records.
func WithRecordPath(expr string) Option {
	return func(c *loadConfig) {
		if expr != "" {
			c.recordPath = expr
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *loadConfig) {
		c.l = l
	}
}

// Load reads the raw dataset from file.
// A missing file is not an error, it results in an empty dataset.
func Load(file string, opts ...Option) ([]model.RawEntry, error) {
	cfg := &loadConfig{
		recordPath: DefaultRecordPath,
		l:          log.Default().Named("catalog"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.l.Warn("dataset not found, using empty catalog", log.String("file", file))
			return []model.RawEntry{}, nil
		}
		return nil, err
	}
	return Parse(data, formatOf(file), opts...)
}

func formatOf(file string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
}

// Parse decodes data in the given format ("json", "js", "yaml" or "yml").
func Parse(data []byte, format string, opts ...Option) ([]model.RawEntry, error) {
	cfg := &loadConfig{recordPath: DefaultRecordPath, l: log.Default().Named("catalog")}
	for _, opt := range opts {
		opt(cfg)
	}
	var doc any
	var err error
	switch format {
	case "json":
		doc, err = oj.Parse(data)
	case "js":
		doc, err = sen.Parse(stripAssignment(data))
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if doc == nil {
		return []model.RawEntry{}, nil
	}
	expr, err := jp.ParseString(cfg.recordPath)
	if err != nil {
		return nil, fmt.Errorf("record path %q: %w", cfg.recordPath, err)
	}
	records := expr.Get(doc)
	ret := make([]model.RawEntry, 0, len(records))
	for _, r := range records {
		ret = append(ret, toRawEntry(r))
	}
	cfg.l.Debug("dataset parsed",
		log.String("format", format), log.Int("records", len(ret)))
	return ret, nil
}

// stripAssignment reduces "const rawData = [ ... ];" to the array literal.
func stripAssignment(data []byte) []byte {
	start := bytes.IndexByte(data, '[')
	end := bytes.LastIndexByte(data, ']')
	if start < 0 || end < start {
		return data
	}
	return data[start : end+1]
}

func toRawEntry(r any) model.RawEntry {
	m, ok := r.(map[string]any)
	if !ok {
		return model.RawEntry{}
	}
	str := func(key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	return model.RawEntry{ID: str("id"), Img: str("img")}
}
