package pagewindow

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the serializable window setup, intended to be embedded into
// application configuration files or API payloads.
//
//	window:
//	  pageSize: 50
//	  sort: ["age desc", "id asc"]
//	  prefetch: 1
type Config struct {
	// PageSize - number of records fetched per page. Non-positive values fall
	// back to DefaultPageSize, values above MaxPageSize are clamped.
	PageSize int `json:"pageSize" yaml:"pageSize"`
	// Sort - initial sort in the "alias asc|desc" format, see ParseSort.
	Sort []string `json:"sort,omitempty" yaml:"sort,omitempty"`
	// Prefetch - number of pages read ahead after every page miss.
	Prefetch int `json:"prefetch,omitempty" yaml:"prefetch,omitempty"`
}

// LoadConfig decodes a Config from YAML (or JSON, which is valid YAML).
// Empty input yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("cannot decode window config: %w", err)
	}

	return cfg, nil
}

// Decode converts the Config into the page size and initial sort, resolving
// sort aliases via columnMapping.
func (c Config) Decode(columnMapping ColumnMapping) (int, Orderings, error) {
	sort, err := ParseSort(c.Sort, columnMapping)
	if err != nil {
		return 0, nil, fmt.Errorf("cannot decode window config: %w", err)
	}

	return NormalizePageSize(c.PageSize), sort, nil
}

// NewFromConfig creates a Window over src set up from cfg. Explicit opts are
// applied after the configured ones.
func NewFromConfig[T any](src Source[T], cfg Config, columnMapping ColumnMapping, opts ...Option[T]) (*Window[T], error) {
	pageSize, sort, err := cfg.Decode(columnMapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	configured := []Option[T]{
		WithSort[T](sort...),
		WithPrefetch[T](cfg.Prefetch),
	}

	return NewFromSource(src, pageSize, append(configured, opts...)...)
}
