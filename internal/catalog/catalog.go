// Package catalog holds named reference ellipsoids. A default catalog is
// embedded; users can overlay their own entries from a YAML file.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/geodesy-go/geodesic"
	"gopkg.in/yaml.v3"
)

//go:embed ellipsoids.yaml
var defaultYAML []byte

// ErrUnknownEllipsoid is returned when a name is not in the catalog.
var ErrUnknownEllipsoid = errors.New("catalog: unknown ellipsoid")

// Entry describes one ellipsoid. Flattening and InverseFlattening are
// alternatives; a non-zero InverseFlattening wins. Spherical entries use
// the great-circle fast path.
type Entry struct {
	Name              string  `yaml:"name"`
	Radius            float64 `yaml:"radius"`
	Flattening        float64 `yaml:"flattening,omitempty"`
	InverseFlattening float64 `yaml:"inverse_flattening,omitempty"`
	Spherical         bool    `yaml:"spherical,omitempty"`
}

// F returns the flattening of the entry.
func (e Entry) F() float64 {
	if e.InverseFlattening != 0 {
		return 1 / e.InverseFlattening
	}
	return e.Flattening
}

// Catalog maps case-insensitive names to entries.
type Catalog map[string]Entry

type file struct {
	Ellipsoids []Entry `yaml:"ellipsoids"`
}

// Load parses a YAML catalog.
func Load(r io.Reader) (Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog: parsing YAML: %w", err)
	}
	c := make(Catalog, len(f.Ellipsoids))
	for i, e := range f.Ellipsoids {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: entry %d has no name", i)
		}
		if e.Spherical && e.F() != 0 {
			return nil, fmt.Errorf("catalog: %s: spherical entry with flattening %v", e.Name, e.F())
		}
		c[key(e.Name)] = e
	}
	return c, nil
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(err)
	}
	return c
}

// Merge returns a catalog holding c's entries overlaid with o's.
func (c Catalog) Merge(o Catalog) Catalog {
	m := make(Catalog, len(c)+len(o))
	for k, v := range c {
		m[k] = v
	}
	for k, v := range o {
		m[k] = v
	}
	return m
}

// Names returns the entry names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the entry called name.
func (c Catalog) Lookup(name string) (Entry, error) {
	e, ok := c[key(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEllipsoid, name)
	}
	return e, nil
}

// Ellipsoid builds the ellipsoid called name.
func (c Catalog) Ellipsoid(name string, opts ...geodesic.Option) (*geodesic.Ellipsoid, error) {
	e, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	if e.Spherical {
		return geodesic.NewSpherical(e.Radius, opts...)
	}
	return geodesic.NewEllipsoid(e.Radius, e.F(), opts...)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
