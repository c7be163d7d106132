// Package facts loads and queries the Facts Registry: the collection of
// atomic, citable regulatory statements that backs every citation the
// assistant emits.
package facts

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Confidence expresses how strongly a fact is believed to match its source.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar date. Registry files carry dates as 2006-01-02; full
// RFC3339 timestamps are accepted too.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time value.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) parse(s string) error {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: want %s", s, dateLayout)
	}
	d.Time = t
	return nil
}

// UnmarshalYAML decodes a scalar date node.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	return d.parse(value.Value)
}

// MarshalYAML encodes the date as 2006-01-02.
func (d Date) MarshalYAML() (any, error) {
	return d.Format(dateLayout), nil
}

// UnmarshalJSON decodes a date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.parse(s)
}

// MarshalJSON encodes the date as 2006-01-02.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// Fact is an atomic regulatory claim with citation metadata. Facts are
// created at registry load time and immutable afterwards.
type Fact struct {
	ID            string     `yaml:"id" json:"id"`
	Text          string     `yaml:"text" json:"text"`
	SourceURL     string     `yaml:"source_url" json:"source_url"`
	SourceSection string     `yaml:"source_section,omitempty" json:"source_section,omitempty"`
	LastVerified  Date       `yaml:"last_verified" json:"last_verified"`
	Confidence    Confidence `yaml:"confidence" json:"confidence"`
	Note          string     `yaml:"note,omitempty" json:"note,omitempty"`
}

// Validate checks the invariants a fact must satisfy before it is served.
func (f *Fact) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("fact id cannot be empty")
	}
	if strings.TrimSpace(f.Text) == "" {
		return fmt.Errorf("fact %s: text cannot be empty", f.ID)
	}
	u, err := url.Parse(f.SourceURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("fact %s: source_url %q is not a valid URL", f.ID, f.SourceURL)
	}
	if !f.Confidence.valid() {
		return fmt.Errorf("fact %s: unknown confidence %q", f.ID, f.Confidence)
	}
	if f.LastVerified.IsZero() {
		return fmt.Errorf("fact %s: last_verified is required", f.ID)
	}
	return nil
}

// Registry is the root container of one facts YAML file. Each registry
// typically covers one government process.
type Registry struct {
	Version     string  `yaml:"version" json:"version"`
	LastUpdated Date    `yaml:"last_updated" json:"last_updated"`
	Scope       string  `yaml:"scope" json:"scope"`
	Facts       []*Fact `yaml:"facts" json:"facts"`
}

// Validate checks registry-level invariants, including global uniqueness of
// fact ids within the registry.
func (r *Registry) Validate() error {
	if strings.TrimSpace(r.Version) == "" {
		return fmt.Errorf("registry version cannot be empty")
	}
	if strings.TrimSpace(r.Scope) == "" {
		return fmt.Errorf("registry scope cannot be empty")
	}
	if len(r.Facts) == 0 {
		return fmt.Errorf("registry %s contains no facts", r.Scope)
	}
	seen := make(map[string]bool, len(r.Facts))
	for _, f := range r.Facts {
		if err := f.Validate(); err != nil {
			return err
		}
		f.ID = strings.TrimSpace(f.ID)
		f.Text = strings.TrimSpace(f.Text)
		if seen[f.ID] {
			return fmt.Errorf("duplicate fact id in registry %s: %s", r.Scope, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}
