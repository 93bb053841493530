// Package seed loads the email catalog a dashboard starts with.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
)

//go:embed emails.yaml
var defaultYAML []byte

// Data is the content of a seed file.
type Data struct {
	Emails []*model.Email      `yaml:"emails"`
	Volume []model.VolumePoint `yaml:"volume"`
}

// Default returns the built-in dashboard catalog.
func Default() (*Data, error) {
	return Parse(bytes.NewReader(defaultYAML))
}

// LoadFile parses the seed file at path.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates seed YAML.
func Parse(r io.Reader) (*Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks every email and volume point and reports all problems
// at once.
func (d *Data) Validate() error {
	var errs []model.FieldError
	seen := make(map[string]bool, len(d.Emails))

	for i, e := range d.Emails {
		field := func(name string) string { return fmt.Sprintf("emails[%d].%s", i, name) }
		if e == nil {
			errs = append(errs, model.FieldError{Field: fmt.Sprintf("emails[%d]", i), Message: "empty entry"})
			continue
		}
		if e.ID == "" {
			errs = append(errs, model.FieldError{Field: field("id"), Message: "required"})
		} else if seen[e.ID] {
			errs = append(errs, model.FieldError{Field: field("id"), Message: fmt.Sprintf("duplicate id %q", e.ID)})
		}
		seen[e.ID] = true
		if e.ReceivedAt.IsZero() {
			errs = append(errs, model.FieldError{Field: field("received_at"), Message: "required"})
		}
		if !e.Priority.Valid() {
			errs = append(errs, model.FieldError{Field: field("priority"), Message: fmt.Sprintf("unknown priority %q", e.Priority)})
		}
		if !e.Sentiment.Valid() {
			errs = append(errs, model.FieldError{Field: field("sentiment"), Message: fmt.Sprintf("unknown sentiment %q", e.Sentiment)})
		}
		if !e.Status.Valid() {
			errs = append(errs, model.FieldError{Field: field("status"), Message: fmt.Sprintf("unknown status %q", e.Status)})
		}
	}
	for i, v := range d.Volume {
		if v.Date == "" {
			errs = append(errs, model.FieldError{Field: fmt.Sprintf("volume[%d].date", i), Message: "required"})
		}
		if v.Emails < 0 || v.Resolved < 0 || v.Resolved > v.Emails {
			errs = append(errs, model.FieldError{Field: fmt.Sprintf("volume[%d]", i), Message: "resolved must be between 0 and emails"})
		}
	}

	if len(errs) > 0 {
		return model.NewValidationError("invalid seed data", errs...)
	}
	return nil
}

// Apply upserts every email in d into st.
func Apply(ctx context.Context, st store.Store, d *Data) error {
	for _, e := range d.Emails {
		if err := st.UpsertEmail(ctx, e); err != nil {
			return fmt.Errorf("seed email %s: %w", e.ID, err)
		}
	}
	return nil
}
