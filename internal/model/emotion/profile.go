package emotion

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Profile describes how a label is presented to the user.
type Profile struct {
	Label       Label    `yaml:"label" json:"label"`
	Emoji       string   `yaml:"emoji" json:"emoji"`
	Color       string   `yaml:"color" json:"color"`
	Suggestions []string `yaml:"suggestions" json:"suggestions"`
}

// Catalog exposes profile lookups for HTTP handlers and services.
type Catalog interface {
	List() []Profile
	FindByLabel(label Label) (Profile, bool)
}

// MemoryCatalog implements Catalog over a fixed slice.
type MemoryCatalog struct {
	items []Profile
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied profiles.
func NewMemoryCatalog(items []Profile) *MemoryCatalog {
	return &MemoryCatalog{items: append([]Profile(nil), items...)}
}

// Seed decodes the embedded profile document.
func Seed() ([]Profile, error) {
	var profiles []Profile
	if err := yaml.Unmarshal(profilesYAML, &profiles); err != nil {
		return nil, fmt.Errorf("decode emotion profiles: %w", err)
	}
	for i, p := range profiles {
		if !p.Label.IsKnown() {
			return nil, fmt.Errorf("profile %d: unknown label %q", i, p.Label)
		}
	}
	return profiles, nil
}

// MustSeed is Seed for package initialisation paths; the document is compiled in.
func MustSeed() []Profile {
	profiles, err := Seed()
	if err != nil {
		panic(err)
	}
	return profiles
}

// List returns the profiles in catalog order.
func (c *MemoryCatalog) List() []Profile {
	out := make([]Profile, len(c.items))
	for i, p := range c.items {
		p.Suggestions = append([]string(nil), p.Suggestions...)
		out[i] = p
	}
	return out
}

// FindByLabel looks up a profile by label.
func (c *MemoryCatalog) FindByLabel(label Label) (Profile, bool) {
	for _, item := range c.items {
		if item.Label == label {
			item.Suggestions = append([]string(nil), item.Suggestions...)
			return item, true
		}
	}
	return Profile{}, false
}
