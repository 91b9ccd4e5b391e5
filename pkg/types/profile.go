// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// HealthProfile carries optional demographic and lifestyle attributes for
// the personalized-guidance lookup. Only supplied attributes are sent
// upstream.
type HealthProfile struct {
	// Age in years. Zero means not supplied.
	Age int `json:"age,omitempty" yaml:"age,omitempty"`

	// Sex is "male" or "female" (the guidance upstream accepts no other
	// values). Empty means not supplied.
	Sex string `json:"sex,omitempty" yaml:"sex,omitempty"`

	// Pregnant, when non-nil, states whether the user is pregnant.
	Pregnant *bool `json:"pregnant,omitempty" yaml:"pregnant,omitempty"`

	// TobaccoUse, when non-nil, states whether the user uses tobacco.
	TobaccoUse *bool `json:"tobacco_use,omitempty" yaml:"tobacco_use,omitempty"`

	// Language is an optional BCP 47 language tag (e.g. "es").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// IsZero reports whether no attribute was supplied.
func (p HealthProfile) IsZero() bool {
	return p.Age == 0 && p.Sex == "" && p.Pregnant == nil && p.TobaccoUse == nil && p.Language == ""
}

// Complete reports whether the profile carries the minimum attributes
// (age and sex) required for a profile-driven guidance lookup.
func (p HealthProfile) Complete() bool {
	return p.Age > 0 && (p.Sex == "male" || p.Sex == "female")
}

// Validate rejects malformed profiles. A zero profile is valid (the
// profile lookup is simply skipped); a partially-filled one with
// out-of-range values is a caller bug and is reported as an error.
func (p HealthProfile) Validate() error {
	if p.Age < 0 || p.Age > 120 {
		return fmt.Errorf("profile age %d out of range [0, 120]", p.Age)
	}
	if p.Sex != "" && p.Sex != "male" && p.Sex != "female" {
		return fmt.Errorf("profile sex %q must be %q or %q", p.Sex, "male", "female")
	}
	return nil
}
