// Package types provides type definitions for structured data used throughout the resume-tailor system.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Contact holds the contact block of a canonical record. Emails and phones
// are sets: no duplicate values (case-sensitive exact match), order carries
// no meaning beyond "first is primary".
type Contact struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// CanonicalRecord is the merged professional profile produced from one or
// more source inputs. Field names mirror the parser output stored for each
// source record, so a single-source record round-trips unchanged.
type CanonicalRecord struct {
	FirstName       string       `json:"first_name,omitempty"`
	LastName        string       `json:"last_name,omitempty"`
	Contact         Contact      `json:"contact"`
	CareerObjective string       `json:"career_objective,omitempty"`
	Skills          SkillSet     `json:"skills"`
	Jobs            []Experience `json:"jobs"`
	Education       []Education  `json:"education"`
}

// Experience is a single work history entry. Entries carry no identity
// beyond their position in the list and are never deduplicated.
type Experience struct {
	Title            string   `json:"title,omitempty"`
	Company          string   `json:"company,omitempty"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"` // "YYYY-MM" or "Present"
	RoleSummary      string   `json:"role_summary,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Accomplishments  []string `json:"accomplishments"`
}

// Education is a single education entry. Same non-deduplication policy as
// Experience.
type Education struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	GPA         GPA    `json:"GPA,omitempty"`
}

// GPA is stored verbatim as text because upstream parsers emit either a
// number (3.8) or a string ("3.8/4.0").
type GPA string

// UnmarshalJSON accepts a JSON number, string, or null.
func (g *GPA) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*g = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = GPA(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("GPA must be a number or string: %w", err)
	}
	*g = GPA(n.String())
	return nil
}

// MarshalJSON always emits the string form.
func (g GPA) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(g))
}

// SkillSet is a tagged union: skills are either categorized (category name to
// skill list) or a flat list. The shape is decided exactly once, when the
// record is unmarshaled, so downstream code switches on IsCategorized instead
// of sniffing runtime types.
type SkillSet struct {
	Categories map[string][]string
	Flat       []string
}

// IsCategorized reports whether the set carries category structure.
func (s SkillSet) IsCategorized() bool {
	return s.Categories != nil
}

// IsEmpty reports whether the set holds no skills at all.
func (s SkillSet) IsEmpty() bool {
	if s.Categories != nil {
		for _, items := range s.Categories {
			if len(items) > 0 {
				return false
			}
		}
		return true
	}
	return len(s.Flat) == 0
}

// UnmarshalJSON accepts an object (categorized), an array (flat), a bare
// string (single flat skill), or null. This is the only place the legacy
// "skills may be a list or a dict or a string" ambiguity is resolved.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = SkillSet{}
		return nil
	}
	switch data[0] {
	case '{':
		var m map[string][]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("categorized skills must map category to a list of strings: %w", err)
		}
		*s = SkillSet{Categories: m}
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("flat skills must be a list of strings: %w", err)
		}
		*s = SkillSet{Flat: list}
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		single = strings.TrimSpace(single)
		if single == "" {
			*s = SkillSet{}
			return nil
		}
		*s = SkillSet{Flat: []string{single}}
		return nil
	default:
		return fmt.Errorf("skills must be an object, array, or string")
	}
}

// MarshalJSON emits the object form for categorized sets and the array form
// for flat sets. An empty set marshals as an empty object, matching the
// parser contract ("{} for objects").
func (s SkillSet) MarshalJSON() ([]byte, error) {
	if s.Categories != nil {
		return json.Marshal(s.Categories)
	}
	if s.Flat != nil {
		return json.Marshal(s.Flat)
	}
	return []byte("{}"), nil
}
