// Package merge combines multiple canonical records into a single record
// under strict no-fabrication, no-loss rules: scalar fields are first-non-empty,
// contact and skill values are set unions, and work/education history is
// concatenated in source order without deduplication.
package merge

import (
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

// FlatCategory is the category that flat skill lists merge into when at
// least one source carries categorized skills. Category names are otherwise
// matched by exact key: "Tech" and "tech" remain distinct categories.
const FlatCategory = "General"

// ErrNoRecords is returned when Records is called with an empty input list.
var ErrNoRecords = fmt.Errorf("merge: no source records provided")

// Records merges the given canonical records into one. The function is pure:
// inputs are never mutated and the result shares no slices or maps with them.
//
// Rules, in input order:
//   - first name, last name, and career objective take the first non-empty
//     value; later sources cannot overwrite it
//   - emails and phones are unioned with case-sensitive exact-match dedup
//   - skills are unioned per category (exact key match)
//   - jobs and education are concatenated, never deduplicated
func Records(records []types.CanonicalRecord) (types.CanonicalRecord, error) {
	if len(records) == 0 {
		return types.CanonicalRecord{}, ErrNoRecords
	}

	var out types.CanonicalRecord
	emails := newStringSet()
	phones := newStringSet()

	for _, rec := range records {
		if out.FirstName == "" {
			out.FirstName = rec.FirstName
		}
		if out.LastName == "" {
			out.LastName = rec.LastName
		}
		if out.CareerObjective == "" {
			out.CareerObjective = rec.CareerObjective
		}

		emails.addAll(rec.Contact.Emails)
		phones.addAll(rec.Contact.Phones)

		out.Jobs = append(out.Jobs, rec.Jobs...)
		out.Education = append(out.Education, rec.Education...)
	}

	out.Contact.Emails = emails.values()
	out.Contact.Phones = phones.values()
	out.Skills = mergeSkills(records)

	return out, nil
}

// mergeSkills unions skill sets across records. If every source is flat the
// result stays flat; as soon as any source is categorized, flat sources
// contribute under FlatCategory.
func mergeSkills(records []types.CanonicalRecord) types.SkillSet {
	categorized := false
	for _, rec := range records {
		if rec.Skills.IsCategorized() {
			categorized = true
			break
		}
	}

	if !categorized {
		flat := newStringSet()
		for _, rec := range records {
			flat.addAll(rec.Skills.Flat)
		}
		if len(flat.values()) == 0 {
			return types.SkillSet{}
		}
		return types.SkillSet{Flat: flat.values()}
	}

	categories := make(map[string]*stringSet)
	order := make([]string, 0)
	add := func(category string, items []string) {
		if len(items) == 0 {
			return
		}
		set, ok := categories[category]
		if !ok {
			set = newStringSet()
			categories[category] = set
			order = append(order, category)
		}
		set.addAll(items)
	}

	for _, rec := range records {
		if rec.Skills.IsCategorized() {
			for category, items := range rec.Skills.Categories {
				add(category, items)
			}
		} else {
			add(FlatCategory, rec.Skills.Flat)
		}
	}

	merged := make(map[string][]string, len(categories))
	for _, category := range order {
		merged[category] = categories[category].values()
	}
	return types.SkillSet{Categories: merged}
}

// stringSet is an insertion-ordered set with case-sensitive membership, so
// merge output is deterministic for a given input order.
type stringSet struct {
	seen  map[string]bool
	items []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]bool)}
}

func (s *stringSet) addAll(values []string) {
	for _, v := range values {
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

func (s *stringSet) values() []string {
	return s.items
}
