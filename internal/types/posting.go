package types

import "github.com/google/uuid"

// TargetPosting is the structured form of a job posting, produced by the
// posting parser. The tailoring workflow treats it as read-only input.
type TargetPosting struct {
	JobTitle           string   `json:"job_title,omitempty"`
	Company            string   `json:"company,omitempty"`
	Location           string   `json:"location,omitempty"`
	EmploymentType     string   `json:"employment_type,omitempty"`
	SalaryRange        string   `json:"salary_range,omitempty"`
	RequiredExperience string   `json:"required_experience,omitempty"`
	RequiredEducation  string   `json:"required_education,omitempty"`
	JobDescription     string   `json:"job_description,omitempty"`
	Responsibilities   []string `json:"responsibilities"`
	Qualifications     []string `json:"qualifications"`
	Benefits           []string `json:"benefits"`
}

// StoredPosting pairs a saved posting with its identity, mirroring
// SourceRecord for the record side.
type StoredPosting struct {
	ID      uuid.UUID     `json:"id"`
	Posting TargetPosting `json:"posting"`
}
