package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile is the public developer profile of a user. Experience and education
// are ordered newest first.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"-"`
	User           *UserSummary `json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	CreatedAt      time.Time    `json:"date"`

	// JSON string fields for DB storage
	SkillsJSON     string `json:"-"`
	ExperienceJSON string `json:"-"`
	EducationJSON  string `json:"-"`
	SocialJSON     string `json:"-"`

	// Slice/struct fields for API interaction
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Social     Social       `json:"social"`
}

// Experience is one entry of a profile's work history.
type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// Education is one entry of a profile's education history.
type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// Social holds the optional social network links of a profile.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// OwnerID implements auth.Owned.
func (p *Profile) OwnerID() string { return p.UserID }

// PrepareForSave marshals all slice/struct fields into their JSON strings for DB storage.
func (p *Profile) PrepareForSave() {
	p.SkillsJSON = marshalList(p.Skills)
	p.ExperienceJSON = marshalList(p.Experience)
	p.EducationJSON = marshalList(p.Education)

	socialBytes, _ := json.Marshal(p.Social)
	p.SocialJSON = string(socialBytes)
}

// PrepareForAPI unmarshals all JSON string fields into their slice/struct fields.
// Lists are never nil afterwards so they encode as [].
func (p *Profile) PrepareForAPI() error {
	if err := unmarshalField(p.SkillsJSON, &p.Skills); err != nil {
		return fmt.Errorf("skills: %w", err)
	}
	if err := unmarshalField(p.ExperienceJSON, &p.Experience); err != nil {
		return fmt.Errorf("experience: %w", err)
	}
	if err := unmarshalField(p.EducationJSON, &p.Education); err != nil {
		return fmt.Errorf("education: %w", err)
	}
	if err := unmarshalField(p.SocialJSON, &p.Social); err != nil {
		return fmt.Errorf("social: %w", err)
	}

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	return nil
}

// marshalList encodes a slice, writing nil as an empty JSON array.
func marshalList[T any](list []T) string {
	if list == nil {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func unmarshalField(src string, dst any) error {
	if src == "" {
		return nil
	}
	return json.Unmarshal([]byte(src), dst)
}
