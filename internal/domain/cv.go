package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Section identifies one of the six recognized CV sequences. The set is
// closed: ParseSection rejects anything else before it can reach storage.
type Section string

const (
	SectionSkills         Section = "skills"
	SectionExperiences    Section = "experiences"
	SectionEducations     Section = "educations"
	SectionLanguages      Section = "languages"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

var sections = map[Section]bool{
	SectionSkills:         true,
	SectionExperiences:    true,
	SectionEducations:     true,
	SectionLanguages:      true,
	SectionProjects:       true,
	SectionCertifications: true,
}

// sectionAliases maps the legacy wire names still sent by older clients onto
// the canonical section kinds.
var sectionAliases = map[string]Section{
	"professionalExperiences":  SectionExperiences,
	"professional-experiences": SectionExperiences,
	"ProfessionalExperience":   SectionExperiences,
}

// ParseSection resolves a wire-format section name to a Section, failing with
// ErrInvalidSection for unrecognized names.
func ParseSection(name string) (Section, error) {
	if s := Section(name); sections[s] {
		return s, nil
	}
	if s, ok := sectionAliases[name]; ok {
		return s, nil
	}
	return "", ErrInvalidSection
}

func Sections() []Section {
	return []Section{
		SectionSkills,
		SectionExperiences,
		SectionEducations,
		SectionLanguages,
		SectionProjects,
		SectionCertifications,
	}
}

// Typed item shapes, one per section kind. Wire field names follow the
// existing client's payloads.

type SkillItem struct {
	Name              string `json:"name" validate:"required,max=100"`
	Level             string `json:"level" validate:"required,max=50"`
	YearsOfExperience int    `json:"yearOfExperience" validate:"min=0,max=60"`
}

type ExperienceItem struct {
	Name              string `json:"name" validate:"required,max=200"`
	Description       string `json:"description" validate:"required,max=2000"`
	YearsOfExperience int    `json:"yearOfExperience" validate:"min=0,max=60"`
}

type EducationItem struct {
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"required,max=200"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsCurrent   bool   `json:"isCurrent"`
}

type LanguageItem struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"required,max=50"`
}

type ProjectItem struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required,max=2000"`
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Technologies []string `json:"technologiesUsed" validate:"omitempty,max=30,dive,max=100"`
}

type CertificationItem struct {
	Name         string `json:"name" validate:"required,max=200"`
	Organization string `json:"organization" validate:"required,max=200"`
	IssueDate    string `json:"issueDate" validate:"required,datetime=2006-01-02"`
	ExpiryDate   string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
}

// DecodeItem parses and validates a raw item payload against the typed shape
// of its section, returning the normalized form ready for storage.
func DecodeItem(section Section, data json.RawMessage) (json.RawMessage, error) {
	var item any
	switch section {
	case SectionSkills:
		item = &SkillItem{}
	case SectionExperiences:
		item = &ExperienceItem{}
	case SectionEducations:
		item = &EducationItem{}
	case SectionLanguages:
		item = &LanguageItem{}
	case SectionProjects:
		item = &ProjectItem{}
	case SectionCertifications:
		item = &CertificationItem{}
	default:
		return nil, ErrInvalidSection
	}

	if err := json.Unmarshal(data, item); err != nil {
		return nil, NewValidationError(string(section), "malformed item payload")
	}
	sanitizeItem(item)
	if err := ValidateStruct(item); err != nil {
		return nil, err
	}
	return json.Marshal(item)
}

// CVItem is one stored entry of a section sequence.
type CVItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Section   Section         `json:"-" db:"section"`
	Position  int             `json:"-" db:"position"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// CV is the structured resume content owned by one account. Section slices
// preserve insertion order; no cross-section consistency is enforced.
type CV struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Summary     string    `json:"summary" db:"summary"`
	ContactInfo string    `json:"contactInfo" db:"contact_info"`
	IsPublic    bool      `json:"isPublic" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Skills         []*CVItem `json:"skills" db:"-"`
	Experiences    []*CVItem `json:"experiences" db:"-"`
	Educations     []*CVItem `json:"educations" db:"-"`
	Languages      []*CVItem `json:"languages" db:"-"`
	Projects       []*CVItem `json:"projects" db:"-"`
	Certifications []*CVItem `json:"certifications" db:"-"`
}

// Attach distributes loaded items into their section slices, keeping the
// order they were handed in.
func (c *CV) Attach(items []*CVItem) {
	for _, item := range items {
		switch item.Section {
		case SectionSkills:
			c.Skills = append(c.Skills, item)
		case SectionExperiences:
			c.Experiences = append(c.Experiences, item)
		case SectionEducations:
			c.Educations = append(c.Educations, item)
		case SectionLanguages:
			c.Languages = append(c.Languages, item)
		case SectionProjects:
			c.Projects = append(c.Projects, item)
		case SectionCertifications:
			c.Certifications = append(c.Certifications, item)
		}
	}
}

// Items returns the slice for one section.
func (c *CV) Items(section Section) []*CVItem {
	switch section {
	case SectionSkills:
		return c.Skills
	case SectionExperiences:
		return c.Experiences
	case SectionEducations:
		return c.Educations
	case SectionLanguages:
		return c.Languages
	case SectionProjects:
		return c.Projects
	case SectionCertifications:
		return c.Certifications
	}
	return nil
}

// CVUpsertRequest carries the CV shell fields from the builder form.
type CVUpsertRequest struct {
	Summary     string `json:"summary" validate:"omitempty,max=2000"`
	ContactInfo string `json:"contactInfo" validate:"omitempty,max=500"`
	IsPublic    bool   `json:"isPublic"`
}
