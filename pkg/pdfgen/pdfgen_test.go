package pdfgen

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "a@x.com",
		Name:     "Ada",
		LastName: "Lovelace",
		Phone:    "12345678",
		Address:  "1 Example Street",
	}
}

func item(t *testing.T, section domain.Section, payload any) *domain.CVItem {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &domain.CVItem{ID: uuid.New(), Section: section, Data: data}
}

func TestRender_EmptyCV(t *testing.T) {
	out, err := New().Render(sampleUser(), &domain.CV{UserID: uuid.New()})
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_FullCV(t *testing.T) {
	cv := &domain.CV{
		UserID:      uuid.New(),
		Summary:     "Backend engineer focused on Go services.",
		ContactInfo: "a@x.com | github.com/ada",
		Skills: []*domain.CVItem{
			item(t, domain.SectionSkills, domain.SkillItem{Name: "Go", Level: "expert", YearsOfExperience: 5}),
		},
		Experiences: []*domain.CVItem{
			item(t, domain.SectionExperiences, domain.ExperienceItem{Name: "ACME", Description: "Backend work", YearsOfExperience: 3}),
		},
		Educations: []*domain.CVItem{
			item(t, domain.SectionEducations, domain.EducationItem{
				Institution: "MIT", Degree: "BSc", StartDate: "2018-09-01", IsCurrent: true,
			}),
		},
		Languages: []*domain.CVItem{
			item(t, domain.SectionLanguages, domain.LanguageItem{Name: "French", Level: "C1"}),
		},
		Projects: []*domain.CVItem{
			item(t, domain.SectionProjects, domain.ProjectItem{
				Name: "CLI", Description: "tooling", StartDate: "2022-01-01",
				Technologies: []string{"Go", "SQLite"},
			}),
		},
		Certifications: []*domain.CVItem{
			item(t, domain.SectionCertifications, domain.CertificationItem{
				Name: "CKA", Organization: "CNCF", IssueDate: "2024-01-01",
			}),
		},
	}

	out, err := New().Render(sampleUser(), cv)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	// a populated CV produces a visibly larger document than an empty one
	empty, err := New().Render(sampleUser(), &domain.CV{UserID: cv.UserID})
	require.NoError(t, err)
	assert.Greater(t, len(out), len(empty))
}

func TestRender_SkipsCorruptItems(t *testing.T) {
	cv := &domain.CV{
		UserID: uuid.New(),
		Skills: []*domain.CVItem{
			{ID: uuid.New(), Section: domain.SectionSkills, Data: json.RawMessage(`not json`)},
		},
	}

	out, err := New().Render(sampleUser(), cv)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
