// Package pdfgen renders a CV into a PDF document.
package pdfgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type renderer struct{}

func New() domain.Renderer {
	return &renderer{}
}

func (r *renderer) Render(user *domain.User, cv *domain.CV) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s %s - CV", user.Name, user.LastName), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s %s", user.Name, user.LastName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	contact := cv.ContactInfo
	if contact == "" {
		contact = fmt.Sprintf("%s | %s | %s", user.Email, user.Phone, user.Address)
	}
	pdf.CellFormat(0, 6, contact, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if cv.Summary != "" {
		sectionTitle(pdf, "Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, cv.Summary, "", "L", false)
		pdf.Ln(2)
	}

	writeSection(pdf, "Skills", cv.Skills, func(data []byte) string {
		var item domain.SkillItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		return fmt.Sprintf("%s - %s (%d yr)", item.Name, item.Level, item.YearsOfExperience)
	})

	writeSection(pdf, "Professional Experience", cv.Experiences, func(data []byte) string {
		var item domain.ExperienceItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		return fmt.Sprintf("%s (%d yr): %s", item.Name, item.YearsOfExperience, item.Description)
	})

	writeSection(pdf, "Education", cv.Educations, func(data []byte) string {
		var item domain.EducationItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		end := item.EndDate
		if item.IsCurrent || end == "" {
			end = "Present"
		}
		line := fmt.Sprintf("%s, %s (%s - %s)", item.Degree, item.Institution, item.StartDate, end)
		if item.Description != "" {
			line += ": " + item.Description
		}
		return line
	})

	writeSection(pdf, "Languages", cv.Languages, func(data []byte) string {
		var item domain.LanguageItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		return fmt.Sprintf("%s - %s", item.Name, item.Level)
	})

	writeSection(pdf, "Projects", cv.Projects, func(data []byte) string {
		var item domain.ProjectItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		line := fmt.Sprintf("%s: %s", item.Name, item.Description)
		if len(item.Technologies) > 0 {
			line += " [" + strings.Join(item.Technologies, ", ") + "]"
		}
		return line
	})

	writeSection(pdf, "Certifications", cv.Certifications, func(data []byte) string {
		var item domain.CertificationItem
		if json.Unmarshal(data, &item) != nil {
			return ""
		}
		return fmt.Sprintf("%s, %s (%s)", item.Name, item.Organization, item.IssueDate)
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeSection(pdf *fpdf.Fpdf, title string, items []*domain.CVItem, format func([]byte) string) {
	if len(items) == 0 {
		return
	}
	sectionTitle(pdf, title)
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		if line := format(item.Data); line != "" {
			pdf.MultiCell(0, 5, "- "+line, "", "L", false)
		}
	}
	pdf.Ln(2)
}
