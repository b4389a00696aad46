package services

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"casaligan-admin-server/models"
)

const (
	contractFallbackTitle = "Job Contract"
	directHireTitle       = "Direct Hire"
	directHireDescription = "Direct booking"
	postStartDateLayout   = "2006-01-02"
)

func (m *EntityMaps) person(userID uint) *models.PersonSummary {
	if m == nil {
		return nil
	}
	u, ok := m.Users[userID]
	if !ok {
		return nil
	}
	name := strings.TrimSpace(norm.NFC.String(fmt.Sprintf("%s %s", u.FirstName, u.LastName)))
	return &models.PersonSummary{
		Name:        name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

func (m *EntityMaps) workerPerson(workerID *uint) *models.PersonSummary {
	if m == nil || workerID == nil {
		return nil
	}
	w, ok := m.Workers[*workerID]
	if !ok {
		return nil
	}
	return m.person(w.UserID)
}

func (m *EntityMaps) employerPerson(employerID *uint) *models.PersonSummary {
	if m == nil || employerID == nil {
		return nil
	}
	e, ok := m.Employers[*employerID]
	if !ok {
		return nil
	}
	return m.person(e.UserID)
}

func (m *EntityMaps) post(postID *uint) (models.ForumPost, bool) {
	if m == nil || postID == nil {
		return models.ForumPost{}, false
	}
	p, ok := m.Posts[*postID]
	return p, ok
}

func newUnifiedRow(id models.UnifiedID, native string, createdAt time.Time) (models.UnifiedBooking, error) {
	row := models.UnifiedBooking{
		ID:           id,
		SourceKind:   id.Source,
		NativeStatus: native,
		CreatedAt:    createdAt,
	}
	if legacy, ok := id.Legacy(); ok {
		row.LegacyID = &legacy
	}
	status, err := models.ToUnifiedStatus(id.Source, native)
	if err != nil {
		// Unknown values read as pending, never as a terminal state.
		row.Status = models.StatusPending
		return row, fmt.Errorf("booking %s: %w", id, err)
	}
	row.Status = status
	return row, nil
}

// ComposeContract builds the unified row for a contract. The row is always
// usable; a non-nil error means its status fell back to pending.
func ComposeContract(c models.Contract, maps *EntityMaps) (models.UnifiedBooking, error) {
	row, err := newUnifiedRow(models.EncodeBookingID(models.SourceContract, c.ContractID), c.Status, c.CreatedAt)

	row.Title = contractFallbackTitle
	if p, ok := maps.post(c.PostID); ok {
		if p.Title != "" {
			row.Title = p.Title
		}
		row.Description = p.Location
		row.PriceAmount = p.Salary
		if p.StartDate != nil {
			if start, perr := time.Parse(postStartDateLayout, strings.TrimSpace(*p.StartDate)); perr == nil {
				row.ScheduledDate = &start
			}
		}
	}
	row.Worker = maps.workerPerson(c.WorkerID)
	row.Employer = maps.employerPerson(c.EmployerID)
	return row, err
}

// ComposeDirectHire builds the unified row for a direct hire.
func ComposeDirectHire(h models.DirectHire, maps *EntityMaps) (models.UnifiedBooking, error) {
	row, err := newUnifiedRow(models.EncodeBookingID(models.SourceDirectHire, h.HireID), h.Status, h.CreatedAt)

	row.Title = directHireTitle
	row.Description = directHireDescription
	row.PriceAmount = h.TotalAmount
	row.ScheduledDate = h.ScheduledDate
	row.Worker = maps.workerPerson(h.WorkerID)
	row.Employer = maps.employerPerson(h.EmployerID)
	return row, err
}
