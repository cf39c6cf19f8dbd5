package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workshop-management-backend/internal/models"

	"gorm.io/gorm"
)

type participantRepo struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) CreateParticipant(participant *models.Participant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepo) GetParticipantByID(id string) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.
		Preload("Workshop").
		Preload("TicketType").
		Where("id = ?", id).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepo) GetParticipantByTicketCode(code string) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.
		Preload("Workshop").
		Preload("TicketType").
		Where("ticket_code = ?", code).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// GetParticipantByEmailAndWorkshop looks up a participant by email within one
// workshop. excludeID skips the record being updated; pass "" on create.
func (r *participantRepo) GetParticipantByEmailAndWorkshop(email, workshopID, excludeID string) (*models.Participant, error) {
	query := r.db.Where("email = ? AND workshop_id = ?", email, workshopID)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}

	var participant models.Participant
	if err := query.First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepo) TicketCodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Participant{}).
		Where("ticket_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *participantRepo) ListParticipantsByWorkshop(workshopID string, offset, limit int) ([]models.Participant, int64, error) {
	var participants []models.Participant
	var total int64

	if err := r.db.Model(&models.Participant{}).Where("workshop_id = ?", workshopID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.
		Preload("TicketType").
		Where("workshop_id = ?", workshopID).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&participants).Error; err != nil {
		return nil, 0, err
	}

	return participants, total, nil
}

func (r *participantRepo) ListAllParticipantsByWorkshop(workshopID string) ([]models.Participant, error) {
	var participants []models.Participant
	if err := r.db.
		Preload("TicketType").
		Where("workshop_id = ?", workshopID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

// SearchParticipants matches a case-insensitive substring against name,
// email, ticket_code and phone, optionally scoped to one workshop.
func (r *participantRepo) SearchParticipants(query, workshopID string, limit int) ([]models.Participant, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	term := "%" + strings.ToLower(query) + "%"
	q := r.db.
		Preload("Workshop").
		Preload("TicketType").
		Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(ticket_code) LIKE ? OR LOWER(phone) LIKE ?",
			term, term, term, term,
		)

	if workshopID != "" {
		q = q.Where("workshop_id = ?", workshopID)
	}

	var participants []models.Participant
	if err := q.Limit(limit).Order("name ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepo) GetParticipantCounts(workshopID string) (*ParticipantCounts, error) {
	counts := &ParticipantCounts{}

	base := func() *gorm.DB {
		return r.db.Model(&models.Participant{}).Where("workshop_id = ?", workshopID)
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_checked_in = ?", true).Count(&counts.CheckedIn).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_paid = ?", true).Count(&counts.Paid).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_checked_in = ? AND is_paid = ?", true, true).Count(&counts.CheckedInPaid).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_checked_in = ? AND is_paid = ?", true, false).Count(&counts.CheckedInUnpaid).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *participantRepo) UpdateParticipant(participant *models.Participant) error {
	return r.db.Save(participant).Error
}

func (r *participantRepo) DeleteParticipant(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Participant{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete participant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("participant not found")
	}
	return nil
}

// RevenueCents sums ticket-type fees over a workshop's participants. With
// paidOnly it is realized revenue, without it is potential revenue.
func (r *participantRepo) RevenueCents(workshopID string, paidOnly bool) (int64, error) {
	query := r.db.Model(&models.Participant{}).
		Select("COALESCE(SUM(ticket_types.fee_cents), 0)").
		Joins("JOIN ticket_types ON participants.ticket_type_id = ticket_types.id").
		Where("participants.workshop_id = ?", workshopID)

	if paidOnly {
		query = query.Where("participants.is_paid = ?", true)
	}

	var total int64
	if err := query.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// RegistrationsByMonth returns one row per registration since the cutoff;
// month bucketing happens in the statistics service so the query stays
// portable across postgres and sqlite.
func (r *participantRepo) RegistrationsByMonth(since time.Time) ([]MonthValue, error) {
	var rows []struct {
		CreatedAt time.Time
	}
	if err := r.db.Model(&models.Participant{}).
		Select("created_at").
		Where("created_at >= ?", since).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make([]MonthValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, MonthValue{Month: row.CreatedAt, Value: 1})
	}
	return values, nil
}

func (r *participantRepo) RevenueByMonth(since time.Time) ([]MonthValue, error) {
	var rows []struct {
		CreatedAt time.Time
		FeeCents  int64
	}
	if err := r.db.Model(&models.Participant{}).
		Select("participants.created_at, ticket_types.fee_cents").
		Joins("JOIN ticket_types ON participants.ticket_type_id = ticket_types.id").
		Where("participants.is_paid = ? AND participants.created_at >= ?", true, since).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make([]MonthValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, MonthValue{Month: row.CreatedAt, Value: row.FeeCents})
	}
	return values, nil
}

func (r *participantRepo) CountAllParticipants() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Participant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *participantRepo) Transaction(txFunc func(*gorm.DB) error) error {
	return r.db.Transaction(txFunc)
}
