package services

import (
	"errors"
	"fmt"
	"regexp"

	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"

	"github.com/google/uuid"
)

// templateVarPattern matches {{ variable }} placeholders, whitespace
// around the name optional.
var templateVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// templateVariables is the full set of placeholders a template may use.
// Everything here is resolvable at send time from the participant record.
var templateVariables = map[string]bool{
	"name":              true,
	"email":             true,
	"workshop_name":     true,
	"workshop_date":     true,
	"workshop_location": true,
	"ticket_code":       true,
	"qr_code_url":       true,
	"ticket_type":       true,
	"ticket_fee":        true,
	"payment_status":    true,
}

// advertisedVariables is the subset shown to template authors. The
// remaining placeholders resolve at send time but stay undocumented.
var advertisedVariables = []string{
	"name",
	"email",
	"workshop_name",
	"workshop_date",
	"workshop_location",
	"ticket_code",
	"qr_code_url",
}

// JobPublisher enqueues a background job by type. Satisfied by the queue
// client; swapped for a recorder in tests.
type JobPublisher interface {
	Publish(jobType string, payload interface{}) error
}

type EmailService struct {
	repo      *repositories.Repository
	cfg       *config.Config
	publisher JobPublisher
}

func NewEmailService(repo *repositories.Repository, cfg *config.Config, publisher JobPublisher) *EmailService {
	return &EmailService{repo: repo, cfg: cfg, publisher: publisher}
}

type TemplateRequest struct {
	Type    string
	Subject string
	Content string
}

// CreateTemplate stores a template after validating its type and every
// placeholder it references. An unknown placeholder is a save error, not
// a send-time surprise.
func (s *EmailService) CreateTemplate(workshopID string, req TemplateRequest) (*models.EmailTemplate, error) {
	if !models.ValidTemplateType(req.Type) {
		return nil, fmt.Errorf("unknown template type: %s", req.Type)
	}
	if req.Subject == "" || req.Content == "" {
		return nil, errors.New("subject and content are required")
	}
	if err := validateTemplateVariables(req.Subject + "\n" + req.Content); err != nil {
		return nil, err
	}

	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(workshopID)
	if err != nil {
		return nil, err
	}

	tpl := &models.EmailTemplate{
		ID:         uuid.New(),
		WorkshopID: workshop.ID,
		Type:       req.Type,
		Subject:    req.Subject,
		Content:    req.Content,
	}

	if err := s.repo.TemplateRepo.CreateTemplate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// AdvertisedVariables lists the placeholders template authors may use.
func (s *EmailService) AdvertisedVariables() []string {
	variables := make([]string, len(advertisedVariables))
	copy(variables, advertisedVariables)
	return variables
}

func (s *EmailService) GetTemplate(id string) (*models.EmailTemplate, error) {
	return s.repo.TemplateRepo.GetTemplateByID(id)
}

func (s *EmailService) ListTemplates(workshopID string) ([]models.EmailTemplate, error) {
	return s.repo.TemplateRepo.ListTemplatesByWorkshop(workshopID)
}

func (s *EmailService) UpdateTemplate(id string, req TemplateRequest) (*models.EmailTemplate, error) {
	tpl, err := s.repo.TemplateRepo.GetTemplateByID(id)
	if err != nil {
		return nil, err
	}

	if req.Type != "" {
		if !models.ValidTemplateType(req.Type) {
			return nil, fmt.Errorf("unknown template type: %s", req.Type)
		}
		tpl.Type = req.Type
	}
	if req.Subject != "" {
		tpl.Subject = req.Subject
	}
	if req.Content != "" {
		tpl.Content = req.Content
	}

	if err := validateTemplateVariables(tpl.Subject + "\n" + tpl.Content); err != nil {
		return nil, err
	}

	if err := s.repo.TemplateRepo.UpdateTemplate(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *EmailService) DeleteTemplate(id string) error {
	return s.repo.TemplateRepo.DeleteTemplate(id)
}

// RenderedEmail is a template with every placeholder substituted for one
// participant.
type RenderedEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Render substitutes the participant's values into the template. The
// participant must be loaded with its Workshop and TicketType relations.
func (s *EmailService) Render(tpl *models.EmailTemplate, participant *models.Participant) *RenderedEmail {
	values := map[string]string{
		"name":              participant.Name,
		"email":             participant.Email,
		"workshop_name":     participant.Workshop.Name,
		"workshop_date":     participant.Workshop.DateTime.Format("2006-01-02 15:04"),
		"workshop_location": participant.Workshop.Location,
		"ticket_code":       participant.TicketCode,
		"qr_code_url":       participant.QRPath,
		"ticket_type":       participant.TicketType.Name,
		"ticket_fee":        fmt.Sprintf("%.2f", float64(participant.TicketType.FeeCents)/100),
		"payment_status":    paymentStatus(participant.IsPaid),
	}

	substitute := func(text string) string {
		return templateVarPattern.ReplaceAllStringFunc(text, func(match string) string {
			name := templateVarPattern.FindStringSubmatch(match)[1]
			if value, ok := values[name]; ok {
				return value
			}
			return match
		})
	}

	return &RenderedEmail{
		To:      participant.Email,
		Subject: substitute(tpl.Subject),
		Body:    substitute(tpl.Content),
	}
}

// TicketEmailPayload is the job body for an async ticket email.
type TicketEmailPayload struct {
	ParticipantID string `json:"participant_id"`
	TemplateID    string `json:"template_id"`
}

// SendTicketEmail enqueues a ticket email for the participant using the
// workshop's ticket template. Delivery happens in the worker.
func (s *EmailService) SendTicketEmail(participantID string) error {
	participant, err := s.repo.ParticipantRepo.GetParticipantByID(participantID)
	if err != nil {
		return errors.New("participant not found")
	}

	tpl, err := s.repo.TemplateRepo.GetTemplateByWorkshopAndType(
		participant.WorkshopID.String(), models.TemplateTypeTicket)
	if err != nil {
		return errors.New("no ticket template configured for this workshop")
	}

	return s.publisher.Publish("ticket_email", TicketEmailPayload{
		ParticipantID: participant.ID.String(),
		TemplateID:    tpl.ID.String(),
	})
}

func validateTemplateVariables(text string) error {
	for _, match := range templateVarPattern.FindAllStringSubmatch(text, -1) {
		if !templateVariables[match[1]] {
			return fmt.Errorf("unknown template variable: %s", match[1])
		}
	}
	return nil
}

func paymentStatus(paid bool) string {
	if paid {
		return "paid"
	}
	return "unpaid"
}
