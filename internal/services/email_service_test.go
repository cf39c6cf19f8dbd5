package services

import (
	"strings"
	"testing"
	"time"

	"workshop-management-backend/internal/models"
)

type recordingPublisher struct {
	jobType string
	payload interface{}
}

func (p *recordingPublisher) Publish(jobType string, payload interface{}) error {
	p.jobType = jobType
	p.payload = payload
	return nil
}

func TestCreateTemplateValidation(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewEmailService(repo, cfg, &recordingPublisher{})

	workshop := seedWorkshop(t, repo, "Go Workshop", models.WorkshopStatusPublished, time.Now().Add(24*time.Hour))

	t.Run("UnknownVariable", func(t *testing.T) {
		_, err := svc.CreateTemplate(workshop.ID.String(), TemplateRequest{
			Type:    models.TemplateTypeTicket,
			Subject: "Your ticket",
			Content: "Hello {{ name }}, your discount is {{ discount_code }}",
		})
		if err == nil {
			t.Fatal("expected unknown variable rejection")
		}
		if !strings.Contains(err.Error(), "discount_code") {
			t.Errorf("expected the offending variable in the error, got %v", err)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := svc.CreateTemplate(workshop.ID.String(), TemplateRequest{
			Type:    "newsletter",
			Subject: "Hi",
			Content: "Hello",
		})
		if err == nil {
			t.Fatal("expected unknown type rejection")
		}
	})

	t.Run("Valid", func(t *testing.T) {
		tpl, err := svc.CreateTemplate(workshop.ID.String(), TemplateRequest{
			Type:    models.TemplateTypeTicket,
			Subject: "Ticket for {{ workshop_name }}",
			Content: "Hi {{ name }}, your code is {{ ticket_code }} ({{ ticket_type }}, {{ ticket_fee }}, {{ payment_status }})",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tpl.ID.String() == "" {
			t.Error("expected template id to be set")
		}
	})

	t.Run("DuplicateTypePerWorkshop", func(t *testing.T) {
		_, err := svc.CreateTemplate(workshop.ID.String(), TemplateRequest{
			Type:    models.TemplateTypeTicket,
			Subject: "Another ticket",
			Content: "Hello {{ name }}",
		})
		if err == nil {
			t.Fatal("expected one-template-per-type rejection")
		}
	})
}

func TestRenderTemplate(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewEmailService(repo, cfg, &recordingPublisher{})

	workshop := seedWorkshop(t, repo, "Go Workshop", models.WorkshopStatusPublished, time.Now().Add(24*time.Hour))
	tt := seedTicketType(t, repo, workshop, "VIP", 12550)
	seeded := seedParticipant(t, repo, workshop, tt, "Jane Doe", "jane@example.com", "RNDR0001", true, false)

	participant, err := repo.ParticipantRepo.GetParticipantByID(seeded.ID.String())
	if err != nil {
		t.Fatalf("failed to load participant: %v", err)
	}

	tpl := &models.EmailTemplate{
		Subject: "Ticket for {{ workshop_name }}",
		Content: "Hi {{ name }}, code {{ ticket_code }}, type {{ ticket_type }}, fee {{ ticket_fee }}, status {{ payment_status }}",
	}

	rendered := svc.Render(tpl, participant)

	if rendered.To != "jane@example.com" {
		t.Errorf("unexpected recipient: %q", rendered.To)
	}
	if rendered.Subject != "Ticket for Go Workshop" {
		t.Errorf("unexpected subject: %q", rendered.Subject)
	}
	for _, want := range []string{"Jane Doe", "RNDR0001", "VIP", "125.50", "paid"} {
		if !strings.Contains(rendered.Body, want) {
			t.Errorf("expected body to contain %q, got %q", want, rendered.Body)
		}
	}
}

func TestSendTicketEmail(t *testing.T) {
	repo, cfg := newTestRepo(t)
	publisher := &recordingPublisher{}
	svc := NewEmailService(repo, cfg, publisher)

	workshop := seedWorkshop(t, repo, "Go Workshop", models.WorkshopStatusPublished, time.Now().Add(24*time.Hour))
	tt := seedTicketType(t, repo, workshop, "Regular", 0)
	participant := seedParticipant(t, repo, workshop, tt, "Jane", "jane@example.com", "SEND0001", true, false)

	t.Run("NoTemplate", func(t *testing.T) {
		if err := svc.SendTicketEmail(participant.ID.String()); err == nil {
			t.Fatal("expected error without a ticket template")
		}
	})

	t.Run("Queued", func(t *testing.T) {
		tpl, err := svc.CreateTemplate(workshop.ID.String(), TemplateRequest{
			Type:    models.TemplateTypeTicket,
			Subject: "Your ticket",
			Content: "Hi {{ name }}",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := svc.SendTicketEmail(participant.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if publisher.jobType != "ticket_email" {
			t.Errorf("expected ticket_email job, got %q", publisher.jobType)
		}
		payload, ok := publisher.payload.(TicketEmailPayload)
		if !ok {
			t.Fatalf("unexpected payload type %T", publisher.payload)
		}
		if payload.ParticipantID != participant.ID.String() || payload.TemplateID != tpl.ID.String() {
			t.Errorf("unexpected payload: %+v", payload)
		}
	})
}
