package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"workshop-management-backend/internal/repositories"
	"workshop-management-backend/internal/services"
	"workshop-management-backend/pkg/logger"
)

const (
	// maxAttempts bounds deliveries per job; after the last failure the
	// job is dropped with an error log.
	maxAttempts = 3

	// retryDelaySeconds is multiplied by the attempt number.
	retryDelaySeconds = 10
)

const (
	JobTicketEmail       = "ticket_email"
	JobParticipantImport = "participant_import"
)

// ImportJobPayload is the job body for an async participant import.
type ImportJobPayload struct {
	WorkshopID string               `json:"workshop_id"`
	Rows       []services.ImportRow `json:"rows"`
}

// Worker consumes queued jobs and dispatches them by type.
type Worker struct {
	client       *Client
	repo         *repositories.Repository
	participants *services.ParticipantService
	emails       *services.EmailService
	mailer       *Mailer

	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(client *Client, repo *repositories.Repository, participants *services.ParticipantService, emails *services.EmailService, mailer *Mailer) *Worker {
	return &Worker{
		client:       client,
		repo:         repo,
		participants: participants,
		emails:       emails,
		mailer:       mailer,
		done:         make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	logger.Get().Info("job worker started")

	go func() {
		defer close(w.done)

		if err := w.client.Consume(w.handleMessage); err != nil {
			logger.Get().WithError(err).Error("failed to start consuming")
			return
		}

		<-cctx.Done()
		logger.Get().Info("job worker stopped")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// handleMessage runs one job. A failed job is requeued with a delay
// until it exhausts its attempts; the message itself is always acked so
// retry bookkeeping lives in the job envelope, not the broker.
func (w *Worker) handleMessage(body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		logger.Get().WithError(err).Errorf("failed to unmarshal job: %s", string(body))
		return nil
	}

	logger.Get().WithFields(map[string]interface{}{
		"type":    job.Type,
		"attempt": job.Attempt,
	}).Info("processing job")

	err := w.dispatch(&job)
	if err == nil {
		return nil
	}

	if job.Attempt >= maxAttempts {
		logger.Get().WithError(err).Errorf("%s job dropped after %d attempts", job.Type, job.Attempt)
		return nil
	}

	job.Attempt++
	if requeueErr := w.client.Requeue(&job, retryDelaySeconds*job.Attempt); requeueErr != nil {
		logger.Get().WithError(requeueErr).Errorf("failed to requeue %s job", job.Type)
	}
	return nil
}

func (w *Worker) dispatch(job *Job) error {
	switch job.Type {
	case JobTicketEmail:
		return w.handleTicketEmail(job.Payload)
	case JobParticipantImport:
		return w.handleParticipantImport(job.Payload)
	default:
		logger.Get().Warnf("unknown job type: %s", job.Type)
		return nil
	}
}

func (w *Worker) handleTicketEmail(payload json.RawMessage) error {
	var msg services.TicketEmailPayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("invalid ticket_email payload: %w", err)
	}

	participant, err := w.repo.ParticipantRepo.GetParticipantByID(msg.ParticipantID)
	if err != nil {
		return fmt.Errorf("participant not found: %w", err)
	}

	tpl, err := w.repo.TemplateRepo.GetTemplateByID(msg.TemplateID)
	if err != nil {
		return fmt.Errorf("template not found: %w", err)
	}

	rendered := w.emails.Render(tpl, participant)
	return w.mailer.Send(rendered.To, rendered.Subject, rendered.Body)
}

func (w *Worker) handleParticipantImport(payload json.RawMessage) error {
	var msg ImportJobPayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("invalid participant_import payload: %w", err)
	}

	result := w.participants.ImportRows(msg.WorkshopID, msg.Rows)

	logger.Get().WithFields(map[string]interface{}{
		"workshop_id": msg.WorkshopID,
		"imported":    result.Imported,
		"failed":      result.Failed,
	}).Info("participant import finished")

	return nil
}
