package models

import (
	"time"

	"github.com/google/uuid"
)

// Workshop statuses
const (
	WorkshopStatusDraft     = "draft"
	WorkshopStatusPublished = "published"
	WorkshopStatusOngoing   = "ongoing"
	WorkshopStatusCompleted = "completed"
	WorkshopStatusCancelled = "cancelled"
)

// Email template types
const (
	TemplateTypeInvite   = "invite"
	TemplateTypeConfirm  = "confirm"
	TemplateTypeTicket   = "ticket"
	TemplateTypeReminder = "reminder"
	TemplateTypeThankYou = "thank_you"
)

type Workshop struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	DateTime    time.Time `gorm:"not null" json:"date_time"`
	Location    string    `json:"location"`
	Status      string    `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	TicketTypes    []TicketType    `gorm:"foreignKey:WorkshopID" json:"ticket_types,omitempty"`
	Participants   []Participant   `gorm:"foreignKey:WorkshopID" json:"participants,omitempty"`
	EmailTemplates []EmailTemplate `gorm:"foreignKey:WorkshopID" json:"email_templates,omitempty"`
	Organizers     []User          `gorm:"many2many:workshop_organizers" json:"organizers,omitempty"`
}

type TicketType struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkshopID uuid.UUID `gorm:"type:uuid;index;not null" json:"workshop_id"`
	Name       string    `gorm:"not null" json:"name"`
	FeeCents   int64     `gorm:"not null;default:0" json:"fee_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Workshop     Workshop      `gorm:"foreignKey:WorkshopID" json:"workshop,omitempty"`
	Participants []Participant `gorm:"foreignKey:TicketTypeID" json:"participants,omitempty"`
}

type Participant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkshopID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workshop_email" json:"workshop_id"`
	TicketTypeID uuid.UUID `gorm:"type:uuid;index;not null" json:"ticket_type_id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null;uniqueIndex:idx_workshop_email" json:"email"`
	Phone        string    `json:"phone"`
	Occupation   string    `json:"occupation"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	Address      string    `json:"address"`
	TicketCode   string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"ticket_code"`
	QRPath       string    `json:"qr_path"`
	IsPaid       bool      `gorm:"default:false" json:"is_paid"`
	IsCheckedIn  bool      `gorm:"default:false" json:"is_checked_in"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Workshop   Workshop   `gorm:"foreignKey:WorkshopID" json:"workshop,omitempty"`
	TicketType TicketType `gorm:"foreignKey:TicketTypeID" json:"ticket_type,omitempty"`
}

type EmailTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkshopID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workshop_template_type" json:"workshop_id"`
	Type       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_workshop_template_type" json:"type"`
	Subject    string    `gorm:"not null" json:"subject"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Workshop Workshop `gorm:"foreignKey:WorkshopID" json:"workshop,omitempty"`
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	RoleID    uuid.UUID `gorm:"type:uuid;index;not null" json:"role_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Role      Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Workshops []Workshop `gorm:"many2many:workshop_organizers" json:"workshops,omitempty"`
}

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
	Permissions []Permission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`
}

type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_route" json:"role_id"`
	RouteName string    `gorm:"not null;uniqueIndex:idx_role_route" json:"route_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidWorkshopStatus reports whether s is one of the known workshop statuses.
func ValidWorkshopStatus(s string) bool {
	switch s {
	case WorkshopStatusDraft, WorkshopStatusPublished, WorkshopStatusOngoing,
		WorkshopStatusCompleted, WorkshopStatusCancelled:
		return true
	}
	return false
}

// ValidTemplateType reports whether t is one of the known template types.
func ValidTemplateType(t string) bool {
	switch t {
	case TemplateTypeInvite, TemplateTypeConfirm, TemplateTypeTicket,
		TemplateTypeReminder, TemplateTypeThankYou:
		return true
	}
	return false
}
