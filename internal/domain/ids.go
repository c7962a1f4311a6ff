package domain

// SubjectID is the authenticated subject issued by the auth collaborator.
// It is opaque: its format is controlled by whoever issues sessions.
type SubjectID string

// CompanyID identifies a company (tenant).
type CompanyID string

// OfferingID identifies a bookable service offered by a company.
type OfferingID string

type ProfessionalID string

type ClientID string

type AppointmentID string
