package domain

import "time"

// Client is a customer of a company. Email, when present, is unique per company.
type Client struct {
	ID        ClientID
	CompanyID CompanyID

	Name  string
	Email *string
	Phone *string

	CreatedAt time.Time
}
