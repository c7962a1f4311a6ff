package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/attend-app/attend-api/internal/app/health"
	"github.com/attend-app/attend-api/internal/app/patch"
	"github.com/attend-app/attend-api/internal/domain"
)

type rootView struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

type healthView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Version   string    `json:"version"`
}

func healthFromReport(r health.Report) healthView {
	return healthView{
		Status:    r.Status,
		Timestamp: r.Timestamp,
		Uptime:    r.Uptime,
		Version:   r.Version,
	}
}

type userView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type sessionView struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

type meView struct {
	User    userView    `json:"user"`
	Session sessionView `json:"session"`
}

func meFromDomain(s domain.AuthSession) meView {
	return meView{
		User: userView{
			ID:    string(s.User.ID),
			Email: s.User.Email,
			Name:  s.User.Name,
		},
		Session: sessionView{
			ID:     s.Session.ID,
			UserID: string(s.Session.UserID),
		},
	}
}

type companyView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func companyFromDomain(c domain.Company) companyView {
	return companyView{
		ID:        string(c.ID),
		Name:      c.Name,
		OwnerID:   string(c.OwnerID),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type offeringView struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int       `json:"priceCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

func offeringFromDomain(o domain.Offering) offeringView {
	return offeringView{
		ID:              string(o.ID),
		CompanyID:       string(o.CompanyID),
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		PriceCents:      o.PriceCents,
		CreatedAt:       o.CreatedAt,
	}
}

type professionalView struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	Name       string    `json:"name"`
	ServiceIDs []string  `json:"serviceIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

func professionalFromDomain(p domain.Professional) professionalView {
	ids := make([]string, 0, len(p.OfferingIDs))
	for _, id := range p.OfferingIDs {
		ids = append(ids, string(id))
	}
	return professionalView{
		ID:         string(p.ID),
		CompanyID:  string(p.CompanyID),
		Name:       p.Name,
		ServiceIDs: ids,
		CreatedAt:  p.CreatedAt,
	}
}

type clientView struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func clientFromDomain(c domain.Client) clientView {
	return clientView{
		ID:        string(c.ID),
		CompanyID: string(c.CompanyID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

type appointmentView struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"companyId"`
	ClientID       string    `json:"clientId"`
	ProfessionalID string    `json:"professionalId"`
	ServiceID      string    `json:"serviceId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func appointmentFromDomain(a domain.Appointment) appointmentView {
	return appointmentView{
		ID:             string(a.ID),
		CompanyID:      string(a.CompanyID),
		ClientID:       string(a.ClientID),
		ProfessionalID: string(a.ProfessionalID),
		ServiceID:      string(a.OfferingID),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
	}
}

func mapViews[T, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// optionalFromNullable maps an omitted field to Unspecified and null to Null.
func optionalFromNullable[T any](n nullable.Nullable[T]) patch.Optional[T] {
	if !n.IsSpecified() {
		return patch.Unspecified[T]()
	}
	if n.IsNull() {
		return patch.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return patch.Unspecified[T]()
	}
	return patch.Some(v)
}
