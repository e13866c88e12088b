// Package model holds the partner entities shared by the repository,
// service and handler layers.
//
// Scalar columns are pointers: a field missing from a request is stored
// as SQL NULL, and a NULL column is rendered as JSON null. Whether NULL
// is acceptable is decided by the schema, not by this package.
package model

import (
	"net/http"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// PartnerDetails are the scalar columns of the partners table.
type PartnerDetails struct {
	PartnerName   *string `json:"partner_name"`
	Description   *string `json:"description"`
	Services      *string `json:"services"`
	Country       *string `json:"country"`
	StateProvince *string `json:"state_province"`
	CityDMA       *string `json:"city_dma"`
	Formats       *string `json:"formats"`
}

// Address is a row of the addresses table.
type Address struct {
	Country *string `json:"address_country"`
	State   *string `json:"address_state"`
	Street  *string `json:"address_street"`
	City    *string `json:"address_city"`
	ZipCode *string `json:"address_zip_code"`
}

// Contact is a row of the contacts table.
type Contact struct {
	Name  *string `json:"contact_name"`
	Email *string `json:"contact_email"`
	Phone *string `json:"contact_phone"`
}

// Website is a row of the websites table.
type Website struct {
	URL      *string `json:"website_url"`
	Verified *bool   `json:"verified"`
}

// Partner is a stored partner with every child row aggregated.
// Child slices are never nil so they always encode as JSON arrays.
type Partner struct {
	ID int64 `json:"partner_id"`
	PartnerDetails
	Addresses []Address `json:"addresses"`
	Contacts  []Contact `json:"contacts"`
	Websites  []Website `json:"websites"`
}

// NewPartner returns a Partner with empty, non-nil child slices.
func NewPartner(id int64, details PartnerDetails) Partner {
	return Partner{
		ID:             id,
		PartnerDetails: details,
		Addresses:      []Address{},
		Contacts:       []Contact{},
		Websites:       []Website{},
	}
}

// CreateFailedMessage is the only failure text a create answers with.
const CreateFailedMessage = "Error inserting partner details"

// NewCreateFailedError is the 500 every failed create collapses into.
// cause is only logged.
func NewCreateFailedError(cause error) *errs.ResponseError {
	return errs.NewJSONResponseError(
		http.StatusInternalServerError,
		map[string]string{"error": CreateFailedMessage},
		cause,
	)
}

var payloadValidator = validator.New()

// CreatePartnerPayload is the body of a create request. The three child
// lists must be present; an empty list inserts nothing, while an absent
// or null one fails the create before any row is written.
type CreatePartnerPayload struct {
	PartnerDetails
	Addresses []Address `json:"addresses" validate:"required"`
	Contacts  []Contact `json:"contacts" validate:"required"`
	Websites  []Website `json:"websites" validate:"required"`
}

// Validate implements validation.Validatable. Scalar constraints are
// left to the database.
func (p *CreatePartnerPayload) Validate() error {
	if err := payloadValidator.Struct(p); err != nil {
		return NewCreateFailedError(errors.Wrap(err, "invalid partner payload"))
	}
	return nil
}

// HandleTypeError implements validation.TypeErrorHandler: well-formed
// JSON with a wrongly typed value fails like any other bad create.
func (p *CreatePartnerPayload) HandleTypeError(err error) error {
	return NewCreateFailedError(errors.Wrap(err, "decode partner payload"))
}

// CreatePartnerResponse is returned with 201 after a successful create.
type CreatePartnerResponse struct {
	Message   string `json:"message"`
	PartnerID int64  `json:"partner_id"`
}

// ListPartnersRequest is the empty request of the list endpoint.
type ListPartnersRequest struct{}

func (r *ListPartnersRequest) Validate() error {
	return nil
}
