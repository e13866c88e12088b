package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/partners-api/internal/model"
	"github.com/deppfellow/partners-api/internal/server"
	"github.com/labstack/echo/v4"
)

// PartnerService is the use-case surface the partner endpoints need.
type PartnerService interface {
	CreatePartner(ctx context.Context, payload *model.CreatePartnerPayload) (*model.CreatePartnerResponse, error)
	ListPartners(ctx context.Context) ([]model.Partner, error)
}

type PartnerHandler struct {
	Handler
	service PartnerService
}

func NewPartnerHandler(s *server.Server, service PartnerService) *PartnerHandler {
	return &PartnerHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func newCreatePartnerPayload() *model.CreatePartnerPayload {
	return &model.CreatePartnerPayload{}
}

func newListPartnersRequest() *model.ListPartnersRequest {
	return &model.ListPartnersRequest{}
}

func (h *PartnerHandler) CreatePartner(c echo.Context, payload *model.CreatePartnerPayload) (*model.CreatePartnerResponse, error) {
	return h.service.CreatePartner(c.Request().Context(), payload)
}

func (h *PartnerHandler) ListPartners(c echo.Context, _ *model.ListPartnersRequest) ([]model.Partner, error) {
	return h.service.ListPartners(c.Request().Context())
}

// Create answers 201 with the new partner_id.
func (h *PartnerHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.CreatePartner, http.StatusCreated, newCreatePartnerPayload)
}

func (h *PartnerHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, h.ListPartners, http.StatusOK, newListPartnersRequest)
}
