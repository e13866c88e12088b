package service

import (
	"context"
	"net/http"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/deppfellow/partners-api/internal/metrics"
	"github.com/deppfellow/partners-api/internal/model"
	"github.com/deppfellow/partners-api/internal/sqlerr"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Messages clients receive. Failure details are only logged.
const (
	PartnerCreatedMessage    = "Partner details inserted successfully"
	PartnerListFailedMessage = "Server error"
)

// PartnerStore persists partners. Implemented by repository.PartnerRepository.
type PartnerStore interface {
	Create(ctx context.Context, payload *model.CreatePartnerPayload) (int64, error)
	List(ctx context.Context) ([]model.Partner, error)
}

type PartnerService struct {
	store   PartnerStore
	metrics *metrics.Metrics
}

func NewPartnerService(store PartnerStore, m *metrics.Metrics) *PartnerService {
	return &PartnerService{store: store, metrics: m}
}

// CreatePartner stores the partner with its addresses, contacts and
// websites atomically. Every failure collapses into one 500 response
// body; the cause is logged with its database classification.
func (s *PartnerService) CreatePartner(ctx context.Context, payload *model.CreatePartnerPayload) (*model.CreatePartnerResponse, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("operation", "create_partner").
		Int("addresses", len(payload.Addresses)).
		Int("contacts", len(payload.Contacts)).
		Int("websites", len(payload.Websites)).
		Logger()

	partnerID, err := s.store.Create(ctx, payload)
	if err != nil {
		s.recordFailure(&logger, "create", err, "Error inserting partner details")
		return nil, model.NewCreateFailedError(err)
	}

	s.metrics.PartnersCreated.Inc()
	s.metrics.ChildrenInserted.WithLabelValues("address").Add(float64(len(payload.Addresses)))
	s.metrics.ChildrenInserted.WithLabelValues("contact").Add(float64(len(payload.Contacts)))
	s.metrics.ChildrenInserted.WithLabelValues("website").Add(float64(len(payload.Websites)))

	if txn := newrelic.FromContext(ctx); txn != nil {
		txn.AddAttribute("partner.id", partnerID)
	}

	logger.Info().Int64("partner_id", partnerID).Msg("partner created")

	return &model.CreatePartnerResponse{
		Message:   PartnerCreatedMessage,
		PartnerID: partnerID,
	}, nil
}

// ListPartners returns every partner with its child records.
func (s *PartnerService) ListPartners(ctx context.Context) ([]model.Partner, error) {
	logger := zerolog.Ctx(ctx).With().Str("operation", "list_partners").Logger()

	partners, err := s.store.List(ctx)
	if err != nil {
		s.recordFailure(&logger, "list", err, "Error listing partners")
		return nil, errs.NewTextResponseError(http.StatusInternalServerError, PartnerListFailedMessage, err)
	}

	s.metrics.PartnersListed.Add(float64(len(partners)))
	logger.Debug().Int("count", len(partners)).Msg("partners listed")

	return partners, nil
}

// recordFailure counts the failure by SQL error category and logs what
// the database said about it. Clients never see these fields.
func (s *PartnerService) recordFailure(logger *zerolog.Logger, operation string, err error, msg string) {
	code := sqlerr.ErrCode(err)

	s.metrics.OperationFailures.WithLabelValues(operation, string(code)).Inc()

	event := logger.Error().
		Stack().
		Err(err).
		Str("sql_state", sqlerr.SQLState(err)).
		Str("sql_code", string(code))

	if dbErr := sqlerr.FromError(err); dbErr != nil {
		event = event.
			Str("table", dbErr.TableName).
			Str("column", dbErr.ColumnName).
			Str("constraint", dbErr.ConstraintName).
			Str("error_code", dbErr.ErrorCode()).
			Str("detail", dbErr.Detail())
	}

	event.Msg(msg)
}
