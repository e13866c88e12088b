package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/partners-api/internal/errs"
	"github.com/deppfellow/partners-api/internal/metrics"
	"github.com/deppfellow/partners-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPartnerStore struct {
	mock.Mock
}

func (m *mockPartnerStore) Create(ctx context.Context, payload *model.CreatePartnerPayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPartnerStore) List(ctx context.Context) ([]model.Partner, error) {
	args := m.Called(ctx)
	partners, _ := args.Get(0).([]model.Partner)
	return partners, args.Error(1)
}

func str(s string) *string { return &s }

func TestPartnerService_CreatePartner(t *testing.T) {
	store := new(mockPartnerStore)
	m := metrics.New()
	svc := NewPartnerService(store, m)

	payload := &model.CreatePartnerPayload{
		PartnerDetails: model.PartnerDetails{PartnerName: str("Acme")},
		Addresses:      []model.Address{{City: str("Austin")}, {City: str("Boston")}},
		Websites:       []model.Website{{URL: str("https://acme.test")}},
	}
	store.On("Create", mock.Anything, payload).Return(int64(42), nil)

	res, err := svc.CreatePartner(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, &model.CreatePartnerResponse{
		Message:   "Partner details inserted successfully",
		PartnerID: 42,
	}, res)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PartnersCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChildrenInserted.WithLabelValues("address")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ChildrenInserted.WithLabelValues("contact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChildrenInserted.WithLabelValues("website")))
	store.AssertExpectations(t)
}

func TestPartnerService_CreatePartner_CollapsesFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		sqlCode string
	}{
		{"not null violation", &pgconn.PgError{Code: "23502", ColumnName: "partner_name"}, "not_null_violation"},
		{"connection error", errors.New("dial tcp: connection refused"), "other"},
		{"canceled", context.Canceled, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockPartnerStore)
			m := metrics.New()
			svc := NewPartnerService(store, m)
			store.On("Create", mock.Anything, mock.Anything).Return(int64(0), tt.err)

			res, err := svc.CreatePartner(context.Background(), &model.CreatePartnerPayload{})

			assert.Nil(t, res)
			var respErr *errs.ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, http.StatusInternalServerError, respErr.Status)
			assert.Equal(t, map[string]string{"error": "Error inserting partner details"}, respErr.JSON)
			assert.ErrorIs(t, err, tt.err)

			assert.Equal(t, 0.0, testutil.ToFloat64(m.PartnersCreated))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationFailures.WithLabelValues("create", tt.sqlCode)))
		})
	}
}

func TestPartnerService_CreatePartner_LogsDatabaseDetail(t *testing.T) {
	store := new(mockPartnerStore)
	svc := NewPartnerService(store, metrics.New())
	store.On("Create", mock.Anything, mock.Anything).Return(int64(0), &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "websites",
		ConstraintName: "websites_url_key",
	})

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	_, err := svc.CreatePartner(ctx, &model.CreatePartnerPayload{})
	require.Error(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "23505", entry["sql_state"])
	assert.Equal(t, "unique_violation", entry["sql_code"])
	assert.Equal(t, "websites", entry["table"])
	assert.Equal(t, "websites_url_key", entry["constraint"])
	assert.Equal(t, "WEBSITE_ALREADY_EXISTS", entry["error_code"])
	assert.Equal(t, "A Website with this Url already exists", entry["detail"])

	// Client body stays generic.
	var respErr *errs.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, map[string]string{"error": "Error inserting partner details"}, respErr.JSON)
}

func TestPartnerService_ListPartners(t *testing.T) {
	store := new(mockPartnerStore)
	m := metrics.New()
	svc := NewPartnerService(store, m)

	partners := []model.Partner{
		model.NewPartner(1, model.PartnerDetails{PartnerName: str("Acme")}),
		model.NewPartner(2, model.PartnerDetails{PartnerName: str("Globex")}),
	}
	store.On("List", mock.Anything).Return(partners, nil)

	got, err := svc.ListPartners(context.Background())

	require.NoError(t, err)
	assert.Equal(t, partners, got)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PartnersListed))
	store.AssertExpectations(t)
}

func TestPartnerService_ListPartners_Failure(t *testing.T) {
	store := new(mockPartnerStore)
	m := metrics.New()
	svc := NewPartnerService(store, m)

	cause := &pgconn.PgError{Code: "42P01"}
	store.On("List", mock.Anything).Return(nil, cause)

	got, err := svc.ListPartners(context.Background())

	assert.Nil(t, got)
	var respErr *errs.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusInternalServerError, respErr.Status)
	assert.Nil(t, respErr.JSON)
	assert.Equal(t, "Server error", respErr.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationFailures.WithLabelValues("list", "undefined_table")))
}
