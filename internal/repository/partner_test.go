package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/partners-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func samplePayload() *model.CreatePartnerPayload {
	return &model.CreatePartnerPayload{
		PartnerDetails: model.PartnerDetails{
			PartnerName: str("Acme"),
			Country:     str("US"),
		},
		Addresses: []model.Address{
			{Country: str("US"), City: str("Austin")},
			{Country: str("US"), City: str("Boston")},
		},
		Contacts: []model.Contact{
			{Name: str("Jane"), Email: str("jane@acme.test")},
		},
		Websites: []model.Website{
			{URL: str("https://acme.test"), Verified: boolPtr(true)},
		},
	}
}

func TestPartnerRepository_Create_InsertsInOrderAndCommits(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)
	payload := samplePayload()

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectQuery("INSERT INTO partners").
		WithArgs(str("Acme"), (*string)(nil), (*string)(nil), str("US"), (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"partner_id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(int64(7), str("US"), (*string)(nil), (*string)(nil), str("Austin"), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(int64(7), str("US"), (*string)(nil), (*string)(nil), str("Boston"), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs(int64(7), str("Jane"), str("jane@acme.test"), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO websites").
		WithArgs(int64(7), str("https://acme.test"), boolPtr(true)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_Create_EmptyChildren(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectQuery("INSERT INTO partners").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"partner_id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), &model.CreatePartnerPayload{
		PartnerDetails: model.PartnerDetails{PartnerName: str("Solo")},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_Create_RollsBackWhenChildFails(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)
	notNullErr := &pgconn.PgError{Code: "23502", Message: "null value in column \"website_url\""}

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectQuery("INSERT INTO partners").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"partner_id"}).AddRow(int64(3)))
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(notNullErr)
	mock.ExpectRollback()

	id, err := repo.Create(context.Background(), samplePayload())

	require.Error(t, err)
	assert.Zero(t, id)
	assert.Contains(t, err.Error(), "insert address 1")

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23502", pgErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_Create_PartnerInsertFails(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectQuery("INSERT INTO partners").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "partner_name"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &model.CreatePartnerPayload{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert partner")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_Create_BeginFails(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	mock.ExpectBeginTx(pgx.TxOptions{}).WillReturnError(errors.New("too many clients"))

	_, err := repo.Create(context.Background(), samplePayload())

	assert.EqualError(t, err, "too many clients")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectListQueries(mock pgxmock.PgxPoolIface, partners, addresses, contacts, websites *pgxmock.Rows) {
	mock.ExpectBeginTx(readOptions)
	mock.ExpectQuery("FROM partners").WillReturnRows(partners)
	mock.ExpectQuery("FROM addresses").WillReturnRows(addresses)
	mock.ExpectQuery("FROM contacts").WillReturnRows(contacts)
	mock.ExpectQuery("FROM websites").WillReturnRows(websites)
	mock.ExpectCommit()
}

func partnerRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"partner_id", "partner_name", "description", "services", "country", "state_province", "city_dma", "formats"})
}

func addressRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"partner_id", "address_country", "address_state", "address_street", "address_city", "address_zip_code"})
}

func contactRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"partner_id", "contact_name", "contact_email", "contact_phone"})
}

func websiteRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"partner_id", "website_url", "verified"})
}

func TestPartnerRepository_List_GroupsChildrenWithoutDuplication(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	expectListQueries(mock,
		partnerRows().
			AddRow(int64(1), str("Acme"), nil, nil, str("US"), nil, nil, nil).
			AddRow(int64(2), str("Globex"), nil, nil, nil, nil, nil, nil),
		addressRows().
			AddRow(int64(1), str("US"), nil, nil, str("Austin"), nil).
			AddRow(int64(1), str("US"), nil, nil, str("Boston"), nil),
		contactRows(),
		websiteRows().
			AddRow(int64(1), str("https://acme.test"), boolPtr(false)),
	)

	partners, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, partners, 2)

	acme := partners[0]
	assert.Equal(t, int64(1), acme.ID)
	assert.Equal(t, "Acme", *acme.PartnerName)
	require.Len(t, acme.Addresses, 2)
	assert.Equal(t, "Austin", *acme.Addresses[0].City)
	assert.Equal(t, "Boston", *acme.Addresses[1].City)
	assert.Len(t, acme.Contacts, 0)
	assert.NotNil(t, acme.Contacts)
	require.Len(t, acme.Websites, 1)
	assert.Equal(t, "https://acme.test", *acme.Websites[0].URL)
	assert.False(t, *acme.Websites[0].Verified)

	globex := partners[1]
	assert.Equal(t, int64(2), globex.ID)
	assert.Empty(t, globex.Addresses)
	assert.NotNil(t, globex.Addresses)
	assert.NotNil(t, globex.Contacts)
	assert.NotNil(t, globex.Websites)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	expectListQueries(mock, partnerRows(), addressRows(), contactRows(), websiteRows())

	partners, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, partners)
	assert.Len(t, partners, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartnerRepository_List_QueryFails(t *testing.T) {
	mock := newMock(t)
	repo := NewPartnerRepository(mock)

	mock.ExpectBeginTx(readOptions)
	mock.ExpectQuery("FROM partners").
		WillReturnRows(partnerRows().AddRow(int64(1), str("Acme"), nil, nil, nil, nil, nil, nil))
	mock.ExpectQuery("FROM addresses").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation \"addresses\" does not exist"})
	mock.ExpectRollback()

	partners, err := repo.List(context.Background())

	require.Error(t, err)
	assert.Nil(t, partners)
	assert.Contains(t, err.Error(), "select addresses")
	assert.NoError(t, mock.ExpectationsWereMet())
}
