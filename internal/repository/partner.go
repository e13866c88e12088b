package repository

import (
	"context"

	"github.com/deppfellow/partners-api/internal/database"
	"github.com/deppfellow/partners-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const (
	insertPartnerSQL = `INSERT INTO partners (partner_name, description, services, country, state_province, city_dma, formats)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING partner_id`

	insertAddressSQL = `INSERT INTO addresses (partner_id, address_country, address_state, address_street, address_city, address_zip_code)
VALUES ($1, $2, $3, $4, $5, $6)`

	insertContactSQL = `INSERT INTO contacts (partner_id, contact_name, contact_email, contact_phone)
VALUES ($1, $2, $3, $4)`

	insertWebsiteSQL = `INSERT INTO websites (partner_id, website_url, verified)
VALUES ($1, $2, $3)`

	selectPartnersSQL = `SELECT partner_id, partner_name, description, services, country, state_province, city_dma, formats
FROM partners
ORDER BY partner_id`

	selectAddressesSQL = `SELECT partner_id, address_country, address_state, address_street, address_city, address_zip_code
FROM addresses
ORDER BY partner_id, address_id`

	selectContactsSQL = `SELECT partner_id, contact_name, contact_email, contact_phone
FROM contacts
ORDER BY partner_id, contact_id`

	selectWebsitesSQL = `SELECT partner_id, website_url, verified
FROM websites
ORDER BY partner_id, website_id`
)

// readOptions gives the four list statements one snapshot.
var readOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

type PartnerRepository struct {
	db database.Beginner
}

func NewPartnerRepository(db database.Beginner) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Create inserts the partner and all of its child rows in one
// transaction and returns the generated partner_id. Children are
// inserted in input order: addresses, then contacts, then websites.
// Any failure rolls back every row written by this call.
func (r *PartnerRepository) Create(ctx context.Context, payload *model.CreatePartnerPayload) (int64, error) {
	var partnerID int64

	err := database.WithTx(ctx, r.db, pgx.TxOptions{}, func(tx *database.Transaction) error {
		d := payload.PartnerDetails
		err := tx.QueryRow(ctx, insertPartnerSQL,
			d.PartnerName,
			d.Description,
			d.Services,
			d.Country,
			d.StateProvince,
			d.CityDMA,
			d.Formats,
		).Scan(&partnerID)
		if err != nil {
			return errors.Wrap(err, "insert partner")
		}

		for i, a := range payload.Addresses {
			_, err := tx.Exec(ctx, insertAddressSQL, partnerID, a.Country, a.State, a.Street, a.City, a.ZipCode)
			if err != nil {
				return errors.Wrapf(err, "insert address %d", i)
			}
		}

		for i, c := range payload.Contacts {
			_, err := tx.Exec(ctx, insertContactSQL, partnerID, c.Name, c.Email, c.Phone)
			if err != nil {
				return errors.Wrapf(err, "insert contact %d", i)
			}
		}

		for i, w := range payload.Websites {
			_, err := tx.Exec(ctx, insertWebsiteSQL, partnerID, w.URL, w.Verified)
			if err != nil {
				return errors.Wrapf(err, "insert website %d", i)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return partnerID, nil
}

// List returns every partner ordered by partner_id with its child rows.
//
// Each child table is read on its own and grouped by partner_id in
// memory, so a partner with 2 addresses and 3 contacts gets exactly 2
// and 3 entries, and a partner without rows in a table gets an empty list.
func (r *PartnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner

	err := database.WithTx(ctx, r.db, readOptions, func(tx *database.Transaction) error {
		var err error
		partners, err = scanPartners(ctx, tx)
		if err != nil {
			return err
		}

		index := make(map[int64]*model.Partner, len(partners))
		for i := range partners {
			index[partners[i].ID] = &partners[i]
		}

		if err := scanAddresses(ctx, tx, index); err != nil {
			return err
		}
		if err := scanContacts(ctx, tx, index); err != nil {
			return err
		}
		return scanWebsites(ctx, tx, index)
	})
	if err != nil {
		return nil, err
	}

	if partners == nil {
		partners = []model.Partner{}
	}
	return partners, nil
}

func scanPartners(ctx context.Context, tx *database.Transaction) ([]model.Partner, error) {
	rows, err := tx.Query(ctx, selectPartnersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "select partners")
	}
	defer rows.Close()

	var partners []model.Partner
	for rows.Next() {
		var id int64
		var d model.PartnerDetails
		if err := rows.Scan(&id, &d.PartnerName, &d.Description, &d.Services, &d.Country, &d.StateProvince, &d.CityDMA, &d.Formats); err != nil {
			return nil, errors.Wrap(err, "scan partner")
		}
		partners = append(partners, model.NewPartner(id, d))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate partners")
	}
	return partners, nil
}

func scanAddresses(ctx context.Context, tx *database.Transaction, index map[int64]*model.Partner) error {
	rows, err := tx.Query(ctx, selectAddressesSQL)
	if err != nil {
		return errors.Wrap(err, "select addresses")
	}
	defer rows.Close()

	for rows.Next() {
		var partnerID int64
		var a model.Address
		if err := rows.Scan(&partnerID, &a.Country, &a.State, &a.Street, &a.City, &a.ZipCode); err != nil {
			return errors.Wrap(err, "scan address")
		}
		// Rows committed after the partner snapshot cannot appear here,
		// the lookup only guards against orphaned rows.
		if p, ok := index[partnerID]; ok {
			p.Addresses = append(p.Addresses, a)
		}
	}
	return errors.Wrap(rows.Err(), "iterate addresses")
}

func scanContacts(ctx context.Context, tx *database.Transaction, index map[int64]*model.Partner) error {
	rows, err := tx.Query(ctx, selectContactsSQL)
	if err != nil {
		return errors.Wrap(err, "select contacts")
	}
	defer rows.Close()

	for rows.Next() {
		var partnerID int64
		var c model.Contact
		if err := rows.Scan(&partnerID, &c.Name, &c.Email, &c.Phone); err != nil {
			return errors.Wrap(err, "scan contact")
		}
		if p, ok := index[partnerID]; ok {
			p.Contacts = append(p.Contacts, c)
		}
	}
	return errors.Wrap(rows.Err(), "iterate contacts")
}

func scanWebsites(ctx context.Context, tx *database.Transaction, index map[int64]*model.Partner) error {
	rows, err := tx.Query(ctx, selectWebsitesSQL)
	if err != nil {
		return errors.Wrap(err, "select websites")
	}
	defer rows.Close()

	for rows.Next() {
		var partnerID int64
		var w model.Website
		if err := rows.Scan(&partnerID, &w.URL, &w.Verified); err != nil {
			return errors.Wrap(err, "scan website")
		}
		if p, ok := index[partnerID]; ok {
			p.Websites = append(p.Websites, w)
		}
	}
	return errors.Wrap(rows.Err(), "iterate websites")
}
