package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aceresearch/registration-portal/internal/models"
)

// CreateApplication saves a new conference application and returns its ID.
// The payment and file columns stay empty until the upload flow fills them.
func (q *Queries) CreateApplication(ctx context.Context, app models.Application) (int64, error) {
	const op = "storage.CreateApplication"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO applications (name, designation, organization, department,
			      mobile_number, email, participant_status, presentation, address,
			      registration_fee)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id;`
	if err := q.db.QueryRowContext(ctx, query,
		app.Name, app.Designation, app.Organization, app.Department,
		app.MobileNumber, app.Email, app.ParticipantStatus, app.Presentation,
		app.Address, app.RegistrationFee).Scan(&id); err != nil {
		return 0, wrapWriteErr(op, err)
	}
	return id, nil
}

// FindApplicationByEmail returns the application registered under the email.
// File blobs are returned as metadata only (content type and filename);
// the bytes are fetched separately by GetProofFile.
func (q *Queries) FindApplicationByEmail(ctx context.Context, email string) (*models.Application, error) {
	const op = "storage.FindApplicationByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, designation, organization, department, mobile_number,
			      email, participant_status, presentation, address, registration_fee,
			      pdf_content_type, pdf_filename, image_content_type, image_filename,
			      payment_date, transaction_id, created_at
			  FROM applications
			  WHERE email = $1`
	app := &models.Application{}
	row := q.db.QueryRowContext(ctx, query, email)

	var pdfType, pdfName, imgType, imgName, txID sql.NullString
	var paymentDate sql.NullTime
	if err := row.Scan(&app.ID, &app.Name, &app.Designation, &app.Organization,
		&app.Department, &app.MobileNumber, &app.Email, &app.ParticipantStatus,
		&app.Presentation, &app.Address, &app.RegistrationFee,
		&pdfType, &pdfName, &imgType, &imgName,
		&paymentDate, &txID, &app.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if pdfName.Valid {
		app.PaymentProof = &models.FileBlob{ContentType: pdfType.String, Filename: pdfName.String}
	}
	if imgName.Valid {
		app.PaymentImage = &models.FileBlob{ContentType: imgType.String, Filename: imgName.String}
	}
	if paymentDate.Valid {
		app.PaymentDate = &paymentDate.Time
	}
	if txID.Valid {
		app.TransactionID = txID.String
	}
	return app, nil
}

// UpdateApplicationByEmail updates the profile fields of the application.
// The registration fee is deliberately not touched: it is a function of the
// participant status at creation time.
func (q *Queries) UpdateApplicationByEmail(ctx context.Context, app models.Application) error {
	const op = "storage.UpdateApplicationByEmail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE applications
			  SET name = $1, designation = $2, organization = $3, department = $4,
			      mobile_number = $5, participant_status = $6, presentation = $7,
			      address = $8
			  WHERE email = $9`
	res, err := q.db.ExecContext(ctx, query,
		app.Name, app.Designation, app.Organization, app.Department,
		app.MobileNumber, app.ParticipantStatus, app.Presentation,
		app.Address, app.Email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// AttachPaymentProof stores the uploaded proof files and marks the payment.
// Either blob may be nil, in which case the stored one is kept as is.
func (q *Queries) AttachPaymentProof(ctx context.Context, email string,
	pdf, image *models.FileBlob, paymentDate time.Time, transactionID string) error {
	const op = "storage.AttachPaymentProof"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE applications
			  SET payment_date = $1,
			      transaction_id = $2,
			      pdf_file = COALESCE($3, pdf_file),
			      pdf_content_type = COALESCE($4, pdf_content_type),
			      pdf_filename = COALESCE($5, pdf_filename),
			      image_file = COALESCE($6, image_file),
			      image_content_type = COALESCE($7, image_content_type),
			      image_filename = COALESCE($8, image_filename)
			  WHERE email = $9`

	var pdfData []byte
	var pdfType, pdfName, imgType, imgName sql.NullString
	var imgData []byte
	if pdf != nil {
		pdfData = pdf.Data
		pdfType = sql.NullString{String: pdf.ContentType, Valid: true}
		pdfName = sql.NullString{String: pdf.Filename, Valid: true}
	}
	if image != nil {
		imgData = image.Data
		imgType = sql.NullString{String: image.ContentType, Valid: true}
		imgName = sql.NullString{String: image.Filename, Valid: true}
	}

	res, err := q.db.ExecContext(ctx, query,
		paymentDate, transactionID,
		pdfData, pdfType, pdfName,
		imgData, imgType, imgName,
		email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetProofFile returns the stored payment proof of the given kind
// ("pdf" or "image") including the file bytes.
func (q *Queries) GetProofFile(ctx context.Context, email, kind string) (*models.FileBlob, error) {
	const op = "storage.GetProofFile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var query string
	switch kind {
	case "pdf":
		query = `SELECT pdf_file, pdf_content_type, pdf_filename
				 FROM applications WHERE email = $1`
	case "image":
		query = `SELECT image_file, image_content_type, image_filename
				 FROM applications WHERE email = $1`
	default:
		return nil, fmt.Errorf("%s: unknown proof kind %q", op, kind)
	}

	var data []byte
	var contentType, filename sql.NullString
	if err := q.db.QueryRowContext(ctx, query, email).Scan(&data, &contentType, &filename); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &models.FileBlob{
		Data:        data,
		ContentType: contentType.String,
		Filename:    filename.String,
	}, nil
}

// DeleteApplicationsByEmail removes every application registered under the
// email and returns the number of deleted rows.
func (q *Queries) DeleteApplicationsByEmail(ctx context.Context, email string) (int64, error) {
	const op = "storage.DeleteApplicationsByEmail"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := q.db.ExecContext(ctx, `DELETE FROM applications WHERE email = $1`, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
