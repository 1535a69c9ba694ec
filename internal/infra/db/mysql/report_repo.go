package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, title, report_type, raw_input, generated_content, severity, created_at`

// Insert writes a new report row. Reports are never updated.
func (r *ReportRepository) Insert(ctx context.Context, rep *reports.Report) error {
	const q = `
INSERT INTO reports
  (` + reportColumns + `)
VALUES (?,?,?,?,?,?,?,?);
`
	var severity sql.NullString
	if rep.Severity != nil {
		severity = sql.NullString{String: string(*rep.Severity), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		string(rep.ID), rep.OwnerID, rep.Title, string(rep.ReportType),
		nullString(rep.RawInput), rep.GeneratedContent, severity,
		nowIfZero(rep.CreatedAt),
	)
	return err
}

// ListByOwner returns the owner's reports ordered by created_at desc.
func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID string, f reports.ListFilter) ([]*reports.Report, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + reportColumns + ` FROM reports WHERE user_id=?`
	args := []any{ownerID}
	if f.Query != "" {
		p := containsPattern(f.Query)
		q += ` AND (LOWER(title) LIKE ? OR LOWER(generated_content) LIKE ?)`
		args = append(args, p, p)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?;`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*reports.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Get(ctx context.Context, ownerID string, id reports.ReportID) (*reports.Report, error) {
	const q = `SELECT ` + reportColumns + ` FROM reports WHERE user_id=? AND id=? LIMIT 1;`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, ownerID, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reports.ErrNotFound
	}
	return rep, err
}

func (r *ReportRepository) Delete(ctx context.Context, ownerID string, id reports.ReportID) error {
	const q = `DELETE FROM reports WHERE user_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, ownerID, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return reports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*reports.Report, error) {
	var rep reports.Report
	var raw, severity sql.NullString
	if err := row.Scan(
		&rep.ID, &rep.OwnerID, &rep.Title, &rep.ReportType,
		&raw, &rep.GeneratedContent, &severity, &rep.CreatedAt,
	); err != nil {
		return nil, err
	}
	rep.RawInput = stringPtr(raw)
	if severity.Valid {
		s := reports.Severity(severity.String)
		rep.Severity = &s
	}
	return &rep, nil
}
