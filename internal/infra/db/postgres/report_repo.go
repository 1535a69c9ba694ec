package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

const reportColumns = `id, user_id, title, report_type, raw_input, generated_content, severity, created_at`

func (r *ReportRepository) Insert(ctx context.Context, rep *reports.Report) error {
	const q = `
INSERT INTO reports
(` + reportColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

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

func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID string, f reports.ListFilter) ([]*reports.Report, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + reportColumns + ` FROM reports WHERE user_id=$1`
	args := []any{ownerID}
	if f.Query != "" {
		args = append(args, containsPattern(f.Query))
		q += fmt.Sprintf(` AND (title ILIKE $%d OR generated_content ILIKE $%d)`, len(args), len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d;`, len(args))

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
	const q = `SELECT ` + reportColumns + ` FROM reports WHERE user_id=$1 AND id=$2 LIMIT 1;`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, ownerID, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reports.ErrNotFound
	}
	return rep, err
}

func (r *ReportRepository) Delete(ctx context.Context, ownerID string, id reports.ReportID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE user_id=$1 AND id=$2;`, ownerID, string(id))
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
