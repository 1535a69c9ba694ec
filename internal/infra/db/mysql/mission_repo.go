package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
)

type MissionRepository struct {
	db *sql.DB
}

func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// CreateProject inserts the project and its phases in one transaction so a
// project never exists without its phase set.
func (r *MissionRepository) CreateProject(ctx context.Context, p *missions.Project, phases []*missions.Phase) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qProject = `
INSERT INTO projects (id, user_id, name, description, created_at)
VALUES (?,?,?,?,?);
`
	if _, err = tx.ExecContext(ctx, qProject,
		string(p.ID), p.OwnerID, p.Name, nullString(p.Description), nowIfZero(p.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	if len(phases) > 0 {
		values := make([]string, 0, len(phases))
		args := make([]any, 0, len(phases)*7)
		for _, ph := range phases {
			values = append(values, "(?,?,?,?,?,?,?)")
			args = append(args,
				string(ph.ID), string(ph.ProjectID), ph.Name, ph.Order,
				nullString(ph.Notes), string(ph.Status), nowIfZero(ph.UpdatedAt),
			)
		}
		qPhases := `
INSERT INTO mission_phases (id, project_id, phase_name, phase_order, notes, status, updated_at)
VALUES ` + strings.Join(values, ",") + `;`
		if _, err = tx.ExecContext(ctx, qPhases, args...); err != nil {
			return fmt.Errorf("insert phases: %w", err)
		}
	}

	return tx.Commit()
}

func (r *MissionRepository) ListProjects(ctx context.Context, ownerID string) ([]*missions.Project, error) {
	const q = `
SELECT id, user_id, name, description, created_at
FROM projects
WHERE user_id=?
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*missions.Project
	for rows.Next() {
		var p missions.Project
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &desc, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Description = stringPtr(desc)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// DeleteProject removes the phases and then the project in one transaction.
func (r *MissionRepository) DeleteProject(ctx context.Context, ownerID string, id missions.ProjectID) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qPhases = `
DELETE ph FROM mission_phases ph
JOIN projects p ON p.id = ph.project_id
WHERE ph.project_id=? AND p.user_id=?;
`
	if _, err = tx.ExecContext(ctx, qPhases, string(id), ownerID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id=? AND user_id=?;`, string(id), ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = missions.ErrProjectNotFound
		return err
	}
	return tx.Commit()
}

const phaseColumns = `ph.id, ph.project_id, ph.phase_name, ph.phase_order, ph.notes, ph.status, ph.updated_at`

func (r *MissionRepository) ListPhases(ctx context.Context, ownerID string, project missions.ProjectID) ([]*missions.Phase, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id=? AND user_id=?;`, string(project), ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missions.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	const q = `
SELECT ` + phaseColumns + `
FROM mission_phases ph
WHERE ph.project_id=?
ORDER BY ph.phase_order ASC;
`
	rows, err := r.db.QueryContext(ctx, q, string(project))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*missions.Phase
	for rows.Next() {
		ph, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ph)
	}
	return out, rows.Err()
}

func (r *MissionRepository) GetPhase(ctx context.Context, ownerID string, id missions.PhaseID) (*missions.Phase, error) {
	const q = `
SELECT ` + phaseColumns + `
FROM mission_phases ph
JOIN projects p ON p.id = ph.project_id
WHERE ph.id=? AND p.user_id=?
LIMIT 1;
`
	ph, err := scanPhase(r.db.QueryRowContext(ctx, q, string(id), ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missions.ErrPhaseNotFound
	}
	return ph, err
}

func (r *MissionRepository) UpdatePhaseStatus(ctx context.Context, ownerID string, id missions.PhaseID, s missions.Status) error {
	const q = `
UPDATE mission_phases ph
JOIN projects p ON p.id = ph.project_id
SET ph.status=?, ph.updated_at=UTC_TIMESTAMP()
WHERE ph.id=? AND p.user_id=?;
`
	return r.execPhaseUpdate(ctx, q, string(s), string(id), ownerID)
}

func (r *MissionRepository) UpdatePhaseNotes(ctx context.Context, ownerID string, id missions.PhaseID, notes *string) error {
	const q = `
UPDATE mission_phases ph
JOIN projects p ON p.id = ph.project_id
SET ph.notes=?, ph.updated_at=UTC_TIMESTAMP()
WHERE ph.id=? AND p.user_id=?;
`
	return r.execPhaseUpdate(ctx, q, nullString(notes), string(id), ownerID)
}

func (r *MissionRepository) execPhaseUpdate(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missions.ErrPhaseNotFound
	}
	return nil
}

func scanPhase(row rowScanner) (*missions.Phase, error) {
	var ph missions.Phase
	var notes sql.NullString
	if err := row.Scan(&ph.ID, &ph.ProjectID, &ph.Name, &ph.Order, &notes, &ph.Status, &ph.UpdatedAt); err != nil {
		return nil, err
	}
	ph.Notes = stringPtr(notes)
	return &ph, nil
}
