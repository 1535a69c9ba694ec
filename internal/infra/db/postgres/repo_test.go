package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

func newMock(t *testing.T) (*MissionRepository, *ReportRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMissionRepository(db), NewReportRepository(db), mock
}

func TestCreateProjectNumbersPhasePlaceholders(t *testing.T) {
	missionsRepo, _, mock := newMock(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	desc := "external perimeter"
	p := &missions.Project{ID: "p1", OwnerID: "u1", Name: "Acme", Description: &desc, CreatedAt: now}
	phases := missions.NewPhaseSet(p.ID, now, func() string { return "x" })[:2]

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects (id, user_id, name, description, created_at)")).
		WithArgs("p1", "u1", "Acme", "external perimeter", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")).
		WithArgs(
			"x", "p1", phases[0].Name, 0, nil, "pending", now,
			"x", "p1", phases[1].Name, 1, nil, "pending", now,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := missionsRepo.CreateProject(context.Background(), p, phases); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateProjectRollsBackOnPhaseFailure(t *testing.T) {
	missionsRepo, _, mock := newMock(t)
	now := time.Now().UTC()
	p := &missions.Project{ID: "p1", OwnerID: "u1", Name: "Acme", CreatedAt: now}
	phases := missions.NewPhaseSet(p.ID, now, func() string { return "x" })

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO mission_phases")).WillReturnError(errors.New("pq: duplicate key"))
	mock.ExpectRollback()

	if err := missionsRepo.CreateProject(context.Background(), p, phases); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteProjectNotOwned(t *testing.T) {
	missionsRepo, _, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id=$1 AND user_id=$2")).
		WithArgs("p1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := missionsRepo.DeleteProject(context.Background(), "intruder", "p1")
	if !errors.Is(err, missions.ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestReportListSearchUsesILIKE(t *testing.T) {
	_, reportRepo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("AND (title ILIKE $2 OR generated_content ILIKE $2) ORDER BY created_at DESC, id DESC LIMIT $3")).
		WithArgs("u1", "%ssh%", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "report_type", "raw_input", "generated_content", "severity", "created_at"}).
			AddRow("r1", "u1", "Log Parser - x", "log_analysis", "sshd", "ssh brute force", nil, time.Now()))

	got, err := reportRepo.ListByOwner(context.Background(), "u1", reports.ListFilter{Query: "ssh"})
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("got %+v", got)
	}
}

func TestReportListWithoutQuery(t *testing.T) {
	_, reportRepo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reports WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2")).
		WithArgs("u1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := reportRepo.ListByOwner(context.Background(), "u1", reports.ListFilter{Limit: 5}); err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
