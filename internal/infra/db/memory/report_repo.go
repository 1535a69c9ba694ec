package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
)

// ReportRepository keeps reports in process memory. Used for local runs
// without a database and by tests.
type ReportRepository struct {
	mu   sync.RWMutex
	rows map[reports.ReportID]reports.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{rows: make(map[reports.ReportID]reports.Report)}
}

func (r *ReportRepository) Insert(_ context.Context, rep *reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rep.ID] = *rep
	return nil
}

func (r *ReportRepository) ListByOwner(_ context.Context, ownerID string, f reports.ListFilter) ([]*reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(f.Query)
	var out []*reports.Report
	for _, row := range r.rows {
		if row.OwnerID != ownerID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(row.Title), q) &&
			!strings.Contains(strings.ToLower(row.GeneratedContent), q) {
			continue
		}
		rep := row
		out = append(out, &rep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *ReportRepository) Get(_ context.Context, ownerID string, id reports.ReportID) (*reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID {
		return nil, reports.ErrNotFound
	}
	return &row, nil
}

func (r *ReportRepository) Delete(_ context.Context, ownerID string, id reports.ReportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID {
		return reports.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
