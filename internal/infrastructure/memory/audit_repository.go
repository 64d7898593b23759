package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria (slice append-only).
type AuditRepo struct{ base }

func (r *AuditRepo) Append(_ context.Context, entry *entity.AuditEntry) error {
	return r.with(func(st *state) error {
		st.auditSeq++
		entry.Seq = st.auditSeq
		// el reloj nunca retrocede en la bitácora
		if n := len(st.audit); n > 0 && entry.CreatedAt.Before(st.audit[n-1].CreatedAt) {
			entry.CreatedAt = st.audit[n-1].CreatedAt
		}
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		st.audit = append(st.audit, *entry)
		return nil
	})
}

func (r *AuditRepo) List(_ context.Context, filter entity.AuditFilter) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	err := r.with(func(st *state) error {
		for _, e := range st.audit {
			if filter.Matches(&e) {
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.Newest {
			a, b = b, a
		}
		return a.Seq < b.Seq
	})
	lo, hi := window(len(out), filter.Limit, filter.Offset)
	return out[lo:hi], err
}
