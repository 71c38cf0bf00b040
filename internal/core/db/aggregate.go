package db

import (
	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// joinRow pairs one session with at most one child entity, as produced by a
// left outer join. A session with no children still yields one row with a
// nil child.
type joinRow[C any] struct {
	session models.Session
	child   *C
}

// aggregateSessions folds a flat join result back into one session per
// identity with its children collected in row order.
//
// The first row seen for a session wins for the session's scalar fields;
// later rows only contribute their child. Children are attached in the
// order their rows arrive, and nil children (the outer-join artifact for a
// childless session) are skipped, so a session that matched the query but
// has no children comes back with an empty child collection rather than
// being dropped. Output order is order of first appearance.
func aggregateSessions[C any](rows []joinRow[C], attach func(*models.Session, C)) []models.Session {
	index := make(map[int64]int, len(rows))
	out := make([]models.Session, 0, len(rows))

	for _, r := range rows {
		i, ok := index[r.session.ID]
		if !ok {
			i = len(out)
			index[r.session.ID] = i
			out = append(out, r.session)
		}
		if r.child != nil {
			attach(&out[i], *r.child)
		}
	}

	return out
}
