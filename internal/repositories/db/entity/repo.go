package entityrepo

import (
	"context"
	"fmt"

	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "entityRepo/"

// entityQueries is the per-type strategy: one existence probe and one
// membership probe, both taking ($1 = entity id, $2 = user id for member).
type entityQueries struct {
	exists string
	member string
}

var queries = map[models.EntityType]entityQueries{
	models.EntityProject: {
		exists: `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM projects p WHERE p.id = $1 AND p.creator_id = $2
			UNION ALL
			SELECT 1 FROM project_participants pp WHERE pp.project_id = $1 AND pp.user_id = $2 AND pp.is_active)`,
	},
	models.EntityActivity: {
		exists: `SELECT EXISTS (SELECT 1 FROM activities WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM activities a WHERE a.id = $1 AND a.responsible_id = $2
			UNION ALL
			SELECT 1 FROM activity_participants ap WHERE ap.activity_id = $1 AND ap.user_id = $2 AND ap.is_active
			UNION ALL
			SELECT 1 FROM activities a
				INNER JOIN projects p ON p.id = a.project_id
				WHERE a.id = $1 AND p.creator_id = $2
			UNION ALL
			SELECT 1 FROM activities a
				INNER JOIN project_participants pp ON pp.project_id = a.project_id
				WHERE a.id = $1 AND pp.user_id = $2 AND pp.is_active)`,
	},
	models.EntityTask: {
		exists: `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM tasks t WHERE t.id = $1 AND (t.creator_id = $2 OR t.assignee_id = $2))`,
	},
	models.EntitySeminar: {
		exists: `SELECT EXISTS (SELECT 1 FROM seminars WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM seminars s WHERE s.id = $1 AND s.organizer_id = $2)`,
	},
	models.EntityTraining: {
		exists: `SELECT EXISTS (SELECT 1 FROM trainings WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM training_participants tp WHERE tp.training_id = $1 AND tp.user_id = $2)`,
	},
	models.EntityInternship: {
		exists: `SELECT EXISTS (SELECT 1 FROM internships WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM internships i WHERE i.id = $1 AND (i.supervisor_id = $2 OR i.intern_id = $2))`,
	},
	models.EntitySupervision: {
		exists: `SELECT EXISTS (SELECT 1 FROM supervisions WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM supervisions s WHERE s.id = $1 AND (s.supervisor_id = $2 OR s.student_id = $2))`,
	},
	models.EntityKnowledgeTransfer: {
		exists: `SELECT EXISTS (SELECT 1 FROM knowledge_transfers WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM knowledge_transfers kt WHERE kt.id = $1 AND kt.organizer_id = $2)`,
	},
	models.EntityEvent: {
		exists: `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`,
		member: `SELECT EXISTS (
			SELECT 1 FROM events e WHERE e.id = $1 AND e.creator_id = $2
			UNION ALL
			SELECT 1 FROM event_participants ep WHERE ep.event_id = $1 AND ep.user_id = $2)`,
	},
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Exists(ctx context.Context, ref models.EntityRef) (bool, error) {
	op := pkg + "Exists"

	q, ok := queries[ref.Type]
	if !ok {
		return false, fmt.Errorf("%s: unknown entity type %q: %w", op, ref.Type, models.ErrInvalidParams)
	}

	var exists bool

	if err := r.db.GetContext(ctx, &exists, q.exists, ref.ID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *repository) IsMember(ctx context.Context, ref models.EntityRef, userID string) (bool, error) {
	op := pkg + "IsMember"

	q, ok := queries[ref.Type]
	if !ok {
		return false, fmt.Errorf("%s: unknown entity type %q: %w", op, ref.Type, models.ErrInvalidParams)
	}

	var member bool

	if err := r.db.GetContext(ctx, &member, q.member, ref.ID, userID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}
