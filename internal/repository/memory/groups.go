package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
)

type groupRepository struct{ s *Store }

func copyGroup(g models.Group) *models.Group {
	g.DefaultTier = clonePtr(g.DefaultTier)
	return &g
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.s.do(func(st *state) error {
		if group.ID == uuid.Nil {
			group.ID = uuid.New()
		}
		if _, ok := st.groups[group.ID]; ok {
			return conflict("create group", "groups_pkey")
		}
		group.CreatedAt = st.now()
		st.groups[group.ID] = *copyGroup(*group)
		return nil
	})
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var out *models.Group
	err := r.s.do(func(st *state) error {
		row, ok := st.groups[id]
		if !ok {
			return notFound("get group")
		}
		out = copyGroup(row)
		return nil
	})
	return out, err
}

func (r *groupRepository) GetByTrainer(ctx context.Context, trainerID uuid.UUID) ([]*models.Group, error) {
	var out []*models.Group
	err := r.s.do(func(st *state) error {
		for _, row := range st.groups {
			if row.TrainerID == trainerID && row.IsActive {
				out = append(out, copyGroup(row))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *groupRepository) UpdateDefaultTier(ctx context.Context, id uuid.UUID, tier models.Tier) error {
	return r.s.do(func(st *state) error {
		row, ok := st.groups[id]
		if !ok {
			return notFound("update group tier")
		}
		row.DefaultTier = ptr(tier)
		st.groups[id] = row
		return nil
	})
}
