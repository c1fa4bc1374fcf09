package memory

import "context"

type settingsRepository struct{ s *Store }

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := r.s.do(func(st *state) error {
		value, ok = st.settings[key]
		return nil
	})
	return value, ok, err
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	return r.s.do(func(st *state) error {
		st.settings[key] = value
		return nil
	})
}
