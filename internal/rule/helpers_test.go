package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bdirules/internal/expr"
	"bdirules/internal/mental"
	"bdirules/internal/store"
)

// recordingStore counts mutations made through the Store interface.
type recordingStore struct {
	*store.Bases
	mutations int
}

func newRecording() *recordingStore {
	return &recordingStore{Bases: store.New()}
}

func (r *recordingStore) Add(c mental.Category, s mental.MentalState) {
	r.mutations++
	r.Bases.Add(c, s)
}

func (r *recordingStore) Remove(c mental.Category, s mental.MentalState) {
	r.mutations++
	r.Bases.Remove(c, s)
}

func (r *recordingStore) AddEmotion(e mental.Emotion) {
	r.mutations++
	r.Bases.AddEmotion(e)
}

func (r *recordingStore) RemoveEmotion(e mental.Emotion) {
	r.mutations++
	r.Bases.RemoveEmotion(e)
}

func (r *recordingStore) seed(c mental.Category, ps ...mental.Predicate) {
	for _, p := range ps {
		r.Bases.Add(c, mental.NewMentalState(c, p))
	}
}

func pred(name string, kv ...any) mental.Predicate {
	p := mental.Predicate{Name: name}
	if len(kv) > 0 {
		p.Values = mental.Values{}
		for i := 0; i+1 < len(kv); i += 2 {
			p.Values[kv[i].(string)] = kv[i+1]
		}
	}
	return p
}

func lit(v any) expr.Expression { return expr.Const{V: v} }

func list(vs ...any) expr.Expression { return expr.Const{V: vs} }

func emotion(kind string, intensity float64) mental.Emotion {
	return mental.Emotion{Kind: kind, Intensity: intensity}
}

func mustFire(t *testing.T, r *Rule, st store.Store) {
	t.Helper()
	out, err := r.Evaluate(nil, st)
	require.NoError(t, err)
	require.True(t, out.Fired, "rule blocked at %q", out.Blocked)
}

func mustBlock(t *testing.T, r *Rule, st store.Store, at Facet) {
	t.Helper()
	out, err := r.Evaluate(nil, st)
	require.NoError(t, err)
	require.False(t, out.Fired)
	require.Equal(t, at, out.Blocked)
}
