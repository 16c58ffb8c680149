package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/planflow-backend/internal/apperrors"
)

func TestTitle(t *testing.T) {
	t.Run("short goal is kept", func(t *testing.T) {
		assert.Equal(t, "Launch v2", Title("Launch v2"))
	})

	t.Run("long goal is cut at 100 units", func(t *testing.T) {
		goal := strings.Repeat("a", 150)
		assert.Equal(t, strings.Repeat("a", 100), Title(goal))
	})

	t.Run("multibyte runes count once", func(t *testing.T) {
		goal := strings.Repeat("計", 120)
		got := Title(goal)
		assert.Equal(t, 100, len([]rune(got)))
	})

	t.Run("surrogate pair is not split", func(t *testing.T) {
		goal := strings.Repeat("a", 99) + "😀" + "tail"
		assert.Equal(t, strings.Repeat("a", 99), Title(goal))
	})

	t.Run("surrogate pair that fits is kept", func(t *testing.T) {
		goal := strings.Repeat("a", 98) + "😀" + "tail"
		assert.Equal(t, strings.Repeat("a", 98)+"😀", Title(goal))
	})
}

func TestNewDraft(t *testing.T) {
	date := NewDate(2025, time.March, 1)

	t.Run("derives title and normalizes payload", func(t *testing.T) {
		d, err := NewDraft(Payload{
			Goal:       "Launch v2",
			TargetDate: date,
			Tasks:      json.RawMessage(`[ {"id": 1} ]`),
		})
		require.NoError(t, err)
		assert.Equal(t, "Launch v2", d.Title)
		assert.Equal(t, `[{"id":1}]`, string(d.Tasks))
		assert.Nil(t, d.ScheduleData)
	})

	t.Run("missing tasks become empty list", func(t *testing.T) {
		d, err := NewDraft(Payload{Goal: "g", TargetDate: date, ScheduleData: json.RawMessage("null")})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(d.Tasks))
		assert.Nil(t, d.ScheduleData)
	})

	t.Run("blank goal is rejected", func(t *testing.T) {
		_, err := NewDraft(Payload{Goal: "   ", TargetDate: date})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("zero date is rejected", func(t *testing.T) {
		_, err := NewDraft(Payload{Goal: "g"})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("tasks must be a list", func(t *testing.T) {
		for _, raw := range []string{`{"a":1}`, `"text"`, `3`} {
			_, err := NewDraft(Payload{Goal: "g", TargetDate: date, Tasks: json.RawMessage(raw)})
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), raw)
		}
	})

	t.Run("schedule must be a list or null", func(t *testing.T) {
		_, err := NewDraft(Payload{Goal: "g", TargetDate: date, ScheduleData: json.RawMessage(`{"g":1}`)})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		d, err := NewDraft(Payload{Goal: "g", TargetDate: date, ScheduleData: json.RawMessage(`[{"task":"t1"}]`)})
		require.NoError(t, err)
		assert.Equal(t, `[{"task":"t1"}]`, string(d.ScheduleData))
	})

	t.Run("invalid tasks JSON is rejected", func(t *testing.T) {
		_, err := NewDraft(Payload{Goal: "g", TargetDate: date, Tasks: json.RawMessage(`[{`)})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestProjectCloneIsIndependent(t *testing.T) {
	p := Project{
		ID:            "p1",
		Tasks:         json.RawMessage(`[1]`),
		Collaborators: []string{"v"},
	}
	c := p.Clone()
	c.Tasks[1] = '2'
	c.Collaborators[0] = "w"

	assert.Equal(t, `[1]`, string(p.Tasks))
	assert.Equal(t, []string{"v"}, p.Collaborators)
}

func TestDate(t *testing.T) {
	t.Run("parse plain date", func(t *testing.T) {
		d, err := ParseDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2025, time.March, 1), d)
		assert.Equal(t, "2025-03-01", d.String())
	})

	t.Run("parse timestamp keeps its calendar date", func(t *testing.T) {
		for _, in := range []string{
			"2025-03-01T23:30:00-05:00",
			"2025-03-01T00:00:00+09:00",
			"2025-03-01T12:00:00Z",
		} {
			d, err := ParseDate(in)
			require.NoError(t, err, in)
			assert.Equal(t, "2025-03-01", d.String(), in)
		}
	})

	t.Run("reject garbage", func(t *testing.T) {
		_, err := ParseDate("next friday")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("json", func(t *testing.T) {
		b, err := json.Marshal(NewDate(2025, time.March, 1))
		require.NoError(t, err)
		assert.Equal(t, `"2025-03-01"`, string(b))

		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-12-31"`), &d))
		assert.Equal(t, NewDate(2024, time.December, 31), d)
	})

	t.Run("scan normalizes location", func(t *testing.T) {
		var d Date
		loc := time.FixedZone("x", 3600)
		require.NoError(t, d.Scan(time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)))
		assert.Equal(t, NewDate(2025, time.March, 1), d)

		require.NoError(t, d.Scan([]byte("2025-04-02")))
		assert.Equal(t, NewDate(2025, time.April, 2), d)
	})
}
