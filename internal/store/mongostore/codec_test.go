package mongostore

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idilsaglam/tasks/internal/model"
)

func TestKeys_DocumentLayout(t *testing.T) {
	assert.Equal(t, "_id", Key(model.FieldID))
	assert.Equal(t, "titulo", Key(model.FieldTitle))
	assert.Equal(t, "descricao", Key(model.FieldDescription))
	assert.Equal(t, "prioridade", Key(model.FieldPriority))
	assert.Equal(t, "concluida", Key(model.FieldCompleted))

	for _, f := range model.AllFields {
		assert.NotEmpty(t, Key(f), "field %s has no key", f)
	}
}

func TestDocument_TagsMatchKeys(t *testing.T) {
	doc := document{
		ID:          primitive.NewObjectID(),
		Title:       "t",
		Description: "d",
		Priority:    "p",
		Completed:   true,
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	got := make([]string, 0, len(m))
	for k := range m {
		got = append(got, k)
	}
	want := make([]string, 0, len(model.AllFields))
	for _, f := range model.AllFields {
		want = append(want, Key(f))
	}
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestNewDocument_LeavesIDToServerAndStartsIncomplete(t *testing.T) {
	task := model.Task{ID: "ignored", Title: "Buy milk", Description: "2L", Priority: model.PriorityHigh, Completed: true}

	raw, err := bson.Marshal(newDocument(task))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	_, hasID := m["_id"]
	assert.False(t, hasID, "_id must be omitted so the server assigns it")
	assert.Equal(t, "Buy milk", m["titulo"])
	assert.Equal(t, "2L", m["descricao"])
	assert.Equal(t, "Alta", m["prioridade"])
	assert.Equal(t, false, m["concluida"])
}

func TestDocument_MissingCompletedDecodesFalse(t *testing.T) {
	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "titulo", Value: "legacy"},
		{Key: "descricao", Value: "no flag"},
		{Key: "prioridade", Value: "Baixa"},
	})
	require.NoError(t, err)

	var doc document
	require.NoError(t, bson.Unmarshal(raw, &doc))

	task := doc.task()
	assert.Equal(t, oid.Hex(), task.ID)
	assert.Equal(t, "legacy", task.Title)
	assert.Equal(t, model.PriorityLow, task.Priority)
	assert.False(t, task.Completed)
}

func TestSetFields_OnlyNonBlankInStableOrder(t *testing.T) {
	testCases := []struct {
		name   string
		fields model.Fields
		want   bson.D
	}{
		{
			name:   "all",
			fields: model.Fields{Title: "T", Description: "D", Priority: "P"},
			want: bson.D{
				{Key: "titulo", Value: "T"},
				{Key: "descricao", Value: "D"},
				{Key: "prioridade", Value: "P"},
			},
		},
		{
			name:   "priority only",
			fields: model.Fields{Title: "  ", Priority: model.PriorityMedium},
			want:   bson.D{{Key: "prioridade", Value: "Média"}},
		},
		{
			name:   "none",
			fields: model.Fields{},
			want:   bson.D{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, setFields(tc.fields))
		})
	}
}
