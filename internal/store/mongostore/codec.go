package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idilsaglam/tasks/internal/model"
)

// keys is the document layout of the tasks collection. The struct tags on
// document must agree with it; codec_test.go pins both.
var keys = map[model.Field]string{
	model.FieldID:          "_id",
	model.FieldTitle:       "titulo",
	model.FieldDescription: "descricao",
	model.FieldPriority:    "prioridade",
	model.FieldCompleted:   "concluida",
}

// Key returns the document key a task field is stored under.
func Key(f model.Field) string { return keys[f] }

type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"titulo"`
	Description string             `bson:"descricao"`
	Priority    string             `bson:"prioridade"`
	Completed   bool               `bson:"concluida"`
}

// newDocument maps an unsaved task. The id is left for the server and the
// completion flag always starts false.
func newDocument(t model.Task) document {
	return document{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
	}
}

func (d document) task() model.Task {
	return model.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Priority:    model.Priority(d.Priority),
		Completed:   d.Completed,
	}
}

// setFields builds the $set body for a partial edit in a stable key order.
func setFields(f model.Fields) bson.D {
	set := f.Set()
	out := bson.D{}
	for _, field := range model.AllFields {
		if v, ok := set[field]; ok {
			out = append(out, bson.E{Key: Key(field), Value: v})
		}
	}
	return out
}

func byID(oid primitive.ObjectID) bson.D {
	return bson.D{{Key: Key(model.FieldID), Value: oid}}
}
