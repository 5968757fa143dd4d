// Package store keeps computed layouts addressable by id, so that a layout
// returned by the server can be fetched again later.
//
// [MemoryStore] serves tests and single-process use; [MongoStore] persists
// documents in MongoDB. Ids are random UUIDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxtree/pkg/errors"
)

// Document is one stored layout.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// TreeHash is the content hash of the tree the layout was computed from.
	TreeHash string `json:"tree_hash" bson:"tree_hash"`
	// Layout is the layout encoded as JSON.
	Layout []byte `json:"layout" bson:"layout"`
}

// Store persists layout documents.
type Store interface {
	// Put stores doc, assigning ID and CreatedAt when they are empty, and
	// returns the id.
	Put(ctx context.Context, doc *Document) (string, error)
	// Get returns the document with the given id or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Document, error)
	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare fills in the generated fields of doc.
func prepare(doc *Document) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
}

// ValidateID rejects ids that could not have been issued by Put.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
}
