package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared by every repository. Handlers branch on these to
// decide between NotFound, ValidationError and generic failure responses.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// wrapMongoErr maps driver errors onto the repository sentinels.
func wrapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
