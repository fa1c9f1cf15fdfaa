package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

const transcriptsCollection = "chat_transcripts"

// ArchiveRepository implements ports.ArchiveRepository using MongoDB. Unlike
// the Redis history, archived transcripts never expire and are never trimmed.
type ArchiveRepository struct {
	db  *mongo.Database
	now func() time.Time
}

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(db *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{db: db, now: time.Now}
}

// InsertMessage appends one history entry to the chat_transcripts collection.
func (r *ArchiveRepository) InsertMessage(ctx context.Context, msg ports.ArchivedMessage) error {
	doc := bson.M{
		"session_id":  msg.SessionID,
		"role":        string(msg.Message.Role),
		"content":     msg.Message.Content,
		"archived_at": r.now().UTC(),
	}
	// Keep the original string if it does not parse so nothing is lost.
	if ts, err := time.Parse(domain.TimestampLayout, msg.Message.Timestamp); err == nil {
		doc["timestamp"] = ts.UTC()
	} else {
		doc["timestamp_raw"] = msg.Message.Timestamp
	}

	if _, err := r.db.Collection(transcriptsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("archive message for session %s: %w", msg.SessionID, err)
	}
	return nil
}

// EnsureIndexes creates the session/time index used to read a transcript back.
func (r *ArchiveRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(transcriptsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create transcript index: %w", err)
	}
	return nil
}
