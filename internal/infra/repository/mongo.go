package repository

import (
	"context"
	"errors"
	"time"

	"intake-connector/internal/domain/entities"
	Irepository "intake-connector/internal/domain/interfaces/repository"
	repocontants "intake-connector/internal/domain/interfaces/repository/contants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoSessionRepository struct {
	mongo *mongo.Database
}

func NewMongoSessionRepository(mongo *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{mongo: mongo}
}

func (r *MongoSessionRepository) collection() *mongo.Collection {
	return r.mongo.Collection(repocontants.SESSIONS_COLLECTION)
}

func (r *MongoSessionRepository) FindByID(ctx context.Context, id string) (entities.DemoSession, error) {
	var session entities.DemoSession
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.DemoSession{}, Irepository.ErrSessionNotFound
	}
	return session, err
}

func (r *MongoSessionRepository) FindByConversationID(ctx context.Context, conversationID string) (entities.DemoSession, error) {
	var session entities.DemoSession
	err := r.collection().FindOne(ctx, bson.M{"conversation_id": conversationID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.DemoSession{}, Irepository.ErrSessionNotFound
	}
	return session, err
}

func (r *MongoSessionRepository) FindActiveWithConversation(ctx context.Context) ([]entities.DemoSession, error) {
	filter := bson.M{
		"status":          entities.StatusActive,
		"conversation_id": bson.M{"$exists": true, "$ne": ""},
	}
	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []entities.DemoSession
	for cursor.Next(ctx) {
		var session entities.DemoSession
		if err := cursor.Decode(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, cursor.Err()
}

func (r *MongoSessionRepository) SaveIntakeDetails(ctx context.Context, id string, prospectName string, reportRecipient string) error {
	update := bson.M{"$set": bson.M{
		"prospect_name":    prospectName,
		"report_recipient": reportRecipient,
		"updatedAt":        time.Now(),
	}}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return Irepository.ErrSessionNotFound
	}
	return nil
}

// MarkCompleted only transitions pending or active sessions; a session that
// is already completed or expired is left untouched.
func (r *MongoSessionRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": []string{entities.StatusPending, entities.StatusActive}},
	}
	update := bson.M{"$set": bson.M{
		"status":       entities.StatusCompleted,
		"completed_at": completedAt,
		"updatedAt":    time.Now(),
	}}
	_, err := r.collection().UpdateOne(ctx, filter, update)
	return err
}

func (r *MongoSessionRepository) SaveTranscript(ctx context.Context, id string, transcript []entities.TranscriptMessage, analysisData map[string]interface{}, durationSeconds int) error {
	set := bson.M{
		"transcript": transcript,
		"updatedAt":  time.Now(),
	}
	// Dotted paths merge into analysis_data without replacing sibling keys.
	for key, value := range analysisData {
		set["analysis_data."+key] = value
	}
	if durationSeconds > 0 {
		set["duration_seconds"] = durationSeconds
	}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return Irepository.ErrSessionNotFound
	}
	return nil
}

// ClaimReportSend is the idempotency gate. The filter matches only while
// report_sent_at is unset, so exactly one of any number of racing completion
// triggers can claim the send.
func (r *MongoSessionRepository) ClaimReportSend(ctx context.Context, id string, recipient string, sentAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "report_sent_at": nil}
	update := bson.M{"$set": bson.M{
		"report_sent_at":   sentAt,
		"report_recipient": recipient,
		"updatedAt":        time.Now(),
	}}
	res, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoSessionRepository) ReleaseReportSend(ctx context.Context, id string) error {
	update := bson.M{
		"$unset": bson.M{"report_sent_at": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *MongoSessionRepository) SaveAnalysisSnapshot(ctx context.Context, id string, snapshot map[string]interface{}) error {
	update := bson.M{"$set": bson.M{
		"analysis_data.intake_analysis": snapshot,
		"updatedAt":                     time.Now(),
	}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
