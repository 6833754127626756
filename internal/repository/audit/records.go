package audit

import (
	"context"
	"time"

	mg "sindesk_negotiation/internal/config/connections/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NegotiationRecordsCollection = "negotiation_records"

const (
	StatusCommitting = "committing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Record is one commit attempt as seen by the audit trail. The payload is
// the full simulation snapshot so a failed commit can be reconstructed.
type Record struct {
	ID             any       `bson:"_id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	EmployerID     string    `bson:"employer_id" json:"employer_id"`
	CreatedBy      string    `bson:"created_by" json:"created_by"`
	Status         string    `bson:"status" json:"status"`
	Errors         *string   `bson:"errors,omitempty" json:"errors,omitempty"`
	Payload        any       `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Trail implements ports.AuditTrail over the mongo collection.
type Trail struct {
	mg *mg.Mongo
}

func NewTrail(m *mg.Mongo) *Trail {
	return &Trail{mg: m}
}

func (t *Trail) Start(ctx context.Context, organizationID, employerID, createdBy string, payload any) (string, error) {
	if t.mg == nil || t.mg.Database == nil {
		return "", mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	doc := bson.D{
		{Key: "organization_id", Value: organizationID},
		{Key: "employer_id", Value: employerID},
		{Key: "created_by", Value: createdBy},
		{Key: "status", Value: StatusCommitting},
		{Key: "payload", Value: payload},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}

	res, err := t.mg.Database.Collection(NegotiationRecordsCollection).InsertOne(ctx, doc, options.InsertOne())
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

func (t *Trail) Finish(ctx context.Context, recordID, status, errText string) error {
	if t.mg == nil || t.mg.Database == nil {
		return mongo.ErrClientDisconnected
	}
	if recordID == "" {
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return err
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if errText != "" {
		set["errors"] = errText
	}

	_, err = t.mg.Database.Collection(NegotiationRecordsCollection).
		UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	return err
}

// FindRecordByID is used by support tooling to inspect a commit attempt.
func (t *Trail) FindRecordByID(ctx context.Context, id string) (Record, error) {
	var out Record
	if t.mg == nil || t.mg.Database == nil {
		return out, mongo.ErrClientDisconnected
	}
	coll := t.mg.Database.Collection(NegotiationRecordsCollection)

	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out); err == nil {
			out.ID = oid
			return out, nil
		}
	}

	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return out, err
	}
	out.ID = id
	return out, nil
}
