package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type timeEntryDocument struct {
	ID           string    `bson:"_id"`
	CompanyID    string    `bson:"company_id"`
	EmployeeID   string    `bson:"employee_id"`
	EmployeeName string    `bson:"employee_name"`
	Type         string    `bson:"type"`
	Timestamp    time.Time `bson:"timestamp"`
	Method       string    `bson:"method"`
	SnapshotURL  *string   `bson:"snapshot_url,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toTimeEntryDocument(e timeentry.TimeEntry) timeEntryDocument {
	return timeEntryDocument{
		ID:           e.ID,
		CompanyID:    e.CompanyID,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		Type:         string(e.Type),
		Timestamp:    e.Timestamp.UTC(),
		Method:       string(e.Method),
		SnapshotURL:  e.SnapshotURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (d timeEntryDocument) toEntity() timeentry.TimeEntry {
	return timeentry.TimeEntry{
		ID:           d.ID,
		CompanyID:    d.CompanyID,
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		Type:         timeentry.EntryType(d.Type),
		Timestamp:    d.Timestamp,
		Method:       timeentry.Method(d.Method),
		SnapshotURL:  d.SnapshotURL,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type timeEntryRepository struct {
	collection *mongo.Collection
}

func NewTimeEntryRepository(db *database.MongoDB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{collection: db.Collection(database.TimeEntryCollection)}
}

// EnsureTimeEntryIndexes creates the indexes the range and latest-punch queries rely on.
func EnsureTimeEntryIndexes(ctx context.Context, db *database.MongoDB) error {
	_, err := db.Collection(database.TimeEntryCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "employee_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create time entry indexes: %w", err)
	}
	return nil
}

func decodeTimeEntries(ctx context.Context, cursor *mongo.Cursor) ([]timeentry.TimeEntry, error) {
	defer cursor.Close(ctx)

	entries := make([]timeentry.TimeEntry, 0)
	for cursor.Next(ctx) {
		var doc timeEntryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode time entry: %w", err)
		}
		entries = append(entries, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}
	return entries, nil
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, newEntry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	if newEntry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return timeentry.TimeEntry{}, fmt.Errorf("failed to generate time entry id: %w", err)
		}
		newEntry.ID = id.String()
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	newEntry.CreatedAt = now
	newEntry.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, toTimeEntryDocument(newEntry)); err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return newEntry, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, companyID string) (timeentry.TimeEntry, error) {
	var doc timeEntryDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry by ID: %w", err)
	}
	return doc.toEntity(), nil
}

// ListByRange implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) ListByRange(ctx context.Context, companyID string, from, to time.Time, employeeID string) ([]timeentry.TimeEntry, error) {
	filter := bson.M{
		"company_id": companyID,
		"timestamp":  bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(chronologicalSort))
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries by range: %w", err)
	}

	return decodeTimeEntries(ctx, cursor)
}

// chronologicalSort matches timeentry.SortChronological.
var chronologicalSort = bson.D{
	{Key: "timestamp", Value: 1},
	{Key: "created_at", Value: 1},
	{Key: "_id", Value: 1},
}

func buildListFilter(filter timeentry.TimeEntryFilter, companyID string) (bson.M, error) {
	query := bson.M{"company_id": companyID}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		query["employee_id"] = *filter.EmployeeID
	}
	if filter.Type != nil && *filter.Type != "" {
		query["type"] = *filter.Type
	}
	if filter.Method != nil && *filter.Method != "" {
		query["method"] = *filter.Method
	}

	// Date range filters compare the UTC calendar day
	from, to, err := filter.DateBounds()
	if err != nil {
		return nil, err
	}
	timestamp := bson.M{}
	if from != nil {
		timestamp["$gte"] = *from
	}
	if to != nil {
		timestamp["$lt"] = *to
	}
	if len(timestamp) > 0 {
		query["timestamp"] = timestamp
	}

	return query, nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timeentry.TimeEntryFilter, companyID string) ([]timeentry.TimeEntry, int64, error) {
	query, err := buildListFilter(filter, companyID)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	direction := -1
	if strings.ToLower(filter.SortOrder) == "asc" {
		direction = 1
	}

	limit := int64(filter.Limit)
	if limit == 0 {
		limit = 20
	}
	page := int64(filter.Page)
	if page < 1 {
		page = 1
	}

	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "timestamp", Value: direction}, {Key: "_id", Value: direction}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query time entries: %w", err)
	}

	entries, err := decodeTimeEntries(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetLatestByEmployee implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetLatestByEmployee(ctx context.Context, employeeID string, companyID string) (timeentry.TimeEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "created_at", Value: -1}})

	var doc timeEntryDocument
	err := r.collection.FindOne(ctx, bson.M{"employee_id": employeeID, "company_id": companyID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get latest time entry: %w", err)
	}
	return doc.toEntity(), nil
}

// UpdateTimestamp implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) UpdateTimestamp(ctx context.Context, id string, companyID string, timestamp time.Time) error {
	update := bson.M{"$set": bson.M{
		"timestamp":  timestamp.UTC(),
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "company_id": companyID}, update)
	if err != nil {
		return fmt.Errorf("failed to update time entry timestamp: %w", err)
	}
	if res.MatchedCount == 0 {
		return timeentry.ErrTimeEntryNotFound
	}
	return nil
}

// CompanyIDs implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) CompanyIDs(ctx context.Context, since time.Time) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "company_id", bson.M{"timestamp": bson.M{"$gte": since.UTC()}})
	if err != nil {
		return nil, fmt.Errorf("failed to query company ids: %w", err)
	}

	companyIDs := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			companyIDs = append(companyIDs, id)
		}
	}
	return companyIDs, nil
}
