package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type employeeDocument struct {
	ID               string    `bson:"_id"`
	CompanyID        string    `bson:"company_id"`
	EmployeeCode     string    `bson:"employee_code"`
	FullName         string    `bson:"full_name"`
	EmploymentStatus string    `bson:"employment_status"`
	PINHash          *string   `bson:"pin_hash,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepository{collection: db.Collection(database.EmployeeCollection)}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	var doc employeeDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return employee.Employee{
		ID:               doc.ID,
		CompanyID:        doc.CompanyID,
		EmployeeCode:     doc.EmployeeCode,
		FullName:         doc.FullName,
		EmploymentStatus: employee.EmploymentStatus(doc.EmploymentStatus),
		PINHash:          doc.PINHash,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

// UpdatePINHash implements employee.EmployeeRepository.
func (r *employeeRepository) UpdatePINHash(ctx context.Context, id string, companyID string, pinHash string) error {
	update := bson.M{"$set": bson.M{
		"pin_hash":   pinHash,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "company_id": companyID}, update)
	if err != nil {
		return fmt.Errorf("failed to update employee PIN: %w", err)
	}
	if res.MatchedCount == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
