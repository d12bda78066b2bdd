package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceType enum
type ServiceType string

const (
	WaterTreatment ServiceType = "water_treatment"
	Distribution   ServiceType = "distribution"
	Collection     ServiceType = "collection"
)

func (t ServiceType) Valid() bool {
	switch t {
	case WaterTreatment, Distribution, Collection:
		return true
	}
	return false
}

// ServiceStatus enum
type ServiceStatus string

const (
	Operational      ServiceStatus = "operational"
	UnderMaintenance ServiceStatus = "maintenance"
	OutOfService     ServiceStatus = "out_of_service"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case Operational, UnderMaintenance, OutOfService:
		return true
	}
	return false
}

// MaintenanceRecord is one entry of a service's maintenance log
type MaintenanceRecord struct {
	Date        time.Time          `bson:"date" json:"date"`
	Description string             `bson:"description" json:"description"`
	PerformedBy primitive.ObjectID `bson:"performedBy,omitempty" json:"performedBy,omitempty"`
}

// WaterService represents a physical water infrastructure asset
type WaterService struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string               `bson:"name" json:"name"`
	Location           GeoPoint             `bson:"location" json:"location"`
	Type               ServiceType          `bson:"type" json:"type"`
	Description        string               `bson:"description,omitempty" json:"description,omitempty"`
	Capacity           float64              `bson:"capacity" json:"capacity"`
	CurrentUsage       float64              `bson:"currentUsage" json:"currentUsage"`
	Status             ServiceStatus        `bson:"status" json:"status"`
	LastMaintenance    *time.Time           `bson:"lastMaintenance,omitempty" json:"lastMaintenance,omitempty"`
	NextMaintenance    *time.Time           `bson:"nextMaintenance,omitempty" json:"nextMaintenance,omitempty"`
	MaintenanceHistory []MaintenanceRecord  `bson:"maintenanceHistory,omitempty" json:"maintenanceHistory,omitempty"`
	Issues             []primitive.ObjectID `bson:"issues,omitempty" json:"issues,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// maintenance is due every 30 days
const maintenanceInterval = 30 * 24 * time.Hour

// UsagePercentage is computed on read, never stored.
func (s *WaterService) UsagePercentage() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return (s.CurrentUsage / s.Capacity) * 100
}

// NeedsMaintenance reports whether the service was never maintained or the
// last maintenance is at least 30 days old.
func (s *WaterService) NeedsMaintenance() bool {
	if s.LastMaintenance == nil {
		return true
	}
	return time.Since(*s.LastMaintenance) >= maintenanceInterval
}

// LogMaintenance appends a record and moves the maintenance window forward.
func (s *WaterService) LogMaintenance(description string, performedBy primitive.ObjectID, at time.Time) {
	s.MaintenanceHistory = append(s.MaintenanceHistory, MaintenanceRecord{
		Date:        at,
		Description: description,
		PerformedBy: performedBy,
	})
	s.LastMaintenance = &at
	next := at.Add(maintenanceInterval)
	s.NextMaintenance = &next
}

// EnsureWaterServiceIndexes creates the 2dsphere index backing $near queries
func EnsureWaterServiceIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// FindNearby returns services within maxDistance meters of the given point,
// closest first. Ordering comes from the storage engine's geospatial index.
func FindNearby(ctx context.Context, collection *mongo.Collection, latitude, longitude, maxDistance float64) ([]WaterService, error) {
	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{longitude, latitude},
				},
				"$maxDistance": maxDistance,
			},
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []WaterService
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}
