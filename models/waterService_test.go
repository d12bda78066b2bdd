package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNeedsMaintenance(t *testing.T) {
	service := WaterService{}
	assert.True(t, service.NeedsMaintenance(), "a never-maintained service is due")

	recent := time.Now().Add(-29 * 24 * time.Hour)
	service.LastMaintenance = &recent
	assert.False(t, service.NeedsMaintenance())

	old := time.Now().Add(-31 * 24 * time.Hour)
	service.LastMaintenance = &old
	assert.True(t, service.NeedsMaintenance(), "due again after 30 days")
}

func TestUsagePercentage(t *testing.T) {
	service := WaterService{Capacity: 200, CurrentUsage: 50}
	assert.Equal(t, 25.0, service.UsagePercentage())

	// usage may exceed capacity, nothing clamps it
	service.CurrentUsage = 300
	assert.Equal(t, 150.0, service.UsagePercentage())

	service.Capacity = 0
	assert.Equal(t, 0.0, service.UsagePercentage())
}

func TestLogMaintenance(t *testing.T) {
	service := WaterService{}
	performer := primitive.NewObjectID()
	at := time.Now()

	service.LogMaintenance("replaced valve", performer, at)

	assert.Len(t, service.MaintenanceHistory, 1)
	assert.Equal(t, "replaced valve", service.MaintenanceHistory[0].Description)
	assert.Equal(t, performer, service.MaintenanceHistory[0].PerformedBy)
	assert.Equal(t, at, *service.LastMaintenance)
	assert.Equal(t, at.Add(30*24*time.Hour), *service.NextMaintenance)
	assert.False(t, service.NeedsMaintenance())
}

func TestServiceEnums(t *testing.T) {
	assert.True(t, ServiceType("distribution").Valid())
	assert.True(t, ServiceType("water_treatment").Valid())
	assert.False(t, ServiceType("desalination").Valid())

	assert.True(t, ServiceStatus("operational").Valid())
	assert.True(t, ServiceStatus("out_of_service").Valid())
	assert.False(t, ServiceStatus("broken").Valid())
}
