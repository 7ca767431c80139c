package storewire_test

import (
	"encoding/json"
	"testing"
	"time"

	"shopdispatch/internal/adapters/out/storewire"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipment_ToDomain(t *testing.T) {
	t.Run("maps every field", func(t *testing.T) {
		// Given
		payload := `{
			"id": "42", "status": "assigned", "price": 120,
			"admin_location": {"lat": 12.97, "lng": 77.59},
			"customer_name": "Asha", "customer_mobile": "98450", "customer_address": "MG Road",
			"customer_location": {"lat": 12.98, "lng": 77.6},
			"accepted_rider_id": "r1", "has_issue": true,
			"created_at": "2026-03-01T12:00:00Z", "updated_at": "2026-03-01T12:05:00Z"
		}`
		var dto storewire.Shipment
		require.NoError(t, json.Unmarshal([]byte(payload), &dto))

		// When
		s, err := dto.ToDomain()

		// Then
		require.NoError(t, err)
		assert.Equal(t, shipment.Assigned, s.Status())
		assert.Equal(t, "Asha", s.Customer().Name)
		require.NotNil(t, s.AcceptedRiderID())
		assert.Equal(t, "r1", s.AcceptedRiderID().String())
		require.NotNil(t, s.AdminLocation())
		assert.InDelta(t, 12.97, s.AdminLocation().Lat(), 1e-9)
		assert.True(t, s.IssueFlagged())
	})

	t.Run("unknown status is kept as unknown", func(t *testing.T) {
		s, err := storewire.Shipment{ID: "42", Status: "teleported"}.ToDomain()

		require.NoError(t, err)
		assert.Equal(t, shipment.Unknown, s.Status())
	})

	t.Run("empty accepted rider means none", func(t *testing.T) {
		blank := ""
		s, err := storewire.Shipment{ID: "42", Status: "pending", AcceptedRiderID: &blank}.ToDomain()

		require.NoError(t, err)
		assert.Nil(t, s.AcceptedRiderID())
	})
}

func TestIssue_ToDomain(t *testing.T) {
	action := "redeliver"
	message := "try again after 6pm"
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	i, err := storewire.Issue{
		ID: "i1", ShipmentID: "42", IssueType: "customer_unreachable", ReportedAt: at,
		AdminResponse: &action, AdminMessage: &message, AdminRespondedAt: &at,
		Status: "admin_responded",
	}.ToDomain()

	require.NoError(t, err)
	assert.Equal(t, issue.AdminResponded, i.Status())
	require.NotNil(t, i.AdminResponse())
	assert.Equal(t, issue.ActionRedeliver, *i.AdminResponse())
}

func TestDecodePosition(t *testing.T) {
	t.Run("stamped payload", func(t *testing.T) {
		p, err := storewire.DecodePosition([]byte(
			`{"rider_id":"r1","lat":12.97,"lng":77.59,"status":"in_transit","heading":90,"updated_at":"2026-03-01T12:00:00Z"}`,
		))

		require.NoError(t, err)
		assert.Equal(t, rider.StatusInTransit, p.Status())
		assert.True(t, p.HasTimestamp())
		require.NotNil(t, p.Heading())
		assert.InDelta(t, 90.0, *p.Heading(), 1e-9)
	})

	t.Run("missing timestamp leaves the record unstamped", func(t *testing.T) {
		p, err := storewire.DecodePosition([]byte(`{"rider_id":"r1","lat":1,"lng":2,"status":"available"}`))

		require.NoError(t, err)
		assert.False(t, p.HasTimestamp())
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		_, err := storewire.DecodePosition([]byte(`{not json`))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestToDomain(t *testing.T) {
	dtos := []storewire.Shipment{
		{ID: "1", Status: "pending"},
		{ID: "", Status: "pending"},
		{ID: "3", Status: "assigned"},
	}

	items, rejected := storewire.ToDomain[*shipment.Shipment]("shipments", dtos)

	require.Len(t, items, 2)
	assert.Equal(t, "3", items[1].ID().String())
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], errs.ErrDataIntegrity)
	assert.Contains(t, rejected[0].Error(), "record 1 rejected")
}
