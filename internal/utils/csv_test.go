package utils

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWritePickupsCSV(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	verified := created.Add(time.Hour)
	p := &models.AdminPickup{
		Pickup: models.Pickup{
			ID:            primitive.NewObjectID(),
			PlasticType:   models.PlasticPET,
			WeightKg:      2.5,
			Location:      models.Location{Lat: -6.2, Lng: 106.8},
			Status:        models.PickupStatusVerified,
			PointsAwarded: 25,
			CreatedAt:     created,
			VerifiedAt:    &verified,
		},
		Owner: &models.UserSummary{Name: "Sari", Email: "sari@example.com"},
	}
	orphan := &models.AdminPickup{Pickup: models.Pickup{ID: primitive.NewObjectID(), Status: models.PickupStatusPending, CreatedAt: created}}

	var buf bytes.Buffer
	require.NoError(t, WritePickupsCSV(&buf, []*models.AdminPickup{p, orphan}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, pickupCSVHeader, records[0])
	assert.Equal(t, []string{
		p.ID.Hex(), "Sari", "sari@example.com", models.PlasticPET, "2.5", "Verified",
		"25", "-6.2", "106.8", "", "2024-05-01T08:00:00Z", "2024-05-01T09:00:00Z",
	}, records[1])
	assert.Equal(t, "", records[2][1])
	assert.Equal(t, "Pending", records[2][5])
}

func TestReadVouchersCSV(t *testing.T) {
	sponsor := primitive.NewObjectID()
	input := "name,description,pointsRequired,stock,sponsoredBy\n" +
		"Pulsa 10k,Pulsa semua operator,100,50," + sponsor.Hex() + "\n" +
		"Tumbler,Tumbler bambu,250,,\n" +
		",missing name,10,,\n" +
		"Bad,points,abc,,\n"

	rows, errs, err := ReadVouchersCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, errs, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Pulsa 10k", rows[0].Voucher.Name)
	assert.Equal(t, 50, rows[0].Voucher.Stock)
	assert.Equal(t, sponsor, *rows[0].Voucher.SponsoredBy)
	assert.True(t, rows[0].Voucher.IsActive)

	assert.Equal(t, models.DefaultVoucherStock, rows[1].Voucher.Stock)
	assert.Nil(t, rows[1].Voucher.SponsoredBy)
}

func TestReadVouchersCSV_MissingColumn(t *testing.T) {
	_, _, err := ReadVouchersCSV(strings.NewReader("name,description\nA,B\n"))
	assert.ErrorContains(t, err, "pointsRequired")
}
