package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zulvanavito/Plastira/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var pickupCSVHeader = []string{
	"id", "userName", "userEmail", "plasticType", "weightKg", "status",
	"pointsAwarded", "lat", "lng", "rejectionNote", "createdAt", "verifiedAt",
}

// WritePickupsCSV writes pickups with their owners as CSV, one row per pickup
func WritePickupsCSV(w io.Writer, pickups []*models.AdminPickup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pickupCSVHeader); err != nil {
		return err
	}
	for _, p := range pickups {
		var name, email, verifiedAt string
		if p.Owner != nil {
			name, email = p.Owner.Name, p.Owner.Email
		}
		if p.VerifiedAt != nil {
			verifiedAt = p.VerifiedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			p.ID.Hex(),
			name,
			email,
			p.PlasticType,
			strconv.FormatFloat(p.WeightKg, 'f', -1, 64),
			string(p.Status),
			strconv.Itoa(p.PointsAwarded),
			strconv.FormatFloat(p.Location.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Location.Lng, 'f', -1, 64),
			p.RejectionNote,
			p.CreatedAt.UTC().Format(time.RFC3339),
			verifiedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// VoucherImportRow is one parsed line of a voucher catalogue CSV
type VoucherImportRow struct {
	Line    int
	Voucher *models.Voucher
}

// ReadVouchersCSV parses a voucher catalogue with header
// name,description,pointsRequired[,stock][,imageUrl][,sponsoredBy].
// Rows that fail to parse are reported in errs and skipped.
func ReadVouchersCSV(r io.Reader) (rows []VoucherImportRow, errs []error, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"name", "description", "pointsRequired"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	line := 1
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, readErr))
			continue
		}

		v := &models.Voucher{
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Stock:       models.DefaultVoucherStock,
			IsActive:    true,
			ImageURL:    field(record, "imageUrl"),
		}
		if v.Name == "" || v.Description == "" {
			errs = append(errs, fmt.Errorf("line %d: name and description are required", line))
			continue
		}
		points, convErr := strconv.Atoi(field(record, "pointsRequired"))
		if convErr != nil || points <= 0 {
			errs = append(errs, fmt.Errorf("line %d: invalid pointsRequired", line))
			continue
		}
		v.PointsRequired = points
		if s := field(record, "stock"); s != "" {
			stock, convErr := strconv.Atoi(s)
			if convErr != nil || stock < 0 {
				errs = append(errs, fmt.Errorf("line %d: invalid stock", line))
				continue
			}
			v.Stock = stock
		}
		if s := field(record, "sponsoredBy"); s != "" {
			sponsor, convErr := primitive.ObjectIDFromHex(s)
			if convErr != nil {
				errs = append(errs, fmt.Errorf("line %d: invalid sponsoredBy", line))
				continue
			}
			v.SponsoredBy = &sponsor
		}
		rows = append(rows, VoucherImportRow{Line: line, Voucher: v})
	}
	return rows, errs, nil
}
