package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

func sampleCustomers(n int) []*models.CustomerRecord {
	out := make([]*models.CustomerRecord, n)
	for i := range out {
		out[i] = &models.CustomerRecord{
			ID:        uuid.New(),
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha.rao.with.a.rather.long.mailbox.name@example.com",
			Country:   "India",
			City:      "Mysuru",
			Interests: []string{"veg", "thin crust"},
		}
	}
	return out
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleCustomers(2)); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][1] != "Asha" || rows[1][12] != "veg;thin crust" {
		t.Errorf("unexpected rows: %v", rows[:2])
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	// enough rows to spill onto a second page
	if err := PDF(&buf, sampleCustomers(60), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if err := Render(&bytes.Buffer{}, "xls", nil, time.Now()); err == nil {
		t.Error("Render() should reject unknown formats")
	}
}

func TestFit(t *testing.T) {
	if got := fit("short", 40); got != "short" {
		t.Errorf("fit() = %q", got)
	}
	if got := fit(strings.Repeat("x", 100), 20); len(got) != 12 || !strings.HasSuffix(got, "...") {
		t.Errorf("fit() = %q", got)
	}
}
