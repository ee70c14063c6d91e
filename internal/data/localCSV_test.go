package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTable(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

var wideFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
var wideTo = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

func TestCSVSortsAndStampsExpiry(t *testing.T) {
	// rows deliberately out of order
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice
2024-06-05,102,5.5,4.5,0.5,0.5,102.1
2024-06-03,100,5,5,0.5,0.5,100.1
2024-06-04,101,5.2,4.8,0.5,0.5,101.1
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	rows, err := prov.GetRows(wideFrom, wideTo)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Date.Before(rows[i].Date) {
			t.Fatalf("rows not ascending: %s then %s", rows[i-1].Date, rows[i].Date)
		}
	}

	// last Friday of June 2024
	wantExpiry := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	for _, r := range rows {
		if !r.Expiry.Equal(wantExpiry) {
			t.Errorf("expiry: got %s, want %s", r.Expiry, wantExpiry)
		}
	}
	if rows[0].DaysToExpiry != 25 {
		t.Errorf("days to expiry: got %d, want 25", rows[0].DaysToExpiry)
	}
	if rows[0].SpotPrice != 100 || rows[0].PerpPrice != 100.1 {
		t.Errorf("first row misparsed: %+v", rows[0])
	}
}

func TestCSVExplicitExpiryColumn(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice,Expiry
2024-06-03,100,5,5,0.5,0.5,100.1,2024-06-21
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	rows, err := prov.GetRows(wideFrom, wideTo)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if !rows[0].Expiry.Equal(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("table expiry must win over the rule: %s", rows[0].Expiry)
	}
	if rows[0].DaysToExpiry != 18 {
		t.Errorf("days to expiry: got %d, want 18", rows[0].DaysToExpiry)
	}
}

func TestCSVWindowFilter(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice
2024-06-03,100,5,5,0.5,0.5,100.1
2024-07-01,110,6,4,0.5,0.5,110.1
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	rows, err := prov.GetRows(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Date.Month() != time.June {
		t.Fatalf("window filter failed: %+v", rows)
	}
}

func TestCSVMissingColumn(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV
2024-06-03,100,5,5,0.5,0.5
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	if _, err := prov.GetRows(wideFrom, wideTo); err == nil {
		t.Fatal("expected error for missing PerpPrice column")
	}
}

func TestCSVBadValue(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice
2024-06-03,not-a-number,5,5,0.5,0.5,100.1
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	if _, err := prov.GetRows(wideFrom, wideTo); err == nil {
		t.Fatal("expected error for non-numeric spot")
	}
}

func TestCSVNegativePrice(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice
2024-06-03,100,-5,5,0.5,0.5,100.1
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	if _, err := prov.GetRows(wideFrom, wideTo); err == nil {
		t.Fatal("expected error for negative call price")
	}
}

func TestCSVEmptyTable(t *testing.T) {
	path := writeTable(t, `Date,SpotPrice,CallPrice,PutPrice,CallIV,PutIV,PerpPrice
`)
	prov := NewLocalCSVProvider(path, LastFridayRule, nil)
	_, err := prov.GetRows(wideFrom, wideTo)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestCSVFallsBackToSecondary(t *testing.T) {
	secondary := NewSyntheticProvider(1, 100, 0.5, LastFridayRule)
	prov := NewLocalCSVProvider(filepath.Join(t.TempDir(), "missing.csv"), LastFridayRule, secondary)

	rows, err := prov.GetRows(
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected secondary to serve rows, got %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("secondary returned no rows")
	}
	if prov.Secondary() != secondary {
		t.Error("secondary accessor broken")
	}
}
