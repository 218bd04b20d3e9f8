package repository

import (
	"errors"
	"testing"
	"time"

	"eco-route-go/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.Search{}, &model.SearchRoute{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSearch(id string, createdAt time.Time, kgs ...float64) *model.Search {
	s := &model.Search{
		ID:          id,
		Origin:      "New York",
		Destination: "Boston",
		Mode:        model.ModeDriving,
		VehicleType: "midsize",
		Waypoints:   "[]",
		RouteCount:  len(kgs),
		CreatedAt:   createdAt,
	}
	for i, kg := range kgs {
		s.Routes = append(s.Routes, model.SearchRoute{
			RouteIndex:        i,
			Summary:           "I-95",
			LegCount:          1,
			CarbonEmissionsKg: kg,
		})
	}
	return s
}

func TestCreateAndGetByID(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))

	search := newSearch("s-1", time.Now(), 2.5, 1.25, 4)
	// stored out of order so the preload has to sort them
	search.Routes[0], search.Routes[2] = search.Routes[2], search.Routes[0]
	if err := repo.Create(search); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID("s-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Origin != "New York" || got.RouteCount != 3 {
		t.Errorf("search = %+v", got)
	}
	if len(got.Routes) != 3 {
		t.Fatalf("routes = %d", len(got.Routes))
	}
	for i, r := range got.Routes {
		if r.RouteIndex != i || r.SearchID != "s-1" {
			t.Errorf("route %d = %+v", i, r)
		}
	}
	if got.Routes[1].CarbonEmissionsKg != 1.25 {
		t.Errorf("route 1 kg = %v", got.Routes[1].CarbonEmissionsKg)
	}
}

func TestCreateRollsBackOnDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSearchRepository(db)

	if err := repo.Create(newSearch("dup", time.Now(), 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(newSearch("dup", time.Now(), 1, 2)); err == nil {
		t.Fatal("expected a duplicate key error")
	}

	var routes int64
	if err := db.Model(&model.SearchRoute{}).Where("search_id = ?", "dup").Count(&routes).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if routes != 1 {
		t.Errorf("routes after failed create = %d, want 1", routes)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrSearchNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewSearchRepository(newTestDB(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(newSearch(id, base.Add(time.Duration(i)*time.Minute), 1, 2)); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	page, total, err := repo.List(1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("total=%d len=%d", total, len(page))
	}
	if page[0].ID != "c" || page[1].ID != "b" {
		t.Errorf("order = %s, %s", page[0].ID, page[1].ID)
	}
	if len(page[0].Routes) != 2 || page[0].Routes[0].RouteIndex != 0 {
		t.Errorf("routes = %+v", page[0].Routes)
	}

	page, _, err = repo.List(2, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page) != 1 || page[0].ID != "a" {
		t.Errorf("page 2 = %+v", page)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewSearchRepository(db)

	if err := repo.Create(newSearch("gone", time.Now(), 1, 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByID("gone"); !errors.Is(err, ErrSearchNotFound) {
		t.Errorf("GetByID after delete: %v", err)
	}
	var routes int64
	if err := db.Model(&model.SearchRoute{}).Where("search_id = ?", "gone").Count(&routes).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if routes != 0 {
		t.Errorf("routes left = %d", routes)
	}

	if err := repo.Delete("gone"); !errors.Is(err, ErrSearchNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
