package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/bitfantasy/nimo-sign/internal/testutil"
	"gorm.io/gorm"
)

func seedContract(t *testing.T, db *gorm.DB, id, blueprintID, status string) {
	t.Helper()
	now := time.Now()
	err := db.Create(&entity.Contract{
		ID:          id,
		Name:        "contract " + id,
		BlueprintID: blueprintID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
	if err != nil {
		t.Fatalf("seed contract %s: %v", id, err)
	}
}

func TestContractListFiltersOrphans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	bp := &entity.Blueprint{ID: "bp1", Name: "B1"}
	if err := repos.Blueprint.Create(ctx, bp, nil); err != nil {
		t.Fatalf("create blueprint: %v", err)
	}

	seedContract(t, db, "c1", "bp1", entity.ContractStatusCreated)
	// Contract whose blueprint no longer exists
	seedContract(t, db, "c2", "bp-gone", entity.ContractStatusCreated)

	contracts, err := repos.Contract.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contracts) != 1 {
		t.Fatalf("Expected 1 contract, got %d", len(contracts))
	}
	if contracts[0].ID != "c1" {
		t.Errorf("Expected c1, got %s", contracts[0].ID)
	}
	if contracts[0].Blueprint == nil || contracts[0].Blueprint.ID != "bp1" {
		t.Error("Expected blueprint preloaded on listed contract")
	}
}

func TestContractListStatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	if err := repos.Blueprint.Create(ctx, &entity.Blueprint{ID: "bp1", Name: "B1"}, nil); err != nil {
		t.Fatalf("create blueprint: %v", err)
	}
	seedContract(t, db, "c1", "bp1", entity.ContractStatusCreated)
	seedContract(t, db, "c2", "bp1", entity.ContractStatusSent)
	seedContract(t, db, "c3", "bp1", entity.ContractStatusLocked)

	contracts, err := repos.Contract.List(ctx, []string{entity.ContractStatusSent, entity.ContractStatusLocked})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contracts) != 2 {
		t.Errorf("Expected 2 contracts, got %d", len(contracts))
	}
}

func TestContractUpdateStatusNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)

	err := repos.Contract.UpdateStatus(context.Background(), "missing", entity.ContractStatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestContractUpdateFieldValuesMissingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	if err := repos.Blueprint.Create(ctx, &entity.Blueprint{ID: "bp1", Name: "B1"}, nil); err != nil {
		t.Fatalf("create blueprint: %v", err)
	}
	seedContract(t, db, "c1", "bp1", entity.ContractStatusCreated)

	err := repos.Contract.UpdateFieldValues(ctx, "c1", map[string]string{"no-such-field": "v"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing value row, got %v", err)
	}
}

func TestContractCountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	if err := repos.Blueprint.Create(ctx, &entity.Blueprint{ID: "bp1", Name: "B1"}, nil); err != nil {
		t.Fatalf("create blueprint: %v", err)
	}
	seedContract(t, db, "c1", "bp1", entity.ContractStatusCreated)
	seedContract(t, db, "c2", "bp1", entity.ContractStatusCreated)
	seedContract(t, db, "c3", "bp1", entity.ContractStatusSigned)
	// Orphaned contract is excluded from counts as well
	seedContract(t, db, "c4", "bp-gone", entity.ContractStatusCreated)

	counts, err := repos.Contract.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[entity.ContractStatusCreated] != 2 {
		t.Errorf("Expected 2 created, got %d", counts[entity.ContractStatusCreated])
	}
	if counts[entity.ContractStatusSigned] != 1 {
		t.Errorf("Expected 1 signed, got %d", counts[entity.ContractStatusSigned])
	}
}
