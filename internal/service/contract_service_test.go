package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bitfantasy/nimo-sign/internal/model/entity"
	"github.com/bitfantasy/nimo-sign/internal/repository"
	"github.com/bitfantasy/nimo-sign/internal/testutil"
)

func setupContractTest(t *testing.T) (*ContractService, *BlueprintService) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewContractService(repos.Contract, repos.Blueprint),
		NewBlueprintService(repos.Blueprint)
}

func createTestBlueprint(t *testing.T, svc *BlueprintService) *entity.Blueprint {
	t.Helper()

	bp, err := svc.Create(context.Background(), &CreateBlueprintRequest{
		Name: "Service Agreement",
		Fields: []FieldInput{
			{FieldType: entity.FieldTypeText, Label: "Client", PositionY: 10},
			{FieldType: entity.FieldTypeCheckbox, Label: "Auto-renew", PositionY: 20},
			{FieldType: entity.FieldTypeSignature, Label: "Signature", PositionY: 30},
		},
	})
	if err != nil {
		t.Fatalf("Create blueprint failed: %v", err)
	}
	return bp
}

func TestContractCreateDefaults(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	contract, err := svc.Create(ctx, &CreateContractRequest{
		Name:        "Agreement #1",
		BlueprintID: bp.ID,
		Values:      map[string]string{bp.Fields[0].ID: "Globex"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if contract.Status != entity.ContractStatusCreated {
		t.Errorf("Expected status created, got %s", contract.Status)
	}
	if len(contract.FieldValues) != len(bp.Fields) {
		t.Fatalf("Expected one value per blueprint field, got %d", len(contract.FieldValues))
	}

	byField := make(map[string]string)
	for _, v := range contract.FieldValues {
		byField[v.BlueprintFieldID] = v.Value
	}
	if byField[bp.Fields[0].ID] != "Globex" {
		t.Errorf("Expected provided value Globex, got %q", byField[bp.Fields[0].ID])
	}
	if byField[bp.Fields[1].ID] != "false" {
		t.Errorf("Expected checkbox default false, got %q", byField[bp.Fields[1].ID])
	}
	if byField[bp.Fields[2].ID] != "" {
		t.Errorf("Expected signature default empty, got %q", byField[bp.Fields[2].ID])
	}
}

func TestContractCreateValidation(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	_, err := svc.Create(ctx, &CreateContractRequest{Name: " ", BlueprintID: bp.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Empty name: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Create(ctx, &CreateContractRequest{Name: "X", BlueprintID: "missing"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Unknown blueprint: expected ErrNotFound, got %v", err)
	}

	_, err = svc.Create(ctx, &CreateContractRequest{
		Name:        "X",
		BlueprintID: bp.ID,
		Values:      map[string]string{"not-a-field": "v"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Unknown field value: expected ErrInvalidInput, got %v", err)
	}
}

func TestContractGetDetail(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	contract, err := svc.Create(ctx, &CreateContractRequest{Name: "Detail", BlueprintID: bp.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	detail, err := svc.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Blueprint == nil || detail.Blueprint.ID != bp.ID {
		t.Error("Expected blueprint to be loaded on detail")
	}
	if len(detail.Fields) != 3 {
		t.Errorf("Expected 3 fields, got %d", len(detail.Fields))
	}
	if len(detail.Values) != 3 {
		t.Errorf("Expected 3 values, got %d", len(detail.Values))
	}
	if !detail.Editable {
		t.Error("Freshly created contract must be editable")
	}
	if len(detail.NextStatuses) != 2 {
		t.Errorf("Expected 2 next statuses from created, got %v", detail.NextStatuses)
	}
}

func TestContractUpdateFieldValues(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	contract, err := svc.Create(ctx, &CreateContractRequest{Name: "Editable", BlueprintID: bp.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	fieldID := bp.Fields[0].ID
	err = svc.UpdateFieldValues(ctx, contract.ID, &UpdateValuesRequest{
		Values: map[string]string{fieldID: "Initech"},
	})
	if err != nil {
		t.Fatalf("UpdateFieldValues failed: %v", err)
	}

	detail, err := svc.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Values[fieldID] != "Initech" {
		t.Errorf("Expected updated value Initech, got %q", detail.Values[fieldID])
	}

	// Empty payload and unknown field are rejected
	err = svc.UpdateFieldValues(ctx, contract.ID, &UpdateValuesRequest{Values: map[string]string{}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Empty values: expected ErrInvalidInput, got %v", err)
	}
	err = svc.UpdateFieldValues(ctx, contract.ID, &UpdateValuesRequest{
		Values: map[string]string{"nope": "v"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Unknown field: expected ErrInvalidInput, got %v", err)
	}
}

func TestContractUpdateValuesRejectedWhenTerminal(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	contract, err := svc.Create(ctx, &CreateContractRequest{Name: "Frozen", BlueprintID: bp.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fieldID := bp.Fields[0].ID

	if _, err := svc.Transition(ctx, contract.ID, entity.ContractStatusRevoked); err != nil {
		t.Fatalf("Transition to revoked failed: %v", err)
	}

	err = svc.UpdateFieldValues(ctx, contract.ID, &UpdateValuesRequest{
		Values: map[string]string{fieldID: "should not land"},
	})
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("Expected ErrNotEditable, got %v", err)
	}

	// The rejected write must not have touched the row
	detail, err := svc.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.Values[fieldID] != "" {
		t.Errorf("Value changed despite rejected update: %q", detail.Values[fieldID])
	}
}

func TestContractTransitionFlow(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	contract, err := svc.Create(ctx, &CreateContractRequest{Name: "Flow", BlueprintID: bp.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Skipping a step is rejected before any write
	if _, err := svc.Transition(ctx, contract.ID, entity.ContractStatusSigned); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("created -> signed: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Transition(ctx, contract.ID, "archived"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Unknown status: expected ErrInvalidInput, got %v", err)
	}

	for _, status := range []string{
		entity.ContractStatusApproved,
		entity.ContractStatusSent,
		entity.ContractStatusSigned,
		entity.ContractStatusLocked,
	} {
		updated, err := svc.Transition(ctx, contract.ID, status)
		if err != nil {
			t.Fatalf("Transition to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Expected status %s, got %s", status, updated.Status)
		}
	}

	// Terminal state admits nothing
	if _, err := svc.Transition(ctx, contract.ID, entity.ContractStatusRevoked); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("locked -> revoked: expected ErrInvalidTransition, got %v", err)
	}
}

func TestContractListFilter(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	mk := func(name string, transitions ...string) {
		c, err := svc.Create(ctx, &CreateContractRequest{Name: name, BlueprintID: bp.ID})
		if err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
		for _, status := range transitions {
			if _, err := svc.Transition(ctx, c.ID, status); err != nil {
				t.Fatalf("Transition %s to %s failed: %v", name, status, err)
			}
		}
	}

	mk("c-created")
	mk("c-approved", entity.ContractStatusApproved)
	mk("c-sent", entity.ContractStatusApproved, entity.ContractStatusSent)
	mk("c-signed", entity.ContractStatusApproved, entity.ContractStatusSent, entity.ContractStatusSigned)
	mk("c-locked", entity.ContractStatusApproved, entity.ContractStatusSent, entity.ContractStatusSigned, entity.ContractStatusLocked)
	mk("c-revoked", entity.ContractStatusRevoked)

	cases := []struct {
		filter string
		want   int
	}{
		{"", 6},
		{"all", 6},
		{"active", 2},
		{"pending", 1},
		{"signed", 2},
	}
	for _, tc := range cases {
		got, err := svc.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tc.filter, err)
		}
		if len(got) != tc.want {
			t.Errorf("List(%q): expected %d contracts, got %d", tc.filter, tc.want, len(got))
		}
	}

	if _, err := svc.List(ctx, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Unknown filter: expected ErrInvalidInput, got %v", err)
	}
}

func TestContractExport(t *testing.T) {
	svc, bpSvc := setupContractTest(t)
	ctx := context.Background()
	bp := createTestBlueprint(t, bpSvc)

	if _, err := svc.Create(ctx, &CreateContractRequest{Name: "Export Me", BlueprintID: bp.ID}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	f, filename, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	if !strings.HasPrefix(filename, "contracts-") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("Unexpected export filename: %s", filename)
	}

	header, err := f.GetCellValue("Contracts", "A1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if header != "Contract Name" {
		t.Errorf("Expected header 'Contract Name', got %q", header)
	}

	name, _ := f.GetCellValue("Contracts", "A2")
	if name != "Export Me" {
		t.Errorf("Expected first row name 'Export Me', got %q", name)
	}
	status, _ := f.GetCellValue("Contracts", "C2")
	if status != "Created" {
		t.Errorf("Expected status label 'Created', got %q", status)
	}
}
