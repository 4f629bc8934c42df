package store

import (
	"testing"
	"time"
)

func TestShoppingCheckAndClear(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "SHP123")
	shopping := NewShoppingStore(db)

	list, err := shopping.CreateList(household.ID, nil, "Veckohandling")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	milk, err := shopping.AddItem(list.ID, "Mjölk", "2 l", "Mejeri")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := shopping.AddItem(list.ID, "Bröd", "", "Bröd"); err != nil {
		t.Fatalf("add item: %v", err)
	}

	now := time.Now().UTC()
	checked, err := shopping.SetChecked(milk.ID, true, now)
	if err != nil {
		t.Fatalf("check item: %v", err)
	}
	if !checked.Checked || checked.CheckedAt == nil {
		t.Errorf("check not recorded: %+v", checked)
	}

	removed, err := shopping.ClearChecked(list.ID)
	if err != nil {
		t.Fatalf("clear checked: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d items, want 1", removed)
	}

	items, err := shopping.ListItems(list.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Bröd" {
		t.Fatalf("expected only the unchecked item, got %v", items)
	}
}

func TestShoppingUncheckClearsTimestamp(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "SHP456")
	shopping := NewShoppingStore(db)

	list, err := shopping.CreateList(household.ID, nil, "Lista")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	item, err := shopping.AddItem(list.ID, "Smör", "", "Mejeri")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	now := time.Now().UTC()
	if _, err := shopping.SetChecked(item.ID, true, now); err != nil {
		t.Fatalf("check: %v", err)
	}
	unchecked, err := shopping.SetChecked(item.ID, false, now)
	if err != nil {
		t.Fatalf("uncheck: %v", err)
	}
	if unchecked.Checked || unchecked.CheckedAt != nil {
		t.Errorf("uncheck should reset state: %+v", unchecked)
	}
}

func TestShoppingDeleteListCascades(t *testing.T) {
	db := testDB(t)
	household := createHousehold(t, db, "SHP789")
	shopping := NewShoppingStore(db)

	list, err := shopping.CreateList(household.ID, nil, "Kalas")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	item, err := shopping.AddItem(list.ID, "Ballonger", "20 st", "Övrigt")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if err := shopping.DeleteList(list.ID, household.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err := shopping.GetItem(item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Fatal("items should be removed with their list")
	}
}
