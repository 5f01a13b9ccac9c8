package sheets

import (
	"context"
	"testing"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

func TestTopCategory(t *testing.T) {
	tests := []struct {
		name       string
		byCategory map[string]core.Money
		expected   string
	}{
		{
			name:       "empty map",
			byCategory: nil,
			expected:   "-",
		},
		{
			name: "single category",
			byCategory: map[string]core.Money{
				"Food": {Cents: 100},
			},
			expected: "Food",
		},
		{
			name: "largest wins",
			byCategory: map[string]core.Money{
				"Food":      {Cents: 100},
				"Housing":   {Cents: 5000},
				"Transport": {Cents: 300},
			},
			expected: "Housing",
		},
		{
			name: "tie broken by name",
			byCategory: map[string]core.Money{
				"Transport": {Cents: 100},
				"Food":      {Cents: 100},
			},
			expected: "Food",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topCategory(tt.byCategory); got != tt.expected {
				t.Errorf("topCategory() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Error("New() should fail without a spreadsheet ID")
	}
	if _, err := New(context.Background(), Options{SpreadsheetID: "sheet-id"}); err == nil {
		t.Error("New() should fail without a sheet name")
	}
	if _, err := New(context.Background(), Options{SpreadsheetID: "sheet-id", SheetName: "Reports"}); err == nil {
		t.Error("New() should fail without credentials")
	}
}
