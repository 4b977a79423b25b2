package main

import "testing"

func TestCheckImportTarget(t *testing.T) {
	tests := []struct {
		name       string
		importOnly bool
		dbPath     string
		wantErr    bool
	}{
		{"serve in memory", false, "", false},
		{"serve from file", false, "bikeflow.db", false},
		{"import to file", true, "bikeflow.db", false},
		{"import to memory", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkImportTarget(tt.importOnly, tt.dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkImportTarget(%v, %q) error = %v, wantErr %v", tt.importOnly, tt.dbPath, err, tt.wantErr)
			}
		})
	}
}
