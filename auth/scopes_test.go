// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package auth_test

import (
	"slices"
	"testing"

	"github.com/pitlink/trackside-cloud/auth"
)

func TestScopesFromString(t *testing.T) {
	tests := []struct {
		name    string // description of this test case
		scopes  string
		want    auth.Scopes
		has     []auth.Scopes
		wantErr bool
	}{
		{
			name:    "Invalid resource",
			scopes:  "vehicle:read,commands:read",
			wantErr: true,
		},
		{
			name:    "Invalid scope",
			scopes:  "vehicles:read,commands:dispach",
			wantErr: true,
		},
		{
			name:    "Nonexistent scope",
			scopes:  "vehicles:read,diagnostics:delete",
			wantErr: true,
		},
		{
			name:   "Handle white space",
			scopes: "vehicles:read, commands:dispatch",
			want:   auth.ScopeVehiclesR | auth.ScopeCommandsDispatch,
			has:    []auth.Scopes{auth.ScopeVehiclesR, auth.ScopeCommandsR},
		},
		{
			name:   "Dispatch implies read",
			scopes: "commands:read, commands:dispatch",
			want:   auth.ScopeCommandsDispatch,
			has:    []auth.Scopes{auth.ScopeCommandsR, auth.ScopeCommandsDispatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := auth.ScopesFromString(tt.scopes)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("ScopesFromString() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("ScopesFromString() succeeded unexpectedly")
			}

			if got != tt.want {
				t.Errorf("ScopesFromString() = %v, want %v", got, tt.want)
			}

			for _, h := range tt.has {
				if !got.Has(h) {
					t.Errorf("ScopesFromString().Has(%v) = false, want true", h)
				}
			}
			if got.Has(auth.ScopeDiagnosticsR) {
				t.Errorf("ScopesFromString().Has(diagnostics:read) = true, want false")
			}
		})
	}
}

func TestScopes_ToSlice(t *testing.T) {
	tests := []struct {
		name   string // description of this test case
		scopes auth.Scopes
		want   []string
	}{
		{
			name:   "vehicles:read and diagnostics:read",
			scopes: auth.ScopeVehiclesR | auth.ScopeDiagnosticsR,
			want:   []string{"diagnostics:read", "vehicles:read"},
		},
		{
			name:   "dispatch hides the implied read",
			scopes: auth.ScopeCommandsDispatch | auth.ScopeDiagnosticsR,
			want:   []string{"commands:dispatch", "diagnostics:read"},
		},
		{
			name:   "read only",
			scopes: auth.ScopeCommandsR,
			want:   []string{"commands:read"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asSlice := tt.scopes.ToSlice()
			if !slices.Equal(asSlice, tt.want) {
				t.Fatalf("ToSlice() = %v, want %v", asSlice, tt.want)
			}

			got, err := auth.ScopesFromSlice(asSlice)
			if err != nil {
				t.Fatalf("ScopesFromSlice() failed: %v", err)
			}
			if got != tt.scopes {
				t.Errorf("ScopesFromSlice() = %v, want %v", got, tt.scopes)
			}
		})
	}
}
