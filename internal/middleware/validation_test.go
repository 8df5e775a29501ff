package middleware

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "8a7b4c9e-1d2f-4a3b-9c8d-7e6f5a4b3c2d", false},
		{"trims whitespace", "  8a7b4c9e-1d2f-4a3b-9c8d-7e6f5a4b3c2d  ", false},
		{"empty", "", true},
		{"not a uuid", "movie-42", true},
		{"sql injection", "a'; DROP--", true},
		{"too short", "8a7b4c9e", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateID(tt.input, "movieId")
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if !tt.wantErr && got != strings.TrimSpace(tt.input) {
				t.Errorf("got %q, want trimmed input", got)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "john_doe", "john_doe", false},
		{"valid with dash", "john-doe-42", "john-doe-42", false},
		{"trims whitespace", "  john  ", "john", false},
		{"empty", "", "", true},
		{"too short", "ab", "", true},
		{"exactly 32", strings.Repeat("a", 32), strings.Repeat("a", 32), false},
		{"too long", strings.Repeat("a", 33), "", true},
		{"invalid chars", "john doe", "", true},
		{"unicode", "joéhn", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUsername(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "correcthorse", false},
		{"exactly 8", "12345678", false},
		{"too short", "1234567", true},
		{"exactly 72", strings.Repeat("x", 72), false},
		{"too long", strings.Repeat("x", 73), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := ValidatePassword(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateGenres(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{"valid", []string{"Action", "Comedy"}, []string{"Action", "Comedy"}, false},
		{"trims labels", []string{" Action "}, []string{"Action"}, false},
		{"empty list ok", []string{}, []string{}, false},
		{"empty label", []string{"Action", ""}, nil, true},
		{"duplicates preserved", []string{"Action", "Action"}, []string{"Action", "Action"}, false},
		{"too many", make([]string, 21), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateGenres(tt.input)
			if tt.wantErr {
				if errMsg == "" {
					t.Errorf("expected error, got none")
				}
				return
			}
			if errMsg != "" {
				t.Fatalf("unexpected error: %s", errMsg)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d genres, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("genre %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	long := strings.Repeat("x", MaxCommentLen+100)
	got := ValidateComment(long)
	if len(got) != MaxCommentLen {
		t.Errorf("comment length = %d, want %d", len(got), MaxCommentLen)
	}
	if ValidateComment("  hi  ") != "hi" {
		t.Errorf("comment should be trimmed")
	}
}
