package validation

import (
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty email",
			email:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			email:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "longenough", wantErr: false},
		{name: "exactly eight characters", password: "12345678", wantErr: false},
		{name: "too short", password: "1234567", wantErr: true},
		{name: "empty password", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{name: "valid name", displayName: "Alex", wantErr: false},
		{name: "two characters", displayName: "Jo", wantErr: false},
		{name: "one character", displayName: "J", wantErr: true},
		{name: "empty", displayName: "", wantErr: true},
		{name: "whitespace only", displayName: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.displayName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateOfBirth(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dob     time.Time
		wantErr bool
	}{
		{name: "valid dob", dob: now.AddDate(-2, 0, 0), wantErr: false},
		{name: "today", dob: now, wantErr: false},
		{name: "future dob", dob: now.AddDate(0, 0, 1), wantErr: true},
		{name: "zero dob", dob: time.Time{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateOfBirth(tt.dob, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDateOfBirth() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
