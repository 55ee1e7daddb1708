package model

import "testing"

// Several models override gorm's derived table name; audit entries and raw
// joins reference these strings, so they must stay stable.
func TestTableNameOverrides(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{StudentProfile{}.TableName(), "student_profiles"},
		{University{}.TableName(), "universities"},
		{AdminLog{}.TableName(), "admin_logs"},
		{ApplicationUpdate{}.TableName(), "application_updates"},
		{CredentialDocument{}.TableName(), "credential_documents"},
		{JWTTokenBlacklist{}.TableName(), "jwt_token_blacklist"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("TableName() = %q, want %q", tt.got, tt.want)
		}
	}
}
