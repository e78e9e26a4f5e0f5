package diag

import "testing"

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexInfo, "LEX1000"},
		{LexUnclosedTag, "LEX1001"},
		{LexBadDelimiterTag, "LEX1002"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeTitleFallsBackToUnknown(t *testing.T) {
	if got := Code(1999).Title(); got != codeDescription[UnknownCode] {
		t.Errorf("Title for unregistered code = %q", got)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SevInfo, "INFO"},
		{SevWarning, "WARNING"},
		{SevError, "ERROR"},
		{Severity(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	if got := LexUnclosedTag.String(); got != "[LEX1001]: Unclosed tag" {
		t.Errorf("String() = %q", got)
	}
}
