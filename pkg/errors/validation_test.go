package errors

import "testing"

func TestValidateStruct(t *testing.T) {
	type request struct {
		Tier      string `validate:"omitempty,oneof=free pro"`
		Direction string `validate:"required,oneof=LR TB"`
		Width     int    `validate:"gt=0"`
	}
	tests := []struct {
		name    string
		input   request
		wantErr string
	}{
		{"valid", request{Tier: "pro", Direction: "LR", Width: 10}, ""},
		{"missing direction", request{Width: 10}, "direction is required"},
		{"bad tier", request{Tier: "gold", Direction: "TB", Width: 10}, "tier must be one of: free, pro"},
		{"zero width", request{Direction: "TB"}, "width must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v", err)
				}
				return
			}
			if !Is(err, ErrCodeInvalidInput) {
				t.Fatalf("ValidateStruct() = %v, want INVALID_INPUT", err)
			}
			if got := UserMessage(err); got != tt.wantErr {
				t.Errorf("message = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Flow: Checkout", false},
		{"unicode", "Flow: Anmeldung ü", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "a\x01b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "flow.svg", false},
		{"valid nested", "out/diagrams/flow.png", false},
		{"valid with dots", "v1.2.3/flow.pdf", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidDirection,
		ErrCodeInvalidEngine, ErrCodeInvalidDocument, ErrCodeInvalidPath,
		ErrCodeNotFound, ErrCodeEmptyFlow, ErrCodeTierLimit, ErrCodeFeatureGated,
		ErrCodeExportFailed, ErrCodeTimeout, ErrCodeInternal,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
