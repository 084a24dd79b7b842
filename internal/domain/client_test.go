package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid client should pass",
			client:  Client{ID: uuid.New(), Name: "Aurora Capital", Email: "aurora@clients.com", IsActive: true},
			wantErr: false,
		},
		{
			name:    "Blank name should fail",
			client:  Client{ID: uuid.New(), Name: "   ", Email: "aurora@clients.com"},
			wantErr: true,
			errMsg:  "client name cannot be empty",
		},
		{
			name:    "Long name should fail",
			client:  Client{ID: uuid.New(), Name: strings.Repeat("a", 256), Email: "aurora@clients.com"},
			wantErr: true,
			errMsg:  "client name must have at most 255 characters",
		},
		{
			name:    "Accented name of 130 characters should pass",
			client:  Client{ID: uuid.New(), Name: strings.Repeat("ã", 130), Email: "aurora@clients.com"},
			wantErr: false,
		},
		{
			name:    "Missing email should fail",
			client:  Client{ID: uuid.New(), Name: "Aurora Capital"},
			wantErr: true,
			errMsg:  "client email cannot be empty",
		},
		{
			name:    "Malformed email should fail",
			client:  Client{ID: uuid.New(), Name: "Aurora Capital", Email: "not-an-email"},
			wantErr: true,
			errMsg:  "client email is invalid",
		},
		{
			name:    "Display name address should fail",
			client:  Client{ID: uuid.New(), Name: "Aurora Capital", Email: "Aurora <aurora@clients.com>"},
			wantErr: true,
			errMsg:  "client email is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
