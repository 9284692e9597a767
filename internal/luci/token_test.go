package luci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "token embedded in page",
			body: `<script>var request = { token: '0123456789abcdef0123456789abcdef' };</script>`,
			want: "0123456789abcdef0123456789abcdef",
		},
		{
			name: "first match wins",
			body: `token: 'aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa' token: 'bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb'`,
			want: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
		{
			name:    "no token in page",
			body:    "<html><body>Reboot</body></html>",
			wantErr: true,
		},
		{
			name:    "token too short",
			body:    `token: '0123456789abcdef'`,
			wantErr: true,
		},
		{
			name:    "uppercase hex does not match",
			body:    `token: '0123456789ABCDEF0123456789ABCDEF'`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := extractToken(tt.body)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
