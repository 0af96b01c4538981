package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLaunchRequest(t *testing.T) {
	req := ParseLaunchRequest(" 192.0.2.1 ", "53", " 60 ", " dns ")
	assert.Equal(t, LaunchRequest{Target: "192.0.2.1", Port: 53, DurationSeconds: 60, Method: "dns"}, req)
	require.NoError(t, req.Validate())

	bad := ParseLaunchRequest("host", "http", "-5", "udp")
	assert.Equal(t, 0, bad.Port)
	assert.Equal(t, 0, bad.DurationSeconds)
}

func TestLaunchRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  LaunchRequest
		want []string
	}{
		{name: "all missing", req: LaunchRequest{}, want: []string{"target is required", "port must be between 1 and 65535", "duration must be a positive number of seconds", "method is required"}},
		{name: "blank target", req: LaunchRequest{Target: "  ", Port: 1, DurationSeconds: 1, Method: "dns"}, want: []string{"target is required"}},
		{name: "port too high", req: LaunchRequest{Target: "h", Port: 65536, DurationSeconds: 1, Method: "dns"}, want: []string{"port must be between 1 and 65535"}},
		{name: "port upper bound", req: LaunchRequest{Target: "h", Port: 65535, DurationSeconds: 1, Method: "dns"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.want) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.want {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
