package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"VFDD_PORT":              "/dev/ttyACM0",
				"VFDD_UDP_PORT":          "6000",
				"VFDD_FRESH":             "0",
				"VFDD_BIND_ALL":          "true",
				"VFDD_UDP_ONLY":          "1",
				"VFDD_ROTATION_INTERVAL": "90s",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Device != "/dev/ttyACM0" || cfg.UDPPort != 6000 {
					t.Errorf("cfg = %+v", cfg)
				}
				if cfg.FreshSecs != 0 {
					t.Errorf("FreshSecs = %d, want 0", cfg.FreshSecs)
				}
				if !cfg.BindAll || !cfg.UDPOnly {
					t.Error("bool env vars not applied")
				}
				if cfg.RotationInterval != 90*time.Second {
					t.Errorf("RotationInterval = %v", cfg.RotationInterval)
				}
			},
		},
		{
			name:    "respects changed flags",
			envVars: map[string]string{"VFDD_PORT": "/dev/ttyACM0"},
			changed: map[string]bool{"port": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Device != DefaultDevice {
					t.Errorf("Device = %q, flag should win over env", cfg.Device)
				}
			},
		},
		{
			name:    "invalid int",
			envVars: map[string]string{"VFDD_UDP_PORT": "not-a-number"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "invalid duration",
			envVars: map[string]string{"VFDD_TICK_INTERVAL": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
