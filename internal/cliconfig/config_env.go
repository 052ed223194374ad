package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (VFDD_*). Env overrides file config but is overridden by flags
// (checked via the changed map). Returns an error if any variable has
// an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv("VFDD_PORT"), &cfg.Device)
	s.setString("file", os.Getenv("VFDD_FILE"), &cfg.DisplayFile)

	if err := s.setIntFromString("baud", os.Getenv("VFDD_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("udp-port", os.Getenv("VFDD_UDP_PORT"), &cfg.UDPPort); err != nil {
		return err
	}
	if err := s.setIntFromString("fresh", os.Getenv("VFDD_FRESH"), &cfg.FreshSecs); err != nil {
		return err
	}

	if err := s.setDuration("tick-interval", os.Getenv("VFDD_TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("rotation-interval", os.Getenv("VFDD_ROTATION_INTERVAL"), &cfg.RotationInterval); err != nil {
		return err
	}
	if err := s.setDuration("interrupt-window", os.Getenv("VFDD_INTERRUPT_WINDOW"), &cfg.InterruptWindow); err != nil {
		return err
	}

	s.setBoolFromString("bind-all", os.Getenv("VFDD_BIND_ALL"), &cfg.BindAll)
	s.setBoolFromString("udp-only", os.Getenv("VFDD_UDP_ONLY"), &cfg.UDPOnly)

	return nil
}
