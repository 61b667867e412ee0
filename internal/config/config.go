package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSim  = "sim"
	DriverGPIO = "gpio"

	// Disabled turns off a listener address.
	Disabled = "off"

	envPrefix = "SMARTLOCK_"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DeviceID string `env:"DEVICE_ID" envDefault:"door-001"`
	Driver   string `env:"DRIVER" envDefault:"sim"` // "sim" | "gpio"
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":9090"`

	// LogFile receives log output while the terminal panel owns the screen.
	LogFile string `env:"LOG_FILE" envDefault:"smartlock.log"`

	// Access
	Credential          string        `env:"CREDENTIAL" envDefault:"1234"`
	DistanceThresholdCM int           `env:"DISTANCE_THRESHOLD_CM" envDefault:"10"`
	UnlockHold          time.Duration `env:"UNLOCK_HOLD" envDefault:"5s"`
	AlarmHold           time.Duration `env:"ALARM_HOLD" envDefault:"2s"`
	ReadyHold           time.Duration `env:"READY_HOLD" envDefault:"2s"`
	PollInterval        time.Duration `env:"POLL_INTERVAL" envDefault:"5ms"`

	// Peripherals (periph.io pin names)
	TrigPin        string        `env:"TRIG_PIN" envDefault:"GPIO23"`
	EchoPin        string        `env:"ECHO_PIN" envDefault:"GPIO24"`
	EchoTimeout    time.Duration `env:"ECHO_TIMEOUT" envDefault:"1s"`
	RelayPin       string        `env:"RELAY_PIN" envDefault:"GPIO17"`
	RelayActiveLow bool          `env:"RELAY_ACTIVE_LOW" envDefault:"false"`
	BuzzerPin      string        `env:"BUZZER_PIN" envDefault:"GPIO27"`
	KeypadRowPins  []string      `env:"KEYPAD_ROW_PINS" envDefault:"GPIO5,GPIO6,GPIO13,GPIO19" envSeparator:","`
	KeypadColPins  []string      `env:"KEYPAD_COL_PINS" envDefault:"GPIO12,GPIO16,GPIO20" envSeparator:","`
	KeypadDebounce time.Duration `env:"KEYPAD_DEBOUNCE" envDefault:"10ms"`
	LCDRSPin       string        `env:"LCD_RS_PIN" envDefault:"GPIO25"`
	LCDENPin       string        `env:"LCD_EN_PIN" envDefault:"GPIO8"`
	LCDDataPins    []string      `env:"LCD_DATA_PINS" envDefault:"GPIO7,GPIO22,GPIO26,GPIO21" envSeparator:","`
}

// FromEnv reads SMARTLOCK_* variables from the process environment.
func FromEnv() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// FromMap reads SMARTLOCK_* keys from vars instead of the environment.
func FromMap(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(env.Options{Prefix: envPrefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.DeviceID = strings.TrimSpace(cfg.DeviceID)
	cfg.KeypadRowPins = trimAll(cfg.KeypadRowPins)
	cfg.KeypadColPins = trimAll(cfg.KeypadColPins)
	cfg.LCDDataPins = trimAll(cfg.LCDDataPins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks shapes and ranges. The credential's digit rule is enforced
// by the controller.
func (c Config) Validate() error {
	var errs []error
	if c.DeviceID == "" {
		errs = append(errs, errors.New("device id is required"))
	}
	if c.Driver != DriverSim && c.Driver != DriverGPIO {
		errs = append(errs, fmt.Errorf("driver %q must be %q or %q", c.Driver, DriverSim, DriverGPIO))
	}
	if c.DistanceThresholdCM <= 0 {
		errs = append(errs, errors.New("distance threshold must be positive"))
	}
	if c.UnlockHold <= 0 || c.AlarmHold <= 0 {
		errs = append(errs, errors.New("unlock and alarm holds must be positive"))
	}
	if c.ReadyHold < 0 {
		errs = append(errs, errors.New("ready hold must not be negative"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}
	if c.Driver == DriverGPIO {
		if len(c.KeypadRowPins) != 4 || len(c.KeypadColPins) != 3 {
			errs = append(errs, fmt.Errorf("keypad needs 4 row and 3 col pins, got %d and %d",
				len(c.KeypadRowPins), len(c.KeypadColPins)))
		}
		if len(c.LCDDataPins) != 4 {
			errs = append(errs, fmt.Errorf("lcd needs 4 data pins, got %d", len(c.LCDDataPins)))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) HTTPEnabled() bool { return enabled(c.HTTPAddr) }

func (c Config) GRPCEnabled() bool { return enabled(c.GRPCAddr) }

func enabled(addr string) bool {
	addr = strings.TrimSpace(addr)
	return addr != "" && !strings.EqualFold(addr, Disabled)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
