package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one controller: the kiosk and the alarm unit
// share the file layout and each reads the sections it needs.
type Config struct {
	// Transport selects the pub/sub broker that links the two controllers.
	Transport Transport `yaml:"transport"`
	// Log controls verbosity and the optional rotating log file.
	Log Log `yaml:"log"`
	// Hardware describes the serial link to the pin bridge.
	Hardware Hardware `yaml:"hardware"`
	// Kiosk holds the menu and the encoder wiring of the order kiosk.
	Kiosk Kiosk `yaml:"kiosk"`
	// Alarm holds the wiring and status API address of the alarm unit.
	Alarm Alarm `yaml:"alarm"`
}

// Transport configures the message channel.
type Transport struct {
	// Kind is either "nats" or "mqtt".
	Kind string `yaml:"kind"`
	// URL is the broker address, e.g. nats://127.0.0.1:4222 or tcp://broker.emqx.io:1883.
	URL string `yaml:"url"`
	// Topic is the subject orders are published to.
	Topic string `yaml:"topic"`
	// ClientID prefixes the broker client identifier; a random suffix is appended.
	ClientID string `yaml:"client_id"`
	// Timeout bounds connect and publish calls.
	Timeout time.Duration `yaml:"timeout"`
}

// Log configures the logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File enables a rotating JSON log file when set.
	File string `yaml:"file"`
	// MaxSizeMB is the rotation threshold.
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups"`
	// MaxAgeDays is the retention of rotated files.
	MaxAgeDays int `yaml:"max_age_days"`
}

// Hardware configures the serial pin bridge.
type Hardware struct {
	// SerialPort is the device path of the bridge, e.g. /dev/ttyACM0.
	SerialPort string `yaml:"serial_port"`
	// Baud is the serial line speed.
	Baud int `yaml:"baud"`
	// ActiveLowSegments inverts digit and segment lines (common anode displays).
	ActiveLowSegments bool `yaml:"active_low_segments"`
}

// MenuItem is one orderable product with its price as a decimal string.
type MenuItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

// Kiosk configures the order kiosk.
type Kiosk struct {
	// Menu lists the orderable products in display order.
	Menu []MenuItem `yaml:"menu"`
	// Currency is printed after every price.
	Currency string `yaml:"currency"`
	// CLKPin, DTPin and SWPin are the rotary encoder lines.
	CLKPin int `yaml:"clk_pin"`
	DTPin  int `yaml:"dt_pin"`
	SWPin  int `yaml:"sw_pin"`
}

// Alarm configures the countdown/alarm unit.
type Alarm struct {
	// StatusAddress is the listen address of the gRPC status API; empty disables it.
	StatusAddress string `yaml:"status_address"`
	// ButtonPin is the dismissal button line (rising edge interrupt).
	ButtonPin int `yaml:"button_pin"`
	// BuzzerPin is the PWM line driving the piezo buzzer.
	BuzzerPin int `yaml:"buzzer_pin"`
	// SegmentPins are the A..DP segment lines.
	SegmentPins []int `yaml:"segment_pins"`
	// DigitPins are the D1..D4 digit select lines.
	DigitPins []int `yaml:"digit_pins"`
	// LEDPins are the alert indicator lines.
	LEDPins []int `yaml:"led_pins"`
}

const (
	// DefaultConfigFilename is the default filename for controller settings.
	DefaultConfigFilename = "order-kiosk-settings.yaml"

	// DefaultTimeout is the default duration for broker operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// DefaultTopic is the subject orders travel on.
	DefaultTopic = "kiosk.orders"

	// DefaultBaud is the pin bridge line speed.
	DefaultBaud = 115200

	// DefaultCurrency is appended to prices on screen.
	DefaultCurrency = "KM"

	// TransportNATS selects the NATS broker.
	TransportNATS = "nats"
	// TransportMQTT selects an MQTT broker.
	TransportMQTT = "mqtt"

	segmentCount = 8
	digitCount   = 4
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownTransport is returned for an unsupported transport kind.
	errUnknownTransport = errors.New("unknown transport kind")
	// errBrokerURLRequired is returned when the broker address is missing.
	errBrokerURLRequired = errors.New("broker url must be provided")
	// errBadMenuItem is returned for a menu entry without name or with a bad price.
	errBadMenuItem = errors.New("invalid menu item")
	// errBadWiring is returned when the alarm unit line lists have the wrong length.
	errBadWiring = errors.New("invalid alarm unit wiring")
)

// DefaultMenu returns the products the kiosk offers when the file lists none.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Name: "Pizza", Price: "5"},
		{Name: "Sendvic", Price: "3.5"},
		{Name: "Sok", Price: "2"},
		{Name: "Kolac", Price: "2.5"},
	}
}

// Default returns a configuration wired like the reference hardware.
func Default() *Config {
	cfg := &Config{
		Transport: Transport{
			Kind: TransportNATS,
			URL:  "nats://127.0.0.1:4222",
		},
	}

	// Validate only fills defaults here and cannot fail.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file may carry broker credentials in the URL.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills defaults for omitted fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validateTransport(&cfg.Transport); err != nil {
		return err
	}

	if cfg.Hardware.Baud <= 0 {
		cfg.Hardware.Baud = DefaultBaud
	}

	if err := validateKiosk(&cfg.Kiosk); err != nil {
		return err
	}

	return validateAlarm(&cfg.Alarm)
}

func validateTransport(t *Transport) error {
	t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
	if t.Kind == "" {
		t.Kind = TransportNATS
	}

	if t.Kind != TransportNATS && t.Kind != TransportMQTT {
		return fmt.Errorf("%w: %q", errUnknownTransport, t.Kind)
	}

	if t.URL == "" {
		return errBrokerURLRequired
	}

	if t.Topic == "" {
		t.Topic = DefaultTopic
	}

	if t.ClientID == "" {
		t.ClientID = "order-kiosk"
	}

	if t.Timeout <= 0 {
		t.Timeout = DefaultTimeout
	}

	return nil
}

func validateKiosk(k *Kiosk) error {
	if len(k.Menu) == 0 {
		k.Menu = DefaultMenu()
	}

	if k.Currency == "" {
		k.Currency = DefaultCurrency
	}

	// Zero pins are valid wiring (the reference kiosk uses GP0..GP2), so
	// only a fully unset triple is defaulted.
	if k.CLKPin == 0 && k.DTPin == 0 && k.SWPin == 0 {
		k.CLKPin, k.DTPin, k.SWPin = 0, 1, 2
	}

	for i, item := range k.Menu {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: entry %d has no name", errBadMenuItem, i)
		}

		// Orders travel as comma separated names.
		if strings.Contains(item.Name, ",") {
			return fmt.Errorf("%w: name %q contains a comma", errBadMenuItem, item.Name)
		}

		if _, err := decimal.NewFromString(item.Price); err != nil {
			return fmt.Errorf("%w: %q price %q: %w", errBadMenuItem, item.Name, item.Price, err)
		}
	}

	return nil
}

func validateAlarm(a *Alarm) error {
	if a.StatusAddress != "" {
		if _, _, err := net.SplitHostPort(a.StatusAddress); err != nil {
			return fmt.Errorf("invalid status address: %w", err)
		}
	}

	if a.BuzzerPin == 0 {
		a.BuzzerPin = 16
	}

	if len(a.SegmentPins) == 0 {
		a.SegmentPins = []int{8, 9, 10, 11, 12, 13, 14, 15}
	}

	if len(a.DigitPins) == 0 {
		a.DigitPins = []int{4, 5, 6, 7}
	}

	if len(a.LEDPins) == 0 {
		a.LEDPins = []int{4, 5, 6, 7, 8, 9, 10, 11}
	}

	if len(a.SegmentPins) != segmentCount {
		return fmt.Errorf("%w: want %d segment pins, got %d", errBadWiring, segmentCount, len(a.SegmentPins))
	}

	if len(a.DigitPins) != digitCount {
		return fmt.Errorf("%w: want %d digit pins, got %d", errBadWiring, digitCount, len(a.DigitPins))
	}

	return nil
}
