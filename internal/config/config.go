package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ClockTime is a wall-clock time of day, parsed from YAML as either
// "9:00 AM" or 24-hour "17:45".
type ClockTime struct {
	Hour   int
	Minute int
}

var meridiemPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// ParseClockTime parses "h:mm AM/PM" or "HH:MM" text.
func ParseClockTime(text string) (ClockTime, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ClockTime{}, fmt.Errorf("missing time")
	}

	if m := meridiemPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return ClockTime{}, fmt.Errorf("invalid time %q", text)
		}
		meridiem := strings.ToLower(m[3])
		if meridiem == "pm" && hour != 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		return ClockTime{Hour: hour, Minute: minute}, nil
	}

	if t, err := time.Parse("15:04", text); err == nil {
		return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
	}
	return ClockTime{}, fmt.Errorf("time %q must be like 9:00 AM", text)
}

func (c *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseClockTime(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// On anchors the clock time to the given day in that day's location.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// MinutesOfDay returns minutes since midnight, used for window-length checks.
func (c ClockTime) MinutesOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Judging holds the slot-grid and rescheduling parameters.
type Judging struct {
	JudgePairs   int       `yaml:"judge_pairs"`
	SlotMinutes  int       `yaml:"slot_minutes"`
	BlockMinutes int       `yaml:"block_minutes"`
	StartTime    ClockTime `yaml:"start_time"`
	EndTime      ClockTime `yaml:"end_time"`
}

// DurationMinutes is the judging-window length.
func (j Judging) DurationMinutes() int {
	return j.EndTime.MinutesOfDay() - j.StartTime.MinutesOfDay()
}

// DampingMinutes is the symmetric gap margin: half the configured block
// length, or zero when no block length is set.
func (j Judging) DampingMinutes() int {
	if j.BlockMinutes <= 0 {
		return 0
	}
	return j.BlockMinutes / 2
}

// Server holds the HTTP shell settings.
type Server struct {
	Listen      string `yaml:"listen"`
	DataPath    string `yaml:"data_path"`
	Environment string `yaml:"environment"`
}

type Config struct {
	Judging Judging `yaml:"judging"`
	Server  Server  `yaml:"server"`
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.DataPath == "" {
		c.Server.DataPath = "judgeslot.db"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "production"
	}
}

func (c *Config) validate() error {
	if c.Judging.JudgePairs < 1 {
		return fmt.Errorf("judge_pairs must be at least 1, got %d", c.Judging.JudgePairs)
	}
	if c.Judging.SlotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive, got %d", c.Judging.SlotMinutes)
	}
	if c.Judging.BlockMinutes < 0 {
		return fmt.Errorf("block_minutes must not be negative, got %d", c.Judging.BlockMinutes)
	}
	if c.Judging.DurationMinutes() <= 0 {
		return fmt.Errorf("judging end time %s must be after the start time %s",
			c.Judging.EndTime, c.Judging.StartTime)
	}
	return nil
}
