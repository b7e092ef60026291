package config

import "github.com/ziadkadry99/liftsim/internal/elevator"

// Config is the top-level liftsim configuration, corresponding to .liftsim.yml.
type Config struct {
	Elevator       ElevatorConfig `yaml:"elevator" koanf:"elevator"`
	Algorithm      string         `yaml:"algorithm" koanf:"algorithm"`
	SimulationFile string         `yaml:"simulation_file" koanf:"simulation_file"`
	OutputDir      string         `yaml:"output_dir" koanf:"output_dir"`
	MaxConcurrency int            `yaml:"max_concurrency" koanf:"max_concurrency"`
	Server         ServerConfig   `yaml:"server" koanf:"server"`
	Viewer         ViewerConfig   `yaml:"viewer" koanf:"viewer"`
}

// ElevatorConfig holds the car's starting floor and timings in seconds.
type ElevatorConfig struct {
	InitialFloor         int     `yaml:"initial_floor" koanf:"initial_floor"`
	TimeToGoUpOneFloor   float64 `yaml:"time_to_go_up_one_floor" koanf:"time_to_go_up_one_floor"`
	TimeToGoDownOneFloor float64 `yaml:"time_to_go_down_one_floor" koanf:"time_to_go_down_one_floor"`
	TimeToOpenDoors      float64 `yaml:"time_to_open_doors" koanf:"time_to_open_doors"`
	TimeToCloseDoors     float64 `yaml:"time_to_close_doors" koanf:"time_to_close_doors"`
}

// ServerConfig holds settings for `liftsim server` and `liftsim replay`.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ViewerConfig holds settings for the browser replay.
type ViewerConfig struct {
	FloorsPerSecond float64 `yaml:"floors_per_second" koanf:"floors_per_second"`
}

// Kinematics converts the file representation into the simulator's config.
func (e ElevatorConfig) Kinematics() elevator.Config {
	return elevator.Config{
		InitialFloor:   e.InitialFloor,
		SecondsPerUp:   e.TimeToGoUpOneFloor,
		SecondsPerDown: e.TimeToGoDownOneFloor,
		DoorOpenTime:   e.TimeToOpenDoors,
		DoorCloseTime:  e.TimeToCloseDoors,
	}
}
