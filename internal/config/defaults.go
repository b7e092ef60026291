package config

// DefaultPath is where `liftsim init` writes and every command reads.
const DefaultPath = ".liftsim.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Elevator: ElevatorConfig{
			InitialFloor:         1,
			TimeToGoUpOneFloor:   3,
			TimeToGoDownOneFloor: 2,
			TimeToOpenDoors:      2,
			TimeToCloseDoors:     2,
		},
		Algorithm:      "knuth",
		SimulationFile: "scenarios/small_office.csv",
		OutputDir:      ".liftsim",
		MaxConcurrency: 4,
		Server: ServerConfig{
			Port: 8080,
		},
		Viewer: ViewerConfig{
			FloorsPerSecond: 10,
		},
	}
}
