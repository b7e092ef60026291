package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/demand"
)

// detectScenario returns the first scenario file under the current
// directory, or the default path when there is none.
func detectScenario() string {
	files, err := demand.Discover(".", demand.DefaultPattern)
	if err != nil || len(files) == 0 {
		return DefaultConfig().SimulationFile
	}
	return files[0]
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to liftsim! Let's configure your building.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Algorithm.
	names := algo.Names()
	algoPrompt := promptui.Select{
		Label: "Select dispatch algorithm",
		Items: names,
	}
	_, algorithm, err := algoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("algorithm selection: %w", err)
	}
	cfg.Algorithm = algorithm

	// 2. Elevator.
	floor, err := promptNumber("Initial floor", strconv.Itoa(cfg.Elevator.InitialFloor), validateFloor)
	if err != nil {
		return nil, err
	}
	cfg.Elevator.InitialFloor = int(floor)

	timings := []struct {
		label    string
		target   *float64
		validate promptui.ValidateFunc
	}{
		{"Seconds to go up one floor", &cfg.Elevator.TimeToGoUpOneFloor, validatePositive},
		{"Seconds to go down one floor", &cfg.Elevator.TimeToGoDownOneFloor, validatePositive},
		{"Seconds to open doors", &cfg.Elevator.TimeToOpenDoors, validateNonNegative},
		{"Seconds to close doors", &cfg.Elevator.TimeToCloseDoors, validateNonNegative},
	}
	for _, t := range timings {
		v, err := promptNumber(t.label, strconv.FormatFloat(*t.target, 'f', -1, 64), t.validate)
		if err != nil {
			return nil, err
		}
		*t.target = v
	}

	// 3. Scenario.
	scenarioPrompt := promptui.Prompt{
		Label:   "Scenario file (CSV)",
		Default: detectScenario(),
	}
	cfg.SimulationFile, err = scenarioPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scenario file: %w", err)
	}

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for traces and results",
		Default: cfg.OutputDir,
	}
	cfg.OutputDir, err = outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func promptNumber(label, def string, validate promptui.ValidateFunc) (float64, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	s, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return strconv.ParseFloat(s, 64)
}

func validateFloor(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a whole number")
	}
	if n < 1 {
		return fmt.Errorf("floors start at 1")
	}
	return nil
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func validateNonNegative(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
