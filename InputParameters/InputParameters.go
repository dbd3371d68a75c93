package InputParameters

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type Parameters struct {
	Title           string  `yaml:"Title"`
	D               float64 `yaml:"D"`   // Diffusion coefficient
	Tau             float64 `yaml:"Tau"` // Decay timescale
	Jin             float64 `yaml:"Jin"` // Influx rate on the influx boundary
	Dt              float64 `yaml:"Dt"`
	FinalTime       float64 `yaml:"FinalTime"`
	InfluxTag       int     `yaml:"InfluxTag"` // Boundary region tag receiving Jin
	OutputPath      string  `yaml:"OutputPath"`
	SolverMethod    string  `yaml:"SolverMethod"` // "CG" or "Cholesky"
	SolverTol       float64 `yaml:"SolverTol"`
	MaxIterations   int     `yaml:"MaxIterations"`
	MaxProcs        int     `yaml:"MaxProcs"`
	RebuildEachStep bool    `yaml:"RebuildEachStep"`
	LogFrequency    int     `yaml:"LogFrequency"`
}

type ConfigurationError struct {
	Name  string
	Value float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration parameter %s must be positive, got %g", e.Name, e.Value)
}

func (ip *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate fails fast on non-positive physics parameters and fills the
// defaults for the optional ones.
func (ip *Parameters) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"D", ip.D},
		{"Tau", ip.Tau},
		{"Dt", ip.Dt},
		{"FinalTime", ip.FinalTime},
	}
	for _, check := range checks {
		if check.val <= 0 {
			return &ConfigurationError{check.name, check.val}
		}
	}
	if ip.InfluxTag == 0 {
		ip.InfluxTag = 30
	}
	if ip.SolverMethod == "" {
		ip.SolverMethod = "CG"
	}
	switch strings.ToUpper(ip.SolverMethod) {
	case "CG", "CHOLESKY":
	default:
		return &ConfigurationError{Name: "SolverMethod: " + ip.SolverMethod, Value: -1}
	}
	if ip.SolverTol <= 0 {
		ip.SolverTol = 1.e-9
	}
	if ip.MaxProcs <= 0 {
		ip.MaxProcs = runtime.NumCPU()
	}
	if ip.LogFrequency <= 0 {
		ip.LogFrequency = 1
	}
	return nil
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= D (diffusion coefficient)\n", ip.D)
	fmt.Printf("%8.5f\t\t= Tau (decay timescale)\n", ip.Tau)
	fmt.Printf("%8.5f\t\t= Jin (influx rate)\n", ip.Jin)
	fmt.Printf("%8.5f\t\t= Dt\n", ip.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d]\t\t\t= InfluxTag\n", ip.InfluxTag)
	fmt.Printf("[%s]\t\t\t= SolverMethod\n", ip.SolverMethod)
	fmt.Printf("%8.1e\t\t= SolverTol\n", ip.SolverTol)
	fmt.Printf("[%d]\t\t\t= MaxProcs\n", ip.MaxProcs)
}
