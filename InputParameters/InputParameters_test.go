package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidate(t *testing.T) {
	data := []byte(`
Title: "Calcium influx"
D: 30.
Tau: 500.
Jin: 0.5
Dt: 100.
FinalTime: 1000.
`)
	ip := &Parameters{}
	require.NoError(t, ip.Parse(data))
	require.NoError(t, ip.Validate())
	assert.Equal(t, 30., ip.D)
	assert.Equal(t, 500., ip.Tau)
	assert.Equal(t, 0.5, ip.Jin)
	// Defaults filled by Validate
	assert.Equal(t, 30, ip.InfluxTag)
	assert.Equal(t, "CG", ip.SolverMethod)
	assert.Equal(t, 1.e-9, ip.SolverTol)
	assert.True(t, ip.MaxProcs > 0)
	assert.Equal(t, 1, ip.LogFrequency)
}

func TestValidateRejectsNonPositive(t *testing.T) {
	base := func() *Parameters {
		return &Parameters{D: 1, Tau: 1, Jin: 1, Dt: 1, FinalTime: 1}
	}
	for _, tc := range []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"D", func(ip *Parameters) { ip.D = 0 }},
		{"Tau", func(ip *Parameters) { ip.Tau = -1 }},
		{"Dt", func(ip *Parameters) { ip.Dt = 0 }},
		{"FinalTime", func(ip *Parameters) { ip.FinalTime = -5 }},
	} {
		ip := base()
		tc.mutate(ip)
		err := ip.Validate()
		require.Error(t, err, tc.name)
		var ce *ConfigurationError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, tc.name, ce.Name)
	}
	// Negative influx (outflux) is legal
	ip := base()
	ip.Jin = -1
	assert.NoError(t, ip.Validate())
	// Unknown solver method is not
	ip = base()
	ip.SolverMethod = "GMRES"
	assert.Error(t, ip.Validate())
}
