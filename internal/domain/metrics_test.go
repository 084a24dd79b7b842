package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIValue_JSON(t *testing.T) {
	kpis := []KPI{
		{Indicator: "Clientes ativos", Value: TextValue("3/4"), Variation: 75},
		{Indicator: "Total investido", Value: AmountValue(155.5), Variation: 0},
	}

	data, err := json.Marshal(kpis)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"indicator":"Clientes ativos","value":"3/4","variation":75},
		{"indicator":"Total investido","value":155.5,"variation":0}
	]`, string(data))

	var decoded []KPI
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, kpis, decoded)
}
