package testutil

import (
	"kairosconsole/internal/models"
)

// SampleClocks is the clock listing used across tests
func SampleClocks() []models.Relogio {
	return []models.Relogio{
		{RelogioNumero: 1, RelogioNome: "Portaria Principal"},
		{RelogioNumero: 2, RelogioNome: "Refeitório"},
		{RelogioNumero: 3, RelogioNome: "Galpão A"},
		{RelogioNumero: 4, RelogioNome: "Galpão B"},
	}
}

// SampleGroups references clock 99, which is never listed
func SampleGroups() models.ClockGroups {
	return models.ClockGroups{
		"Matriz":    {1, 2, 3},
		"Logística": {3, 4, 99},
	}
}

// SuccessResult creates a successful result with all three artifacts
func SuccessResult(overrides ...func(*models.Result)) *models.Result {
	badges := 3
	processed := 2
	result := &models.Result{
		Sucesso:         true,
		Mensagem:        "Processamento concluído.",
		SucessoFileName: "sucesso_lote.xlsx",
		FalhaFileName:   "falhas_lote.xlsx",
		LogFileName:     "log_falhas.pdf",
		Detalhes:        &models.Detalhes{CrachasProcessados: &badges},
		Processados:     &processed,
	}

	for _, override := range overrides {
		override(result)
	}

	return result
}
