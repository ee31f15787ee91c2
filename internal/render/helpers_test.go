package render

import (
	"context"

	"kairosconsole/internal/models"
)

type fixedLister struct {
	clocks []models.Relogio
}

func (f *fixedLister) ListClocks(ctx context.Context) ([]models.Relogio, error) {
	return f.clocks, nil
}
