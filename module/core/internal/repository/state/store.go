package state

import (
	"context"
	"errors"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// Store holds live vehicle state: created on the first fix for an unknown
// plate, overwritten on every later fix, removed only by an administrative
// delete.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	Put(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Vehicle, error)
}

// Observable is the optional capability of a store that can report updates.
// Callers that need it take it as an explicit second dependency chosen at
// construction, never discovered at runtime.
type Observable interface {
	Subscribe(fn func(domain.Vehicle)) (cancel func())
}
