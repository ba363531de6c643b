//go:build !cgo && !windows

package menu

import (
	"context"

	"github.com/rs/zerolog"
)

type stubController struct{}

func newTrayController(zerolog.Logger, func()) trayController {
	return stubController{}
}

func (stubController) Run(context.Context, <-chan UpdatePayload) error {
	return ErrTrayUnavailable
}
