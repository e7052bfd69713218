package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/storage/storage.go
//   type Preferences struct {
// 		 ...
//       Colormap   string	`yaml:"colormap" validate:"colormap"`
//       InstallID  string	`yaml:"install_id,omitempty" validate:"omitempty,uuid4"`
//   }
//
// This allows for consistent validation of colormap names and uuid4 tags.

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ensigniasec/fitsview/internal/colormap"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Built-in tags include: uuid4, filepath, gte, etc.
		_ = validatorInst.RegisterValidation("colormap", isColormap)
	})
	return validatorInst
}

// isColormap accepts the name of a registered colormap.
func isColormap(fl validator.FieldLevel) bool {
	_, err := colormap.Lookup(fl.Field().String())
	return err == nil
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
