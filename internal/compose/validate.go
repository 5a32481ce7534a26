package compose

import (
	"context"
	"os"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"

	"github.com/trly/unit-ops/internal/codec"
)

// Validate checks a normalized document against the compose specification.
// Interpolation is skipped: substitution already ran under the gate, and
// tokens the user declined must survive verbatim.
func Validate(ctx context.Context, file *File, workdir string) error {
	data, err := codec.Encode("yaml", file.Value())
	if err != nil {
		return &validationError{cause: err}
	}

	if workdir == "" {
		workdir, _ = os.Getwd()
	}

	details := types.ConfigDetails{
		WorkingDir: workdir,
		ConfigFiles: []types.ConfigFile{
			{Filename: "compose.yaml", Content: data},
		},
		Environment: types.Mapping{},
	}

	name, _ := file.Name()
	_, err = loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SkipInterpolation = true
		o.SetProjectName(name, false)
	})
	if err != nil {
		return &validationError{cause: err}
	}
	return nil
}
