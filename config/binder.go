package config

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder decodes merged source data into a struct and validates it.
//
// Fields are mapped with `config` tags and checked with `validate` tags:
//
//	type ServerConfig struct {
//	    Addr    string        `config:"addr" validate:"required"`
//	    Timeout time.Duration `config:"timeout" validate:"gt=0"`
//	}
//
// Decoding is weakly typed, so values coming from env or flags as strings
// ("8080", "5s", "a,b") convert to the field types.
type Binder struct {
	validator *validator.Validate
}

// BindError reports which stage of Bind failed: "decode" or "validate".
type BindError struct {
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	v := validator.New()
	// Report the config key instead of the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("config"); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	return &Binder{validator: v}
}

// Bind decodes source into target (a pointer to a struct) and validates the
// result. target may be partially populated when validation fails.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToLevelHookFunc(),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}

// stringToLevelHookFunc decodes "debug", "warn", ... into slog.Level fields.
func stringToLevelHookFunc() mapstructure.DecodeHookFuncType {
	levelType := reflect.TypeOf(slog.Level(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != levelType {
			return data, nil
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(data.(string))); err != nil {
			return nil, err
		}
		return lvl, nil
	}
}
