// Package initwfn wraps Gorgonia weight initializers so that they can
// be serialized into configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
type Type string

// Available InitWFn types
const (
	GlorotU      Type = "GlorotU"
	GlorotN      Type = "GlorotN"
	HeU          Type = "HeU"
	HeN          Type = "HeN"
	FanInUniform Type = "FanInUniform"
	Uniform      Type = "Uniform"
	Gaussian     Type = "Gaussian"
	Zeroes       Type = "Zeroes"
	Constant     Type = "Constant"
)

var configTypes = map[Type]reflect.Type{
	GlorotU:      reflect.TypeOf(GlorotUConfig{}),
	GlorotN:      reflect.TypeOf(GlorotNConfig{}),
	HeU:          reflect.TypeOf(HeUConfig{}),
	HeN:          reflect.TypeOf(HeNConfig{}),
	FanInUniform: reflect.TypeOf(FanInUniformConfig{}),
	Uniform:      reflect.TypeOf(UniformConfig{}),
	Gaussian:     reflect.TypeOf(GaussianConfig{}),
	Zeroes:       reflect.TypeOf(ZeroesConfig{}),
	Constant:     reflect.TypeOf(ConstantConfig{}),
}

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config) (*InitWFn, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newInitWFn: %w", err)
	}
	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %w", err)
	}

	ty, ok := configTypes[raw.Type]
	if !ok {
		return fmt.Errorf("unmarshaljson: unknown InitWFn type %q", raw.Type)
	}

	config := reflect.New(ty)
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, config.Interface()); err != nil {
			return fmt.Errorf("unmarshaljson: could not unmarshal %v "+
				"config: %w", raw.Type, err)
		}
	}

	init, err := newInitWFn(config.Elem().Interface().(Config))
	if err != nil {
		return fmt.Errorf("unmarshaljson: %w", err)
	}
	*i = *init

	return nil
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type

	Validate() error
}
