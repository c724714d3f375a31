package sim

import "fmt"

// CargoType partitions cranes, berth queues and unload-rate constants.
type CargoType int

const (
	CargoBulk CargoType = iota
	CargoLiquid
	CargoContainer

	numCargoTypes = 3
)

// cargoTypeTags is the single mapping between a cargo type and its wire tag.
var cargoTypeTags = [numCargoTypes]string{
	CargoBulk:      "BULK",
	CargoLiquid:    "LIQUID",
	CargoContainer: "CONTAINER",
}

// CargoTypes returns every cargo type in canonical order.
func CargoTypes() []CargoType {
	return []CargoType{CargoBulk, CargoLiquid, CargoContainer}
}

// Valid reports whether c is one of the known cargo types.
func (c CargoType) Valid() bool {
	return c >= 0 && c < numCargoTypes
}

func (c CargoType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CargoType(%d)", int(c))
	}
	return cargoTypeTags[c]
}

// ParseCargoType maps a wire tag ("BULK", "LIQUID", "CONTAINER") back to its CargoType.
func ParseCargoType(tag string) (CargoType, error) {
	for i, t := range cargoTypeTags {
		if t == tag {
			return CargoType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cargo type %q; valid: BULK, LIQUID, CONTAINER", tag)
}

// MarshalText implements encoding.TextMarshaler, used by both JSON and YAML.
func (c CargoType) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cargo type %d", int(c))
	}
	return []byte(cargoTypeTags[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CargoType) UnmarshalText(text []byte) error {
	parsed, err := ParseCargoType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
