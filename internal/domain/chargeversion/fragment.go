package chargeversion

import (
	"encoding/json"
	"fmt"
)

// Fragment is a partial set of element fields keyed by their JSON names.
// A nil value clears the field.
type Fragment map[string]any

// Without returns a copy of f with the given keys removed
func (f Fragment) Without(keys ...string) Fragment {
	out := make(Fragment, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ApplyTo returns a new element with the fragment merged in
func (f Fragment) ApplyTo(e ChargeElement) (ChargeElement, error) {
	var out ChargeElement
	if err := merge(e, f, &out); err != nil {
		return ChargeElement{}, err
	}
	return out, nil
}

// ApplyToPurpose returns a new purpose with the fragment merged in
func (f Fragment) ApplyToPurpose(p ChargePurpose) (ChargePurpose, error) {
	var out ChargePurpose
	if err := merge(p, f, &out); err != nil {
		return ChargePurpose{}, err
	}
	return out, nil
}

func merge(src any, f Fragment, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}
	for k, v := range f {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}
	if err := json.Unmarshal(merged, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}
	return nil
}
