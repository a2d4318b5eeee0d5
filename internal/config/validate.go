package config

import (
	"fmt"
	"strconv"
	"strings"

	"raikou/internal/core/reconciler"
)

const vlanRangeLimit = 4095

// ValidateVlanField checks that a vlan, native, or trunk field holds
// numeric ids between 1 and 4095. Trunks are comma separated; an empty
// value is valid.
func ValidateVlanField(field string, value string) error {
	if value == "" {
		return nil
	}
	for _, vlan := range strings.Split(value, ",") {
		id, err := strconv.Atoi(vlan)
		if err != nil {
			return fmt.Errorf("%s: vlan %q should be a numeric string", field, vlan)
		}
		if id < 1 || id > vlanRangeLimit {
			return fmt.Errorf("%s: vlan %d should be between 1 and %d", field, id, vlanRangeLimit)
		}
	}
	return nil
}

func ValidateParent(spec reconciler.ParentSpec) error {
	if spec.Iface == "" {
		return fmt.Errorf("parent entry needs an iface")
	}
	if err := ValidateVlanField("trunk", spec.Trunk); err != nil {
		return err
	}
	return ValidateVlanField("native", spec.Native)
}

func ValidateContainerInterface(spec reconciler.ContainerInterfaceSpec) error {
	if spec.Iface == "" {
		return fmt.Errorf("container interface entry needs an iface")
	}
	if spec.Bridge == "" {
		return fmt.Errorf("container interface %s needs a bridge", spec.Iface)
	}
	if err := ValidateVlanField("vlan", spec.Vlan); err != nil {
		return err
	}
	return ValidateVlanField("trunk", spec.Trunk)
}

func ValidateVlanTranslation(spec reconciler.VlanTranslationSpec) error {
	if spec.On == "" {
		return fmt.Errorf("vlan translation entry needs a target bridge")
	}
	src, dst, found := strings.Cut(spec.Map, ":")
	if spec.Map != "" && !found {
		return fmt.Errorf("vlan translation map %q must be source:dest", spec.Map)
	}
	if err := ValidateVlanField("map source", src); err != nil {
		return err
	}
	return ValidateVlanField("map dest", dst)
}
