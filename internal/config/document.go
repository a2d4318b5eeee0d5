package config

import (
	"fmt"
	"os"

	"raikou/internal/core/reconciler"

	"gopkg.in/yaml.v3"
)

type parentManifest struct {
	Iface  string `yaml:"iface"`
	Trunk  string `yaml:"trunk"`
	Native string `yaml:"native"`
}

type bridgeManifest struct {
	Parents    []parentManifest `yaml:"parents"`
	IpRange    string           `yaml:"iprange"`
	Ip6Range   string           `yaml:"ip6range"`
	IpAddress  string           `yaml:"ipaddress"`
	Ip6Address string           `yaml:"ip6address"`
}

type containerManifest struct {
	Iface      string `yaml:"iface"`
	Bridge     string `yaml:"bridge"`
	Vlan       string `yaml:"vlan"`
	Trunk      string `yaml:"trunk"`
	IpAddress  string `yaml:"ipaddress"`
	Ip6Address string `yaml:"ip6address"`
	Gateway    string `yaml:"gateway"`
	Gateway6   string `yaml:"gateway6"`
	MacAddress string `yaml:"macaddress"`
}

type translationManifest struct {
	On  string `yaml:"on"`
	Map string `yaml:"map"`
}

type documentManifest struct {
	Bridge           map[string]bridgeManifest      `yaml:"bridge"`
	Container        map[string][]containerManifest `yaml:"container"`
	VlanTranslations []translationManifest          `yaml:"vlan_translations"`
}

// Load reads and validates the desired-state document.
func Load(path string) (*reconciler.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes the desired-state document and validates it at the
// boundary, so reconciliation never sees malformed VLAN ids or entries
// with missing mandatory fields.
func Parse(b []byte) (*reconciler.Document, error) {
	var m documentManifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("desired state document broken: %w", err)
	}

	doc := &reconciler.Document{
		Bridges:    map[string]reconciler.BridgeSpec{},
		Containers: map[string][]reconciler.ContainerInterfaceSpec{},
	}

	for name, bm := range m.Bridge {
		spec := reconciler.BridgeSpec{
			IpRange:    bm.IpRange,
			Ip6Range:   bm.Ip6Range,
			IpAddress:  bm.IpAddress,
			Ip6Address: bm.Ip6Address,
		}
		for _, pm := range bm.Parents {
			parent := reconciler.ParentSpec{
				Iface:  pm.Iface,
				Trunk:  pm.Trunk,
				Native: pm.Native,
			}
			if err := ValidateParent(parent); err != nil {
				return nil, fmt.Errorf("bridge %s: %w", name, err)
			}
			spec.Parents = append(spec.Parents, parent)
		}
		doc.Bridges[name] = spec
	}

	for container, ifaces := range m.Container {
		for _, cm := range ifaces {
			spec := reconciler.ContainerInterfaceSpec{
				Iface:      cm.Iface,
				Bridge:     cm.Bridge,
				Vlan:       cm.Vlan,
				Trunk:      cm.Trunk,
				IpAddress:  cm.IpAddress,
				Ip6Address: cm.Ip6Address,
				Gateway:    cm.Gateway,
				Gateway6:   cm.Gateway6,
				MacAddress: cm.MacAddress,
			}
			if err := ValidateContainerInterface(spec); err != nil {
				return nil, fmt.Errorf("container %s: %w", container, err)
			}
			doc.Containers[container] = append(doc.Containers[container], spec)
		}
	}

	for _, tm := range m.VlanTranslations {
		spec := reconciler.VlanTranslationSpec{On: tm.On, Map: tm.Map}
		if err := ValidateVlanTranslation(spec); err != nil {
			return nil, err
		}
		doc.VlanTranslations = append(doc.VlanTranslations, spec)
	}

	return doc, nil
}
