package container

type AddInterfaceRequest struct {
	Iface      string `json:"iface"`
	Bridge     string `json:"bridge"`
	Vlan       string `json:"vlan,omitempty"`
	Trunk      string `json:"trunk,omitempty"`
	IpAddress  string `json:"ipaddress,omitempty"`
	Ip6Address string `json:"ip6address,omitempty"`
	Gateway    string `json:"gateway,omitempty"`
	Gateway6   string `json:"gateway6,omitempty"`
	MacAddress string `json:"macaddress,omitempty"`
}

type AddInterfaceResponse struct {
	Container string `json:"container"`
	Iface     string `json:"iface"`
}
