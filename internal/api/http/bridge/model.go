package bridge

type ParentRequest struct {
	Iface  string `json:"iface"`
	Trunk  string `json:"trunk,omitempty"`
	Native string `json:"native,omitempty"`
}

type AddBridgeRequest struct {
	Name       string          `json:"name"`
	Parents    []ParentRequest `json:"parents,omitempty"`
	IpRange    string          `json:"iprange,omitempty"`
	Ip6Range   string          `json:"ip6range,omitempty"`
	IpAddress  string          `json:"ipaddress,omitempty"`
	Ip6Address string          `json:"ip6address,omitempty"`
}

type AddBridgeResponse struct {
	Name string `json:"name"`
}
