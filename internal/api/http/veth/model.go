package veth

type AddVethPairRequest struct {
	On     string `json:"on"`
	Map    string `json:"map"`
	PairId string `json:"pair_id,omitempty"`
}
