package entity

// Peer is a published local endpoint that another participant can dial.
type Peer struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint"`
}
